package warviz

// Category10 is d3's schemeCategory10.
var Category10 = []Color{
	hexColor(0x1f77b4),
	hexColor(0xff7f0e),
	hexColor(0x2ca02c),
	hexColor(0xd62728),
	hexColor(0x9467bd),
	hexColor(0x8c564b),
	hexColor(0xe377c2),
	hexColor(0x7f7f7f),
	hexColor(0xbcbd22),
	hexColor(0x17becf),
}

func hexColor(rgb uint32) Color {
	return Color{
		R: float64(rgb>>16&0xff) / 255,
		G: float64(rgb>>8&0xff) / 255,
		B: float64(rgb&0xff) / 255,
		A: 1,
	}
}

// Palette is an ordinal color scale: each distinct key gets the next color
// of the range the first time it is seen, cycling when the range runs out.
// The same key always yields the same color for the life of the palette.
type Palette struct {
	colors []Color
	index  map[string]int
	next   int
}

// NewPalette creates a palette over colors, or Category10 if none are given.
func NewPalette(colors ...Color) *Palette {
	if len(colors) == 0 {
		colors = Category10
	}
	return &Palette{colors: colors, index: make(map[string]int)}
}

// Domain registers keys in order, as d3's scaleOrdinal().domain does.
func (p *Palette) Domain(keys ...string) *Palette {
	for _, k := range keys {
		p.Color(k)
	}
	return p
}

// Color returns the color for key.
func (p *Palette) Color(key string) Color {
	i, ok := p.index[key]
	if !ok {
		i = p.next
		p.index[key] = i
		p.next++
	}
	return p.colors[i%len(p.colors)]
}
