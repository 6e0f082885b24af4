package warviz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CasualtyRecord is one country of the overview dataset.
type CasualtyRecord struct {
	Country            string  `json:"Country" yaml:"Country"`
	MilitaryCasualties float64 `json:"Military_Casualties" yaml:"Military_Casualties"`
	CivilianCasualties float64 `json:"Civilian_Casualties" yaml:"Civilian_Casualties"`
	TotalCasualties    float64 `json:"Total_Casualties" yaml:"Total_Casualties"`
}

// EventRecord is one event of a country's detail dataset. Order is
// significant: it is the bar order.
type EventRecord struct {
	Event              string  `json:"Event" yaml:"Event"`
	MilitaryCasualties float64 `json:"Military_Casualties" yaml:"Military_Casualties"`
	CivilianCasualties float64 `json:"Civilian_Casualties" yaml:"Civilian_Casualties"`
	TotalCasualties    float64 `json:"Total_Casualties" yaml:"Total_Casualties"`
}

// Dataset is the ordered overview record set.
type Dataset struct {
	Records []CasualtyRecord
}

// Lookup returns the record for country.
func (d Dataset) Lookup(country string) (CasualtyRecord, bool) {
	for _, r := range d.Records {
		if r.Country == country {
			return r, true
		}
	}
	return CasualtyRecord{}, false
}

// Totals returns each record's total in dataset order.
func (d Dataset) Totals() []float64 {
	out := make([]float64, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.TotalCasualties
	}
	return out
}

// LoadError reports a detail dataset that exists but could not be read or
// decoded.
type LoadError struct {
	Country string
	Path    string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("warviz: load %s details from %s: %v", e.Country, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// DetailSource supplies a country's optional event list. A country with no
// event list returns (nil, nil).
type DetailSource interface {
	Events(ctx context.Context, country string) ([]EventRecord, error)
}

// EventFileName returns the file stem for country's event list: spaces
// become underscores.
func EventFileName(country string) string {
	return strings.ReplaceAll(country, " ", "_")
}

// eventExtensions are tried in order.
var eventExtensions = []string{".json", ".yaml", ".yml"}

// FileSource reads event lists from <Dir>/<Country_Name>.json, falling back
// to .yaml and .yml.
type FileSource struct {
	Dir string
}

// Path returns the first existing event file for country, or "" if none.
func (s FileSource) Path(country string) string {
	stem := filepath.Join(s.Dir, EventFileName(country))
	for _, ext := range eventExtensions {
		p := stem + ext
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Events implements DetailSource.
func (s FileSource) Events(ctx context.Context, country string) ([]EventRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.Path(country)
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &LoadError{Country: country, Path: path, Err: err}
	}
	var events []EventRecord
	if err := decodeByExt(path, data, &events); err != nil {
		return nil, &LoadError{Country: country, Path: path, Err: err}
	}
	return events, nil
}

// LoadDataset reads an overview dataset from a JSON or YAML file.
func LoadDataset(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("warviz: read dataset: %w", err)
	}
	ds, err := DecodeDataset(path, data)
	if err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// DecodeDataset decodes an overview dataset; name selects the format by
// extension (.yaml/.yml, otherwise JSON).
func DecodeDataset(name string, data []byte) (Dataset, error) {
	var recs []CasualtyRecord
	if err := decodeByExt(name, data, &recs); err != nil {
		return Dataset{}, fmt.Errorf("warviz: decode dataset %s: %w", name, err)
	}
	return Dataset{Records: recs}, nil
}

func decodeByExt(name string, data []byte, v any) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	default:
		return json.Unmarshal(data, v)
	}
}
