package warviz

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// scriptStep represents a single action in an input script.
type scriptStep struct {
	Action string  `yaml:"action"`
	Label  string  `yaml:"label,omitempty"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
}

// script is the top-level structure for an input script.
type script struct {
	Steps []scriptStep `yaml:"steps"`
}

// ScriptRunner sequences injected input events across frames so a session
// can be replayed headlessly or as a demo. Attach to a Scene via SetScript.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

var errEmptyScript = errors.New("no steps")

// LoadScript parses an input script. YAML and JSON are both accepted:
//
//	steps:
//	  - {action: hover, x: 400, y: 300}
//	  - {action: hold, x: 400, y: 300, frames: 30}
//	  - {action: wait, frames: 240}
//
// Actions are tap, press, release, hover, hold, wait, log and screenshot.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var sc script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse input script: %w", errEmptyScript)
	}
	for i, st := range sc.Steps {
		switch st.Action {
		case "tap", "press", "release", "hover", "hold", "wait", "log", "screenshot":
		default:
			return nil, fmt.Errorf("parse input script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

// SetScript attaches a ScriptRunner to the scene. The runner's step method
// is called from Scene.Step before input is processed each frame.
func (s *Scene) SetScript(runner *ScriptRunner) {
	s.runner = runner
}

// Done reports whether all steps in the script have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "tap":
		s.InjectClick(st.X, st.Y)
	case "press":
		s.InjectPress(st.X, st.Y)
	case "release":
		s.InjectRelease(st.X, st.Y)
	case "hover":
		s.InjectHover(st.X, st.Y)
	case "hold":
		s.InjectHold(st.X, st.Y, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "screenshot":
		s.Screenshot(st.Label)
	case "log":
		s.logger.Info("script", zap.String("label", st.Label), zap.Duration("clock", s.clock))
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
