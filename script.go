package mapoverlay

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// gestureStep represents a single action in a gesture script.
type gestureStep struct {
	Action string `yaml:"action"`
	At     Vec2   `yaml:"at,omitempty"`
	From   Vec2   `yaml:"from,omitempty"`
	To     Vec2   `yaml:"to,omitempty"`
	Size   Size   `yaml:"size,omitempty"`
	Frames int    `yaml:"frames,omitempty"`
}

// gestureScript is the top-level YAML structure for a gesture script.
type gestureScript struct {
	Steps []gestureStep `yaml:"steps"`
}

// GestureRunner sequences injected pointer events and viewport changes
// across frames for automated interaction testing. Attach to a Console via
// SetGestureRunner.
type GestureRunner struct {
	steps     []gestureStep
	cursor    int
	waitCount int
	done      bool
}

// LoadGestureScript parses a YAML gesture script:
//
//	steps:
//	  - {action: resize, size: {width: 1280, height: 720}}
//	  - {action: drag, from: {x: 640, y: 30}, to: {x: 400, y: 200}, frames: 6}
//	  - {action: wait, frames: 2}
//
// Supported actions are press, move, release, click, drag, wait and resize.
func LoadGestureScript(data []byte) (*GestureRunner, error) {
	var script gestureScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse gesture script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse gesture script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "press", "move", "release", "click", "drag", "wait", "resize":
		default:
			return nil, fmt.Errorf("parse gesture script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &GestureRunner{steps: script.Steps}, nil
}

// SetGestureRunner attaches a GestureRunner to the console. The runner's step
// method is called from Console.Update before input is processed each frame.
func (c *Console) SetGestureRunner(runner *GestureRunner) {
	c.runner = runner
}

// Done reports whether all steps in the script have been executed.
func (r *GestureRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *GestureRunner) step(c *Console) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(c.injectQueue) > 0 {
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
	case "press":
		c.InjectPress(st.At.X, st.At.Y)
	case "move":
		c.InjectMove(st.At.X, st.At.Y)
	case "release":
		c.InjectRelease(st.At.X, st.At.Y)
	case "click":
		c.InjectClick(st.At.X, st.At.Y)
	case "drag":
		c.InjectDrag(st.From.X, st.From.Y, st.To.X, st.To.Y, st.Frames)
	case "resize":
		c.Layout(int(st.Size.Width), int(st.Size.Height))
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(c.injectQueue) == 0 {
		r.done = true
	}
}
