package piviz

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in an input script.
type scriptStep struct {
	Action string `json:"action"`
	N      int    `json:"n,omitempty"`
	Label  string `json:"label,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

// script is the top-level JSON structure for an input script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner sequences synthetic input events and screenshots across
// frames for automated visual testing. Attach to an App via SetScript.
//
// Supported actions:
//
//	{"action": "input", "n": 5000}       — synthetic slider event
//	{"action": "wait", "frames": 10}     — hold for a number of frames
//	{"action": "settle"}                 — hold until the controller is idle
//	{"action": "screenshot", "label": "after-input"}
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	settling  bool
	done      bool
}

// LoadScript parses a JSON input script and returns a ScriptRunner
// ready to be attached to an App via SetScript.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var sc script
	if err := json.Unmarshal(jsonData, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range sc.Steps {
		switch st.Action {
		case "input", "wait", "settle", "screenshot":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

// Done reports whether all steps in the script have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame. Called from App.Update once
// the app is ready.
func (r *ScriptRunner) step(a *App) {
	if r.done {
		return
	}
	// Hold until the controller drains: debounce fired and computation
	// delivered.
	if r.settling {
		if !a.controller.Idle() {
			return
		}
		r.settling = false
	}
	// Count down wait frames.
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
	case "input":
		a.controller.OnInputChanged(st.N)
		a.slider.SetValue(st.N)
	case "screenshot":
		a.Screenshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "settle":
		r.settling = true
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && !r.settling {
		r.done = true
	}
}
