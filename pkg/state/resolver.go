// Package state resolves the session state from the fused signals. States in
// descending priority: PROCTOR_ALERT > CONFUSED > FOCUSED. Each input carries
// its own debounce window so the emitted state does not flicker on
// single-frame noise.
package state

import (
	"time"
)

// State is the externally visible session classification.
type State string

const (
	Focused      State = "FOCUSED"
	Confused     State = "CONFUSED"
	ProctorAlert State = "PROCTOR_ALERT"
)

// Config holds the resolver's debounce windows.
type Config struct {
	// ViolationWindow is how long a face-count violation keeps the session
	// in PROCTOR_ALERT after the offending frame.
	ViolationWindow time.Duration

	// GazeClearDuration is the continuous clean-gaze time required to clear
	// an active gaze alert. Alerts set instantly but clear slowly, so the
	// response is asymmetric on purpose.
	GazeClearDuration time.Duration
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		ViolationWindow:   2 * time.Second,
		GazeClearDuration: 2 * time.Second,
	}
}

// Resolver owns the current session state and the per-signal debounce
// windows. Session-scoped; not safe for concurrent use.
type Resolver struct {
	config Config

	current State

	// faceCountViolations holds the timestamps of frames where the face
	// count was not exactly one, pruned to the trailing violation window.
	faceCountViolations []time.Time

	gazeAlertActive bool
	gazeClearStart  time.Time // zero unless a clear streak is running
}

// NewResolver creates a resolver in the FOCUSED state.
func NewResolver(cfg Config) *Resolver {
	return &Resolver{
		config:  cfg,
		current: Focused,
	}
}

// Current returns the last resolved state.
func (r *Resolver) Current() State {
	return r.current
}

// GazeAlertActive reports whether the gaze-alert hysteresis is currently
// latched. The calibrator uses this as a precondition input.
func (r *Resolver) GazeAlertActive() bool {
	return r.gazeAlertActive
}

// Resolve recomputes the session state from this frame's signals. Only
// violating frames are appended to the face-count window, so a single bad
// frame keeps the violation alive for the full window even if the next frame
// is fine.
func (r *Resolver) Resolve(faceCount int, gazeAlert bool, isConfused bool, now time.Time) State {
	if faceCount != 1 {
		r.faceCountViolations = append(r.faceCountViolations, now)
	}

	cutoff := now.Add(-r.config.ViolationWindow)
	retained := r.faceCountViolations[:0]
	for _, at := range r.faceCountViolations {
		if at.After(cutoff) {
			retained = append(retained, at)
		}
	}
	r.faceCountViolations = retained
	faceCountViolation := len(r.faceCountViolations) > 0

	if gazeAlert {
		r.gazeAlertActive = true
		r.gazeClearStart = time.Time{}
	} else if r.gazeAlertActive {
		if r.gazeClearStart.IsZero() {
			r.gazeClearStart = now
		} else if now.Sub(r.gazeClearStart) >= r.config.GazeClearDuration {
			r.gazeAlertActive = false
			r.gazeClearStart = time.Time{}
		}
	} else {
		r.gazeClearStart = time.Time{}
	}

	switch {
	case faceCountViolation || r.gazeAlertActive:
		r.current = ProctorAlert
	case isConfused:
		r.current = Confused
	default:
		r.current = Focused
	}
	return r.current
}
