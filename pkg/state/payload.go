package state

import "time"

// UpdateType is the wire type tag on every state-update record.
const UpdateType = "state_update"

// Details is the optional per-frame payload attached to a state update.
type Details struct {
	FaceCount         int      `json:"face_count"`
	GazeDirection     string   `json:"gaze_direction"`
	ConfusionDetected bool     `json:"confusion_detected"`
	ConfusionReasons  []string `json:"confusion_reasons"`
}

// Update is the state-update record pushed to observers.
type Update struct {
	Type      string   `json:"type"`
	State     State    `json:"state"`
	Timestamp int64    `json:"timestamp"` // Unix milliseconds, server time
	Details   *Details `json:"details,omitempty"`
}

// Payload builds the state-update record for the current state. The caller
// supplies the server timestamp and any detail payload.
func (r *Resolver) Payload(details *Details, now time.Time) Update {
	return Update{
		Type:      UpdateType,
		State:     r.current,
		Timestamp: now.UnixMilli(),
		Details:   details,
	}
}
