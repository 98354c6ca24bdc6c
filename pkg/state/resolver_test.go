package state

import (
	"encoding/json"
	"testing"
	"time"
)

func TestResolverDefaultsToFocused(t *testing.T) {
	r := NewResolver(DefaultConfig())

	if r.Current() != Focused {
		t.Errorf("initial state = %v, want FOCUSED", r.Current())
	}
	if got := r.Resolve(1, false, false, time.Now()); got != Focused {
		t.Errorf("Resolve() = %v, want FOCUSED", got)
	}
}

func TestResolverPriorityOrder(t *testing.T) {
	tests := []struct {
		name       string
		faceCount  int
		gazeAlert  bool
		isConfused bool
		want       State
	}{
		{name: "all clear", faceCount: 1, want: Focused},
		{name: "confusion only", faceCount: 1, isConfused: true, want: Confused},
		{name: "gaze alert beats confusion", faceCount: 1, gazeAlert: true, isConfused: true, want: ProctorAlert},
		{name: "face violation beats confusion", faceCount: 2, isConfused: true, want: ProctorAlert},
		{name: "zero faces", faceCount: 0, want: ProctorAlert},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(DefaultConfig())
			got := r.Resolve(tt.faceCount, tt.gazeAlert, tt.isConfused, time.Now())
			if got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFaceCountViolationSticky(t *testing.T) {
	r := NewResolver(DefaultConfig())
	base := time.Now()

	// One bad frame, then clean frames for 1.9s: still alerting.
	r.Resolve(2, false, false, base)
	for _, offset := range []time.Duration{500 * time.Millisecond, time.Second, 1900 * time.Millisecond} {
		if got := r.Resolve(1, false, false, base.Add(offset)); got != ProctorAlert {
			t.Errorf("at %v: state = %v, want sticky PROCTOR_ALERT", offset, got)
		}
	}

	// At 2.1s the violation has aged out; other signals take over.
	if got := r.Resolve(1, false, false, base.Add(2100*time.Millisecond)); got != Focused {
		t.Errorf("after window: state = %v, want FOCUSED", got)
	}
	if got := r.Resolve(1, false, true, base.Add(2200*time.Millisecond)); got != Confused {
		t.Errorf("after window with confusion: state = %v, want CONFUSED", got)
	}
}

func TestViolationWindowPruning(t *testing.T) {
	r := NewResolver(DefaultConfig())
	base := time.Now()

	// Continuous violations keep refreshing the window.
	for i := 0; i < 10; i++ {
		r.Resolve(0, false, false, base.Add(time.Duration(i)*250*time.Millisecond))
	}
	// 2.25s of clean frames after the last violation at 2.25s.
	last := base.Add(2250 * time.Millisecond)
	if got := r.Resolve(1, false, false, last.Add(1999*time.Millisecond)); got != ProctorAlert {
		t.Errorf("inside window: state = %v, want PROCTOR_ALERT", got)
	}
	if got := r.Resolve(1, false, false, last.Add(2001*time.Millisecond)); got != Focused {
		t.Errorf("outside window: state = %v, want FOCUSED", got)
	}
}

func TestGazeAlertHysteresis(t *testing.T) {
	r := NewResolver(DefaultConfig())
	base := time.Now()

	// Alert latches immediately.
	if got := r.Resolve(1, true, false, base); got != ProctorAlert {
		t.Fatalf("state = %v, want PROCTOR_ALERT on gaze alert", got)
	}
	if !r.GazeAlertActive() {
		t.Fatal("gaze alert should be latched")
	}

	// 1.9s of clean gaze keeps it latched.
	r.Resolve(1, false, false, base.Add(time.Second))
	if got := r.Resolve(1, false, false, base.Add(1900*time.Millisecond)); got != ProctorAlert {
		t.Errorf("at 1.9s clean: state = %v, want still PROCTOR_ALERT", got)
	}

	// A fresh alert mid-clear restarts the clear timer from scratch.
	r.Resolve(1, true, false, base.Add(2*time.Second))
	r.Resolve(1, false, false, base.Add(3*time.Second))
	if got := r.Resolve(1, false, false, base.Add(4900*time.Millisecond)); got != ProctorAlert {
		t.Errorf("clear timer should have restarted, got %v", got)
	}

	// 2.0s of continuous clean gaze clears the latch.
	if got := r.Resolve(1, false, false, base.Add(5*time.Second)); got != Focused {
		t.Errorf("after full clear duration: state = %v, want FOCUSED", got)
	}
	if r.GazeAlertActive() {
		t.Error("gaze alert should have cleared")
	}
}

func TestGazeClearTimerStartsOnFirstCleanFrame(t *testing.T) {
	r := NewResolver(DefaultConfig())
	base := time.Now()

	r.Resolve(1, true, false, base)

	// The clear streak is measured from the first clean frame, not from the
	// last alerting one.
	r.Resolve(1, false, false, base.Add(time.Second))
	if got := r.Resolve(1, false, false, base.Add(2900*time.Millisecond)); got != ProctorAlert {
		t.Errorf("1.9s after first clean frame: state = %v, want PROCTOR_ALERT", got)
	}
	if got := r.Resolve(1, false, false, base.Add(3*time.Second)); got != Focused {
		t.Errorf("2.0s after first clean frame: state = %v, want FOCUSED", got)
	}
}

func TestPayloadSerialization(t *testing.T) {
	r := NewResolver(DefaultConfig())
	base := time.Now()
	r.Resolve(1, false, true, base)

	details := &Details{
		FaceCount:         1,
		GazeDirection:     "CENTER",
		ConfusionDetected: true,
		ConfusionReasons:  []string{"Brow furrowing detected", "No smile detected"},
	}
	update := r.Payload(details, base)

	data, err := json.Marshal(update)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded["type"] != "state_update" {
		t.Errorf("type = %v, want state_update", decoded["type"])
	}
	if decoded["state"] != "CONFUSED" {
		t.Errorf("state = %v, want CONFUSED", decoded["state"])
	}
	if int64(decoded["timestamp"].(float64)) != base.UnixMilli() {
		t.Errorf("timestamp = %v, want %v", decoded["timestamp"], base.UnixMilli())
	}

	det := decoded["details"].(map[string]interface{})
	if det["face_count"].(float64) != 1 {
		t.Errorf("face_count = %v, want 1", det["face_count"])
	}
	if det["confusion_detected"] != true {
		t.Error("confusion_detected should be true")
	}
	reasons := det["confusion_reasons"].([]interface{})
	if len(reasons) != 2 || reasons[0] != "Brow furrowing detected" {
		t.Errorf("confusion_reasons = %v", reasons)
	}
}

func TestPayloadWithoutDetails(t *testing.T) {
	r := NewResolver(DefaultConfig())
	update := r.Payload(nil, time.Now())

	data, err := json.Marshal(update)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, present := decoded["details"]; present {
		t.Error("details should be omitted when nil")
	}
	if decoded["state"] != "FOCUSED" {
		t.Errorf("state = %v, want FOCUSED default", decoded["state"])
	}
}
