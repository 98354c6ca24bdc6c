package gaze

import (
	"testing"
	"time"

	"github.com/smartsession/go-smartsession/pkg/geometry"
	"github.com/smartsession/go-smartsession/pkg/landmark"
)

// eyeFrame builds a frame with the canonical eye geometry: both eyes 40 units
// wide, inner corners toward the nose, apertures matching the expected height
// (face width 120 / 10 = 12).
func eyeFrame() landmark.Frame {
	return landmark.Frame{
		landmark.LeftEyeOuter:   {X: 100, Y: 100},
		landmark.LeftEyeInner:   {X: 140, Y: 100},
		landmark.RightEyeInner:  {X: 180, Y: 100},
		landmark.RightEyeOuter:  {X: 220, Y: 100},
		landmark.LeftEyeTop:     {X: 120, Y: 94},
		landmark.LeftEyeBottom:  {X: 120, Y: 106},
		landmark.RightEyeTop:    {X: 200, Y: 94},
		landmark.RightEyeBottom: {X: 200, Y: 106},
	}
}

func setAperture(frame landmark.Frame, height float64) {
	frame[landmark.LeftEyeTop] = geometry.Point{X: 120, Y: 100 - height/2}
	frame[landmark.LeftEyeBottom] = geometry.Point{X: 120, Y: 100 + height/2}
	frame[landmark.RightEyeTop] = geometry.Point{X: 200, Y: 100 - height/2}
	frame[landmark.RightEyeBottom] = geometry.Point{X: 200, Y: 100 + height/2}
}

func TestClassifyCenter(t *testing.T) {
	tracker := NewTracker(DefaultConfig())

	direction, ok := tracker.Classify(eyeFrame())
	if !ok {
		t.Fatal("Classify() should succeed with full eye landmarks")
	}
	if direction != Center {
		t.Errorf("direction = %v, want CENTER", direction)
	}
}

func TestClassifyHorizontal(t *testing.T) {
	tracker := NewTracker(DefaultConfig())

	// Both inner corners shifted to the low-X side of their eye centers.
	left := eyeFrame()
	left[landmark.LeftEyeOuter] = geometry.Point{X: 140, Y: 100}
	left[landmark.LeftEyeInner] = geometry.Point{X: 100, Y: 100}

	if direction, _ := tracker.Classify(left); direction != Left {
		t.Errorf("direction = %v, want LEFT", direction)
	}

	// Both inner corners shifted to the high-X side.
	right := eyeFrame()
	right[landmark.RightEyeInner] = geometry.Point{X: 220, Y: 100}
	right[landmark.RightEyeOuter] = geometry.Point{X: 180, Y: 100}

	if direction, _ := tracker.Classify(right); direction != Right {
		t.Errorf("direction = %v, want RIGHT", direction)
	}
}

func TestClassifyVertical(t *testing.T) {
	tracker := NewTracker(DefaultConfig())

	// Narrowed aperture: 6 / 12 expected = 0.5 < 0.7 band.
	up := eyeFrame()
	setAperture(up, 6)
	if direction, _ := tracker.Classify(up); direction != Up {
		t.Errorf("direction = %v, want UP", direction)
	}

	// Widened aperture: 20 / 12 expected = 1.67 > 1.3 band.
	down := eyeFrame()
	setAperture(down, 20)
	if direction, _ := tracker.Classify(down); direction != Down {
		t.Errorf("direction = %v, want DOWN", direction)
	}
}

func TestClassifyMissingCorners(t *testing.T) {
	tracker := NewTracker(DefaultConfig())

	frame := eyeFrame()
	delete(frame, landmark.LeftEyeOuter)

	if _, ok := tracker.Classify(frame); ok {
		t.Error("Classify() should report unknown without eye corners")
	}

	if _, ok := tracker.Classify(nil); ok {
		t.Error("Classify(nil) should report unknown")
	}
}

func TestClassifyMissingLids(t *testing.T) {
	tracker := NewTracker(DefaultConfig())

	frame := eyeFrame()
	delete(frame, landmark.LeftEyeTop)

	direction, ok := tracker.Classify(frame)
	if !ok {
		t.Fatal("Classify() should succeed with corners present")
	}
	if direction != Center {
		t.Errorf("direction = %v, want CENTER short-circuit", direction)
	}
}

func TestObserveDebounce(t *testing.T) {
	tracker := NewTracker(DefaultConfig())
	base := time.Now()

	// Deviation held just under the threshold never fires.
	for _, offset := range []time.Duration{0, time.Second, 3900 * time.Millisecond} {
		if tracker.Observe(Left, base.Add(offset)) {
			t.Errorf("alert fired at %v, before threshold", offset)
		}
	}

	// Exactly at the threshold it fires, and keeps firing.
	if !tracker.Observe(Left, base.Add(4*time.Second)) {
		t.Error("alert should fire at the 4s mark")
	}
	if !tracker.Observe(Left, base.Add(5*time.Second)) {
		t.Error("alert should keep firing while deviation continues")
	}

	// Direction changes within the streak do not reset the timer.
	if !tracker.Observe(Up, base.Add(6*time.Second)) {
		t.Error("alert should survive a change of off-center direction")
	}
}

func TestObserveCenterResets(t *testing.T) {
	tracker := NewTracker(DefaultConfig())
	base := time.Now()

	tracker.Observe(Left, base)
	tracker.Observe(Left, base.Add(3*time.Second))

	// A single CENTER frame resets the streak to zero.
	if tracker.Observe(Center, base.Add(3500*time.Millisecond)) {
		t.Error("CENTER must never fire the alert")
	}

	// The next deviation needs a fresh full threshold.
	if tracker.Observe(Left, base.Add(4*time.Second)) {
		t.Error("alert should not fire immediately after a reset")
	}
	if tracker.Observe(Left, base.Add(7900*time.Millisecond)) {
		t.Error("alert should not fire before a fresh threshold elapses")
	}
	if !tracker.Observe(Left, base.Add(8*time.Second)) {
		t.Error("alert should fire after a fresh threshold")
	}
}

func TestStatusUnknownLeavesTimer(t *testing.T) {
	tracker := NewTracker(DefaultConfig())
	base := time.Now()

	tracker.Observe(Left, base)

	// Unknown frames neither advance nor reset the deviation streak.
	status := tracker.Status(nil, base.Add(2*time.Second))
	if status.Known {
		t.Error("Status on nil frame should be unknown")
	}
	if status.AlertTriggered {
		t.Error("unknown frame must not trigger the alert")
	}

	if !tracker.Observe(Left, base.Add(4*time.Second)) {
		t.Error("streak should have survived the unknown frame")
	}
}

func TestStatusReportsDeviationDuration(t *testing.T) {
	tracker := NewTracker(DefaultConfig())
	base := time.Now()

	status := tracker.Status(eyeFrame(), base)
	if status.DeviationFor != 0 {
		t.Errorf("DeviationFor = %v, want 0 while centered", status.DeviationFor)
	}

	up := eyeFrame()
	setAperture(up, 6)
	tracker.Status(up, base.Add(time.Second))
	status = tracker.Status(up, base.Add(3*time.Second))

	if status.DeviationFor != 2*time.Second {
		t.Errorf("DeviationFor = %v, want 2s", status.DeviationFor)
	}
}
