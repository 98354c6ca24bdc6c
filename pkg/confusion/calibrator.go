package confusion

import (
	"time"

	"github.com/smartsession/go-smartsession/pkg/gaze"
	"github.com/smartsession/go-smartsession/pkg/geometry"
	"github.com/smartsession/go-smartsession/pkg/landmark"
)

// Calibrator locks a per-session reference inter-brow distance after
// observing an unbroken stable period: exactly one face, centered gaze, no
// active proctor alert. Once locked the baseline never changes, even if the
// preconditions later fail.
type Calibrator struct {
	duration time.Duration

	locked bool
	value  float64

	samples []float64
	start   time.Time // zero until the first qualifying frame
}

// NewCalibrator creates an unlocked calibrator.
func NewCalibrator(duration time.Duration) *Calibrator {
	return &Calibrator{duration: duration}
}

// Locked reports whether the baseline has been locked.
func (c *Calibrator) Locked() bool {
	return c.locked
}

// Value returns the locked baseline brow distance, 0 while unlocked.
func (c *Calibrator) Value() float64 {
	if !c.locked {
		return 0
	}
	return c.value
}

// Update advances calibration with one frame. Returns true only on the call
// that locks the baseline. Any precondition violation discards accumulated
// progress; a frame missing either inner-brow point neither resets nor
// advances the streak. Post-lock calls are no-ops.
func (c *Calibrator) Update(frame landmark.Frame, now time.Time, faceCount int, direction gaze.Direction, alertActive bool) bool {
	if faceCount != 1 || direction != gaze.Center || alertActive {
		c.samples = nil
		c.start = time.Time{}
		return false
	}

	if c.locked {
		return false
	}

	leftInner, ok1 := frame.Point(landmark.LeftInnerBrow)
	rightInner, ok2 := frame.Point(landmark.RightInnerBrow)
	if !ok1 || !ok2 {
		return false
	}

	distance := geometry.Distance(leftInner, rightInner)

	if c.start.IsZero() {
		c.start = now
	}

	if now.Sub(c.start) < c.duration {
		c.samples = append(c.samples, distance)
		return false
	}

	if len(c.samples) == 0 {
		return false
	}

	sum := 0.0
	for _, s := range c.samples {
		sum += s
	}
	c.value = sum / float64(len(c.samples))
	c.locked = true
	c.samples = nil
	c.start = time.Time{}
	return true
}
