// Package gaze classifies gaze direction from eye landmarks and debounces
// sustained deviation into proctor alerts.
package gaze

import (
	"time"

	"github.com/smartsession/go-smartsession/pkg/landmark"
)

// Direction is a discrete gaze direction.
type Direction string

const (
	Center Direction = "CENTER"
	Left   Direction = "LEFT"
	Right  Direction = "RIGHT"
	Up     Direction = "UP"
	Down   Direction = "DOWN"
)

// Config holds the gaze classifier tunables.
type Config struct {
	// HorizontalBand is the neutral band for the averaged horizontal ratio.
	// Ratios below -HorizontalBand classify LEFT, above it RIGHT.
	HorizontalBand float64

	// EyeHeightDivisor derives the expected eye aperture from face width
	// (expected height = face width / divisor).
	EyeHeightDivisor float64

	// VerticalLow and VerticalHigh bound the neutral band for the aperture
	// ratio. Below VerticalLow classifies UP (eyes appear more closed when
	// looking up), above VerticalHigh classifies DOWN.
	// These bounds are rough proxies, not calibrated eye geometry.
	VerticalLow  float64
	VerticalHigh float64

	// AlertThreshold is how long gaze must stay off-center before the
	// deviation alert fires.
	AlertThreshold time.Duration
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		HorizontalBand:   0.2,
		EyeHeightDivisor: 10,
		VerticalLow:      0.7,
		VerticalHigh:     1.3,
		AlertThreshold:   4 * time.Second,
	}
}

// Status reports the classifier outcome for one frame.
type Status struct {
	Direction      Direction
	Known          bool // false when eye landmarks were missing
	AlertTriggered bool
	DeviationFor   time.Duration
}

// Tracker classifies per-frame gaze direction and tracks continuous
// deviation. It is session-scoped and not safe for concurrent use.
type Tracker struct {
	config Config

	// deviationStart marks the beginning of an uninterrupted non-CENTER
	// streak. Zero while gaze is centered or unknown since the last reset.
	deviationStart time.Time
}

// NewTracker creates a tracker with the given configuration.
func NewTracker(cfg Config) *Tracker {
	return &Tracker{config: cfg}
}

// Classify derives the gaze direction from eye landmarks.
// Returns ok=false when the horizontal eye-corner points are missing.
func (t *Tracker) Classify(frame landmark.Frame) (Direction, bool) {
	leftInner, ok1 := frame.Point(landmark.LeftEyeInner)
	leftOuter, ok2 := frame.Point(landmark.LeftEyeOuter)
	rightInner, ok3 := frame.Point(landmark.RightEyeInner)
	rightOuter, ok4 := frame.Point(landmark.RightEyeOuter)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return "", false
	}

	leftCenterX := (leftInner.X + leftOuter.X) / 2
	rightCenterX := (rightInner.X + rightOuter.X) / 2

	// Lid points missing: the horizontal geometry alone cannot distinguish
	// vertical gaze, so treat the frame as centered.
	leftTop, ok1 := frame.Point(landmark.LeftEyeTop)
	leftBottom, ok2 := frame.Point(landmark.LeftEyeBottom)
	rightTop, ok3 := frame.Point(landmark.RightEyeTop)
	rightBottom, ok4 := frame.Point(landmark.RightEyeBottom)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return Center, true
	}

	leftWidth := abs(leftOuter.X - leftInner.X)
	rightWidth := abs(rightOuter.X - rightInner.X)

	// Inner-corner position relative to eye center is the horizontal proxy.
	if leftWidth > 0 && rightWidth > 0 {
		leftRatio := (leftInner.X - leftCenterX) / leftWidth
		rightRatio := (rightInner.X - rightCenterX) / rightWidth
		avg := (leftRatio + rightRatio) / 2

		if avg < -t.config.HorizontalBand {
			return Left, true
		}
		if avg > t.config.HorizontalBand {
			return Right, true
		}
	}

	leftHeight := abs(leftTop.Y - leftBottom.Y)
	rightHeight := abs(rightTop.Y - rightBottom.Y)

	if leftHeight > 0 && rightHeight > 0 {
		faceWidth := abs(rightOuter.X - leftOuter.X)
		if faceWidth > 0 {
			expected := faceWidth / t.config.EyeHeightDivisor
			avgRatio := (leftHeight/expected + rightHeight/expected) / 2

			if avgRatio < t.config.VerticalLow {
				return Up, true
			}
			if avgRatio > t.config.VerticalHigh {
				return Down, true
			}
		}
	}

	return Center, true
}

// Observe feeds a classified direction into the deviation timer and reports
// whether the alert is firing. Any non-CENTER direction starts or continues
// the streak; CENTER clears it unconditionally. Once the streak reaches the
// alert threshold the alert fires on every call until CENTER is observed.
func (t *Tracker) Observe(direction Direction, now time.Time) bool {
	if direction == Center {
		t.deviationStart = time.Time{}
		return false
	}

	if t.deviationStart.IsZero() {
		t.deviationStart = now
	}
	return now.Sub(t.deviationStart) >= t.config.AlertThreshold
}

// DeviationFor returns how long the current off-center streak has lasted.
func (t *Tracker) DeviationFor(now time.Time) time.Duration {
	if t.deviationStart.IsZero() {
		return 0
	}
	return now.Sub(t.deviationStart)
}

// Status classifies the frame and advances the deviation timer in one call.
// Frames with unknown gaze leave the timer untouched.
func (t *Tracker) Status(frame landmark.Frame, now time.Time) Status {
	direction, ok := t.Classify(frame)
	status := Status{Direction: direction, Known: ok}
	if ok {
		status.AlertTriggered = t.Observe(direction, now)
	}
	status.DeviationFor = t.DeviationFor(now)
	return status
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
