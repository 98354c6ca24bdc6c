// Package confusion detects confusion from facial geometry: three boolean
// indicators (brow furrowing, mouth flatness, head rigidity) fused against a
// per-session calibrated baseline. Two or more active indicators count as
// confusion.
package confusion

import (
	"time"

	"github.com/smartsession/go-smartsession/pkg/gaze"
	"github.com/smartsession/go-smartsession/pkg/geometry"
	"github.com/smartsession/go-smartsession/pkg/landmark"
)

// Reason strings reported to observers, in indicator order.
const (
	ReasonBrowFurrowing = "Brow furrowing detected"
	ReasonNoSmile       = "No smile detected"
	ReasonStillness     = "Prolonged stillness"
)

// Indicators is the per-indicator breakdown for one frame.
type Indicators struct {
	BrowFurrowing bool `json:"brow_furrowing"`
	MouthFlat     bool `json:"mouth_flat"`
	HeadRigid     bool `json:"head_rigid"`
}

// Count returns how many indicators are active.
func (i Indicators) Count() int {
	n := 0
	if i.BrowFurrowing {
		n++
	}
	if i.MouthFlat {
		n++
	}
	if i.HeadRigid {
		n++
	}
	return n
}

// Evaluation is the outcome of one detection pass.
type Evaluation struct {
	// Confused is true when two or more indicators fired.
	Confused bool

	// Reasons holds the human-readable triggered indicators, but only when
	// the two-indicator threshold is met. Single-indicator activity is not
	// exposed.
	Reasons []string

	// Indicators is the raw breakdown, for debugging surfaces.
	Indicators Indicators

	// JustCalibrated is true on the frame that locked the baseline.
	JustCalibrated bool
}

type headSample struct {
	at  time.Time
	pos geometry.Point
}

// Detector holds the session-scoped confusion state: the baseline calibrator
// and the sliding head-position window. Not safe for concurrent use; each
// session owns one detector driven by a single goroutine.
type Detector struct {
	config     Config
	calibrator *Calibrator

	// headPositions is append-only at the tail and pruned from the head to
	// the trailing rigidity window.
	headPositions []headSample
}

// NewDetector creates a detector with an unlocked baseline.
func NewDetector(cfg Config) *Detector {
	return &Detector{
		config:     cfg,
		calibrator: NewCalibrator(cfg.CalibrationDuration),
	}
}

// BaselineLocked reports whether calibration has completed.
func (d *Detector) BaselineLocked() bool {
	return d.calibrator.Locked()
}

// Baseline returns the locked inter-brow reference distance, 0 while unlocked.
func (d *Detector) Baseline() float64 {
	return d.calibrator.Value()
}

// BrowFurrowed reports whether the inner brows are drawn together relative to
// the locked baseline. Always false while unlocked or when either inner-brow
// point is missing. The baseline never updates post-lock, so camera-distance
// drift after lock is not compensated.
func (d *Detector) BrowFurrowed(frame landmark.Frame) bool {
	if !d.calibrator.Locked() {
		return false
	}

	leftInner, ok1 := frame.Point(landmark.LeftInnerBrow)
	rightInner, ok2 := frame.Point(landmark.RightInnerBrow)
	if !ok1 || !ok2 {
		return false
	}

	baseline := d.calibrator.Value()
	if baseline <= 0 {
		return false
	}

	ratio := geometry.Distance(leftInner, rightInner) / baseline
	return ratio < d.config.FurrowRatio
}

// MouthFlat reports whether the mouth contour is flat (no smile). Independent
// of the baseline.
func (d *Detector) MouthFlat(frame landmark.Frame) bool {
	left, ok1 := frame.Point(landmark.MouthLeft)
	top, ok2 := frame.Point(landmark.MouthTop)
	right, ok3 := frame.Point(landmark.MouthRight)
	bottom, ok4 := frame.Point(landmark.MouthBottom)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}

	contour := []geometry.Point{left, top, right, bottom}
	return geometry.Curvature(contour) < d.config.FlatnessThreshold
}

// HeadRigid reports whether the nose tip has accumulated less than the
// movement floor of path length over the rigidity window. This is the only
// place the sliding window advances, so it must be called once per frame even
// when the verdict is discarded. Fewer than the minimum retained samples
// yields false (insufficient history, not rigidity).
func (d *Detector) HeadRigid(frame landmark.Frame, now time.Time) bool {
	nose, ok := frame.Point(landmark.NoseTip)
	if !ok {
		return false
	}

	d.headPositions = append(d.headPositions, headSample{at: now, pos: nose})

	cutoff := now.Add(-d.config.RigidityWindow)
	retained := d.headPositions[:0]
	for _, s := range d.headPositions {
		if s.at.After(cutoff) {
			retained = append(retained, s)
		}
	}
	d.headPositions = retained

	if len(d.headPositions) < d.config.MinRigiditySamples {
		return false
	}

	// Cumulative path length, not variance: a point that returns to its
	// start after excursions still registers the excursions.
	total := 0.0
	for i := 1; i < len(d.headPositions); i++ {
		total += geometry.Distance(d.headPositions[i-1].pos, d.headPositions[i].pos)
	}
	return total < d.config.MovementFloor
}

// Evaluate runs one full detection pass: opportunistic calibration while
// unlocked, then the three indicators. Confusion is unconditionally false
// until the baseline locks. The head window advances exactly once per call.
func (d *Detector) Evaluate(frame landmark.Frame, now time.Time, faceCount int, direction gaze.Direction, alertActive bool) Evaluation {
	if frame == nil {
		return Evaluation{}
	}

	var eval Evaluation
	if !d.calibrator.Locked() {
		eval.JustCalibrated = d.calibrator.Update(frame, now, faceCount, direction, alertActive)
	}
	if !d.calibrator.Locked() {
		return eval
	}

	eval.Indicators = Indicators{
		BrowFurrowing: d.BrowFurrowed(frame),
		MouthFlat:     d.MouthFlat(frame),
		HeadRigid:     d.HeadRigid(frame, now),
	}
	eval.Confused = eval.Indicators.Count() >= 2

	if eval.Confused {
		if eval.Indicators.BrowFurrowing {
			eval.Reasons = append(eval.Reasons, ReasonBrowFurrowing)
		}
		if eval.Indicators.MouthFlat {
			eval.Reasons = append(eval.Reasons, ReasonNoSmile)
		}
		if eval.Indicators.HeadRigid {
			eval.Reasons = append(eval.Reasons, ReasonStillness)
		}
	}

	return eval
}
