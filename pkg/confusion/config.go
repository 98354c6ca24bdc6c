package confusion

import "time"

// Config holds the confusion-detection tunables. The defaults are tolerant
// thresholds tuned for realistic webcam behavior; whether they generalize
// across camera resolutions and frame rates is unverified, so everything is
// overridable.
type Config struct {
	// FurrowRatio is the current/baseline inter-brow distance below which
	// the brow counts as furrowed (0.80 = a 20% reduction).
	FurrowRatio float64

	// FlatnessThreshold is the mouth-contour curvature below which the
	// mouth counts as flat (no smile).
	FlatnessThreshold float64

	// MovementFloor is the cumulative nose-tip path length (pixels) below
	// which the head counts as rigid over the rigidity window.
	MovementFloor float64

	// RigidityWindow is the sliding window over which head movement is
	// accumulated.
	RigidityWindow time.Duration

	// MinRigiditySamples is the minimum number of retained head positions
	// required before rigidity can be judged at all.
	MinRigiditySamples int

	// CalibrationDuration is the unbroken qualifying streak required to
	// lock the baseline brow distance.
	CalibrationDuration time.Duration
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		FurrowRatio:         0.80,
		FlatnessThreshold:   0.08,
		MovementFloor:       2.0,
		RigidityWindow:      3 * time.Second,
		MinRigiditySamples:  3,
		CalibrationDuration: 3 * time.Second,
	}
}
