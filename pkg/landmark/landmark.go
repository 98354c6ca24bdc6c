// Package landmark defines the facial-landmark contract between the external
// extraction engine and the session core. The engine returns a face count
// and, for exactly one detected face, a mapping from fixed MediaPipe point
// indices to pixel coordinates.
package landmark

import "github.com/smartsession/go-smartsession/pkg/geometry"

// MediaPipe face-mesh landmark indices used by the core.
// See: https://developers.google.com/mediapipe/solutions/vision/face_landmarker
const (
	LeftInnerBrow  = 107
	RightInnerBrow = 336
	LeftOuterBrow  = 70
	RightOuterBrow = 300

	MouthLeft   = 61
	MouthRight  = 291
	MouthTop    = 13
	MouthBottom = 14

	NoseTip = 4
	Chin    = 175

	LeftTemple  = 234
	RightTemple = 454

	LeftEyeInner  = 133
	LeftEyeOuter  = 33
	RightEyeInner = 362
	RightEyeOuter = 263

	LeftEyeTop     = 159
	LeftEyeBottom  = 145
	RightEyeTop    = 386
	RightEyeBottom = 374
)

// Frame maps landmark indices to coordinates for a single detected face.
// It is immutable for the duration of one frame's processing.
type Frame map[int]geometry.Point

// Point returns the coordinates for the given landmark index.
// The second return value is false if the engine did not report that point.
func (f Frame) Point(index int) (geometry.Point, bool) {
	if f == nil {
		return geometry.Point{}, false
	}
	p, ok := f[index]
	return p, ok
}

// Has reports whether every listed index is present in the frame.
func (f Frame) Has(indices ...int) bool {
	for _, idx := range indices {
		if _, ok := f.Point(idx); !ok {
			return false
		}
	}
	return true
}

// Result is the outcome of running the extraction engine on one frame.
// Landmarks is non-nil only when exactly one face was detected; fallback
// detectors that count faces without landmarks leave it nil.
type Result struct {
	FaceCount int
	Landmarks Frame
}

// Extractor is the boundary to the landmark-extraction engine.
// Implementations must degrade to a zero-face Result rather than fabricate
// partial landmark data.
type Extractor interface {
	// Extract runs detection on an encoded JPEG frame.
	Extract(jpeg []byte) (Result, error)

	// Close releases resources.
	Close() error
}
