// Package detection provides the local fallback face detector. It counts
// faces with an OpenCV Haar cascade but produces no landmarks; the session
// core degrades its indicators accordingly.
package detection

import (
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/smartsession/go-smartsession/pkg/landmark"
	"gocv.io/x/gocv"
)

// Config holds detector configuration.
type Config struct {
	CascadePath  string  // Path to the Haar cascade XML
	ScaleFactor  float64 // Pyramid scale step (default 1.1)
	MinNeighbors int     // Detections required to keep a candidate (default 4)
}

// DefaultConfig returns production defaults for the frontal-face cascade.
func DefaultConfig() Config {
	return Config{
		CascadePath:  "models/haarcascade_frontalface_default.xml",
		ScaleFactor:  1.1,
		MinNeighbors: 4,
	}
}

// HaarDetector counts faces using OpenCV's cascade classifier.
type HaarDetector struct {
	classifier gocv.CascadeClassifier
	config     Config
	mu         sync.Mutex // Protects inference
}

// NewHaar creates a Haar-cascade face counter.
func NewHaar(cfg Config) (*HaarDetector, error) {
	if _, err := os.Stat(cfg.CascadePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("cascade file not found: %s", cfg.CascadePath)
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(cfg.CascadePath) {
		classifier.Close()
		return nil, fmt.Errorf("failed to load cascade: %s", cfg.CascadePath)
	}

	return &HaarDetector{
		classifier: classifier,
		config:     cfg,
	}, nil
}

// Extract counts faces in the JPEG frame. Landmarks are always nil: the
// cascade only locates bounding boxes.
func (d *HaarDetector) Extract(jpeg []byte) (landmark.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	img, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		return landmark.Result{}, fmt.Errorf("decode image: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return landmark.Result{}, fmt.Errorf("empty image")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	rects := d.classifier.DetectMultiScaleWithParams(
		gray,
		d.config.ScaleFactor,
		d.config.MinNeighbors,
		0,
		// No size bounds: the cascade's own defaults apply.
		image.Pt(0, 0),
		image.Pt(0, 0),
	)

	return landmark.Result{FaceCount: len(rects)}, nil
}

// Close releases the classifier resources.
func (d *HaarDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.classifier.Close()
}
