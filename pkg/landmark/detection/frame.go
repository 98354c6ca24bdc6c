package detection

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// Frame validation bounds. Frames smaller than this carry too little facial
// detail for the landmark engine to be useful.
const (
	MinFrameWidth  = 100
	MinFrameHeight = 100
)

// ErrInvalidFrame is returned for frames that decode but fail validation.
var ErrInvalidFrame = errors.New("invalid frame")

// ValidateJPEG decodes the frame and checks it is a usable color image.
// Invalid frames should be skipped upstream, never fed into the core.
func ValidateJPEG(jpeg []byte) error {
	img, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return fmt.Errorf("%w: empty image", ErrInvalidFrame)
	}
	if img.Channels() != 3 {
		return fmt.Errorf("%w: expected 3 channels, got %d", ErrInvalidFrame, img.Channels())
	}
	if img.Cols() < MinFrameWidth || img.Rows() < MinFrameHeight {
		return fmt.Errorf("%w: %dx%d below minimum %dx%d",
			ErrInvalidFrame, img.Cols(), img.Rows(), MinFrameWidth, MinFrameHeight)
	}

	return nil
}
