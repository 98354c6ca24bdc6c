package landmark

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/smartsession/go-smartsession/internal/httpc"
	"github.com/smartsession/go-smartsession/pkg/geometry"
)

// RemoteExtractor calls an external landmark-extraction service over HTTP.
// The service accepts a JPEG body and answers with a face count and, when
// exactly one face was found, the per-index landmark coordinates.
type RemoteExtractor struct {
	baseURL string
	client  *http.Client
}

// NewRemoteExtractor creates an extractor backed by the engine at baseURL.
func NewRemoteExtractor(baseURL string) *RemoteExtractor {
	return &RemoteExtractor{
		baseURL: baseURL,
		client:  httpc.Client,
	}
}

// extractResponse is the engine's wire format. Landmark keys are the
// MediaPipe indices as decimal strings.
type extractResponse struct {
	FaceCount int                       `json:"face_count"`
	Landmarks map[string]geometry.Point `json:"landmarks"`
}

// Extract posts the frame to the engine and parses the detection result.
func (e *RemoteExtractor) Extract(jpeg []byte) (Result, error) {
	resp, err := e.client.Post(e.baseURL+"/v1/landmarks", "image/jpeg", bytes.NewReader(jpeg))
	if err != nil {
		return Result{}, fmt.Errorf("landmark engine request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("landmark engine returned status %d", resp.StatusCode)
	}

	var body extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("failed to decode landmark response: %w", err)
	}

	result := Result{FaceCount: body.FaceCount}
	if body.FaceCount == 1 && len(body.Landmarks) > 0 {
		frame := make(Frame, len(body.Landmarks))
		for key, p := range body.Landmarks {
			idx, err := strconv.Atoi(key)
			if err != nil {
				continue
			}
			frame[idx] = p
		}
		result.Landmarks = frame
	}

	return result, nil
}

// Close is a no-op; the shared HTTP client is process-wide.
func (e *RemoteExtractor) Close() error {
	return nil
}
