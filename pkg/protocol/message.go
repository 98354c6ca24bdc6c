// Package protocol defines the WebSocket message types exchanged with
// sources and observers. Sources push frame messages; observers receive the
// state-update records built by the state package.
package protocol

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Source → Server messages
	TypeFrame MessageType = "frame" // Captured video frame

	// Server → Observer messages
	TypeStateUpdate MessageType = "state_update" // Resolved session state

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Envelope carries just enough of any inbound message to dispatch on type.
type Envelope struct {
	Type MessageType `json:"type"`
}

// PeekType returns the message type without fully parsing the payload.
func PeekType(data []byte) (MessageType, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("failed to parse message: %w", err)
	}
	return env.Type, nil
}

// FrameMessage is a captured frame pushed by a source.
type FrameMessage struct {
	Type      MessageType `json:"type"`
	Data      string      `json:"data"`      // base64-encoded JPEG
	Timestamp int64       `json:"timestamp"` // capture time, Unix milliseconds
}

// NewFrameMessage creates a frame message from raw JPEG data.
func NewFrameMessage(jpegData []byte, capturedAt time.Time) *FrameMessage {
	return &FrameMessage{
		Type:      TypeFrame,
		Data:      base64.StdEncoding.EncodeToString(jpegData),
		Timestamp: capturedAt.UnixMilli(),
	}
}

// ParseFrameMessage parses a frame message from bytes.
func ParseFrameMessage(data []byte) (*FrameMessage, error) {
	var msg FrameMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse frame message: %w", err)
	}
	if msg.Type != TypeFrame {
		return nil, fmt.Errorf("unexpected message type %q", msg.Type)
	}
	return &msg, nil
}

// Bytes returns the JSON-encoded message.
func (m *FrameMessage) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeImage decodes the base64 image data.
func (m *FrameMessage) DecodeImage() ([]byte, error) {
	return base64.StdEncoding.DecodeString(m.Data)
}

// CapturedAt returns the capture timestamp. Frames without one fall back to
// the supplied receive time.
func (m *FrameMessage) CapturedAt(received time.Time) time.Time {
	if m.Timestamp == 0 {
		return received
	}
	return time.UnixMilli(m.Timestamp)
}
