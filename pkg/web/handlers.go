package web

import (
	"encoding/json"
	"time"

	"github.com/gofiber/contrib/websocket"
	obsws "github.com/gofiber/websocket/v2"
	"github.com/smartsession/go-smartsession/internal/log"
	"github.com/smartsession/go-smartsession/pkg/hub"
	"github.com/smartsession/go-smartsession/pkg/protocol"
	"github.com/smartsession/go-smartsession/pkg/session"
)

// handleSource owns one source connection for its lifetime. Frames are
// processed sequentially on this goroutine, preserving arrival order.
func (s *Server) handleSource(c *websocket.Conn) {
	pipe := session.New(s.extractor, s.observers, s.pipeline)
	s.manager.Add(pipe)
	log.Info("source connected", "session", pipe.ID())

	defer func() {
		info := pipe.Info()
		s.manager.Remove(pipe.ID())
		log.Info("source disconnected", "session", pipe.ID(), "frames", info.FramesProcessed)
	}()

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			return
		}
		s.handleSourceMessage(pipe, c, data)
	}
}

// handleSourceMessage dispatches one inbound source message. A bad frame is
// logged and skipped; the connection stays up.
func (s *Server) handleSourceMessage(pipe *session.Pipeline, c *websocket.Conn, data []byte) {
	received := time.Now()

	msgType, err := protocol.PeekType(data)
	if err != nil {
		log.Warn("unparseable source message", "session", pipe.ID(), "error", err)
		return
	}

	switch msgType {
	case protocol.TypeFrame:
		msg, err := protocol.ParseFrameMessage(data)
		if err != nil {
			log.Warn("invalid frame message", "session", pipe.ID(), "error", err)
			return
		}

		jpeg, err := msg.DecodeImage()
		if err != nil {
			log.Warn("frame decode failed", "session", pipe.ID(), "error", err)
			return
		}

		if s.OnValidateFrame != nil {
			if err := s.OnValidateFrame(jpeg); err != nil {
				log.Warn("frame rejected", "session", pipe.ID(), "error", err)
				return
			}
		}

		if _, err := pipe.ProcessFrame(jpeg, msg.CapturedAt(received)); err != nil {
			log.Warn("frame processing failed", "session", pipe.ID(), "error", err)
		}

	case protocol.TypePing:
		pong, _ := json.Marshal(protocol.Envelope{Type: protocol.TypePong})
		c.WriteMessage(websocket.TextMessage, pong)

	default:
		log.Warn("unexpected source message type", "session", pipe.ID(), "type", msgType)
	}
}

// handleObserver subscribes one observer connection to the broadcast hub,
// sending the current state as an initial snapshot.
func (s *Server) handleObserver(c *obsws.Conn) {
	observer := hub.NewObserver(s.observers, c)

	if p := s.manager.Any(); p != nil {
		if data, err := json.Marshal(p.CurrentUpdate()); err == nil {
			observer.Send(data)
		}
	}

	observer.Run()
}
