// Package web provides the HTTP and WebSocket surface: frame ingest from
// sources, state fan-out to observers, and a small status API.
package web

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	obsws "github.com/gofiber/websocket/v2"
	"github.com/smartsession/go-smartsession/internal/log"
	"github.com/smartsession/go-smartsession/pkg/hub"
	"github.com/smartsession/go-smartsession/pkg/landmark"
	"github.com/smartsession/go-smartsession/pkg/session"
	"github.com/smartsession/go-smartsession/pkg/state"
)

// Server hosts the session endpoints. Each source connection gets its own
// pipeline; observers share one broadcast hub.
type Server struct {
	app  *fiber.App
	port string

	manager   *session.Manager
	observers *hub.Hub
	extractor landmark.Extractor
	pipeline  session.Config

	// OnValidateFrame, when set, rejects malformed frames before they reach
	// the extraction engine.
	OnValidateFrame func(jpeg []byte) error
}

// NewServer creates the server and registers all routes.
func NewServer(port string, extractor landmark.Extractor, observers *hub.Hub, cfg session.Config) *Server {
	s := &Server{
		port:      port,
		manager:   session.NewManager(),
		observers: observers,
		extractor: extractor,
		pipeline:  cfg,
	}

	app := fiber.New(fiber.Config{
		AppName:               "SmartSession",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/", s.handleRoot)
	app.Get("/health", s.handleHealth)

	api := app.Group("/api")
	api.Get("/state", s.handleState)
	api.Get("/sessions", s.handleSessions)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/source", websocket.New(s.handleSource))
	app.Get("/ws/observer", obsws.New(s.handleObserver))

	s.app = app
	return s
}

// Manager returns the session registry.
func (s *Server) Manager() *session.Manager {
	return s.manager
}

// Start runs the observer hub and serves until shutdown.
func (s *Server) Start() error {
	go s.observers.Run()
	log.Info("server listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("server stopped", "error", err)
		}
	}()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "smartsession",
		"status":  "ok",
	})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
	})
}

// handleState returns the current resolved state. Before any source has
// connected the session starts out focused.
func (s *Server) handleState(c *fiber.Ctx) error {
	if p := s.manager.Any(); p != nil {
		return c.JSON(p.CurrentUpdate())
	}
	return c.JSON(state.Update{
		Type:      state.UpdateType,
		State:     state.Focused,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (s *Server) handleSessions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"sessions":  s.manager.Infos(),
		"count":     s.manager.Count(),
		"observers": s.observers.ObserverCount(),
	})
}
