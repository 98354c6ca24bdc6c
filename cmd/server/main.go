// server: session-monitoring service
// Accepts frames from sources over WebSocket, classifies attention state,
// and pushes updates to subscribed observers.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/smartsession/go-smartsession/internal/config"
	"github.com/smartsession/go-smartsession/internal/log"
	"github.com/smartsession/go-smartsession/pkg/hub"
	"github.com/smartsession/go-smartsession/pkg/landmark"
	"github.com/smartsession/go-smartsession/pkg/landmark/detection"
	"github.com/smartsession/go-smartsession/pkg/session"
	"github.com/smartsession/go-smartsession/pkg/web"
)

var version = "1.0.0"

var noFallback = flag.Bool("no-fallback", false, "Disable the local Haar fallback detector")

func main() {
	flag.Parse()

	cfg := config.Load()
	log.Init(cfg.LogLevel)

	fmt.Println()
	fmt.Println("SmartSession v" + version)
	fmt.Println("   Session attention monitoring service")
	fmt.Println()

	extractor := buildExtractor(cfg)
	defer extractor.Close()

	observers := hub.New("observers")
	server := web.NewServer(cfg.Port, extractor, observers, session.DefaultConfig())
	server.OnValidateFrame = detection.ValidateJPEG

	server.StartAsync()
	log.Info("endpoints ready",
		"source", fmt.Sprintf("ws://localhost:%s/ws/source", cfg.Port),
		"observer", fmt.Sprintf("ws://localhost:%s/ws/observer", cfg.Port),
		"health", fmt.Sprintf("http://localhost:%s/health", cfg.Port))

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := server.Shutdown(); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}

// buildExtractor wires the remote landmark engine, with the local Haar
// detector as a degraded fallback when available.
func buildExtractor(cfg config.Config) landmark.Extractor {
	remote := landmark.NewRemoteExtractor(cfg.EngineURL)

	if *noFallback || cfg.CascadePath == "" {
		return remote
	}

	haarCfg := detection.DefaultConfig()
	haarCfg.CascadePath = cfg.CascadePath
	haar, err := detection.NewHaar(haarCfg)
	if err != nil {
		log.Warn("fallback detector unavailable", "error", err)
		return remote
	}

	log.Info("fallback detector loaded", "cascade", cfg.CascadePath)
	return landmark.NewFallback(remote, haar)
}
