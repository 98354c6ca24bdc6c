// Package session orchestrates the per-source processing pipeline: face
// detection, gaze tracking, confusion detection, state resolution, and the
// throttled push to observers.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smartsession/go-smartsession/internal/log"
	"github.com/smartsession/go-smartsession/pkg/confusion"
	"github.com/smartsession/go-smartsession/pkg/gaze"
	"github.com/smartsession/go-smartsession/pkg/landmark"
	"github.com/smartsession/go-smartsession/pkg/state"
)

// Config bundles the pipeline tunables.
type Config struct {
	Gaze      gaze.Config
	Confusion confusion.Config
	State     state.Config

	// BroadcastInterval rate-limits the outward state push. Recomputation
	// still happens every frame; intermediate states between emissions are
	// dropped, not buffered.
	BroadcastInterval time.Duration
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		Gaze:              gaze.DefaultConfig(),
		Confusion:         confusion.DefaultConfig(),
		State:             state.DefaultConfig(),
		BroadcastInterval: 500 * time.Millisecond,
	}
}

// Broadcaster pushes a state update to all currently subscribed observers,
// best-effort. *hub.Hub satisfies this.
type Broadcaster interface {
	BroadcastJSON(v interface{}) error
}

// Pipeline processes one source's frames sequentially. All mutable core
// state (baseline, windows, timers) is session-scoped; a single goroutine
// must drive ProcessFrame, in frame-arrival order. The read surface
// (CurrentUpdate, Info) is safe to call from other goroutines.
type Pipeline struct {
	id        string
	startedAt time.Time

	extractor   landmark.Extractor
	broadcaster Broadcaster

	mu       sync.Mutex
	tracker  *gaze.Tracker
	detector *confusion.Detector
	resolver *state.Resolver

	interval      time.Duration
	lastBroadcast time.Time

	framesProcessed uint64

	// nowFn supplies the server timestamp on outgoing payloads.
	nowFn func() time.Time
}

// New creates a pipeline for one source.
func New(extractor landmark.Extractor, broadcaster Broadcaster, cfg Config) *Pipeline {
	return &Pipeline{
		id:          uuid.NewString(),
		startedAt:   time.Now(),
		extractor:   extractor,
		broadcaster: broadcaster,
		tracker:     gaze.NewTracker(cfg.Gaze),
		detector:    confusion.NewDetector(cfg.Confusion),
		resolver:    state.NewResolver(cfg.State),
		interval:    cfg.BroadcastInterval,
		nowFn:       time.Now,
	}
}

// ID returns the session identifier.
func (p *Pipeline) ID() string {
	return p.id
}

// ProcessFrame runs the full per-frame pass for a frame captured at
// capturedAt. Missing landmarks degrade each stage rather than failing;
// only an extraction-engine error short-circuits the frame.
func (p *Pipeline) ProcessFrame(jpeg []byte, capturedAt time.Time) (state.State, error) {
	result, err := p.extractor.Extract(jpeg)
	if err != nil {
		return "", fmt.Errorf("landmark extraction failed: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Gaze tracking, only when landmarks are available.
	var gazeStatus gaze.Status
	if result.Landmarks != nil {
		gazeStatus = p.tracker.Status(result.Landmarks, capturedAt)
	}

	// Confusion detection. Calibration treats an unknown gaze as centered
	// and gates on the proctor-alert conditions of this frame.
	var eval confusion.Evaluation
	if result.Landmarks != nil {
		direction := gazeStatus.Direction
		if !gazeStatus.Known {
			direction = gaze.Center
		}
		alertActive := result.FaceCount != 1 || gazeStatus.AlertTriggered
		eval = p.detector.Evaluate(result.Landmarks, capturedAt, result.FaceCount, direction, alertActive)
		if eval.JustCalibrated {
			log.Info("baseline locked", "session", p.id, "baseline", p.detector.Baseline())
		}
	}

	resolved := p.resolver.Resolve(result.FaceCount, gazeStatus.AlertTriggered, eval.Confused, capturedAt)
	p.framesProcessed++

	// Throttled push: a pure time gate, not a queue.
	if capturedAt.Sub(p.lastBroadcast) >= p.interval {
		update := p.resolver.Payload(&state.Details{
			FaceCount:         result.FaceCount,
			GazeDirection:     string(gazeStatus.Direction),
			ConfusionDetected: eval.Confused,
			ConfusionReasons:  eval.Reasons,
		}, p.nowFn())

		if err := p.broadcaster.BroadcastJSON(update); err != nil {
			log.Warn("state broadcast failed", "session", p.id, "error", err)
		}
		p.lastBroadcast = capturedAt
	}

	return resolved, nil
}

// CurrentUpdate returns the current state as a payload, for observers that
// just connected and for the status API.
func (p *Pipeline) CurrentUpdate() state.Update {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resolver.Payload(nil, p.nowFn())
}

// Info describes an active session for the status API.
type Info struct {
	ID              string      `json:"id"`
	StartedAt       time.Time   `json:"started_at"`
	FramesProcessed uint64      `json:"frames_processed"`
	State           state.State `json:"state"`
	BaselineLocked  bool        `json:"baseline_locked"`
}

// Info returns a snapshot of the session.
func (p *Pipeline) Info() Info {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Info{
		ID:              p.id,
		StartedAt:       p.startedAt,
		FramesProcessed: p.framesProcessed,
		State:           p.resolver.Current(),
		BaselineLocked:  p.detector.BaselineLocked(),
	}
}
