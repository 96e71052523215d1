// Package coordinator resolves, for each content item a screen loads, the
// video source to hand the player and gates playback on readiness: instant
// start when cached, preload-before-play when not, network fallback with a
// grace delay when the preload fails.
package coordinator

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/stillhour/videocache/internal/domain"
)

// DefaultGraceTimeout is how long a screen stays gated after a failed
// preload before playback controls unlock anyway. The player buffers over
// the network in the meantime.
const DefaultGraceTimeout = 3 * time.Second

// Cache is the slice of the cache store the coordinator needs.
type Cache interface {
	IsCached(uri string) bool
	CachedPath(uri string) string
	PreCache(ctx context.Context, uri string) (string, error)
}

// Player is the playback surface a session gates. Pause is called before a
// new item replaces one whose video may still be playing.
type Player interface {
	Pause()
}

// Config contains coordinator configuration
type Config struct {
	GraceTimeout time.Duration
}

// Coordinator creates per-screen sessions over a shared cache store.
type Coordinator struct {
	cache  Cache
	logger *zap.Logger
	grace  time.Duration
}

// New creates a new Coordinator
func New(cfg *Config, cache Cache, logger *zap.Logger) *Coordinator {
	grace := DefaultGraceTimeout
	if cfg != nil && cfg.GraceTimeout > 0 {
		grace = cfg.GraceTimeout
	}
	return &Coordinator{
		cache:  cache,
		logger: logger,
		grace:  grace,
	}
}

// NewSession creates a session for one screen. player may be nil for
// screens that manage playback elsewhere.
func (c *Coordinator) NewSession(player Player) *Session {
	return &Session{
		co:      c,
		player:  player,
		readyCh: closedChan(),
		ready:   true,
	}
}

// Session tracks readiness for the content item a screen currently shows.
// Safe for concurrent use; async preload results for a replaced item are
// discarded.
type Session struct {
	co     *Coordinator
	player Player

	mu      sync.Mutex
	itemID  string
	source  string
	ready   bool
	readyCh chan struct{}
	gen     uint64
	timer   *time.Timer
}

// Load runs the readiness state machine for item. Loading the item already
// shown is a no-op, so ongoing playback is never interrupted and no
// duplicate download starts. Returns quickly; readiness is reported through
// Ready and ReadyCh.
func (s *Session) Load(ctx context.Context, item domain.ContentItem) {
	s.mu.Lock()

	if item.ID != "" && item.ID == s.itemID {
		s.mu.Unlock()
		return
	}

	// A different item may arrive while the previous video is playing.
	if s.itemID != "" && s.player != nil {
		s.player.Pause()
	}

	s.itemID = item.ID
	s.gen++
	gen := s.gen
	s.source = ""
	s.ready = false
	s.readyCh = make(chan struct{})
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if err := item.Validate(); err != nil {
		s.co.logger.Warn("invalid content item", zap.String("id", item.ID), zap.Error(err))
		s.markReadyLocked("")
		s.mu.Unlock()
		return
	}

	if !item.HasVideo() {
		// Nothing to play, nothing to gate.
		s.markReadyLocked("")
		s.mu.Unlock()
		return
	}

	uri := item.Video.URI

	if s.co.cache.IsCached(uri) {
		// Fast path: cached playback never waits.
		s.markReadyLocked(s.co.cache.CachedPath(uri))
		s.mu.Unlock()
		return
	}

	// Placeholder source while the preload runs.
	s.source = uri
	s.mu.Unlock()

	go s.preload(ctx, gen, uri)
}

func (s *Session) preload(ctx context.Context, gen uint64, uri string) {
	path, err := s.co.cache.PreCache(ctx, uri)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		// Item changed mid-download; the cache keeps the file for later.
		return
	}

	if err == nil {
		s.markReadyLocked(path)
		return
	}

	// Failed preload: keep the network URI and unlock playback after the
	// grace delay so the player has a head start on buffering but the UI
	// never hangs.
	s.co.logger.Warn("preload failed, falling back to network",
		zap.String("uri", uri),
		zap.Duration("grace", s.co.grace),
		zap.Error(err))

	s.timer = time.AfterFunc(s.co.grace, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.gen {
			return
		}
		s.markReadyLocked(uri)
	})
}

// markReadyLocked flips the session to ready. Callers hold s.mu.
func (s *Session) markReadyLocked(source string) {
	s.source = source
	if !s.ready {
		s.ready = true
		close(s.readyCh)
	}
}

// Ready reports whether playback controls may be enabled.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// ReadyCh returns a channel closed when the current item becomes ready.
// Load replaces the channel, so callers should re-fetch it per item.
func (s *Session) ReadyCh() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readyCh
}

// Source returns the resolved playback source: a cached local path, the
// original network URI, or empty when the item has no video.
func (s *Session) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
