package tea

import (
	"time"

	"github.com/go-logr/logr"

	"github.com/AnatoleLucet/tea/internal/anim"
	"github.com/AnatoleLucet/tea/internal/fx"
	"github.com/AnatoleLucet/tea/internal/loop"
)

// FrameSource paces drawing. RequestFrame must call cb once, later, on the
// runtime goroutine.
type FrameSource = anim.FrameSource

type config struct {
	log           logr.Logger
	frames        FrameSource
	frameInterval time.Duration
	inboxSize     int
	managers      []registration
}

type registration struct {
	home    string
	manager fx.Manager
}

func defaultConfig() config {
	return config{
		log:           logr.Discard(),
		frameInterval: 16 * time.Millisecond,
		inboxSize:     loop.DefaultInboxSize,
	}
}

type Option func(*config)

// WithLogger sets the logger of the runtime and its subsystems.
func WithLogger(log logr.Logger) Option {
	return func(c *config) { c.log = log }
}

// WithFrameSource replaces the default ticker based frame source.
func WithFrameSource(frames FrameSource) Option {
	return func(c *config) { c.frames = frames }
}

// WithFrameInterval sets the interval of the default frame source.
func WithFrameInterval(d time.Duration) Option {
	return func(c *config) { c.frameInterval = d }
}

// WithInboxSize sets how many posted funcs the runtime buffers.
func WithInboxSize(n int) Option {
	return func(c *config) { c.inboxSize = n }
}

// WithManager registers an effect manager under home, after the built-in
// Task and Time managers.
func WithManager(home string, m Manager) Option {
	return func(c *config) { c.managers = append(c.managers, registration{home, m}) }
}
