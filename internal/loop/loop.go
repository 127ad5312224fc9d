package loop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
)

// DefaultInboxSize is the buffer size of the inbox channel.
const DefaultInboxSize = 128

// Loop is a serial executor. Every func handed to it runs on one goroutine,
// so the state those funcs touch needs no locking.
type Loop struct {
	log logr.Logger

	inbox chan func()
	// funcs posted from the loop goroutine itself while the inbox was full;
	// only touched on the loop goroutine
	overflow []func()

	// goroutine id of the goroutine the loop runs on
	owner atomic.Int64

	stopOnce sync.Once
	stopCh   chan struct{}

	// held by Run while it serves the inbox
	serving sync.Mutex
}

// New creates a loop owned by the calling goroutine until Run is called.
func New(size int, log logr.Logger) *Loop {
	if size <= 0 {
		size = DefaultInboxSize
	}

	l := &Loop{
		log:    log,
		inbox:  make(chan func(), size),
		stopCh: make(chan struct{}),
	}
	l.owner.Store(currentGoroutine())

	return l
}

// OnLoop reports whether the caller runs on the loop goroutine.
func (l *Loop) OnLoop() bool {
	return currentGoroutine() == l.owner.Load()
}

// Do runs fn inline when called on the loop goroutine and posts it otherwise.
func (l *Loop) Do(fn func()) {
	if l.OnLoop() {
		fn()
		return
	}
	l.Post(fn)
}

// Post queues fn to run on the loop goroutine. It never runs fn inline. Off
// the loop it may block while the inbox is full; after Stop it drops fn.
func (l *Loop) Post(fn func()) {
	if l.OnLoop() {
		select {
		case l.inbox <- fn:
		default:
			l.overflow = append(l.overflow, fn)
		}
		return
	}

	select {
	case l.inbox <- fn:
	case <-l.stopCh:
		l.log.V(1).Info("post after stop dropped")
	}
}

// Run serves the inbox on the calling goroutine until ctx is done or Stop is
// called. Funcs already queued when Stop is called are run before returning.
func (l *Loop) Run(ctx context.Context) error {
	l.serving.Lock()
	defer l.serving.Unlock()

	prev := l.owner.Swap(currentGoroutine())
	defer l.owner.Store(prev)

	l.log.V(1).Info("running")
	defer l.log.V(1).Info("stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stopCh:
			l.Flush()
			return nil
		case fn := <-l.inbox:
			fn()
			l.runOverflow()
		}
	}
}

// Flush runs every queued func without blocking and returns how many ran. It
// must be called on the loop goroutine.
func (l *Loop) Flush() int {
	n := 0
	for {
		select {
		case fn := <-l.inbox:
			fn()
			n++
		default:
			if len(l.overflow) == 0 {
				return n
			}
			n += l.runOverflow()
		}
	}
}

func (l *Loop) runOverflow() int {
	n := 0
	for len(l.overflow) > 0 {
		fn := l.overflow[0]
		l.overflow[0] = nil
		l.overflow = l.overflow[1:]
		fn()
		n++
	}
	return n
}

// Stop makes Run return. It is safe to call more than once and from any
// goroutine.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// Close stops the loop and runs fn last. On the loop goroutine fn runs inline.
// Elsewhere Close waits for Run to return, then takes the loop over to run
// the funcs still queued and fn, so it does not need Run to be serving.
func (l *Loop) Close(fn func()) {
	l.Stop()
	if l.OnLoop() {
		fn()
		return
	}

	l.serving.Lock()
	defer l.serving.Unlock()

	prev := l.owner.Swap(currentGoroutine())
	defer l.owner.Store(prev)

	l.Flush()
	fn()
}

// Stopped reports whether Stop was called.
func (l *Loop) Stopped() bool {
	select {
	case <-l.stopCh:
		return true
	default:
		return false
	}
}

// Ticker is a frame source that delivers each requested frame through the
// loop after a fixed interval.
type Ticker struct {
	loop     *Loop
	interval time.Duration
}

func NewTicker(l *Loop, interval time.Duration) *Ticker {
	return &Ticker{loop: l, interval: interval}
}

func (t *Ticker) RequestFrame(cb func()) {
	time.AfterFunc(t.interval, func() { t.loop.Post(cb) })
}
