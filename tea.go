package tea

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/go-logr/logr"

	"github.com/AnatoleLucet/tea/dom"
	"github.com/AnatoleLucet/tea/internal/anim"
	"github.com/AnatoleLucet/tea/internal/fx"
	"github.com/AnatoleLucet/tea/internal/loop"
	"github.com/AnatoleLucet/tea/internal/scheduler"
	"github.com/AnatoleLucet/tea/vdom"
)

var (
	ErrMissingMount     = errors.New("tea: missing mount node")
	ErrClosed           = errors.New("tea: runtime closed")
	ErrDuplicateManager = fx.ErrDuplicateManager
)

// Program is an application: a model, how messages update it, how it is
// drawn and what it listens to. Subscriptions may be nil.
type Program[M any] struct {
	Init          func() (M, Cmd)
	Update        func(msg any, model M) (M, Cmd)
	View          func(M) vdom.Node
	Subscriptions func(M) Sub
}

// Runtime runs a Program mounted on a dom node. Everything it does happens on
// one goroutine: the one that called Init, until Run hands it to another.
type Runtime struct {
	log logr.Logger

	loop     *loop.Loop
	sched    *scheduler.Scheduler
	registry *fx.Registry
	queue    *fx.Queue

	root   *dom.Node
	send   func(msg any, sync bool)
	closed atomic.Bool
}

// Init mounts p on mount and starts its effect managers. The initial view is
// drawn and the initial commands are dispatched before Init returns.
func Init[M any](p Program[M], mount *dom.Node, opts ...Option) (*Runtime, error) {
	if mount == nil {
		return nil, ErrMissingMount
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	rt := &Runtime{log: cfg.log.WithName("runtime"), root: mount}
	rt.loop = loop.New(cfg.inboxSize, cfg.log.WithName("loop"))
	rt.sched = scheduler.New(rt.loop, cfg.log.WithName("scheduler"))
	rt.registry = fx.NewRegistry(rt.sched, cfg.log.WithName("fx"))
	rt.queue = fx.NewQueue(rt.registry)

	builtin := []registration{{TaskHome, taskManager()}, {TimeHome, timeManager()}}
	for _, r := range append(builtin, cfg.managers...) {
		if err := rt.registry.Register(r.home, r.manager); err != nil {
			return nil, err
		}
	}

	frames := cfg.frames
	if frames == nil {
		frames = loop.NewTicker(rt.loop, cfg.frameInterval)
	}

	subs := func(m M) fx.Bag {
		if p.Subscriptions == nil {
			return nil
		}
		return p.Subscriptions(m).bag
	}
	sink := func(msg any, sync bool) { rt.send(msg, sync) }

	model, cmd := p.Init()
	view := vdom.Virtualize(mount)
	animator := anim.New(frames, model, func(m M) {
		next := p.View(m)
		rt.root = vdom.Apply(rt.root, view, vdom.Diff(view, next), sink)
		view = next
	}, cfg.log.WithName("anim"))

	rt.send = func(msg any, sync bool) {
		if rt.closed.Load() {
			return
		}

		var cmd Cmd
		model, cmd = p.Update(msg, model)
		animator.Update(model, sync)
		rt.queue.Enqueue(cmd.bag, subs(model))
	}

	rt.registry.Setup(func(msg any) { rt.send(msg, false) })
	rt.queue.Enqueue(cmd.bag, subs(model))

	rt.log.V(1).Info("initialized", "managers", rt.registry.Homes())
	return rt, nil
}

// Dispatch hands msg to update. It may be called from any goroutine.
func (rt *Runtime) Dispatch(msg any) {
	rt.loop.Do(func() { rt.send(msg, false) })
}

// Do runs fn on the runtime goroutine, inline when already on it. Use it to
// touch the dom from elsewhere.
func (rt *Runtime) Do(fn func()) {
	rt.loop.Do(fn)
}

// Run processes timers, resolved tasks and dispatched messages until ctx is
// done or the runtime is closed.
func (rt *Runtime) Run(ctx context.Context) error {
	return rt.loop.Run(ctx)
}

// Flush runs whatever is pending without blocking and reports how many funcs
// ran. It must be called from the runtime goroutine.
func (rt *Runtime) Flush() int {
	return rt.loop.Flush()
}

// Root returns the current root dom node. A redraw of the root replaces it.
func (rt *Runtime) Root() *dom.Node {
	return rt.root
}

// Close kills every process and stops the runtime. Called from another
// goroutine it waits for Run to return. Messages dispatched afterwards are
// dropped.
func (rt *Runtime) Close() error {
	if !rt.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	rt.loop.Close(func() {
		rt.registry.Close()
		rt.sched.Close()
		rt.log.V(1).Info("closed")
	})

	return nil
}
