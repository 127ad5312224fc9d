package fx

import (
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/go-logr/logr"

	"github.com/AnatoleLucet/tea/internal/scheduler"
)

var ErrDuplicateManager = errors.New("effect manager already registered")

type entry struct {
	manager Manager
	router  *Router
}

// Registry maps home names to effect managers and routes gathered effects to
// their processes.
type Registry struct {
	log   logr.Logger
	sched *scheduler.Scheduler

	managers map[string]*entry
	// registration order, which is also dispatch order
	homes []string

	sendToApp func(any)
	started   bool

	// homes already reported as unknown
	unknown mapset.Set[string]
}

func NewRegistry(sched *scheduler.Scheduler, log logr.Logger) *Registry {
	return &Registry{
		log:      log,
		sched:    sched,
		managers: make(map[string]*entry),
		unknown:  mapset.NewThreadUnsafeSet[string](),
	}
}

// Register adds m under home. A home can be registered once. Managers
// registered after Setup are started right away.
func (reg *Registry) Register(home string, m Manager) error {
	if _, ok := reg.managers[home]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateManager, home)
	}

	e := &entry{manager: m}
	reg.managers[home] = e
	reg.homes = append(reg.homes, home)

	if reg.started {
		reg.spawn(home, e)
	}

	return nil
}

func (reg *Registry) Has(home string) bool {
	_, ok := reg.managers[home]
	return ok
}

// Homes returns the registered homes in registration order.
func (reg *Registry) Homes() []string {
	return append([]string(nil), reg.homes...)
}

// Setup spawns one process per registered manager. Messages the managers send
// to the app are handed to sendToApp.
func (reg *Registry) Setup(sendToApp func(any)) {
	if reg.started {
		return
	}

	reg.sendToApp = sendToApp
	reg.started = true

	for _, home := range reg.homes {
		reg.spawn(home, reg.managers[home])
	}
}

func (reg *Registry) spawn(home string, e *entry) {
	m := e.manager
	router := &Router{home: home, sendToApp: reg.sendToApp}
	e.router = router

	var loop func(state any) *scheduler.Task
	loop = func(state any) *scheduler.Task {
		return scheduler.AndThen(loop, scheduler.Receive(func(msg any) *scheduler.Task {
			switch msg := msg.(type) {
			case selfMsg:
				if m.OnSelfMsg != nil {
					return m.OnSelfMsg(router, msg.value, state)
				}
			case effectsMsg:
				if m.OnEffects != nil {
					return m.OnEffects(router, msg.cmds, msg.subs, state)
				}
			}
			return scheduler.Succeed(state)
		}))
	}

	init := m.Init
	if init == nil {
		init = scheduler.Succeed(nil)
	}

	router.self = reg.sched.Spawn(scheduler.AndThen(loop, init))
	reg.log.V(1).Info("manager started", "home", home, "pid", router.self)
}

// Dispatch gathers cmd and sub and sends every manager its share, possibly
// empty, in registration order.
func (reg *Registry) Dispatch(cmd, sub Bag) {
	gathered := make(map[string]*Effects, len(reg.managers))
	reg.gather(cmd, true, nil, gathered)
	reg.gather(sub, false, nil, gathered)

	for _, home := range reg.homes {
		e := reg.managers[home]
		if e.router == nil {
			continue
		}

		msg := effectsMsg{}
		if fx, ok := gathered[home]; ok {
			msg.cmds, msg.subs = fx.Cmds, fx.Subs
		}
		reg.sched.Send(e.router.self, msg)
	}
}

func (reg *Registry) gather(bag Bag, isCmd bool, taggers []func(any) any, out map[string]*Effects) {
	switch bag := bag.(type) {
	case nil:
	case Leaf:
		e, ok := reg.managers[bag.Home]
		if !ok {
			if reg.unknown.Add(bag.Home) {
				reg.log.Error(nil, "effect for unknown manager dropped", "home", bag.Home)
			}
			return
		}

		value, ok := reg.toEffect(e.manager, bag, isCmd, taggers)
		if !ok {
			return
		}

		fx, ok := out[bag.Home]
		if !ok {
			fx = &Effects{}
			out[bag.Home] = fx
		}
		if isCmd {
			fx.Cmds = append(fx.Cmds, value)
		} else {
			fx.Subs = append(fx.Subs, value)
		}
	case Batch:
		for _, b := range bag {
			reg.gather(b, isCmd, taggers, out)
		}
	case Mapped:
		reg.gather(bag.Bag, isCmd, append(taggers[:len(taggers):len(taggers)], bag.Tagger), out)
	default:
		panic(fmt.Sprintf("fx: unknown bag %T", bag))
	}
}

func (reg *Registry) toEffect(m Manager, leaf Leaf, isCmd bool, taggers []func(any) any) (any, bool) {
	if len(taggers) == 0 {
		return leaf.Value, true
	}

	mapper := m.SubMap
	if isCmd {
		mapper = m.CmdMap
	}
	if mapper == nil {
		reg.log.Error(nil, "mapped effect for manager without a mapper dropped", "home", leaf.Home, "cmd", isCmd)
		return nil, false
	}

	return mapper(compose(taggers), leaf.Value), true
}

// Close kills every manager process.
func (reg *Registry) Close() {
	for _, home := range reg.homes {
		if e := reg.managers[home]; e.router != nil {
			reg.sched.Kill(e.router.self)
			e.router = nil
		}
	}
	reg.started = false
}
