package scheduler

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/go-logr/logr"
)

// Executor runs resumptions on the goroutine that owns the scheduler. Do runs
// fn inline when already on that goroutine.
type Executor interface {
	Do(fn func())
}

type inline struct{}

func (inline) Do(fn func()) { fn() }

// Scheduler steps processes cooperatively. It is not safe for concurrent use:
// every call must come from the goroutine behind its Executor.
type Scheduler struct {
	log  logr.Logger
	exec Executor

	procs map[ID]*Process
	last  ID

	// ready processes, drained in FIFO order
	queue []*Process
	// true while the queue is being drained; enqueues made meanwhile are
	// picked up by the running drain instead of recursing
	working bool

	// processes blocked on Receive with an empty mailbox
	receiving mapset.Set[ID]
}

func New(exec Executor, log logr.Logger) *Scheduler {
	if exec == nil {
		exec = inline{}
	}

	return &Scheduler{
		log:       log,
		exec:      exec,
		procs:     make(map[ID]*Process),
		receiving: mapset.NewThreadUnsafeSet[ID](),
	}
}

// Spawn creates a process running t and enqueues it. It never blocks; if no
// drain is in progress the process is stepped before Spawn returns.
func (s *Scheduler) Spawn(t *Task) ID {
	s.last++
	p := &Process{id: s.last, root: t}
	s.procs[p.id] = p

	s.log.V(2).Info("spawn", "pid", p.id, "task", t.kind.String())
	s.enqueue(p)

	return p.id
}

// Send appends msg to the mailbox of process id, waking it if it waits in
// Receive. Messages to finished processes are dropped.
func (s *Scheduler) Send(id ID, msg any) {
	p, ok := s.procs[id]
	if !ok {
		s.log.V(1).Info("message to finished process dropped", "pid", id)
		return
	}

	p.mailbox = append(p.mailbox, msg)

	if s.receiving.Contains(id) {
		s.receiving.Remove(id)
		s.enqueue(p)
	}
}

// Kill stops process id. If it is blocked on a binding, the binding's cancel
// func is invoked. Killing a finished process is a no-op.
func (s *Scheduler) Kill(id ID) {
	p, ok := s.procs[id]
	if !ok {
		return
	}

	if p.pending && p.cancel != nil {
		p.cancel()
	}

	p.killed = true
	p.root = nil
	p.pending = false
	p.cancel = nil
	p.stack = nil
	p.mailbox = nil

	s.receiving.Remove(id)
	delete(s.procs, id)

	s.log.V(2).Info("kill", "pid", id)
}

// Exec runs fn through the scheduler's executor.
func (s *Scheduler) Exec(fn func()) {
	s.exec.Do(fn)
}

// Inspect reports the state of process id. ok is false for IDs that were
// never handed out.
func (s *Scheduler) Inspect(id ID) (snap Snapshot, ok bool) {
	if id <= 0 || id > s.last {
		return Snapshot{}, false
	}

	p, alive := s.procs[id]
	if !alive {
		return Snapshot{State: StateDone}, true
	}

	snap = Snapshot{Stack: len(p.stack), Mailbox: len(p.mailbox), State: StateReady}
	switch {
	case p.pending:
		snap.State = StateBlocked
	case s.receiving.Contains(id):
		snap.State = StateReceiving
	}

	return snap, true
}

// Len returns the number of live processes.
func (s *Scheduler) Len() int {
	return len(s.procs)
}

// Close kills every live process.
func (s *Scheduler) Close() {
	for id := range s.procs {
		s.Kill(id)
	}
	s.queue = nil
}

func (s *Scheduler) enqueue(p *Process) {
	s.queue = append(s.queue, p)
	if s.working {
		return
	}

	s.working = true
	defer func() { s.working = false }()

	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]

		s.step(next)
	}
}

// step advances p until it blocks or finishes. It never recurses into
// continuations, so arbitrarily long AndThen chains run in constant Go stack.
func (s *Scheduler) step(p *Process) {
	for p.root != nil && !p.killed && !p.pending {
		t := p.root

		switch t.kind {
		case KindSucceed:
			fr, ok := p.pop(KindSucceed)
			if !ok {
				s.finish(p)
				return
			}
			p.root = fr.andThen(t.value)

		case KindFail:
			fr, ok := p.pop(KindFail)
			if !ok {
				s.finish(p)
				return
			}
			p.root = fr.onError(t.err)

		case KindBinding:
			s.block(p, t)
			return

		case KindReceive:
			if len(p.mailbox) == 0 {
				s.receiving.Add(p.id)
				return
			}
			p.root = t.receive(p.dequeue())

		case KindAndThen:
			p.push(frame{kind: KindSucceed, andThen: t.andThen})
			p.root = t.inner

		case KindOnError:
			p.push(frame{kind: KindFail, onError: t.onError})
			p.root = t.inner
		}
	}
}

func (s *Scheduler) block(p *Process, t *Task) {
	p.binding++
	p.pending = true
	gen := p.binding

	resolve := func(next *Task) {
		s.exec.Do(func() { s.resume(p, gen, next) })
	}

	var cancel func()
	if t.startWith != nil {
		cancel = t.startWith(s, resolve)
	} else {
		cancel = t.start(resolve)
	}

	// start may have resolved synchronously, or been killed from inside
	if p.pending && p.binding == gen {
		p.cancel = cancel
	}
}

func (s *Scheduler) resume(p *Process, gen uint64, next *Task) {
	if p.killed || !p.pending || p.binding != gen {
		s.log.V(2).Info("stale resolve ignored", "pid", p.id)
		return
	}

	p.pending = false
	p.cancel = nil
	p.root = next

	s.enqueue(p)
}

func (s *Scheduler) finish(p *Process) {
	if p.root.kind == KindFail {
		s.log.V(1).Info("unhandled task failure dropped", "pid", p.id, "err", p.root.err)
	}

	p.root = nil
	delete(s.procs, p.id)

	s.log.V(2).Info("done", "pid", p.id)
}
