package scheduler

// ID is the handle of a process. Processes are only ever reached through
// their ID; the scheduler owns them.
type ID int64

type frame struct {
	// KindSucceed frames come from AndThen, KindFail frames from OnError
	kind Kind

	andThen func(any) *Task
	onError func(error) *Task
}

type Process struct {
	id ID

	// nil once the process finished or was killed
	root *Task

	stack   []frame
	mailbox []any

	// set while blocked on a binding; binding is bumped each time a binding
	// starts so stale resolves can be told apart
	pending bool
	binding uint64
	cancel  func()

	killed bool
}

func (p *Process) ID() ID { return p.id }

// pop discards frames until one of the given polarity is found.
func (p *Process) pop(kind Kind) (frame, bool) {
	for len(p.stack) > 0 {
		last := len(p.stack) - 1
		fr := p.stack[last]
		p.stack[last] = frame{}
		p.stack = p.stack[:last]

		if fr.kind == kind {
			return fr, true
		}
	}

	return frame{}, false
}

func (p *Process) push(fr frame) {
	p.stack = append(p.stack, fr)
}

func (p *Process) dequeue() any {
	msg := p.mailbox[0]
	p.mailbox[0] = nil
	p.mailbox = p.mailbox[1:]
	return msg
}

// State describes what a process is doing.
type State uint8

const (
	StateDone State = iota
	StateReady
	StateBlocked
	StateReceiving
)

func (s State) String() string {
	switch s {
	case StateDone:
		return "done"
	case StateReady:
		return "ready"
	case StateBlocked:
		return "blocked"
	case StateReceiving:
		return "receiving"
	}
	return "unknown"
}

// Snapshot is a read-only view of a process.
type Snapshot struct {
	State   State
	Stack   int
	Mailbox int
}
