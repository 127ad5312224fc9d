package scheduler

import "time"

// Kind tags the variant of a Task.
type Kind uint8

const (
	KindSucceed Kind = iota
	KindFail
	KindBinding
	KindAndThen
	KindOnError
	KindReceive
)

func (k Kind) String() string {
	switch k {
	case KindSucceed:
		return "succeed"
	case KindFail:
		return "fail"
	case KindBinding:
		return "binding"
	case KindAndThen:
		return "andThen"
	case KindOnError:
		return "onError"
	case KindReceive:
		return "receive"
	}
	return "unknown"
}

// Task is an immutable description of deferred work. Nothing happens until a
// Scheduler steps a process whose root is the task.
type Task struct {
	kind Kind

	value any
	err   error

	// binding start; exactly one of the two is set
	start     func(resolve func(*Task)) (cancel func())
	startWith func(s *Scheduler, resolve func(*Task)) (cancel func())

	andThen func(any) *Task
	onError func(error) *Task
	receive func(any) *Task

	inner *Task
}

func (t *Task) Kind() Kind { return t.kind }

// Succeed creates a task that completes with v.
func Succeed(v any) *Task {
	return &Task{kind: KindSucceed, value: v}
}

// Fail creates a task that fails with err.
func Fail(err error) *Task {
	return &Task{kind: KindFail, err: err}
}

// Binding creates a task that crosses an asynchronous boundary. start is
// invoked when a process reaches the task; it must eventually call resolve
// with the next task, from any goroutine. The returned cancel func (may be
// nil) is invoked if the process is killed while blocked on the binding.
func Binding(start func(resolve func(*Task)) (cancel func())) *Task {
	return &Task{kind: KindBinding, start: start}
}

// bindingWith is a Binding whose start needs the scheduler running it.
func bindingWith(start func(s *Scheduler, resolve func(*Task)) (cancel func())) *Task {
	return &Task{kind: KindBinding, startWith: start}
}

// AndThen runs inner and feeds its success value to fn.
func AndThen(fn func(any) *Task, inner *Task) *Task {
	return &Task{kind: KindAndThen, andThen: fn, inner: inner}
}

// OnError runs inner and feeds its failure to fn.
func OnError(fn func(error) *Task, inner *Task) *Task {
	return &Task{kind: KindOnError, onError: fn, inner: inner}
}

// Receive blocks until the process mailbox holds a message.
func Receive(fn func(msg any) *Task) *Task {
	return &Task{kind: KindReceive, receive: fn}
}

// Map transforms the success value of t.
func Map(fn func(any) any, t *Task) *Task {
	return AndThen(func(v any) *Task { return Succeed(fn(v)) }, t)
}

// MapError transforms the failure of t.
func MapError(fn func(error) error, t *Task) *Task {
	return OnError(func(err error) *Task { return Fail(fn(err)) }, t)
}

// Sequence runs tasks one after another and succeeds with all their values.
// The first failure aborts the rest.
func Sequence(tasks []*Task) *Task {
	var step func(i int, acc []any) *Task
	step = func(i int, acc []any) *Task {
		if i == len(tasks) {
			return Succeed(acc)
		}
		return AndThen(func(v any) *Task {
			// the task may run more than once, so never share acc's backing array
			return step(i+1, append(acc[:len(acc):len(acc)], v))
		}, tasks[i])
	}
	return step(0, make([]any, 0, len(tasks)))
}

// SpawnTask starts t as a new process and succeeds with its ID.
func SpawnTask(t *Task) *Task {
	return bindingWith(func(s *Scheduler, resolve func(*Task)) func() {
		resolve(Succeed(s.Spawn(t)))
		return nil
	})
}

// KillTask kills the process id and succeeds with nil.
func KillTask(id ID) *Task {
	return bindingWith(func(s *Scheduler, resolve func(*Task)) func() {
		s.Kill(id)
		resolve(Succeed(nil))
		return nil
	})
}

// SendTask posts msg to the mailbox of process id and succeeds with nil.
func SendTask(id ID, msg any) *Task {
	return bindingWith(func(s *Scheduler, resolve func(*Task)) func() {
		s.Send(id, msg)
		resolve(Succeed(nil))
		return nil
	})
}

// Sleep succeeds with nil after d. Killing the process stops the timer.
func Sleep(d time.Duration) *Task {
	return Binding(func(resolve func(*Task)) func() {
		timer := time.AfterFunc(d, func() { resolve(Succeed(nil)) })
		return func() { timer.Stop() }
	})
}

// Every spawns t every interval until the process running Every is killed.
func Every(interval time.Duration, t *Task) *Task {
	return bindingWith(func(s *Scheduler, _ func(*Task)) func() {
		ticker := time.NewTicker(interval)
		stop := make(chan struct{})
		go func() {
			for {
				select {
				case <-ticker.C:
					s.Exec(func() { s.Spawn(t) })
				case <-stop:
					return
				}
			}
		}()
		return func() {
			ticker.Stop()
			close(stop)
		}
	})
}
