package tea

import (
	"time"

	"github.com/AnatoleLucet/tea/internal/scheduler"
)

type (
	Task      = scheduler.Task
	ProcessID = scheduler.ID
)

func Succeed(v any) *Task { return scheduler.Succeed(v) }

func Fail(err error) *Task { return scheduler.Fail(err) }

// Binding wraps a callback based operation. See scheduler.Binding.
func Binding(start func(resolve func(*Task)) (cancel func())) *Task {
	return scheduler.Binding(start)
}

func AndThen(fn func(any) *Task, t *Task) *Task { return scheduler.AndThen(fn, t) }

func OnError(fn func(error) *Task, t *Task) *Task { return scheduler.OnError(fn, t) }

func MapTask(fn func(any) any, t *Task) *Task { return scheduler.Map(fn, t) }

func Sequence(tasks ...*Task) *Task { return scheduler.Sequence(tasks) }

// Sleep succeeds with nil after d.
func Sleep(d time.Duration) *Task { return scheduler.Sleep(d) }

// Now succeeds with the current time without waiting.
func Now() *Task {
	return scheduler.Binding(func(resolve func(*Task)) func() {
		resolve(scheduler.Succeed(time.Now()))
		return nil
	})
}

// Spawn runs t in a new process and succeeds with its ProcessID.
func Spawn(t *Task) *Task { return scheduler.SpawnTask(t) }

// Kill stops the process id.
func Kill(id ProcessID) *Task { return scheduler.KillTask(id) }
