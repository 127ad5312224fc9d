package fx

import (
	"fmt"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnatoleLucet/tea/internal/scheduler"
)

// recorder is a manager that keeps every effects batch it receives.
func recorder(batches *[][]any, subs *[][]any) Manager {
	return Manager{
		OnEffects: func(r *Router, cmds, ss []any, state any) *scheduler.Task {
			*batches = append(*batches, cmds)
			if subs != nil {
				*subs = append(*subs, ss)
			}
			return scheduler.Succeed(state)
		},
		CmdMap: func(tagger func(any) any, v any) any { return tagger(v) },
		SubMap: func(tagger func(any) any, v any) any { return tagger(v) },
	}
}

// echo answers every command by sending it straight back to the app.
func echo() Manager {
	return Manager{
		OnEffects: func(r *Router, cmds, _ []any, state any) *scheduler.Task {
			tasks := make([]*scheduler.Task, len(cmds))
			for i, cmd := range cmds {
				tasks[i] = r.SendToApp(cmd)
			}
			return scheduler.Map(func(any) any { return state }, scheduler.Sequence(tasks))
		},
	}
}

func newRegistry() (*scheduler.Scheduler, *Registry) {
	sched := scheduler.New(nil, logr.Discard())
	return sched, NewRegistry(sched, logr.Discard())
}

func TestRegister(t *testing.T) {
	t.Run("rejects a second manager for a home", func(t *testing.T) {
		_, reg := newRegistry()

		require.NoError(t, reg.Register("rec", Manager{}))
		err := reg.Register("rec", Manager{})

		assert.ErrorIs(t, err, ErrDuplicateManager)
		assert.ErrorContains(t, err, `"rec"`)
		assert.Equal(t, []string{"rec"}, reg.Homes())
	})

	t.Run("setup spawns one process per manager", func(t *testing.T) {
		sched, reg := newRegistry()

		require.NoError(t, reg.Register("a", Manager{}))
		require.NoError(t, reg.Register("b", Manager{}))
		reg.Setup(func(any) {})

		assert.Equal(t, 2, sched.Len())
		assert.True(t, reg.Has("a"))
		assert.False(t, reg.Has("c"))

		reg.Close()
		assert.Equal(t, 0, sched.Len())
	})

	t.Run("managers registered after setup start immediately", func(t *testing.T) {
		sched, reg := newRegistry()
		reg.Setup(func(any) {})

		require.NoError(t, reg.Register("late", Manager{}))
		assert.Equal(t, 1, sched.Len())
	})
}

func TestDispatch(t *testing.T) {
	t.Run("every manager receives a batch", func(t *testing.T) {
		_, reg := newRegistry()

		var a, b [][]any
		require.NoError(t, reg.Register("a", recorder(&a, nil)))
		require.NoError(t, reg.Register("b", recorder(&b, nil)))
		reg.Setup(func(any) {})

		reg.Dispatch(Batch{Leaf{"a", 1}, Leaf{"a", 2}}, nil)

		assert.Equal(t, [][]any{{1, 2}}, a)
		assert.Equal(t, [][]any{nil}, b)
	})

	t.Run("taggers apply innermost first", func(t *testing.T) {
		_, reg := newRegistry()

		var cmds, subs [][]any
		require.NoError(t, reg.Register("rec", recorder(&cmds, &subs)))
		reg.Setup(func(any) {})

		wrap := func(name string) func(any) any {
			return func(v any) any { return fmt.Sprintf("%s(%v)", name, v) }
		}

		reg.Dispatch(
			Mapped{wrap("outer"), Batch{Leaf{"rec", "x"}, Mapped{wrap("inner"), Leaf{"rec", "y"}}}},
			Mapped{wrap("sub"), Leaf{"rec", "z"}},
		)

		assert.Equal(t, [][]any{{"outer(x)", "outer(inner(y))"}}, cmds)
		assert.Equal(t, [][]any{{"sub(z)"}}, subs)
	})

	t.Run("effects for unknown homes are dropped", func(t *testing.T) {
		_, reg := newRegistry()

		var got [][]any
		require.NoError(t, reg.Register("rec", recorder(&got, nil)))
		reg.Setup(func(any) {})

		reg.Dispatch(Batch{Leaf{"nowhere", 1}, Leaf{"rec", 2}, Leaf{"nowhere", 3}}, nil)

		assert.Equal(t, [][]any{{2}}, got)
	})

	t.Run("self messages reach OnSelfMsg with the current state", func(t *testing.T) {
		_, reg := newRegistry()

		log := []string{}
		require.NoError(t, reg.Register("self", Manager{
			Init: scheduler.Succeed(0),
			OnEffects: func(r *Router, cmds, _ []any, state any) *scheduler.Task {
				tasks := make([]*scheduler.Task, len(cmds))
				for i, cmd := range cmds {
					tasks[i] = r.SendToSelf(cmd)
				}
				return scheduler.Map(func(any) any { return state.(int) + 1 }, scheduler.Sequence(tasks))
			},
			OnSelfMsg: func(r *Router, msg, state any) *scheduler.Task {
				log = append(log, fmt.Sprintf("%v@%v", msg, state))
				return scheduler.Succeed(state)
			},
		}))
		reg.Setup(func(any) {})

		reg.Dispatch(Leaf{"self", "ping"}, nil)

		assert.Equal(t, []string{"ping@1"}, log)
	})
}

func TestQueue(t *testing.T) {
	t.Run("managers see effects in production order", func(t *testing.T) {
		_, reg := newRegistry()
		q := NewQueue(reg)

		var rec [][]any
		require.NoError(t, reg.Register("echo", echo()))
		require.NoError(t, reg.Register("rec", recorder(&rec, nil)))

		app := []any{}
		reg.Setup(func(msg any) {
			app = append(app, msg)
			if msg == "first" {
				q.Enqueue(Leaf{"rec", "second"}, nil)
			}
		})

		q.Enqueue(Batch{Leaf{"echo", "first"}, Leaf{"rec", "first"}}, nil)

		assert.Equal(t, []any{"first"}, app)
		assert.Equal(t, [][]any{{"first"}, {"second"}}, rec)
		assert.Equal(t, 0, q.Len())
	})

	t.Run("nested enqueues are deferred", func(t *testing.T) {
		log := []string{}
		var q *Queue
		q = NewQueue(dispatchFunc(func(cmd, _ Bag) {
			leaf := cmd.(Leaf)
			log = append(log, "start "+leaf.Home)
			if leaf.Home == "a" {
				q.Enqueue(Leaf{Home: "b"}, nil)
				q.Enqueue(Leaf{Home: "c"}, nil)
			}
			log = append(log, "end "+leaf.Home)
		}))

		q.Enqueue(Leaf{Home: "a"}, nil)

		assert.Equal(t, []string{"start a", "end a", "start b", "end b", "start c", "end c"}, log)
	})
}

type dispatchFunc func(cmd, sub Bag)

func (f dispatchFunc) Dispatch(cmd, sub Bag) { f(cmd, sub) }
