package tea

import (
	"maps"
	"slices"
	"time"

	"github.com/AnatoleLucet/tea/internal/fx"
	"github.com/AnatoleLucet/tea/internal/scheduler"
)

type (
	Manager = fx.Manager
	Router  = fx.Router
)

const (
	TaskHome = "Task"
	TimeHome = "Time"
)

type perform struct {
	task *Task
}

// Perform runs t and hands its value, through toMsg, to update. t is expected
// not to fail; use Attempt for tasks that can.
func Perform(t *Task, toMsg func(any) any) Cmd {
	return Command(TaskHome, perform{scheduler.Map(toMsg, t)})
}

// Attempt runs t and hands its outcome to update.
func Attempt(t *Task, toMsg func(v any, err error) any) Cmd {
	ok := scheduler.AndThen(func(v any) *Task { return Succeed(toMsg(v, nil)) }, t)
	return Command(TaskHome, perform{scheduler.OnError(func(err error) *Task {
		return Succeed(toMsg(nil, err))
	}, ok)})
}

func taskManager() Manager {
	return Manager{
		OnEffects: func(r *Router, cmds, _ []any, state any) *Task {
			spawns := make([]*Task, len(cmds))
			for i, cmd := range cmds {
				spawns[i] = scheduler.SpawnTask(scheduler.AndThen(r.SendToApp, cmd.(perform).task))
			}
			return scheduler.Map(func(any) any { return state }, scheduler.Sequence(spawns))
		},
		CmdMap: func(tagger func(any) any, v any) any {
			return perform{scheduler.Map(tagger, v.(perform).task)}
		},
	}
}

type every struct {
	interval time.Duration
	tagger   func(time.Time) any
}

// Every sends toMsg(now) to update every interval for as long as the
// subscription is active. Subscriptions sharing an interval share one timer.
func Every(interval time.Duration, toMsg func(time.Time) any) Sub {
	return Subscription(TimeHome, every{interval, toMsg})
}

type timeState struct {
	taggers   map[time.Duration][]func(time.Time) any
	processes map[time.Duration]scheduler.ID
}

func timeManager() Manager {
	return Manager{
		Init: Succeed(&timeState{
			taggers:   map[time.Duration][]func(time.Time) any{},
			processes: map[time.Duration]scheduler.ID{},
		}),
		OnEffects: func(r *Router, _, subs []any, state any) *Task {
			old := state.(*timeState)
			next := &timeState{
				taggers:   map[time.Duration][]func(time.Time) any{},
				processes: map[time.Duration]scheduler.ID{},
			}
			for _, sub := range subs {
				e := sub.(every)
				next.taggers[e.interval] = append(next.taggers[e.interval], e.tagger)
			}

			var tasks []*Task
			for _, interval := range slices.Sorted(maps.Keys(old.processes)) {
				id := old.processes[interval]
				if _, ok := next.taggers[interval]; ok {
					next.processes[interval] = id
					continue
				}
				tasks = append(tasks, scheduler.KillTask(id))
			}
			for _, interval := range slices.Sorted(maps.Keys(next.taggers)) {
				if _, ok := next.processes[interval]; ok {
					continue
				}
				spawn := scheduler.SpawnTask(scheduler.Every(interval, r.SendToSelf(interval)))
				tasks = append(tasks, scheduler.AndThen(func(id any) *Task {
					next.processes[interval] = id.(scheduler.ID)
					return Succeed(nil)
				}, spawn))
			}

			return scheduler.Map(func(any) any { return next }, scheduler.Sequence(tasks))
		},
		OnSelfMsg: func(r *Router, msg, state any) *Task {
			st := state.(*timeState)
			taggers := st.taggers[msg.(time.Duration)]
			if len(taggers) == 0 {
				return Succeed(state)
			}

			return scheduler.AndThen(func(now any) *Task {
				sends := make([]*Task, len(taggers))
				for i, tagger := range taggers {
					sends[i] = r.SendToApp(tagger(now.(time.Time)))
				}
				return scheduler.Map(func(any) any { return state }, scheduler.Sequence(sends))
			}, Now())
		},
		SubMap: func(tagger func(any) any, v any) any {
			e := v.(every)
			return every{e.interval, func(t time.Time) any { return tagger(e.tagger(t)) }}
		},
	}
}
