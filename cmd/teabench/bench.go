package main

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/go-logr/logr"
	"github.com/jamiealquiza/tachymeter"

	"github.com/AnatoleLucet/tea/dom"
	"github.com/AnatoleLucet/tea/internal/scheduler"
	"github.com/AnatoleLucet/tea/vdom"
)

type result struct {
	Name    string
	Metrics *tachymeter.Metrics
	Ops     int
	// size of the final tree's HTML, diff scenarios only
	Bytes int
	// structural hash mismatches, diff scenarios only
	Mismatches int
}

// runDiff measures Diff plus Apply over sc.Iterations list updates. With
// check set, every patched tree is compared against a fresh render.
func runDiff(sc DiffScenario, check bool, log logr.Logger) result {
	r := rand.New(rand.NewPCG(sc.Seed, sc.Seed))
	op := ops[sc.Op]

	items := make([]int, sc.Size)
	for i := range items {
		items[i] = i
	}
	next := sc.Size

	sink := func(any, bool) {}
	x := listView(items, sc.Keyed)
	live := vdom.Render(x, sink)

	tach := tachymeter.New(&tachymeter.Config{Size: sc.Iterations})
	res := result{Name: sc.Name}

	for i := 0; i < sc.Iterations; i++ {
		items = op(r, slices.Clone(items), &next)
		y := listView(items, sc.Keyed)

		start := time.Now()
		patches := vdom.Diff(x, y)
		live = vdom.Apply(live, x, patches, sink)
		tach.AddTime(time.Since(start))

		res.Ops += len(patches)
		if check && dom.Fingerprint(live) != dom.Fingerprint(vdom.Render(y, sink)) {
			res.Mismatches++
			log.Info("patched tree differs from a fresh render", "scenario", sc.Name, "iteration", i)
		}
		x = y
	}

	res.Metrics = tach.Calc()
	res.Bytes = len(live.String())
	log.V(1).Info("diff scenario done", "scenario", sc.Name, "patches", res.Ops)
	return res
}

// runSched measures how long the scheduler takes to drain sc's workload.
func runSched(sc SchedScenario, log logr.Logger) result {
	tach := tachymeter.New(&tachymeter.Config{Size: sc.Iterations})
	res := result{Name: sc.Name}

	for i := 0; i < sc.Iterations; i++ {
		s := scheduler.New(nil, log.WithName("scheduler"))

		start := time.Now()
		switch sc.Kind {
		case "chain":
			for p := 0; p < sc.Processes; p++ {
				s.Spawn(chain(sc.Depth))
			}
		case "mailbox":
			ids := make([]scheduler.ID, sc.Processes)
			for p := range ids {
				ids[p] = s.Spawn(receiver(sc.Depth))
			}
			for m := 0; m < sc.Depth; m++ {
				for _, id := range ids {
					s.Send(id, m)
				}
			}
		}
		tach.AddTime(time.Since(start))

		if n := s.Len(); n != 0 {
			panic(fmt.Sprintf("teabench: %d processes left after %s", n, sc.Name))
		}
		res.Ops += sc.Processes * sc.Depth
	}

	res.Metrics = tach.Calc()
	return res
}

func chain(depth int) *scheduler.Task {
	t := scheduler.Succeed(0)
	for i := 0; i < depth; i++ {
		t = scheduler.AndThen(func(v any) *scheduler.Task { return scheduler.Succeed(v.(int) + 1) }, t)
	}
	return t
}

// receiver handles n messages then finishes.
func receiver(n int) *scheduler.Task {
	if n == 0 {
		return scheduler.Succeed(nil)
	}
	return scheduler.Receive(func(any) *scheduler.Task { return receiver(n - 1) })
}
