package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/AnatoleLucet/tea/vdom"
)

type Config struct {
	Diff  []DiffScenario  `yaml:"diff"`
	Sched []SchedScenario `yaml:"sched"`
}

// DiffScenario repeatedly applies Op to a list of Size items and measures
// diffing and patching the rendered list.
type DiffScenario struct {
	Name       string `yaml:"name"`
	Size       int    `yaml:"size"`
	Op         string `yaml:"op"`
	Keyed      bool   `yaml:"keyed"`
	Iterations int    `yaml:"iterations"`
	Seed       uint64 `yaml:"seed"`
}

// SchedScenario measures the scheduler. Kind "chain" spawns Processes
// processes each running Depth chained tasks; kind "mailbox" sends Depth
// messages to each of Processes receivers.
type SchedScenario struct {
	Name       string `yaml:"name"`
	Kind       string `yaml:"kind"`
	Processes  int    `yaml:"processes"`
	Depth      int    `yaml:"depth"`
	Iterations int    `yaml:"iterations"`
}

var ops = map[string]func(r *rand.Rand, items []int, next *int) []int{
	"shuffle": func(r *rand.Rand, items []int, _ *int) []int {
		r.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
		return items
	},
	"reverse": func(_ *rand.Rand, items []int, _ *int) []int {
		slices.Reverse(items)
		return items
	},
	"swap": func(r *rand.Rand, items []int, _ *int) []int {
		if len(items) > 1 {
			i := r.IntN(len(items) - 1)
			items[i], items[i+1] = items[i+1], items[i]
		}
		return items
	},
	"rotate": func(_ *rand.Rand, items []int, next *int) []int {
		// drop the head and add a fresh item at the tail
		if len(items) > 0 {
			items = items[1:]
		}
		*next++
		return append(items, *next)
	},
	"insert": func(r *rand.Rand, items []int, next *int) []int {
		*next++
		return slices.Insert(items, r.IntN(len(items)+1), *next)
	},
	"remove": func(r *rand.Rand, items []int, next *int) []int {
		if len(items) == 0 {
			*next++
			return append(items, *next)
		}
		i := r.IntN(len(items))
		return slices.Delete(items, i, i+1)
	},
}

func (sc DiffScenario) validate() error {
	if _, ok := ops[sc.Op]; !ok {
		return fmt.Errorf("scenario %q: unknown op %q", sc.Name, sc.Op)
	}
	if sc.Size < 0 || sc.Iterations <= 0 {
		return fmt.Errorf("scenario %q: size must be >= 0 and iterations > 0", sc.Name)
	}
	return nil
}

func (sc SchedScenario) validate() error {
	if sc.Kind != "chain" && sc.Kind != "mailbox" {
		return fmt.Errorf("scenario %q: unknown kind %q", sc.Name, sc.Kind)
	}
	if sc.Processes <= 0 || sc.Depth <= 0 || sc.Iterations <= 0 {
		return fmt.Errorf("scenario %q: processes, depth and iterations must be > 0", sc.Name)
	}
	return nil
}

func defaultConfig() Config {
	var cfg Config
	for _, op := range []string{"shuffle", "reverse", "swap", "rotate", "insert", "remove"} {
		cfg.Diff = append(cfg.Diff, DiffScenario{
			Name: "keyed-" + op, Size: 1_000, Op: op, Keyed: true, Iterations: 200, Seed: 1,
		})
	}
	cfg.Diff = append(cfg.Diff, DiffScenario{
		Name: "indexed-shuffle", Size: 1_000, Op: "shuffle", Iterations: 200, Seed: 1,
	})
	cfg.Sched = []SchedScenario{
		{Name: "chain", Kind: "chain", Processes: 1_000, Depth: 100, Iterations: 50},
		{Name: "mailbox", Kind: "mailbox", Processes: 100, Depth: 1_000, Iterations: 50},
	}
	return cfg
}

// loadConfig reads a scenario file. An empty path yields the default scenarios.
func loadConfig(path string) (Config, error) {
	if path == "" {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	for _, sc := range cfg.Diff {
		if err := sc.validate(); err != nil {
			return Config{}, err
		}
	}
	for _, sc := range cfg.Sched {
		if err := sc.validate(); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

func listView(items []int, keyed bool) vdom.Node {
	if !keyed {
		kids := make([]vdom.Node, len(items))
		for i, item := range items {
			kids[i] = row(item)
		}
		return vdom.El("ul", nil, kids...)
	}

	kids := make([]vdom.KeyedChild, len(items))
	for i, item := range items {
		kids[i] = vdom.Key(strconv.Itoa(item), row(item))
	}
	return vdom.Keyed("ul", nil, kids...)
}

func row(item int) vdom.Node {
	return vdom.El("li", []vdom.Attribute{vdom.Class("row"), vdom.OnClick(item)}, vdom.TextNode(strconv.Itoa(item)))
}
