package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

const (
	configKey    = "config"
	formatKey    = "format"
	historyKey   = "history"
	verbosityKey = "verbosity"
	verifyKey    = "verify"
)

func main() {
	cmd := &cli.Command{
		Name:  "teabench",
		Usage: "Benchmark the tea diff engine and scheduler",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  configKey,
				Usage: "YAML file describing the scenarios to run",
			},
			&cli.StringFlag{
				Name:  formatKey,
				Usage: "Output format, table or markdown",
				Value: formatTable,
			},
			&cli.StringFlag{
				Name:  historyKey,
				Usage: "bbolt file keeping the previous results, enables the delta column",
			},
			&cli.IntFlag{
				Name:    verbosityKey,
				Aliases: []string{"v"},
				Usage:   "Log verbosity",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "diff",
				Usage: "Time diffing and patching of list updates",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  verifyKey,
						Usage: "Compare every patched tree against a fresh render",
					},
				},
				Action: diff,
			},
			{
				Name:   "sched",
				Usage:  "Time the scheduler on task chains and mailboxes",
				Action: sched,
			},
			{
				Name:   "verify",
				Usage:  "Check that patching always matches a fresh render",
				Action: verify,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

type session struct {
	cfg  Config
	log  logr.Logger
	rp   reporter
	hist *history
}

func newSession(cmd *cli.Command) (*session, error) {
	stdr.SetVerbosity(int(cmd.Int(verbosityKey)))
	logger := stdr.New(log.New(os.Stderr, "teabench ", log.LstdFlags))

	cfg, err := loadConfig(cmd.String(configKey))
	if err != nil {
		return nil, err
	}

	fd := os.Stdout.Fd()
	s := &session{
		cfg: cfg,
		log: logger,
		rp: reporter{
			out:    os.Stdout,
			format: cmd.String(formatKey),
			color:  isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
		},
	}

	if path := cmd.String(historyKey); path != "" {
		if s.hist, err = openHistory(path); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// report renders results along with the delta to the previous run, then
// records them.
func (s *session) report(title string, results []result) error {
	var prev map[string]time.Duration
	if s.hist != nil {
		names := make([]string, len(results))
		for i, res := range results {
			names[i] = res.Name
		}

		var err error
		if prev, err = s.hist.previous(names); err != nil {
			return err
		}
	}

	if err := s.rp.render(title, results, prev); err != nil {
		return err
	}

	if s.hist != nil {
		return s.hist.record(results)
	}
	return nil
}

func (s *session) Close() error {
	if s.hist != nil {
		return s.hist.Close()
	}
	return nil
}

func diff(ctx context.Context, cmd *cli.Command) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	results := make([]result, 0, len(s.cfg.Diff))
	for _, sc := range s.cfg.Diff {
		if err := ctx.Err(); err != nil {
			return err
		}
		results = append(results, runDiff(sc, cmd.Bool(verifyKey), s.log))
	}
	return s.report("diff", results)
}

func sched(ctx context.Context, cmd *cli.Command) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	results := make([]result, 0, len(s.cfg.Sched))
	for _, sc := range s.cfg.Sched {
		if err := ctx.Err(); err != nil {
			return err
		}
		results = append(results, runSched(sc, s.log))
	}
	return s.report("scheduler", results)
}

func verify(ctx context.Context, cmd *cli.Command) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	results := make([]result, 0, len(s.cfg.Diff))
	failed := 0
	for _, sc := range s.cfg.Diff {
		if err := ctx.Err(); err != nil {
			return err
		}
		res := runDiff(sc, true, s.log)
		if res.Mismatches > 0 {
			failed++
		}
		results = append(results, res)
	}

	if err := s.rp.render("verify", results, nil); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios diverged from a fresh render", failed, len(results))
	}
	return nil
}
