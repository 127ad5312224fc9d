package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDiff(t *testing.T) {
	for name := range ops {
		for _, keyed := range []bool{true, false} {
			sc := DiffScenario{Name: name, Size: 20, Op: name, Keyed: keyed, Iterations: 25, Seed: 3}

			res := runDiff(sc, true, logr.Discard())
			assert.Zero(t, res.Mismatches, "%s keyed=%v", name, keyed)
			assert.Equal(t, 25, res.Metrics.Count)
		}
	}
}

func TestRunSched(t *testing.T) {
	for _, kind := range []string{"chain", "mailbox"} {
		res := runSched(SchedScenario{Name: kind, Kind: kind, Processes: 3, Depth: 10, Iterations: 2}, logr.Discard())
		assert.Equal(t, 60, res.Ops)
		assert.Equal(t, 2, res.Metrics.Count)
	}
}

func TestHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	res := runSched(SchedScenario{Name: "chain", Kind: "chain", Processes: 1, Depth: 1, Iterations: 1}, logr.Discard())

	h, err := openHistory(path)
	require.NoError(t, err)

	prev, err := h.previous([]string{"chain"})
	require.NoError(t, err)
	assert.Empty(t, prev)

	require.NoError(t, h.record([]result{res}))
	require.NoError(t, h.Close())

	h, err = openHistory(path)
	require.NoError(t, err)
	defer h.Close()

	prev, err = h.previous([]string{"chain", "other"})
	require.NoError(t, err)
	assert.Equal(t, map[string]time.Duration{"chain": res.Metrics.Time.Avg}, prev)
}

func TestReport(t *testing.T) {
	res := runDiff(DiffScenario{Name: "keyed-swap", Size: 5, Op: "swap", Keyed: true, Iterations: 2, Seed: 1}, false, logr.Discard())

	t.Run("markdown", func(t *testing.T) {
		var buf bytes.Buffer
		rp := reporter{out: &buf, format: formatMarkdown}
		require.NoError(t, rp.render("diff", []result{res}, nil))

		assert.Contains(t, buf.String(), "### diff")
		assert.Contains(t, buf.String(), "| scenario")
		assert.Contains(t, buf.String(), "keyed-swap")
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		rp := reporter{out: &buf, format: formatTable}
		require.NoError(t, rp.render("diff", []result{res}, map[string]time.Duration{"keyed-swap": time.Hour}))

		assert.Contains(t, buf.String(), "keyed-swap")
		assert.Contains(t, buf.String(), "-100.0%")
	})

	t.Run("unknown format", func(t *testing.T) {
		rp := reporter{out: &bytes.Buffer{}, format: "csv"}
		assert.Error(t, rp.render("diff", nil, nil))
	})
}

func TestDelta(t *testing.T) {
	assert.Equal(t, "-", delta(time.Second, 0))
	assert.Equal(t, "+50.0%", delta(3*time.Second, 2*time.Second))
	assert.Equal(t, "-25.0%", delta(3*time.Second, 4*time.Second))
}
