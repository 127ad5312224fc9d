package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/olekukonko/tablewriter"
)

const (
	formatTable    = "table"
	formatMarkdown = "markdown"
)

type reporter struct {
	out    io.Writer
	format string
	color  bool
}

var header = []string{"scenario", "runs", "ops", "avg", "min", "p75", "p99", "max", "html", "mismatches", "Δ avg"}

func (rp reporter) render(title string, results []result, prev map[string]time.Duration) error {
	rows := make([][]string, len(results))
	for i, res := range results {
		rows[i] = cells(res, prev)
	}

	switch rp.format {
	case formatTable:
		tbl := table.NewWriter()
		tbl.SetTitle(title)
		tbl.SetOutputMirror(rp.out)
		if rp.color {
			tbl.SetStyle(table.StyleColoredBright)
		} else {
			tbl.SetStyle(table.StyleLight)
		}
		tbl.AppendHeader(toRow(header))
		for _, r := range rows {
			tbl.AppendRow(toRow(r))
		}
		tbl.Render()

	case formatMarkdown:
		fmt.Fprintf(rp.out, "### %s\n\n", title)
		tbl := tablewriter.NewWriter(rp.out)
		tbl.SetHeader(header)
		tbl.SetAutoFormatHeaders(false)
		tbl.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
		tbl.SetCenterSeparator("|")
		tbl.AppendBulk(rows)
		tbl.Render()
		fmt.Fprintln(rp.out)

	default:
		return fmt.Errorf("unknown format %q", rp.format)
	}

	return nil
}

func cells(res result, prev map[string]time.Duration) []string {
	m := res.Metrics
	html := "-"
	if res.Bytes > 0 {
		html = humanize.Bytes(uint64(res.Bytes))
	}

	return []string{
		res.Name,
		humanize.Comma(int64(m.Count)),
		humanize.Comma(int64(res.Ops)),
		m.Time.Avg.String(),
		m.Time.Min.String(),
		m.Time.P75.String(),
		m.Time.P99.String(),
		m.Time.Max.String(),
		html,
		humanize.Comma(int64(res.Mismatches)),
		delta(m.Time.Avg, prev[res.Name]),
	}
}

func delta(avg, prev time.Duration) string {
	if prev <= 0 {
		return "-"
	}
	return fmt.Sprintf("%+.1f%%", (float64(avg)-float64(prev))/float64(prev)*100)
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
