// Package report renders a summary snapshot as the plain-text amavis report.
package report

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hejijunhao/amavislog/internal/engine/router"
	"github.com/hejijunhao/amavislog/internal/engine/summary"
)

// Tags shown in the per-hour table. Other action tags only appear in the totals.
const (
	BlockedTag = "Blocked SPAM"
	PassedTag  = "Passed CLEAN"
)

// Options controls the parts of the report that do not come from the snapshot.
type Options struct {
	Service     string     // used in the title; "amavis" if empty
	Day         *time.Time // when set, the title names the day
	ShowStartup bool       // list startup lines instead of "none"
}

// Render writes the report for snap to w.
func Render(w io.Writer, snap summary.Snapshot, opts Options) error {
	bw := bufio.NewWriter(w)
	writeTitle(bw, opts)
	writeTotals(bw, snap)
	writeHours(bw, snap)
	writeList(bw, "INFO messages", snap.Info, len(snap.Info) > 0)
	writeList(bw, "(!) messages", snap.Errors, len(snap.Errors) > 0)
	writeList(bw, "startup details", snap.Startup, opts.ShowStartup)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("report: write: %w", err)
	}
	return nil
}

// String renders the report into a string.
func String(snap summary.Snapshot, opts Options) string {
	var sb strings.Builder
	Render(&sb, snap, opts) // strings.Builder never fails
	return sb.String()
}

func writeTitle(w io.Writer, opts Options) {
	service := opts.Service
	if service == "" {
		service = "amavis"
	}
	if opts.Day != nil {
		fmt.Fprintf(w, "%s log summaries for %s\n", service, opts.Day.Format("Jan 02"))
	} else {
		fmt.Fprintf(w, "%s log summaries\n", service)
	}
	fmt.Fprintln(w)
}

func writeTotals(w io.Writer, snap summary.Snapshot) {
	fmt.Fprintln(w, "Grand Totals")
	fmt.Fprintln(w, "------------")
	fmt.Fprintln(w)

	total := snap.Total()
	pad := 1
	for _, tc := range snap.Totals {
		if n := len(strconv.Itoa(tc.Count)); n > pad {
			pad = n
		}
	}

	fmt.Fprintf(w, "%*d   total processed\n", pad, total)

	totals := append([]summary.TagCount(nil), snap.Totals...)
	sort.Slice(totals, func(i, j int) bool { return totals[i].Tag < totals[j].Tag })
	for _, tc := range totals {
		if router.IsBlocked(tc.Tag) {
			fmt.Fprintf(w, "%*d   %s (%.1f%%)\n", pad, tc.Count, tc.Tag, Percent(tc.Count, total))
		} else {
			fmt.Fprintf(w, "%*d   %s\n", pad, tc.Count, tc.Tag)
		}
	}
}

// Percent returns 100*n/total, or 0 when total is 0.
func Percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func writeHours(w io.Writer, snap summary.Snapshot) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Per-Hour Summary")
	fmt.Fprintln(w, "----------------")
	fmt.Fprintf(w, "%-9s %9s %9s\n", "time", "blocked", "passed")
	for _, row := range snap.Hours {
		fmt.Fprintf(w, "%02d00-%02d00 %9d %9d\n", row.Hour, row.Hour+1, row.Counts[BlockedTag], row.Counts[PassedTag])
	}
	fmt.Fprintln(w)
}

func writeList(w io.Writer, title string, lines []string, show bool) {
	fmt.Fprintln(w)
	if !show {
		fmt.Fprintf(w, "%s: none\n", title)
		return
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}
