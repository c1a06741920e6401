package reporter

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/uscope-bench/uscope/format"
)

var ansiEscapes = regexp.MustCompile("\x1b\\[[0-9;]*m")

func normalRun() Run {
	return Run{
		Name:                "demo",
		Iterations:          1000,
		RealAccumulatedTime: 12.34e-6,
		CPUAccumulatedTime:  12.0e-6,
		TimeUnit:            Nanosecond,
		Counters: []Counter{
			{Name: "bytes", Value: 2048, Base: format.Base1000},
		},
	}
}

func lastLine(t *testing.T, buf *bytes.Buffer) string {
	t.Helper()
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) == 0 {
		t.Fatal("no output produced")
	}
	return lines[len(lines)-1]
}

func TestReportRunNormalLine(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, 0)
	r.ReportContext(Context{NameFieldWidth: 10})
	r.ReportRun(normalRun())

	want := "demo             12.3 ns         12.0 ns         1000 bytes=2.048k"
	if got := lastLine(t, &buf); got != want {
		t.Fatalf("unexpected result line:\ngot  %q\nwant %q", got, want)
	}
}

func TestReportRunTabularCounters(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, Tabular)
	r.ReportContext(Context{NameFieldWidth: 10})
	r.ReportRun(normalRun())

	// Counter right-aligned in a 10-wide column, no unit for a non-rate value.
	want := "demo             12.3 ns         12.0 ns         1000     2.048k"
	if got := lastLine(t, &buf); got != want {
		t.Fatalf("unexpected result line:\ngot  %q\nwant %q", got, want)
	}
}

func TestReportRunRateCounterSuffixes(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, 0)
	run := normalRun()
	run.Counters = []Counter{
		{Name: "items", Value: 1000, Base: format.Base1000, Flags: IsRate},
		{Name: "latency", Value: 0.0005, Base: format.Base1000, Flags: IsRate | Invert},
	}
	r.ReportRun(run)

	line := lastLine(t, &buf)
	if !strings.Contains(line, " items=1k/s") {
		t.Fatalf("missing rate suffix: %q", line)
	}
	if !strings.Contains(line, " latency=500us") {
		t.Fatalf("missing inverted rate suffix: %q", line)
	}
}

func TestReportRunErrorLine(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, 0)
	r.ReportContext(Context{NameFieldWidth: 10})
	r.ReportRun(Run{Name: "broken", Skipped: SkippedWithError, SkipMessage: "boom"})

	want := "broken     ERROR OCCURRED: 'boom'"
	if got := lastLine(t, &buf); got != want {
		t.Fatalf("unexpected error line:\ngot  %q\nwant %q", got, want)
	}
}

func TestReportRunSkipLine(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, 0)
	r.ReportContext(Context{NameFieldWidth: 10})
	r.ReportRun(Run{Name: "flaky", Skipped: SkippedWithMessage, SkipMessage: "no fixture"})

	want := "flaky      SKIPPED: 'no fixture'"
	if got := lastLine(t, &buf); got != want {
		t.Fatalf("unexpected skip line:\ngot  %q\nwant %q", got, want)
	}
}

func TestColorOutputIsDropInSubstitution(t *testing.T) {
	var plain, colored bytes.Buffer
	NewConsoleReporter(&plain, 0).ReportRun(normalRun())
	NewConsoleReporter(&colored, Color).ReportRun(normalRun())

	if !strings.Contains(colored.String(), "\x1b[0;32m") {
		t.Fatalf("missing green name field: %q", colored.String())
	}
	if !strings.Contains(colored.String(), "\x1b[0;36m") {
		t.Fatalf("missing cyan iteration field: %q", colored.String())
	}
	if !strings.Contains(colored.String(), "\x1b[m") {
		t.Fatalf("missing color reset: %q", colored.String())
	}
	stripped := ansiEscapes.ReplaceAllString(colored.String(), "")
	if stripped != plain.String() {
		t.Fatalf("color output diverges from plain text:\ngot  %q\nwant %q", stripped, plain.String())
	}
}

func TestReportRunComplexityLayout(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, Color)
	run := Run{
		Name:                "fit",
		ReportBigO:          true,
		Complexity:          ONSquared,
		RealAccumulatedTime: 1.5e-8,
		CPUAccumulatedTime:  1.5e-8,
		TimeUnit:            Nanosecond,
	}
	r.ReportRun(run)

	out := buf.String()
	if !strings.Contains(out, "\x1b[0;34m") {
		t.Fatalf("complexity result name not blue: %q", out)
	}
	line := ansiEscapes.ReplaceAllString(out, "")
	if !strings.Contains(line, "15 N^2") {
		t.Fatalf("missing complexity tag: %q", line)
	}
	if strings.Contains(line, "1000") {
		t.Fatalf("iteration field printed in complexity mode: %q", line)
	}
}

func TestReportRunRMSLayout(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, 0)
	run := Run{
		Name:                "fit_rms",
		ReportRMS:           true,
		RealAccumulatedTime: 0.05,
		CPUAccumulatedTime:  0.05,
		TimeUnit:            Second,
	}
	r.ReportRun(run)

	line := lastLine(t, &buf)
	if !strings.Contains(line, "         5 %") {
		t.Fatalf("missing RMS percentage field: %q", line)
	}
}

func TestReportRunPercentageAggregate(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, 0)
	run := Run{
		Name:                "agg_cv",
		Iterations:          10,
		RunType:             RTAggregate,
		AggregateUnit:       StatisticPercentage,
		RealAccumulatedTime: 0.1234,
		CPUAccumulatedTime:  0.1,
		TimeUnit:            Nanosecond,
		Counters: []Counter{
			{Name: "frac", Value: 0.5, Base: format.Base1000},
		},
	}
	r.ReportRun(run)

	line := lastLine(t, &buf)
	if !strings.Contains(line, "     12.34 %") {
		t.Fatalf("missing accumulated real time percentage: %q", line)
	}
	if !strings.Contains(line, "     10.00 %") {
		t.Fatalf("missing accumulated CPU time percentage: %q", line)
	}
	if !strings.Contains(line, " frac=50.00%") {
		t.Fatalf("counter not rendered as percentage: %q", line)
	}
}

func TestReportRunAppendsLabel(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, 0)
	run := normalRun()
	run.Counters = nil
	run.Label = "cached build"
	r.ReportRun(run)

	line := lastLine(t, &buf)
	if !strings.HasSuffix(line, " cached build") {
		t.Fatalf("label not appended: %q", line)
	}
}

func TestReportContextPrintsHeader(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, 0)
	r.ReportContext(Context{NameFieldWidth: 10})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 header lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "Benchmark") {
		t.Fatalf("unexpected header row: %q", lines[1])
	}
	for _, field := range []string{"Time", "CPU", "Iterations"} {
		if !strings.Contains(lines[1], field) {
			t.Fatalf("header missing %q: %q", field, lines[1])
		}
	}
	if strings.Trim(lines[0], "-") != "" || strings.Trim(lines[2], "-") != "" {
		t.Fatalf("header rule lines malformed: %q / %q", lines[0], lines[2])
	}
}
