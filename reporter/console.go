// Package reporter renders benchmark results as console output lines.
package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/uscope-bench/uscope/format"
)

// Context carries run-independent layout information computed by the runner.
type Context struct {
	NameFieldWidth int
}

// Reporter renders benchmark results. Implementations are plugged into the
// runner; ConsoleReporter is the default.
type Reporter interface {
	ReportContext(ctx Context)
	ReportRun(run Run)
}

// OutputOptions toggle reporter output features.
type OutputOptions uint32

const (
	// Color wraps output fields in ANSI color escape sequences.
	Color OutputOptions = 1 << iota
	// Tabular right-aligns counters into fixed-width columns instead of
	// emitting name=value tokens.
	Tabular
)

type logColor uint8

const (
	colorDefault logColor = iota
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
	colorCyan
	colorWhite
)

// ansiColorCode returns the third digit of the ESC[0;3<digit>m sequence,
// or "" for the default color.
func ansiColorCode(c logColor) string {
	switch c {
	case colorRed:
		return "1"
	case colorGreen:
		return "2"
	case colorYellow:
		return "3"
	case colorBlue:
		return "4"
	case colorMagenta:
		return "5"
	case colorCyan:
		return "6"
	case colorWhite:
		return "7"
	default:
		return ""
	}
}

// printFunc writes one formatted fragment in the given color. The color
// and plain variants must produce identical text apart from the escape
// sequences, so disabling color is a drop-in substitution.
type printFunc func(w io.Writer, c logColor, fmtStr string, args ...any)

func colorFprintf(w io.Writer, c logColor, fmtStr string, args ...any) {
	if code := ansiColorCode(c); code != "" {
		fmt.Fprintf(w, "\x1b[0;3%sm", code)
	}
	fmt.Fprintf(w, fmtStr, args...)
	fmt.Fprint(w, "\x1b[m")
}

func plainFprintf(w io.Writer, _ logColor, fmtStr string, args ...any) {
	fmt.Fprintf(w, fmtStr, args...)
}

const minCounterWidth = 10

// ConsoleReporter writes one line of UTF-8 text per benchmark result.
type ConsoleReporter struct {
	out            io.Writer
	opts           OutputOptions
	print          printFunc
	nameFieldWidth int
}

// NewConsoleReporter builds a console reporter writing to out. The print
// strategy is chosen once from the output options.
func NewConsoleReporter(out io.Writer, opts OutputOptions) *ConsoleReporter {
	printer := printFunc(plainFprintf)
	if opts&Color != 0 {
		printer = colorFprintf
	}
	return &ConsoleReporter{out: out, opts: opts, print: printer}
}

// ReportContext stores the name field width and prints the header rule.
func (r *ConsoleReporter) ReportContext(ctx Context) {
	r.nameFieldWidth = ctx.NameFieldWidth
	header := fmt.Sprintf("%-*s %13s %15s %12s",
		r.nameFieldWidth+1, "Benchmark", "Time", "CPU", "Iterations")
	fmt.Fprintln(r.out, strings.Repeat("-", runewidth.StringWidth(header)))
	fmt.Fprintln(r.out, header)
	fmt.Fprintln(r.out, strings.Repeat("-", runewidth.StringWidth(header)))
}

// ReportRun composes one output line for a benchmark result.
func (r *ConsoleReporter) ReportRun(run Run) {
	nameColor := colorGreen
	if run.ReportBigO || run.ReportRMS {
		nameColor = colorBlue
	}
	r.print(r.out, nameColor, "%-*s", r.nameFieldWidth+1, run.Name)

	if run.Skipped == SkippedWithError {
		r.print(r.out, colorRed, "ERROR OCCURRED: '%s'", run.SkipMessage)
		r.print(r.out, colorDefault, "\n")
		return
	}
	if run.Skipped == SkippedWithMessage {
		r.print(r.out, colorWhite, "SKIPPED: '%s'", run.SkipMessage)
		r.print(r.out, colorDefault, "\n")
		return
	}

	realTime := run.AdjustedRealTime()
	cpuTime := run.AdjustedCPUTime()

	switch {
	case run.ReportBigO:
		bigO := run.Complexity.String()
		r.print(r.out, colorYellow, "%10.2g %-4s %10.2g %-4s ",
			realTime, bigO, cpuTime, bigO)
	case run.ReportRMS:
		r.print(r.out, colorYellow, "%10.0f %-4s %10.0f %-4s ",
			realTime*100, "%", cpuTime*100, "%")
	case run.RunType != RTAggregate || run.AggregateUnit == StatisticTime:
		timeLabel := run.TimeUnit.String()
		r.print(r.out, colorYellow, "%s %-4s %s %-4s ",
			format.Time(realTime), timeLabel, format.Time(cpuTime), timeLabel)
	default:
		r.print(r.out, colorYellow, "%10.2f %-4s %10.2f %-4s ",
			100*run.RealAccumulatedTime, "%", 100*run.CPUAccumulatedTime, "%")
	}

	if !run.ReportBigO && !run.ReportRMS {
		r.print(r.out, colorCyan, "%10d", run.Iterations)
	}

	for _, counter := range run.Counters {
		r.printCounter(run, counter)
	}

	if run.Label != "" {
		r.print(r.out, colorDefault, " %s", run.Label)
	}

	r.print(r.out, colorDefault, "\n")
}

func (r *ConsoleReporter) printCounter(run Run, counter Counter) {
	var value, unit string
	if run.RunType == RTAggregate && run.AggregateUnit == StatisticPercentage {
		value = fmt.Sprintf("%.2f", 100*counter.Value)
		unit = "%"
	} else {
		base := format.Base1000
		if counter.Base == format.Base1024 {
			base = format.Base1024
		}
		value = format.HumanReadable(counter.Value, base)
		if counter.Flags&IsRate != 0 {
			if counter.Flags&Invert != 0 {
				unit = "s"
			} else {
				unit = "/s"
			}
		}
	}

	if r.opts&Tabular != 0 {
		width := runewidth.StringWidth(counter.Name)
		if width < minCounterWidth {
			width = minCounterWidth
		}
		r.print(r.out, colorDefault, " %*s%s", width-len(unit), value, unit)
	} else {
		r.print(r.out, colorDefault, " %s=%s%s", counter.Name, value, unit)
	}
}
