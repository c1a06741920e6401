// Package reporter renders benchmark results as console output lines.
package reporter

import "github.com/uscope-bench/uscope/format"

// CounterFlags annotate how a counter value should be displayed.
type CounterFlags uint32

const (
	// IsRate marks the counter as a per-second quantity.
	IsRate CounterFlags = 1 << iota
	// Invert swaps the displayed rate unit from "/s" to "s".
	Invert
)

// Counter is a named numeric measurement attached to a benchmark result,
// independent of elapsed time. The reporter consumes counters read-only.
type Counter struct {
	Name  string
	Value float64
	Base  format.Base
	Flags CounterFlags
}

// TimeUnit is the display unit for benchmark time fields.
type TimeUnit int

// Supported time units.
const (
	Nanosecond TimeUnit = iota
	Microsecond
	Millisecond
	Second
)

func (u TimeUnit) String() string {
	switch u {
	case Microsecond:
		return "us"
	case Millisecond:
		return "ms"
	case Second:
		return "s"
	default:
		return "ns"
	}
}

// multiplier converts accumulated seconds into the display unit.
func (u TimeUnit) multiplier() float64 {
	switch u {
	case Microsecond:
		return 1e6
	case Millisecond:
		return 1e3
	case Second:
		return 1
	default:
		return 1e9
	}
}

// BigO is the asymptotic complexity class attached to a complexity-fit result.
type BigO int

// Complexity classes.
const (
	ONone BigO = iota
	O1
	ON
	ONSquared
	ONCubed
	OLogN
	ONLogN
)

func (o BigO) String() string {
	switch o {
	case O1:
		return "(1)"
	case ON:
		return "N"
	case ONSquared:
		return "N^2"
	case ONCubed:
		return "N^3"
	case OLogN:
		return "lgN"
	case ONLogN:
		return "NlgN"
	default:
		return "f(N)"
	}
}

// Skipped describes whether and how a benchmark declined to produce timings.
type Skipped int

// Skip states.
const (
	NotSkipped Skipped = iota
	SkippedWithMessage
	SkippedWithError
)

// RunType distinguishes single-run results from aggregates computed over
// repeated runs by an external layer.
type RunType int

// Run types.
const (
	RTIteration RunType = iota
	RTAggregate
)

// StatisticUnit is the unit an aggregate statistic is expressed in.
type StatisticUnit int

// Statistic units.
const (
	StatisticTime StatisticUnit = iota
	StatisticPercentage
)

// Run is one benchmark result record. The reporter consumes it read-only;
// accumulated times are in seconds.
type Run struct {
	Name       string
	Iterations int64

	RealAccumulatedTime float64
	CPUAccumulatedTime  float64
	TimeUnit            TimeUnit

	RunType       RunType
	AggregateUnit StatisticUnit

	ReportBigO bool
	Complexity BigO
	ReportRMS  bool

	Counters []Counter

	Skipped     Skipped
	SkipMessage string

	Label string
}

// AdjustedRealTime returns the per-iteration real time in the display unit.
func (r Run) AdjustedRealTime() float64 {
	t := r.RealAccumulatedTime * r.TimeUnit.multiplier()
	if r.Iterations > 0 {
		t /= float64(r.Iterations)
	}
	return t
}

// AdjustedCPUTime returns the per-iteration CPU time in the display unit.
func (r Run) AdjustedCPUTime() float64 {
	t := r.CPUAccumulatedTime * r.TimeUnit.multiplier()
	if r.Iterations > 0 {
		t /= float64(r.Iterations)
	}
	return t
}
