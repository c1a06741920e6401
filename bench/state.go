// Package bench implements the benchmark execution engine: the
// iteration-control state machine, per-iteration timing capture, and the
// runner driving registered benchmarks.
package bench

import (
	"iter"
	"time"

	"github.com/uscope-bench/uscope/format"
	"github.com/uscope-bench/uscope/reporter"
)

type phase uint8

const (
	phaseNotStarted phase = iota
	phaseStarted
	phaseFinished
	phaseSkipped
)

// State drives one benchmark's measured loop. It is created fresh per
// benchmark execution, owned exclusively by that execution, and discarded
// after the result is extracted. Finished and Skipped are terminal.
type State struct {
	total     int64
	remaining int64
	phase     phase
	begin     time.Time
	samples   []time.Duration

	skipped     reporter.Skipped
	skipMessage string
	label       string
	counters    []reporter.Counter

	bytesProcessed int64
	itemsProcessed int64
}

func newState(iterations int64) *State {
	return &State{
		total:     iterations,
		remaining: iterations,
		// Pre-sized so appends never allocate inside the measured loop.
		samples: make([]time.Duration, 0, iterations),
	}
}

// KeepRunning is the sole call the measured loop makes per iteration
// boundary. It closes out the previous iteration's timing interval, decides
// continuation from the remaining budget, and opens the next interval, so
// the hot loop pays for one branch and one clock read per iteration. Once
// it returns false it keeps returning false.
func (s *State) KeepRunning() bool {
	switch s.phase {
	case phaseFinished, phaseSkipped:
		return false
	case phaseNotStarted:
		s.phase = phaseStarted
		return s.advance(time.Now())
	default:
		now := time.Now()
		s.samples = append(s.samples, now.Sub(s.begin))
		return s.advance(now)
	}
}

// advance consumes one iteration from the budget. On exhaustion the state
// becomes terminal and no new timing interval is opened.
func (s *State) advance(now time.Time) bool {
	if s.remaining <= 0 {
		s.phase = phaseFinished
		return false
	}
	s.remaining--
	s.begin = now
	return true
}

// Iterate returns a finite, non-restartable sequence of remaining-iteration
// counts, so benchmark bodies can use a range loop instead of an explicit
// KeepRunning loop. Both surfaces are observably equivalent.
func (s *State) Iterate() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		for s.KeepRunning() {
			if !yield(s.remaining) {
				return
			}
		}
	}
}

// SkipWithMessage marks the benchmark skipped. When called before the first
// KeepRunning, the loop never runs, zero samples are recorded, and the
// iteration count is reported as zero.
func (s *State) SkipWithMessage(message string) {
	s.skip(reporter.SkippedWithMessage, message)
}

// SkipWithError marks the benchmark aborted with an error message.
func (s *State) SkipWithError(message string) {
	s.skip(reporter.SkippedWithError, message)
}

func (s *State) skip(kind reporter.Skipped, message string) {
	if s.phase == phaseFinished || s.phase == phaseSkipped {
		return
	}
	s.phase = phaseSkipped
	s.total = 0
	s.remaining = 0
	s.skipped = kind
	s.skipMessage = message
}

// SetLabel attaches a free-text label appended verbatim to the result line.
func (s *State) SetLabel(label string) {
	s.label = label
}

// AddCounter records a named counter on the result. Counters keep insertion
// order; adding an existing name updates it in place.
func (s *State) AddCounter(name string, value float64, base format.Base, flags reporter.CounterFlags) {
	for i := range s.counters {
		if s.counters[i].Name == name {
			s.counters[i].Value = value
			s.counters[i].Base = base
			s.counters[i].Flags = flags
			return
		}
	}
	s.counters = append(s.counters, reporter.Counter{
		Name:  name,
		Value: value,
		Base:  base,
		Flags: flags,
	})
}

// SetBytesProcessed reports a bytes_per_second rate counter on the result.
func (s *State) SetBytesProcessed(n int64) {
	s.bytesProcessed = n
}

// SetItemsProcessed reports an items_per_second rate counter on the result.
func (s *State) SetItemsProcessed(n int64) {
	s.itemsProcessed = n
}

// Iterations returns the fixed iteration budget (zero once skipped).
func (s *State) Iterations() int64 {
	return s.total
}

// Remaining returns the not-yet-consumed iteration count.
func (s *State) Remaining() int64 {
	return s.remaining
}

// Samples returns the ordered per-iteration elapsed durations recorded so
// far, one per completed iteration.
func (s *State) Samples() []time.Duration {
	return s.samples
}
