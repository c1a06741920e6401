package bench

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/uscope-bench/uscope/format"
	"github.com/uscope-bench/uscope/reporter"
)

// Func is a benchmark body. It must query the state's iteration protocol
// in a tight loop until it signals termination.
type Func func(*State)

// Benchmark pairs a name with its body. Never mutated after registration.
type Benchmark struct {
	name string
	fn   Func
}

// Name returns the benchmark's registered name.
func (b Benchmark) Name() string {
	return b.name
}

// Config fixes the measured-iteration budget applied uniformly to every
// registered benchmark, and the display unit for reported times.
type Config struct {
	Iterations int64
	TimeUnit   reporter.TimeUnit
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be > 0, got %d", c.Iterations)
	}
	return nil
}

// Runner owns the registered benchmarks, the shared config, and the
// reporter rendering their results.
type Runner struct {
	cfg        Config
	rep        reporter.Reporter
	benchmarks []Benchmark
}

// NewRunner builds a runner emitting results through rep.
func NewRunner(cfg Config, rep reporter.Reporter) *Runner {
	return &Runner{cfg: cfg, rep: rep}
}

// AddBenchmark registers fn under name. Benchmarks run in registration order.
func (r *Runner) AddBenchmark(name string, fn Func) error {
	if name == "" {
		return fmt.Errorf("benchmark name must not be empty")
	}
	if fn == nil {
		return fmt.Errorf("benchmark %q has no function", name)
	}
	r.benchmarks = append(r.benchmarks, Benchmark{name: name, fn: fn})
	return nil
}

// Names returns the registered benchmark names in registration order.
func (r *Runner) Names() []string {
	names := make([]string, len(r.benchmarks))
	for i, b := range r.benchmarks {
		names[i] = b.name
	}
	return names
}

// RunAll executes every registered benchmark exactly once, in registration
// order, each with a fresh State built from the shared config, and reports
// one result per benchmark.
func (r *Runner) RunAll() error {
	if err := r.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	r.rep.ReportContext(reporter.Context{NameFieldWidth: r.nameFieldWidth()})
	for _, b := range r.benchmarks {
		state := newState(r.cfg.Iterations)
		b.fn(state)
		r.rep.ReportRun(r.buildRun(b.name, state))
	}
	return nil
}

func (r *Runner) nameFieldWidth() int {
	width := 0
	for _, b := range r.benchmarks {
		if w := runewidth.StringWidth(b.name); w > width {
			width = w
		}
	}
	return width
}

// buildRun extracts the result record from a finished state. CPU time is
// recorded equal to real time: the engine measures wall clock only and
// performs no OS profiler hookup.
func (r *Runner) buildRun(name string, state *State) reporter.Run {
	var elapsed time.Duration
	for _, sample := range state.samples {
		elapsed += sample
	}
	seconds := elapsed.Seconds()

	run := reporter.Run{
		Name:                name,
		Iterations:          int64(len(state.samples)),
		RealAccumulatedTime: seconds,
		CPUAccumulatedTime:  seconds,
		TimeUnit:            r.cfg.TimeUnit,
		Counters:            append([]reporter.Counter(nil), state.counters...),
		Skipped:             state.skipped,
		SkipMessage:         state.skipMessage,
		Label:               state.label,
	}

	if state.bytesProcessed > 0 && seconds > 0 {
		run.Counters = append(run.Counters, reporter.Counter{
			Name:  "bytes_per_second",
			Value: float64(state.bytesProcessed) / seconds,
			Base:  format.Base1024,
			Flags: reporter.IsRate,
		})
	}
	if state.itemsProcessed > 0 && seconds > 0 {
		run.Counters = append(run.Counters, reporter.Counter{
			Name:  "items_per_second",
			Value: float64(state.itemsProcessed) / seconds,
			Base:  format.Base1000,
			Flags: reporter.IsRate,
		})
	}
	return run
}
