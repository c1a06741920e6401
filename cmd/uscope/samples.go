package main

import (
	"bytes"
	"hash/fnv"
	"strings"
	"time"

	"github.com/uscope-bench/uscope/bench"
	"github.com/uscope-bench/uscope/format"
)

const hello = "hello"

// Sinks keep the measured work observable so it is not optimized away.
var (
	sinkString string
	sinkUint64 uint64
)

func registerSamples(r *bench.Runner) error {
	samples := []struct {
		name string
		fn   bench.Func
	}{
		{"sleep_1ms", benchSleep1ms},
		{"string_creation", benchStringCreation},
		{"string_copy", benchStringCopy},
		{"fnv_hash_2KiB", benchFNVHash},
	}
	for _, s := range samples {
		if err := r.AddBenchmark(s.name, s.fn); err != nil {
			return err
		}
	}
	return nil
}

func benchSleep1ms(s *bench.State) {
	for s.KeepRunning() {
		time.Sleep(time.Millisecond)
	}
}

func benchStringCreation(s *bench.State) {
	for s.KeepRunning() {
		sinkString = string([]byte(hello))
	}
	s.SetBytesProcessed(int64(len(hello)))
	s.SetItemsProcessed(s.Iterations())
}

func benchStringCopy(s *bench.State) {
	// Work prepared before the loop is not measured.
	source := strings.Repeat(hello, 8)
	for range s.Iterate() {
		sinkString = strings.Clone(source)
	}
	s.SetBytesProcessed(int64(len(source)))
	s.SetItemsProcessed(s.Iterations())
}

func benchFNVHash(s *bench.State) {
	buf := bytes.Repeat([]byte("u"), 2048)
	for s.KeepRunning() {
		h := fnv.New64a()
		_, _ = h.Write(buf)
		sinkUint64 = h.Sum64()
	}
	s.AddCounter("bytes", float64(len(buf)), format.Base1024, 0)
	s.SetItemsProcessed(s.Iterations())
}
