// Package timer runs the Fibonacci kernel once and reports how long it took.
package timer

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/zegl/fibtimer/fib"
)

const (
	DefaultLabel       = "Go"
	DefaultN     int64 = 35
)

// Config selects what a run computes and how its output is labelled.
type Config struct {
	// Label prefixes every output line, eg. "Go: Result = 9227465"
	Label string
	N     int64

	// Clock defaults to time.Now, whose readings carry a monotonic component
	Clock func() time.Time
}

// Result is the outcome of a single timed run.
type Result struct {
	Label   string
	N       int64
	Value   int64
	Elapsed time.Duration
}

// Millis is the elapsed time as printed, truncated to whole milliseconds
func (r Result) Millis() int64 {
	return r.Elapsed.Milliseconds()
}

// DefaultConfig is the benchmark as shipped: "Go" label, fib(35), time.Now.
func DefaultConfig() Config {
	return Config{
		Label: DefaultLabel,
		N:     DefaultN,
		Clock: time.Now,
	}
}

func (c Config) withDefaults() Config {
	if c.Label == "" {
		c.Label = DefaultLabel
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c
}

// Run prints the start banner, times a single call to fib.Fib and prints the
// result and the elapsed time. Only the kernel call is inside the timed interval.
func Run(w io.Writer, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()

	if cfg.N < 0 {
		return Result{}, errors.New("n must not be negative")
	}

	if _, err := fmt.Fprintln(w, StartLine(cfg.Label, cfg.N)); err != nil {
		return Result{}, fmt.Errorf("write start line: %w", err)
	}

	start := cfg.Clock()
	value := fib.Fib(cfg.N)
	end := cfg.Clock()

	elapsed := end.Sub(start)
	// Clock went backwards
	if elapsed < 0 {
		elapsed = 0
	}

	res := Result{
		Label:   cfg.Label,
		N:       cfg.N,
		Value:   value,
		Elapsed: elapsed,
	}

	if _, err := fmt.Fprintln(w, ResultLine(res.Label, res.Value)); err != nil {
		return res, fmt.Errorf("write result line: %w", err)
	}

	if _, err := fmt.Fprintln(w, TimeLine(res.Label, res.Millis())); err != nil {
		return res, fmt.Errorf("write time line: %w", err)
	}

	return res, nil
}

// StartLine is printed before the clock is sampled
func StartLine(label string, n int64) string {
	return fmt.Sprintf("%s: Starting Fib(%d)...", label, n)
}

// ResultLine reports the computed Fibonacci number
func ResultLine(label string, value int64) string {
	return fmt.Sprintf("%s: Result = %d", label, value)
}

// TimeLine reports the elapsed whole milliseconds
func TimeLine(label string, millis int64) string {
	return fmt.Sprintf("%s: Time = %dms", label, millis)
}
