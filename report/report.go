// Package report parses the three lines printed by a Fibonacci timer run,
// whether it came from the Go timer or a natively built binary.
package report

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MaxN is the largest n whose Fibonacci number fits in an int64
const MaxN = 92

type Report struct {
	Label  string
	N      int64
	Value  int64
	Millis int64
}

var (
	startRe  = regexp.MustCompile(`^(.+): Starting Fib\((\d+)\)\.\.\.$`)
	resultRe = regexp.MustCompile(`^(.+): Result = (-?\d+)$`)
	timeRe   = regexp.MustCompile(`^(.+): Time = (-?\d+)ms$`)
)

// Parse reads the start, result and time lines, in that order.
func Parse(output string) (Report, error) {
	// Normalize newlines
	output = strings.Replace(output, "\r\n", "\n", -1)
	output = strings.TrimSpace(output)

	lines := strings.Split(output, "\n")
	if len(lines) != 3 {
		return Report{}, fmt.Errorf("expected 3 lines, got %d", len(lines))
	}

	var r Report
	var err error

	m := startRe.FindStringSubmatch(lines[0])
	if m == nil {
		return Report{}, fmt.Errorf("line 1: not a start line: %q", lines[0])
	}
	r.Label = m[1]
	if r.N, err = strconv.ParseInt(m[2], 10, 64); err != nil {
		return Report{}, fmt.Errorf("line 1: %w", err)
	}

	m = resultRe.FindStringSubmatch(lines[1])
	if m == nil {
		return Report{}, fmt.Errorf("line 2: not a result line: %q", lines[1])
	}
	if m[1] != r.Label {
		return Report{}, fmt.Errorf("line 2: label %q does not match %q", m[1], r.Label)
	}
	if r.Value, err = strconv.ParseInt(m[2], 10, 64); err != nil {
		return Report{}, fmt.Errorf("line 2: %w", err)
	}

	m = timeRe.FindStringSubmatch(lines[2])
	if m == nil {
		return Report{}, fmt.Errorf("line 3: not a time line: %q", lines[2])
	}
	if m[1] != r.Label {
		return Report{}, fmt.Errorf("line 3: label %q does not match %q", m[1], r.Label)
	}
	if r.Millis, err = strconv.ParseInt(m[2], 10, 64); err != nil {
		return Report{}, fmt.Errorf("line 3: %w", err)
	}

	return r, nil
}

// Verify recomputes fib(N) and checks it against the reported value.
// The recomputation is linear, so any N up to MaxN is cheap.
func (r Report) Verify() error {
	if r.Millis < 0 {
		return errors.New("negative elapsed time")
	}

	if r.N > MaxN {
		return fmt.Errorf("fib(%d) does not fit in int64", r.N)
	}

	if expected := fibonacciIterative(r.N); expected != r.Value {
		return fmt.Errorf("fib(%d): expected %d, got %d", r.N, expected, r.Value)
	}

	return nil
}

func fibonacciIterative(n int64) int64 {
	var a, b int64 = 0, 1
	for i := int64(0); i < n; i++ {
		a, b = b, a+b
	}
	return a
}
