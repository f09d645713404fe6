package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zegl/fibtimer/fib"
)

func TestParse(t *testing.T) {
	r, err := Parse("Go: Starting Fib(35)...\nGo: Result = 9227465\nGo: Time = 41ms\n")
	require.NoError(t, err)

	assert.Equal(t, Report{Label: "Go", N: 35, Value: 9227465, Millis: 41}, r)
	assert.NoError(t, r.Verify())
}

func TestParseCRLF(t *testing.T) {
	r, err := Parse("C++: Starting Fib(35)...\r\nC++: Result = 9227465\r\nC++: Time = 30ms\r\n")
	require.NoError(t, err)

	assert.Equal(t, "C++", r.Label)
	assert.Equal(t, int64(30), r.Millis)
}

func TestParseLabelWithColon(t *testing.T) {
	r, err := Parse("Go: native: Starting Fib(3)...\nGo: native: Result = 2\nGo: native: Time = 0ms")
	require.NoError(t, err)

	assert.Equal(t, "Go: native", r.Label)
	assert.NoError(t, r.Verify())
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"too few lines":  "Go: Starting Fib(35)...\nGo: Result = 9227465",
		"too many lines": "Go: Starting Fib(35)...\nGo: Result = 9227465\nGo: Time = 1ms\nextra",
		"wrong order":    "Go: Result = 9227465\nGo: Starting Fib(35)...\nGo: Time = 1ms",
		"label mismatch": "Go: Starting Fib(35)...\nRust: Result = 9227465\nGo: Time = 1ms",
		"bad time":       "Go: Starting Fib(35)...\nGo: Result = 9227465\nGo: Time = 1.5ms",
		"overflow":       "Go: Starting Fib(35)...\nGo: Result = 99999999999999999999\nGo: Time = 1ms",
		"empty":          "",
	}

	for name, output := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(output)
			assert.Error(t, err)
		})
	}
}

func TestVerify(t *testing.T) {
	assert.NoError(t, Report{N: 10, Value: 55}.Verify())
	assert.Error(t, Report{N: 10, Value: 56}.Verify())
	assert.Error(t, Report{N: 10, Value: 55, Millis: -1}.Verify())
}

func TestVerifyLargeN(t *testing.T) {
	r, err := Parse("Go: Starting Fib(90)...\nGo: Result = 2880067194370816120\nGo: Time = 1ms")
	require.NoError(t, err)

	start := time.Now()
	assert.NoError(t, r.Verify())
	assert.True(t, time.Since(start) < time.Second)

	assert.Error(t, Report{N: 90, Value: 1}.Verify())
	assert.Error(t, Report{N: MaxN + 1, Value: 1}.Verify())
}

func TestFibonacciIterativeMatchesKernel(t *testing.T) {
	for n := int64(0); n <= 25; n++ {
		assert.Equal(t, fib.Fib(n), fibonacciIterative(n), "n=%d", n)
	}
	assert.Equal(t, int64(7540113804746346429), fibonacciIterative(MaxN))
}
