// Package fib holds the benchmark kernel.
package fib

// Fib returns the n-th Fibonacci number using plain double recursion.
// It is intentionally exponential: the benchmark measures call overhead.
func Fib(n int64) int64 {
	if n < 2 {
		return n
	}

	return Fib(n-1) + Fib(n-2)
}
