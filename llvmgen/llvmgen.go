// Package llvmgen emits the Fibonacci timer as an LLVM IR module, so that the
// same kernel can be compiled natively by clang and compared with the Go run.
package llvmgen

import (
	"errors"
	"runtime"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/zegl/fibtimer/timer"
)

var (
	i32 = types.I32
	i64 = types.I64

	// struct timespec { time_t tv_sec; long tv_nsec; } on 64-bit targets
	timespec = types.NewStruct(i64, i64)
)

type Options struct {
	Label string
	N     int64

	// Empty lets clang pick the host triple
	TargetTriple string

	// GOOS decides the value of CLOCK_MONOTONIC, defaults to runtime.GOOS
	GOOS string
}

type generator struct {
	module *ir.Module

	printf       *ir.Func
	clockGettime *ir.Func
	fib          *ir.Func
	nowNs        *ir.Func
}

// Generate builds the module. It contains @fib, @now_ns and @main, with the
// monotonic clock sampled directly around the call to @fib. Only the
// difference of the two samples is truncated to milliseconds.
func Generate(opts Options) (*ir.Module, error) {
	if opts.Label == "" {
		opts.Label = timer.DefaultLabel
	}
	if opts.N < 0 {
		return nil, errors.New("n must not be negative")
	}
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}

	g := &generator{module: ir.NewModule()}
	g.module.TargetTriple = opts.TargetTriple

	g.addExternal()
	g.addFib()
	g.addNowNs(clockMonotonic(opts.GOOS))
	g.addMain(opts.Label, opts.N)

	return g.module, nil
}

// Emit returns the textual IR for opts
func Emit(opts Options) (string, error) {
	m, err := Generate(opts)
	if err != nil {
		return "", err
	}
	return m.String(), nil
}

func clockMonotonic(goos string) int64 {
	switch goos {
	case "darwin", "ios":
		return 6
	case "freebsd":
		return 4
	default:
		return 1
	}
}

func (g *generator) addExternal() {
	g.printf = g.module.NewFunc("printf", i32, ir.NewParam("format", types.I8Ptr))
	g.printf.Sig.Variadic = true

	g.clockGettime = g.module.NewFunc("clock_gettime", i32,
		ir.NewParam("clk_id", i32),
		ir.NewParam("tp", types.NewPointer(timespec)),
	)
}

func (g *generator) addFib() {
	n := ir.NewParam("n", i64)
	g.fib = g.module.NewFunc("fib", i64, n)

	entry := g.fib.NewBlock("entry")
	base := g.fib.NewBlock("base")
	recurse := g.fib.NewBlock("recurse")

	cmp := entry.NewICmp(enum.IPredSLT, n, constant.NewInt(i64, 2))
	cmp.SetName("cmp")
	entry.NewCondBr(cmp, base, recurse)

	base.NewRet(n)

	n1 := recurse.NewSub(n, constant.NewInt(i64, 1))
	n1.SetName("n1")
	n2 := recurse.NewSub(n, constant.NewInt(i64, 2))
	n2.SetName("n2")
	a := recurse.NewCall(g.fib, n1)
	a.SetName("a")
	b := recurse.NewCall(g.fib, n2)
	b.SetName("b")
	sum := recurse.NewAdd(a, b)
	sum.SetName("sum")
	recurse.NewRet(sum)
}

func (g *generator) addNowNs(clockID int64) {
	g.nowNs = g.module.NewFunc("now_ns", i64)
	entry := g.nowNs.NewBlock("entry")

	ts := entry.NewAlloca(timespec)
	ts.SetName("ts")
	entry.NewCall(g.clockGettime, constant.NewInt(i32, clockID), ts)

	secPtr := entry.NewGetElementPtr(timespec, ts, constant.NewInt(i32, 0), constant.NewInt(i32, 0))
	secPtr.SetName("sec.ptr")
	nsecPtr := entry.NewGetElementPtr(timespec, ts, constant.NewInt(i32, 0), constant.NewInt(i32, 1))
	nsecPtr.SetName("nsec.ptr")

	sec := entry.NewLoad(i64, secPtr)
	sec.SetName("sec")
	nsec := entry.NewLoad(i64, nsecPtr)
	nsec.SetName("nsec")

	secNs := entry.NewMul(sec, constant.NewInt(i64, 1000000000))
	secNs.SetName("sec.ns")
	ns := entry.NewAdd(secNs, nsec)
	ns.SetName("ns")
	entry.NewRet(ns)
}

func (g *generator) addMain(label string, n int64) {
	// printf formats, so a literal % in the label must be doubled
	esc := strings.Replace(label, "%", "%%", -1)

	startFmt := g.stringConstant("str.start", timer.StartLine(esc, n)+"\n")
	resultFmt := g.stringConstant("str.result", esc+": Result = %lld\n")
	timeFmt := g.stringConstant("str.time", esc+": Time = %lldms\n")

	main := g.module.NewFunc("main", i32)
	entry := main.NewBlock("entry")

	entry.NewCall(g.printf, startFmt)

	start := entry.NewCall(g.nowNs)
	start.SetName("start")
	res := entry.NewCall(g.fib, constant.NewInt(i64, n))
	res.SetName("res")
	end := entry.NewCall(g.nowNs)
	end.SetName("end")

	elapsedNs := entry.NewSub(end, start)
	elapsedNs.SetName("elapsed.ns")
	elapsed := entry.NewSDiv(elapsedNs, constant.NewInt(i64, 1000000))
	elapsed.SetName("elapsed")

	entry.NewCall(g.printf, resultFmt, res)
	entry.NewCall(g.printf, timeFmt, elapsed)

	entry.NewRet(constant.NewInt(i32, 0))
}

// stringConstant adds a private NUL-terminated global and returns it as i8*
func (g *generator) stringConstant(name, s string) value.Value {
	def := g.module.NewGlobalDef(name, constant.NewCharArrayFromString(s+"\x00"))
	def.Immutable = true
	def.Linkage = enum.LinkagePrivate

	return constant.NewBitCast(def, types.I8Ptr)
}
