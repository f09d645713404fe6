package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/zegl/fibtimer/build"
	"github.com/zegl/fibtimer/llvmgen"
	"github.com/zegl/fibtimer/report"
	"github.com/zegl/fibtimer/timer"
)

type options struct {
	label    string
	n        int64
	emitLLVM string
	binary   string
	optimize bool
	check    bool
	debug    bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	defaults := timer.DefaultConfig()

	flags := pflag.NewFlagSet("fibtimer", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	flags.StringVar(&opts.label, "label", defaults.Label, "prefix of every output line")
	flags.Int64Var(&opts.n, "n", defaults.N, "which Fibonacci number to compute")
	flags.StringVar(&opts.emitLLVM, "emit-llvm", "", "write the benchmark as LLVM IR to `file` (- for stdout) instead of running it")
	flags.StringVar(&opts.binary, "build", "", "compile the benchmark with clang into `binary` instead of running it")
	flags.BoolVar(&opts.optimize, "optimize", false, "pass -O3 to clang")
	flags.BoolVar(&opts.check, "check", false, "parse and verify the printed output after the run")
	flags.BoolVar(&opts.debug, "debug", false, "log diagnostics to stderr")

	if err := flags.Parse(args); err != nil {
		return opts, err
	}

	if flags.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", flags.Args())
	}
	if opts.n < 0 {
		return opts, errors.New("--n must not be negative")
	}
	if opts.label == "" {
		return opts, errors.New("--label must not be empty")
	}

	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if opts.emitLLVM != "" || opts.binary != "" {
		return compile(opts, stdout)
	}

	var out bytes.Buffer
	w := io.Writer(stdout)
	if opts.check {
		w = io.MultiWriter(stdout, &out)
	}

	cfg := timer.DefaultConfig()
	cfg.Label = opts.label
	cfg.N = opts.n

	res, err := timer.Run(w, cfg)
	if err != nil {
		return err
	}

	if opts.debug {
		log.Printf("fib(%d) = %d in %s", res.N, res.Value, res.Elapsed)
	}

	if opts.check {
		r, err := report.Parse(out.String())
		if err != nil {
			return fmt.Errorf("check: %w", err)
		}
		if err := r.Verify(); err != nil {
			return fmt.Errorf("check: %w", err)
		}
	}

	return nil
}

func compile(opts options, stdout io.Writer) error {
	ir, err := llvmgen.Emit(llvmgen.Options{Label: opts.label, N: opts.n})
	if err != nil {
		return err
	}

	switch opts.emitLLVM {
	case "":
	case "-":
		if _, err := fmt.Fprint(stdout, ir); err != nil {
			return err
		}
	default:
		if err := ioutil.WriteFile(opts.emitLLVM, []byte(ir), 0666); err != nil {
			return err
		}
		if opts.debug {
			log.Printf("Wrote LLVM IR to %s", opts.emitLLVM)
		}
	}

	if opts.binary != "" {
		return build.Build(ir, opts.binary, opts.debug, opts.optimize)
	}

	return nil
}

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}

	os.Exit(0)
}
