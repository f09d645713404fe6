package build

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zegl/fibtimer/llvmgen"
	"github.com/zegl/fibtimer/report"
)

func TestBuildAndRun(t *testing.T) {
	if _, err := exec.LookPath("clang"); err != nil {
		t.Skip("clang not found")
	}

	for _, withOptimize := range []bool{false, true} {
		ir, err := llvmgen.Emit(llvmgen.Options{Label: "native", N: 20})
		require.NoError(t, err)

		outputBinaryPath := filepath.Join(t.TempDir(), "exec")
		require.NoError(t, Build(ir, outputBinaryPath, false, withOptimize))

		stdout, err := exec.Command(outputBinaryPath).CombinedOutput()
		require.NoError(t, err, string(stdout))

		r, err := report.Parse(string(stdout))
		require.NoError(t, err, string(stdout))

		assert.Equal(t, "native", r.Label)
		assert.Equal(t, int64(20), r.N)
		assert.Equal(t, int64(6765), r.Value)
		assert.NoError(t, r.Verify())
	}
}

func TestBuildInvalidIR(t *testing.T) {
	if _, err := exec.LookPath("clang"); err != nil {
		t.Skip("clang not found")
	}

	err := Build("this is not llvm ir", filepath.Join(t.TempDir(), "exec"), false, false)
	assert.Error(t, err)
}

func TestBuildConcurrent(t *testing.T) {
	if _, err := exec.LookPath("clang"); err != nil {
		t.Skip("clang not found")
	}

	for i, debug := range []bool{true, false} {
		i, debug := i, debug
		t.Run(fmt.Sprintf("debug:%v", debug), func(t *testing.T) {
			t.Parallel()

			ir, err := llvmgen.Emit(llvmgen.Options{N: int64(10 + i)})
			require.NoError(t, err)

			outputBinaryPath := filepath.Join(t.TempDir(), "exec")
			require.NoError(t, Build(ir, outputBinaryPath, debug, false))

			stdout, err := exec.Command(outputBinaryPath).CombinedOutput()
			require.NoError(t, err, string(stdout))

			r, err := report.Parse(string(stdout))
			require.NoError(t, err)
			assert.NoError(t, r.Verify())
		})
	}
}
