package main

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	tikzextractor "github.com/kataras/tikz-extractor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests build the tikz-extractor binary and run it the way a user
// would: on stdin, on a single file and on a directory.

const scenario = `\begin{tikzpicture}
\draw [line width=2pt,color=rvwvcq] (-2.75,2.1)-- (-4.89,-2.06);
\draw [fill=rvwvcq] (-2.75,2.1) circle (2.5pt);
\draw[color=rvwvcq] (-2.6,2.37) node {$A$};
\end{tikzpicture}`

// buildBinary compiles the tikz-extractor binary into a temporary
// directory and returns its absolute path.
func buildBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping binary build in short mode")
	}

	// Resolve the repo root (parent of cmd).
	repoRoot, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		t.Fatalf("failed to resolve repo root: %v", err)
	}

	bin := filepath.Join(t.TempDir(), "tikz-extractor")
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}

	cmd := exec.Command("go", "build", "-o", bin, "./cmd/tikz-extractor")
	cmd.Dir = repoRoot
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build binary: %v\n%s", err, out)
	}
	return bin
}

func TestBinary(t *testing.T) {
	bin := buildBinary(t)

	t.Run("stdin", func(t *testing.T) {
		cmd := exec.Command(bin)
		cmd.Stdin = strings.NewReader(scenario)
		out, err := cmd.Output()
		require.NoError(t, err)

		got := string(out)
		assert.Contains(t, got, `\coordinate (A) at (-2.75,2.1);`)
		assert.Contains(t, got, `\draw (A) -- (-4.89,-2.06);`)
		assert.NotContains(t, got, "rvwvcq")
	})

	t.Run("single file as document", func(t *testing.T) {
		dir := t.TempDir()
		input := filepath.Join(dir, "scenario.tex")
		output := filepath.Join(dir, "clean.tex")
		require.NoError(t, os.WriteFile(input, []byte(scenario), 0644))

		cmd := exec.Command(bin, "--document", "--no-labels", "-o", output, input)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		got := string(data)
		assert.True(t, strings.HasPrefix(got, `\documentclass`))
		assert.NotContains(t, got, "% Point labels")
	})

	t.Run("directory with a failing input", func(t *testing.T) {
		in := t.TempDir()
		out := filepath.Join(t.TempDir(), "pictures")
		require.NoError(t, os.WriteFile(filepath.Join(in, "good.tex"), []byte(scenario), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(in, "bad.tex"), []byte(`\section{No picture}`), 0644))

		cmd := exec.Command(bin, "--dir", out, in)
		cmd.Env = append(os.Environ(), "TIKZ_LOG_FORMAT=json")
		combined, err := cmd.CombinedOutput()

		var exitErr *exec.ExitError
		require.True(t, errors.As(err, &exitErr), "expected a non-zero exit, got %v\n%s", err, combined)
		assert.Equal(t, 1, exitErr.ExitCode())
		assert.Contains(t, string(combined), "no drawing environment found")

		data, err := os.ReadFile(filepath.Join(out, "good.tex"))
		require.NoError(t, err)
		assert.Contains(t, string(data), `\coordinate (A) at (-2.75,2.1);`)
		assert.NoFileExists(t, filepath.Join(out, "bad.tex"))
	})

	t.Run("version", func(t *testing.T) {
		out, err := exec.Command(bin, "version").Output()
		require.NoError(t, err)
		assert.Equal(t, "tikz-extractor version "+tikzextractor.Version+"\n", string(out))
	})
}

func TestRootCommandTakesFileArguments(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "scenario.tex")
	require.NoError(t, os.WriteFile(input, []byte(scenario), 0644))

	t.Run("single file", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&stdout)
		cmd.SetErr(&stderr)
		cmd.SetArgs([]string{"--no-labels", input})

		require.NoError(t, cmd.Execute(), stderr.String())
		assert.Contains(t, stdout.String(), `\coordinate (A) at (-2.75,2.1);`)
		assert.NotContains(t, stdout.String(), "% Point labels")
	})

	t.Run("directory", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "pictures")
		var stderr bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&stderr)
		cmd.SetArgs([]string{"--dir", out, dir})

		require.NoError(t, cmd.Execute(), stderr.String())
		data, err := os.ReadFile(filepath.Join(out, "scenario.tex"))
		require.NoError(t, err)
		assert.Contains(t, string(data), `\draw (A) -- (-4.89,-2.06);`)
	})
}
