package batch

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func upper(data []byte) (string, error) {
	if strings.Contains(string(data), "broken") {
		return "", errors.New("no drawing environment found")
	}
	return strings.ToUpper(string(data)), nil
}

func writeInputs(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBuildFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"triangle.ggb", "triangle.tex"},
		{"drawings/Right Triangle.tikz", "right-triangle.tex"},
		{"Euler_Line.xml", "euler-line.tex"},
		{"/tmp/ÜBER.tex", "ber.tex"},
		{"???.ggb", "picture.tex"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := buildFileName(tt.input); got != tt.want {
				t.Errorf("buildFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCollectInputs(t *testing.T) {
	dir := t.TempDir()
	writeInputs(t, dir, map[string]string{
		"b.ggb":     "",
		"a.tex":     "",
		"c.PGF":     "",
		"notes.txt": "",
	})
	if err := os.Mkdir(filepath.Join(dir, "nested.tex"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := CollectInputs(dir)
	if err != nil {
		t.Fatalf("CollectInputs() error = %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.tex"),
		filepath.Join(dir, "b.ggb"),
		filepath.Join(dir, "c.PGF"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CollectInputs() = %v, want %v", got, want)
	}
}

func TestConvertIsolatesFailures(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "pictures")
	writeInputs(t, in, map[string]string{
		"a.tex": "first",
		"a.ggb": "second",
		"b.xml": "broken",
		"c.xml": "third",
	})

	inputs, err := CollectInputs(in)
	if err != nil {
		t.Fatal(err)
	}
	result, err := Convert(inputs, Config{OutputDir: out}, upper)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if len(result.Errors) != 1 {
		t.Fatalf("Convert() returned %d errors, want 1: %v", len(result.Errors), result.Errors)
	}
	if !strings.Contains(result.Errors[0].Error(), "b.xml") {
		t.Errorf("error %q does not name the failing input", result.Errors[0])
	}

	// a.ggb sorts before a.tex and keeps the plain name.
	want := map[string]string{
		"a.tex":   "SECOND\n",
		"a-2.tex": "FIRST\n",
		"c.tex":   "THIRD\n",
	}
	if len(result.Outputs) != len(want) {
		t.Fatalf("Convert() wrote %d files, want %d", len(result.Outputs), len(want))
	}
	for name, content := range want {
		data, err := os.ReadFile(filepath.Join(out, name))
		if err != nil {
			t.Errorf("missing output %s: %v", name, err)
			continue
		}
		if string(data) != content {
			t.Errorf("%s = %q, want %q", name, data, content)
		}
	}
}

func TestConvertDocument(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeInputs(t, in, map[string]string{"p.tex": `\begin{tikzpicture}\end{tikzpicture}`})

	identity := func(data []byte) (string, error) { return string(data), nil }
	result, err := Convert([]string{filepath.Join(in, "p.tex")}, Config{OutputDir: out, Document: true}, identity)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	data, err := os.ReadFile(filepath.Join(out, "p.tex"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), `\documentclass`) || !strings.HasSuffix(string(data), "\\end{document}\n") {
		t.Errorf("output is not a standalone document:\n%s", data)
	}
}

func TestConvertFileRefusesToOverwriteInput(t *testing.T) {
	dir := t.TempDir()
	writeInputs(t, dir, map[string]string{"p.tex": "x"})
	path := filepath.Join(dir, "p.tex")

	if err := ConvertFile(path, path, false, upper); err == nil {
		t.Fatal("ConvertFile() overwrote its input")
	}
	data, _ := os.ReadFile(path)
	if string(data) != "x" {
		t.Errorf("input changed to %q", data)
	}
}

func TestPlan(t *testing.T) {
	got := Plan([]string{"x/a.ggb", "y/a.tex", "A.xml", "a-2.tikz"}, "out")
	want := []Job{
		{Input: "x/a.ggb", Output: filepath.Join("out", "a.tex")},
		{Input: "y/a.tex", Output: filepath.Join("out", "a-2.tex")},
		{Input: "A.xml", Output: filepath.Join("out", "a-3.tex")},
		{Input: "a-2.tikz", Output: filepath.Join("out", "a-2-2.tex")},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Plan() = %v, want %v", got, want)
	}
}
