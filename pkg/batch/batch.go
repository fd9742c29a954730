// Package batch converts a set of input files into .tex files, one per
// input, inside a single output directory.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kataras/tikz-extractor/pkg/formatter"
)

// Extension is the extension of every written file.
const Extension = ".tex"

// DefaultOutputDir is used when Config.OutputDir is empty.
const DefaultOutputDir = "tikz"

// Config holds configuration for a batch conversion.
type Config struct {
	OutputDir string // local directory, default "tikz"
	Document  bool   // wrap each picture in a standalone document
}

// ConvertFunc converts the bytes of one input into a tikzpicture.
type ConvertFunc func(data []byte) (string, error)

// Job pairs an input file with the file its picture is written to.
type Job struct {
	Input  string
	Output string
}

// Result holds the results of a batch conversion.
type Result struct {
	Outputs []Job
	Errors  []error // non-fatal per-input failures
}

// inputExtensions are the file kinds CollectInputs picks up.
var inputExtensions = map[string]bool{
	".ggb":  true,
	".xml":  true,
	".tex":  true,
	".tikz": true,
	".pgf":  true,
}

// IsInput reports whether path has an extension CollectInputs accepts.
func IsInput(path string) bool {
	return inputExtensions[strings.ToLower(filepath.Ext(path))]
}

// CollectInputs lists the convertible files directly inside dir in lexical
// order. Subdirectories are not walked.
func CollectInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %q: %w", dir, err)
	}

	var inputs []string
	for _, e := range entries {
		if e.IsDir() || !IsInput(e.Name()) {
			continue
		}
		inputs = append(inputs, filepath.Join(dir, e.Name()))
	}
	sort.Strings(inputs)
	return inputs, nil
}

// Plan assigns every input a distinct file in dir named after it.
// Colliding names get a numeric suffix in input order.
func Plan(inputs []string, dir string) []Job {
	jobs := make([]Job, 0, len(inputs))
	usedNames := make(map[string]int) // track filename collisions

	for _, input := range inputs {
		fileName := buildFileName(input)

		// Deduplicate filenames.
		if count, exists := usedNames[fileName]; exists {
			usedNames[fileName] = count + 1
			base := strings.TrimSuffix(fileName, Extension)
			fileName = fmt.Sprintf("%s-%d%s", base, count+1, Extension)
		}
		usedNames[fileName]++

		jobs = append(jobs, Job{Input: input, Output: filepath.Join(dir, fileName)})
	}
	return jobs
}

// Convert runs convert over every input in order and writes each picture
// to the output directory. A failing input is recorded in Result.Errors
// and the remaining inputs still run; only a failure to create the output
// directory aborts the batch.
func Convert(inputs []string, config Config, convert ConvertFunc) (*Result, error) {
	if config.OutputDir == "" {
		config.OutputDir = DefaultOutputDir
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %q: %w", config.OutputDir, err)
	}

	result := &Result{}
	for _, job := range Plan(inputs, config.OutputDir) {
		if err := ConvertFile(job.Input, job.Output, config.Document, convert); err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		result.Outputs = append(result.Outputs, job)
	}

	return result, nil
}

// ConvertFile converts the single file input and writes the picture to
// dest, wrapped in a standalone document when document is true.
func ConvertFile(input, dest string, document bool, convert ConvertFunc) error {
	if same(input, dest) {
		return fmt.Errorf("%s: output would overwrite the input", input)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", input, err)
	}

	picture, err := convert(data)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	if document {
		picture = formatter.WrapDocument(picture)
	} else {
		picture = formatter.WrapFragment(picture)
	}

	if err := os.WriteFile(dest, []byte(picture), 0644); err != nil {
		return fmt.Errorf("failed to write file %q: %w", dest, err)
	}
	return nil
}

func same(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// buildFileName creates a sanitized output filename from an input path:
// the base name without its extension in kebab-case, falling back to
// "picture" when nothing is left.
func buildFileName(input string) string {
	base := filepath.Base(input)
	name := toKebabCase(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "" {
		name = "picture"
	}
	return name + Extension
}

// toKebabCase converts a string to kebab-case format (lowercase with hyphens).
func toKebabCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")

	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}

	return result.String()
}
