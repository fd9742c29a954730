package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	tikzextractor "github.com/kataras/tikz-extractor"
	"github.com/kataras/tikz-extractor/internal/config"
	"github.com/kataras/tikz-extractor/pkg/batch"
	"github.com/kataras/tikz-extractor/pkg/formatter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const version = tikzextractor.Version

var (
	outputFile string
	outputDir  string
	configFile string
	logFormat  string
	document   bool
	noRound    bool
	noPoints   bool
	noLabels   bool
	watchMode  bool
)

// errInputsFailed is returned after a batch in which some input failed.
var errInputsFailed = errors.New("some inputs could not be converted")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tikz-extractor [file or directory...]",
		Short: "Convert GeoGebra drawings into clean TikZ",
		Long: "A tool to convert GeoGebra PGF/TikZ exports, construction XML and .ggb files " +
			"into compact, canonical TikZ pictures. With no arguments the input is read from stdin.",
		Args:          cobra.ArbitraryArgs,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file for a single input (default stdout)")
	rootCmd.Flags().StringVarP(&outputDir, "dir", "d", "", "Output directory for batch conversion (default \""+batch.DefaultOutputDir+"\")")
	rootCmd.Flags().BoolVar(&document, "document", false, "Wrap the picture in a standalone LaTeX document")
	rootCmd.Flags().BoolVar(&noRound, "no-round", false, "Keep numbers at full precision instead of three decimals")
	rootCmd.Flags().BoolVar(&noPoints, "no-points", false, "Do not draw point markers")
	rootCmd.Flags().BoolVar(&noLabels, "no-labels", false, "Do not write point labels")
	rootCmd.Flags().StringVar(&configFile, "config", "", "YAML or TOML config file")
	rootCmd.Flags().StringVar(&logFormat, "log-format", config.LogFormatText, "Log format: text or json")
	rootCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Convert again whenever an input file changes")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tikz-extractor version %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)
	return rootCmd
}

// flagOverrides returns the config keys of the flags set on the command
// line.
func flagOverrides(cmd *cobra.Command) map[string]any {
	flags := cmd.Flags()
	overrides := make(map[string]any)
	if flags.Changed("no-round") {
		overrides["round"] = !noRound
	}
	if flags.Changed("no-points") {
		overrides["points"] = !noPoints
	}
	if flags.Changed("no-labels") {
		overrides["labels"] = !noLabels
	}
	if flags.Changed("document") {
		overrides["document"] = document
	}
	if flags.Changed("log-format") {
		overrides["log_format"] = logFormat
	}
	if flags.Changed("dir") {
		overrides["output_dir"] = outputDir
	}
	return overrides
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, flagOverrides(cmd))
	if err != nil {
		return err
	}

	logger, sync := newLogger(cfg.LogFormat, cmd.ErrOrStderr())
	defer sync()

	conv := tikzextractor.Config{
		Round:  cfg.Round,
		Points: cfg.Points,
		Labels: cfg.Labels,
		Logger: logger,
	}
	convert := func(data []byte) (string, error) {
		return tikzextractor.Convert(data, conv)
	}

	inputs, fromDir, err := expandInputs(args)
	if err != nil {
		return err
	}

	switch {
	case len(inputs) == 0:
		if watchMode {
			return errors.New("--watch needs at least one input file")
		}
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		picture, err := convert(data)
		if err != nil {
			return err
		}
		return writePicture(cmd.OutOrStdout(), outputFile, picture, cfg.Document)

	case len(inputs) == 1 && cfg.OutputDir == "" && !fromDir:
		input := inputs[0]
		convertOne := func(input, dest string) error {
			if dest != "" {
				return batch.ConvertFile(input, dest, cfg.Document, convert)
			}
			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("failed to read %q: %w", input, err)
			}
			picture, err := convert(data)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			return writePicture(cmd.OutOrStdout(), "", picture, cfg.Document)
		}
		if err := convertOne(input, outputFile); err != nil {
			return err
		}
		if outputFile != "" {
			color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "✨ Wrote %s\n", outputFile)
		}
		if watchMode {
			return watchInputs(cmd.Context(), map[string]string{input: outputFile}, convertOne, logger)
		}
		return nil

	default:
		if outputFile != "" {
			return errors.New("--output takes a single input, use --dir for several")
		}
		return runBatch(cmd, inputs, cfg, convert, logger)
	}
}

func runBatch(cmd *cobra.Command, inputs []string, cfg *config.Config, convert batch.ConvertFunc, logger tikzextractor.Logger) error {
	bcfg := batch.Config{OutputDir: cfg.OutputDir, Document: cfg.Document}
	if bcfg.OutputDir == "" {
		bcfg.OutputDir = batch.DefaultOutputDir
	}

	logger.Infof("Converting %d file(s) into %s...", len(inputs), bcfg.OutputDir)
	result, err := batch.Convert(inputs, bcfg, convert)
	if err != nil {
		return err
	}
	for _, convErr := range result.Errors {
		logger.Errorf("%v", convErr)
	}

	failed := len(result.Errors) > 0
	if cfg.LogFormat == config.LogFormatText {
		stderr := cmd.ErrOrStderr()
		color.New(color.FgCyan).Fprintln(stderr, "\n📊 Conversion Summary:")
		fmt.Fprintf(stderr, "  • Converted: %d\n", len(result.Outputs))
		fmt.Fprintf(stderr, "  • Failed: %d\n", len(result.Errors))
		if !failed {
			color.New(color.FgGreen).Fprintf(stderr, "\n✨ Successfully wrote %d picture(s) to %s\n\n", len(result.Outputs), bcfg.OutputDir)
		}
	} else {
		logger.Infof("Converted %d file(s), %d failed", len(result.Outputs), len(result.Errors))
	}

	if watchMode {
		targets := make(map[string]string, len(inputs))
		for _, job := range batch.Plan(inputs, bcfg.OutputDir) {
			targets[job.Input] = job.Output
		}
		convertOne := func(input, dest string) error {
			return batch.ConvertFile(input, dest, bcfg.Document, convert)
		}
		return watchInputs(cmd.Context(), targets, convertOne, logger)
	}

	if failed {
		return errInputsFailed
	}
	return nil
}

func watchInputs(ctx context.Context, targets map[string]string, convert func(input, dest string) error, logger tikzextractor.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	w, err := newWatcher(targets, convert, logger)
	if err != nil {
		return err
	}
	logger.Infof("Watching %d file(s), press Ctrl+C to stop", len(targets))
	return w.run(ctx)
}

// expandInputs replaces every directory argument with the convertible
// files inside it. fromDir reports whether any argument was a directory.
func expandInputs(args []string) (inputs []string, fromDir bool, err error) {
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, false, err
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}
		found, err := batch.CollectInputs(arg)
		if err != nil {
			return nil, false, err
		}
		inputs = append(inputs, found...)
		fromDir = true
	}
	return inputs, fromDir, nil
}

// writePicture writes picture to path, or to w when path is empty.
func writePicture(w io.Writer, path, picture string, asDocument bool) error {
	if asDocument {
		picture = formatter.WrapDocument(picture)
	} else {
		picture = formatter.WrapFragment(picture)
	}
	if path == "" {
		_, err := io.WriteString(w, picture)
		return err
	}
	if err := os.WriteFile(path, []byte(picture), 0644); err != nil {
		return fmt.Errorf("failed to write file %q: %w", path, err)
	}
	return nil
}
