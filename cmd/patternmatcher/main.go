package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glesirok/patternmatcher/pkg/config"
	"github.com/glesirok/patternmatcher/pkg/input"
	"github.com/glesirok/patternmatcher/pkg/processor"
	"github.com/glesirok/patternmatcher/pkg/ui"
)

var (
	configFile string
	workers    int
	format     string
	color      string
	quiet      bool
	dumpTree   bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.FormatError(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "patternmatcher <input> <output>",
		Short: "Match slash-separated paths against comma-separated patterns",
		Long: `patternmatcher reads patterns and paths from an input file and writes,
for each path in order, the most specific matching pattern or NO MATCH.

Patterns are comma-separated segments; * matches exactly one path segment.
Literal segments always win over * at the same depth.`,
		Args:          usageArgs(cobra.ExactArgs(2)),
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "Run configuration file (optional)")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 1, "Number of paths matched in parallel")
	rootCmd.Flags().StringVarP(&format, "format", "f", string(input.FormatAuto), "Input format: auto, counted, yaml, json")
	rootCmd.Flags().StringVar(&color, "color", string(config.ColorAuto), "Color output: auto, always, never")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not echo results to stdout")
	rootCmd.Flags().BoolVar(&dumpTree, "dump-tree", false, "Print the pattern tree to stderr before matching")

	return rootCmd
}

// usageArgs 参数个数不对时在错误里附上用法
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w\nUsage: %s", err, cmd.UseLine())
		}
		return nil
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ui.SetColorMode(string(cfg.Color))

	inputPath, outputPath := args[0], args[1]
	proc := processor.NewProcessor(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())

	summary, err := proc.Run(context.Background(), inputPath, outputPath)
	if err != nil {
		return err
	}

	ui.PrintSuccess(cmd.ErrOrStderr(), fmt.Sprintf("Matched %d of %d paths against %d patterns %s %s",
		summary.Matched, summary.Paths, summary.Patterns, ui.SymbolArrow, outputPath))
	return nil
}

// loadConfig 读取配置文件，显式给出的命令行参数覆盖文件
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("format") {
		cfg.Format = input.Format(format)
	}
	if flags.Changed("color") {
		cfg.Color = config.ColorMode(color)
	}
	if flags.Changed("quiet") {
		cfg.Echo = !quiet
	}
	if flags.Changed("dump-tree") {
		cfg.DumpTree = dumpTree
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
