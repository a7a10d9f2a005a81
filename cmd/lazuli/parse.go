package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lazuli/internal/diagfmt"
	"lazuli/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.lzr",
	Short: "Parse a lazuli script and report syntax errors",
	Long: `Parse preprocesses and parses a script without running it. By default it
prints diagnostics (or "ok"); --format tree prints the syntax tree.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "diag", "output format (diag|tree|json)")
	parseCmd.Flags().String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
	parseCmd.Flags().Bool("notes", false, "show diagnostic notes")
	parseCmd.Flags().Bool("raw", false, "skip the preprocessor")
	parseCmd.Flags().StringArrayP("define", "D", nil, "preprocessor define NAME=VALUE (repeatable)")
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	pathModeValue, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return err
	}
	pathMode, ok := diagfmt.ParsePathMode(pathModeValue)
	if !ok {
		return fmt.Errorf("invalid --path-mode value %q", pathModeValue)
	}
	showNotes, err := cmd.Flags().GetBool("notes")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	loadOpts, err := readLoadOptions(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Parse(filePath, loadOpts)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	stdout := cmd.OutOrStdout()

	switch format {
	case "json":
		if err := diagfmt.JSON(stdout, result.Bag, result.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     showNotes,
		}); err != nil {
			return err
		}
	case "diag", "tree":
		if result.Bag.Len() > 0 {
			opts := diagfmt.PrettyOpts{
				Color:     useColor(cmd, os.Stderr),
				Context:   2,
				PathMode:  pathMode,
				ShowNotes: showNotes,
			}
			if err := diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, opts); err != nil {
				return err
			}
		}
		if format == "tree" {
			if err := diagfmt.FormatAST(stdout, result.Builder, result.Program, result.FileSet); err != nil {
				return err
			}
		} else if !result.Bag.HasErrors() && !quiet {
			fmt.Fprintln(stdout, "ok")
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if result.Bag.HasErrors() {
		return fmt.Errorf("%s: %d syntax errors", filePath, result.Bag.ErrorCount())
	}
	return nil
}
