package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lazuli/internal/diagfmt"
	"lazuli/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.lzr",
	Short: "Tokenize a lazuli script",
	Long:  `Tokenize preprocesses a script and prints the tokens the lexer produces`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("raw", false, "skip the preprocessor")
	tokenizeCmd.Flags().StringArrayP("define", "D", nil, "preprocessor define NAME=VALUE (repeatable)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	loadOpts, err := readLoadOptions(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(filePath, loadOpts)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Диагностика лексера в stderr
	if result.Bag.Len() > 0 {
		opts := diagfmt.PrettyOpts{
			Color:   useColor(cmd, os.Stderr),
			Context: 2,
		}
		if err := diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, opts); err != nil {
			return err
		}
	}

	switch format {
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	default:
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	}
}

// readLoadOptions collects the flags shared by tokenize and parse.
func readLoadOptions(cmd *cobra.Command) (driver.LoadOptions, error) {
	var opts driver.LoadOptions
	var err error
	if opts.MaxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if opts.Raw, err = cmd.Flags().GetBool("raw"); err != nil {
		return opts, err
	}
	defines, err := cmd.Flags().GetStringArray("define")
	if err != nil {
		return opts, err
	}
	if opts.Defines, err = parseDefines(defines); err != nil {
		return opts, err
	}
	return opts, nil
}
