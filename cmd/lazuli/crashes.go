package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"lazuli/internal/crash"
)

var crashesCmd = &cobra.Command{
	Use:   "crashes",
	Short: "List archived crash reports",
	Long:  `Crashes reads the msgpack archive written by lazuli run and lists the recorded crashes`,
	Args:  cobra.NoArgs,
	RunE:  runCrashes,
}

func init() {
	crashesCmd.Flags().String("dir", "", "crash directory (default from config)")
	crashesCmd.Flags().Int("show", 0, "print the full report of crash N (1-based)")
}

const crashMessageWidth = 60

func runCrashes(cmd *cobra.Command, args []string) error {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}
	if dir == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		dir = cfg.Crash.Dir
	}
	show, err := cmd.Flags().GetInt("show")
	if err != nil {
		return err
	}

	records, err := crash.ReadArchive(dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Join(dir, crash.ArchiveFile), err)
	}
	out := cmd.OutOrStdout()
	if show > 0 {
		if show > len(records) {
			return fmt.Errorf("no crash #%d (archive has %d)", show, len(records))
		}
		fmt.Fprint(out, records[show-1].Text)
		return nil
	}
	if len(records) == 0 {
		fmt.Fprintf(out, "no crashes recorded in %s\n", dir)
		return nil
	}
	listCrashes(out, records)
	return nil
}

func listCrashes(w io.Writer, records []crash.Record) {
	stage := color.New(color.FgYellow)
	for i, rec := range records {
		msg := strings.ReplaceAll(rec.Message, "\n", " ")
		fmt.Fprintf(w, "%3d  %s  %-10s %s  %s\n",
			i+1,
			rec.Time.Format("2006-01-02 15:04:05"),
			stage.Sprint(rec.Stage),
			valueOrUnknown(rec.Context),
			runewidth.Truncate(msg, crashMessageWidth, "..."),
		)
	}
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
