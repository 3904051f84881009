package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"booklet/internal/history"
)

type runView struct {
	ID           string `json:"id" yaml:"id"`
	Performer    string `json:"performer" yaml:"performer"`
	Status       string `json:"status" yaml:"status"`
	FailureClass string `json:"failure_class,omitempty" yaml:"failure_class,omitempty"`
	Songs        int    `json:"songs" yaml:"songs"`
	Pages        int    `json:"pages" yaml:"pages"`
	Bytes        int64  `json:"bytes" yaml:"bytes"`
	OutputPath   string `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt    string `json:"started_at" yaml:"started_at"`
	DurationMS   int64  `json:"duration_ms" yaml:"duration_ms"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var performer string
	var limit int
	var format string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent booklet builds",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return errors.New("run history is disabled (history.enabled = false)")
			}
			if limit <= 0 {
				limit = cfg.History.Limit
			}

			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), performer, limit)
			if err != nil {
				return err
			}

			views := make([]runView, 0, len(runs))
			for _, r := range runs {
				views = append(views, newRunView(r))
			}
			switch format {
			case formatJSON:
				return writeJSON(cmd, views)
			case formatYAML:
				return writeYAML(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No builds recorded yet")
				return nil
			}
			fmt.Fprintln(out, renderRuns(runs))
			return nil
		},
	}

	cmd.Flags().StringVarP(&performer, "performer", "p", "", "Only show builds for this performer")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of builds to show (default history.limit)")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json or yaml")
	return cmd
}

func newRunView(r history.Run) runView {
	return runView{
		ID:           r.ID,
		Performer:    r.Performer,
		Status:       string(r.Status),
		FailureClass: r.FailureClass,
		Songs:        r.Songs,
		Pages:        r.Pages,
		Bytes:        r.Bytes,
		OutputPath:   r.OutputPath,
		Error:        r.ErrorMessage,
		StartedAt:    r.StartedAt.Format(time.RFC3339),
		DurationMS:   r.Duration().Milliseconds(),
	}
}

func renderRuns(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		size := "-"
		if r.Bytes > 0 {
			size = humanize.Bytes(uint64(r.Bytes))
		}
		detail := r.OutputPath
		status := string(r.Status)
		if r.Status == history.StatusFailed {
			status += " (" + r.FailureClass + ")"
			detail = r.ErrorMessage
		}
		duration := "-"
		if d := r.Duration(); d > 0 {
			duration = d.Round(time.Millisecond).String()
		}
		rows = append(rows, []string{
			humanize.Time(r.StartedAt),
			r.Performer,
			status,
			fmt.Sprintf("%d", r.Pages),
			size,
			duration,
			detail,
		})
	}
	return renderTable([]column{
		{title: "Started"},
		{title: "Performer"},
		{title: "Status"},
		{title: "Pages", align: alignRight},
		{title: "Size", align: alignRight},
		{title: "Time", align: alignRight},
		{title: "Output", maxWidth: 64},
	}, rows, nil)
}
