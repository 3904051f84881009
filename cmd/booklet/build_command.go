package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"booklet/internal/booklet"
	"booklet/internal/config"
	"booklet/internal/preflight"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var performers []string
	var skipPreflight bool
	var showContents bool

	cmd := &cobra.Command{
		Use:   "build [performer...]",
		Short: "Build booklets for one or more performers",
		Long: `Build one PDF booklet per performer.

Each booklet is written to <output_dir>/<performer>.pdf. Performers are built
one after another; a failing performer is reported and the rest still run
unless batch.stop_on_error is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := performersFrom(performers, args)
			if err != nil {
				return err
			}
			builder, closeFn, err := ctx.openBuilder()
			if err != nil {
				return err
			}
			defer closeFn()

			if !skipPreflight {
				cfg, _ := ctx.ensureConfig()
				if err := runBuildPreflight(cmd, cfg); err != nil {
					return err
				}
			}

			outcomes, err := builder.BuildAll(cmd.Context(), names)
			if len(outcomes) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), renderOutcomes(outcomes))
				if showContents {
					if contents := renderContents(outcomes); contents != "" {
						fmt.Fprintln(cmd.OutOrStdout(), contents)
					}
				}
			}
			return err
		},
	}

	cmd.Flags().StringArrayVarP(&performers, "performer", "p", nil, "Performer to build (repeatable)")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Do not check input and output paths before building")
	cmd.Flags().BoolVar(&showContents, "contents", false, "List the pages each song contributed to the written booklets")
	return cmd
}

// runBuildPreflight checks the environment, not the performers: a performer
// missing from the spreadsheet fails on its own without stopping the batch.
func runBuildPreflight(cmd *cobra.Command, cfg *config.Config) error {
	failed := preflight.Failed(preflight.RunAll(cmd.Context(), cfg))
	if len(failed) == 0 {
		return nil
	}
	out := cmd.ErrOrStderr()
	colorize := shouldColorize(out)
	names := make([]string, 0, len(failed))
	for _, r := range failed {
		fmt.Fprintln(out, renderStatusLine(checkLine(r), minLabelWidth, colorize))
		names = append(names, strings.ToLower(r.Name))
	}
	return fmt.Errorf("preflight failed: %s (run `booklet doctor` for details)", strings.Join(names, ", "))
}

func renderOutcomes(outcomes []booklet.Outcome) string {
	rows := make([][]string, 0, len(outcomes))
	var songs, pages, failed int
	var bytes int64
	for _, o := range outcomes {
		status := "ok"
		detail := o.OutputPath
		if !o.Succeeded() {
			status = "failed (" + o.FailureClass() + ")"
			detail = o.Err.Error()
			failed++
		}
		songs += o.Songs
		pages += o.Pages
		bytes += o.Bytes
		rows = append(rows, []string{
			o.Performer,
			status,
			fmt.Sprintf("%d", o.Songs),
			fmt.Sprintf("%d", o.Pages),
			o.Size(),
			o.Duration.Round(time.Millisecond).String(),
			detail,
		})
	}

	columns := []column{
		{title: "Performer"},
		{title: "Status"},
		{title: "Songs", align: alignRight},
		{title: "Pages", align: alignRight},
		{title: "Size", align: alignRight},
		{title: "Time", align: alignRight},
		{title: "Output", maxWidth: 72},
	}
	if len(outcomes) < 2 {
		return renderTable(columns, rows, nil)
	}
	total := booklet.Outcome{Bytes: bytes}
	footer := []string{
		countLabel(len(outcomes), "performer", "performers"),
		fmt.Sprintf("%d failed", failed),
		fmt.Sprintf("%d", songs),
		fmt.Sprintf("%d", pages),
		total.Size(),
	}
	return renderTable(columns, rows, footer)
}

// renderContents lists every song of the written booklets with its page
// range. Failed builds are left out.
func renderContents(outcomes []booklet.Outcome) string {
	var rows [][]string
	for _, o := range outcomes {
		if !o.Succeeded() {
			continue
		}
		first := 1
		for _, song := range o.Contents {
			pages := fmt.Sprintf("%d-%d", first, first+song.Pages-1)
			if song.Pages == 1 {
				pages = fmt.Sprintf("%d", first)
			}
			rows = append(rows, []string{o.Performer, song.Song, pages, song.Source})
			first += song.Pages
		}
	}
	if len(rows) == 0 {
		return ""
	}
	columns := []column{
		{title: "Performer"},
		{title: "Song"},
		{title: "Pages", align: alignRight},
		{title: "Source", maxWidth: 72},
	}
	return renderTable(columns, rows, nil)
}
