package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"booklet/internal/booklet"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var performers []string
	var format string

	cmd := &cobra.Command{
		Use:   "plan [performer...]",
		Short: "Show which PDF and pages each song would use, without writing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			names, err := performersFrom(performers, args)
			if err != nil {
				return err
			}
			builder, closeFn, err := ctx.openBuilder()
			if err != nil {
				return err
			}
			defer closeFn()
			cfg, _ := ctx.ensureConfig()

			var (
				plans []*booklet.Plan
				errs  []error
			)
			for _, name := range names {
				plan, err := builder.Plan(cmd.Context(), name)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", name, err))
					continue
				}
				plans = append(plans, plan)
			}

			switch format {
			case formatJSON:
				if err := writeJSON(cmd, plans); err != nil {
					return err
				}
			case formatYAML:
				if err := writeYAML(cmd, plans); err != nil {
					return err
				}
			default:
				out := cmd.OutOrStdout()
				for i, plan := range plans {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "%s -> %s (%s, %s)\n", plan.Performer, plan.OutputPath,
						countLabel(len(plan.Placements), "song", "songs"),
						countLabel(plan.Rests(), "rest", "rests"))
					fmt.Fprintln(out, renderPlan(plan, cfg.Paths.RepertoireDir))
				}
			}
			return errors.Join(errs...)
		},
	}

	cmd.Flags().StringArrayVarP(&performers, "performer", "p", nil, "Performer to plan (repeatable)")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json or yaml")
	return cmd
}

func renderPlan(plan *booklet.Plan, root string) string {
	rows := make([][]string, 0, len(plan.Placements))
	for i, p := range plan.Placements {
		source := p.SourcePath
		if rel, err := filepath.Rel(root, source); err == nil {
			source = rel
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			p.Song,
			p.Mode.String(),
			source,
			fmt.Sprintf("%d", p.Candidates),
			p.Tempo,
			p.Cue,
			p.Patch,
			p.EndNote,
		})
	}
	return renderTable([]column{
		{title: "#", align: alignRight},
		{title: "Song"},
		{title: "Pages"},
		{title: "Source", maxWidth: 48},
		{title: "Candidates", align: alignRight},
		{title: "Tempo"},
		{title: "Cue", maxWidth: 32},
		{title: "Patch"},
		{title: "End note", maxWidth: 24},
	}, rows, nil)
}
