package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"booklet/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var performers []string

	cmd := &cobra.Command{
		Use:   "doctor [performer...]",
		Short: "Check configuration, input files and output folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			names := append(append([]string{}, performers...), args...)

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			configLine := statusLine{label: "Config file", kind: statusInfo, detail: ctx.configPath}
			if !ctx.configSeen {
				configLine.kind = statusWarn
				configLine.detail += " (not found, defaults used)"
			}
			settings := []statusLine{
				configLine,
				{label: "Delimiter", kind: statusInfo, detail: fmt.Sprintf("%q", cfg.DelimiterRune())},
				{label: "Tie-breaks", kind: statusInfo,
					detail: fmt.Sprintf("rest=%s match=%s", cfg.Resolve.RestStrategy, cfg.Resolve.MatchStrategy)},
				{label: "Run history", kind: statusInfo, detail: yesNo(cfg.History.Enabled)},
			}

			results := preflight.RunAll(cmd.Context(), cfg, names...)
			checks := make([]statusLine, 0, len(results))
			for _, r := range results {
				checks = append(checks, checkLine(r))
			}
			fmt.Fprintln(out, renderSection("Configuration", settings, colorize))
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderSection("Checks", checks, colorize))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%s failed", countLabel(len(failed), "check", "checks"))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&performers, "performer", "p", nil, "Performer to look up in the spreadsheet header (repeatable)")
	return cmd
}
