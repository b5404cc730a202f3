package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"textify/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify yt-dlp, ffmpeg, whisper, and working directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			results := preflight.RunAll(cfg)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Name, passLabel(r.Passed), r.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))

			if err := preflight.RequireTools(cfg); err != nil {
				return err
			}
			if failed := preflight.Failed(results); len(failed) > 0 {
				return errors.New(failed[0].Name + ": " + failed[0].Detail)
			}
			fmt.Fprintln(out, renderStatusLine("Textify", statusOK, "Ready to transcribe", shouldColorize(out)))
			return nil
		},
	}
}

func passLabel(passed bool) string {
	if passed {
		return "ok"
	}
	return "missing"
}
