package main

import (
	"fmt"
	"net"
	"strings"

	"github.com/spf13/cobra"

	"textify/internal/api"
	"textify/internal/logging"
	"textify/internal/preflight"
	"textify/internal/workflow"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the transcription HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if b := strings.TrimSpace(bind); b != "" {
				cfg.Server.Bind = b
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if err := preflight.RequireTools(cfg); err != nil {
				logger.Warn("serving without all required tools",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "see GET /api/health"),
				)
			}

			runner, err := workflow.NewRunner(cfg, logger)
			if err != nil {
				return err
			}
			server, err := api.NewServer(cfg, runner, logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return server.ListenAndServe(cmd.Context(), func(addr net.Addr) {
				fmt.Fprintf(out, "Listening on http://%s\n", addr)
			})
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (overrides server.bind)")
	return cmd
}
