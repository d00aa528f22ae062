package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yegors/airport-readiness/internal/api"
	"github.com/yegors/airport-readiness/internal/auth"
	"github.com/yegors/airport-readiness/internal/query"
	"github.com/yegors/airport-readiness/pkg/logger"
)

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "readiness",
		Short:         "Airport operational-readiness checklist service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "path to the TOML config file")

	root.AddCommand(
		newServeCommand(&configPath),
		newExportCommand(&configPath),
		newAirportsCommand(&configPath),
		newHashPasswordCommand(),
	)
	return root
}

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			router, err := api.NewRouter(a.services, a.config.Auth, a.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.logger.Info("Starting readiness service",
				logger.String("storage", a.config.Storage.Backend),
				logger.String("path", a.config.Storage.Path),
				logger.String("editor_mode", a.config.Editor.Mode),
			)
			return api.NewServer(a.config.Server, router.Routes(), a.logger).ListenAndServe(ctx)
		},
	}
}

func newExportCommand(configPath *string) *cobra.Command {
	var airports string
	var fields []string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a checklist report for the given airports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			codes := query.ParseAirports(airports)
			if strings.TrimSpace(airports) == "" {
				if codes, err = a.services.Store.ListCodes(ctx); err != nil {
					return err
				}
			}

			_, sel, err := a.services.Query.Run(ctx, codes, fields)
			if err != nil {
				return err
			}
			path, err := a.services.Reports.Export(ctx, sel, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&airports, "airports", "a", "", "comma-separated airport codes (default: all stored airports)")
	cmd.Flags().StringSliceVarP(&fields, "fields", "f", nil, "field names, used when the report respects the field filter")
	return cmd
}

func newAirportsCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "airports",
		Short: "List stored airport codes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			codes, err := a.services.Store.ListCodes(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range codes {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

func newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password PASSWORD",
		Short: "Print a bcrypt hash for the auth.password_hash setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
}
