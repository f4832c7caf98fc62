package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/cafehub/config"
	"github.com/shashiranjanraj/cafehub/internal/kernel"
	"github.com/shashiranjanraj/cafehub/internal/server"
	"github.com/shashiranjanraj/cafehub/pkg/auth"
	"github.com/shashiranjanraj/cafehub/pkg/cache"
	"github.com/shashiranjanraj/cafehub/pkg/database"
	"github.com/shashiranjanraj/cafehub/pkg/logger"
	"github.com/shashiranjanraj/cafehub/pkg/migration"
	"github.com/shashiranjanraj/cafehub/pkg/session"
)

// cafehub serve: migrate, then serve until SIGINT/SIGTERM.
func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"run", "start"},
		Short:   "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Load(); err != nil {
				return err
			}
			if port != "" {
				config.Set("APP_PORT", port)
			}
			if err := config.Validate(); err != nil {
				return err
			}

			if uri := config.LogMongoURI(); uri != "" {
				closeLogs, err := logger.AttachMongo(uri)
				if err != nil {
					logger.Warn("logger: mongo sink unavailable", "error", err)
				}
				defer closeLogs()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on (overrides APP_PORT)")
	return cmd
}

func serve(ctx context.Context) error {
	if err := database.Connect(); err != nil {
		return err
	}
	defer database.Close(database.DB) //nolint:errcheck

	if _, err := migration.New(database.DB).Run(); err != nil {
		return err
	}

	store, closeCache := cache.Connect(ctx)
	defer closeCache() //nolint:errcheck

	opts := session.DefaultOptions()
	opts.TTL = config.SessionTTL()
	opts.Secure = config.IsProduction()

	k, err := kernel.NewHTTPKernel(kernel.Deps{
		DB:          database.DB,
		Cache:       store,
		Hasher:      auth.NewHasher(config.HashDriver()),
		AppKey:      config.AppKey(),
		Session:     opts,
		CORSOrigins: config.CORSAllowedOrigins(),
	})
	if err != nil {
		return err
	}

	return server.Start(ctx, k.Handler(), ":"+config.AppPort())
}

// cafehub route:list: print all registered routes.
func newRouteListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "route:list",
		Aliases: []string{"routes"},
		Short:   "List all registered routes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "METHOD\tPATH\tNAME")
			fmt.Fprintln(w, "------\t----\t----")
			for _, ri := range kernel.RouteTable() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
			}
			return w.Flush()
		},
	}
}
