package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stylesense/stylist-cli/internal/engine"
	"github.com/stylesense/stylist-cli/internal/server"
	"github.com/stylesense/stylist-cli/internal/settings"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recommendation API server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		eng := engine.New(st, settings.NewResolver(st, cfg))
		handler := server.NewRouter(server.NewHandler(eng, st))

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		return server.Serve(ctx, port, handler)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
