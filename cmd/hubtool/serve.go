package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"hubtool/internal/config"
	"hubtool/internal/launcher"
	"hubtool/internal/usecase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Launch the local inference server for a cached model",
	Long: `Start the external inference server bound to the configured host and
port, serving the configured model. The command blocks for the server's
lifetime and exits with the server's own status.`,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.String("model", config.DefaultModelID, "model repository id (owner/name)")
	f.String("server-cmd", config.DefaultServerCommand, "inference server command")
	f.String("host", config.DefaultHost, "bind host")
	f.Int("port", config.DefaultPort, "bind port")
	f.Bool("insecure", false, "skip TLS certificate verification (not recommended)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	initLogger(cfg)

	// The server process manages its own trust settings; the flag here
	// only restores the operator-visible warning.
	if cfg.Hub.InsecureSkipVerify {
		log.Warn("TLS certificate verification is disabled; the inference server applies its own trust settings")
	}

	uc := usecase.NewServeUseCase(launcher.NewProcessRunner())
	return uc.Serve(cmd.Context(), usecase.ServeParams{
		Command: cfg.Server.Command,
		ModelID: cfg.Hub.ModelID,
		Host:    cfg.Server.Host,
		Port:    cfg.Server.Port,
	})
}
