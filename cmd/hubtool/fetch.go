package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hubtool/internal/config"
	"hubtool/internal/domain"
	"hubtool/internal/hub"
	"hubtool/internal/transport"
	"hubtool/internal/usecase"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download a model snapshot into the local cache directory",
	Long: `Download every file of a model repository from the hub into a local
directory. Files already present and matching the snapshot are kept; stale
files from an earlier revision are removed, so re-running converges to the
same directory contents.`,
	RunE: runFetch,
}

func init() {
	f := fetchCmd.Flags()
	f.String("endpoint", config.DefaultEndpoint, "hub endpoint URL")
	f.String("token", "", "hub access token for gated repositories")
	f.String("model", config.DefaultModelID, "model repository id (owner/name)")
	f.String("revision", config.DefaultRevision, "repository revision to download")
	f.String("local-dir", config.DefaultLocalDir, "destination directory")
	f.Bool("insecure", false, "skip TLS certificate verification (not recommended)")
	f.String("timeout", "0", "per-request timeout (e.g. 5m); 0 disables")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	initLogger(cfg)

	ref, err := domain.ParseArtifactRef(cfg.Hub.ModelID, cfg.Hub.Revision)
	if err != nil {
		return err
	}

	httpClient := transport.NewClient(transport.Config{
		InsecureSkipVerify: cfg.Hub.InsecureSkipVerify,
		Timeout:            cfg.Hub.RequestTimeout,
	})
	client := hub.NewClient(httpClient, cfg.Hub.Endpoint, cfg.Hub.Token)
	uc := usecase.NewFetchUseCase(client)

	fmt.Printf("Downloading %s\n", ref)
	fmt.Printf("To: %s\n", cfg.Hub.LocalDir)

	path, err := uc.Fetch(cmd.Context(), ref, cfg.Hub.LocalDir)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	fmt.Println("Download complete!")
	fmt.Printf("Model saved to: %s\n", path)
	return nil
}
