package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	clientcmd "github.com/rzbill/nidsmon/internal/cmd/client"
	serverrun "github.com/rzbill/nidsmon/internal/cmd/server"
	cfgpkg "github.com/rzbill/nidsmon/internal/config"
)

func main() {
	rootCmd := clientcmd.NewRoot(clientcmd.HTTPURLFromEnv)
	rootCmd.Short = "nidsmon network intrusion monitor"
	rootCmd.Long = "nidsmon simulates network traffic, classifies it as INFO or ALERT and serves the recent window over HTTP and gRPC."
	rootCmd.SilenceUsage = true

	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start nidsmon server (HTTP and gRPC)",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			httpAddr, _ := cmd.Flags().GetString("http")
			grpcAddr, _ := cmd.Flags().GetString("grpc")
			configPath, _ := cmd.Flags().GetString("config")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")

			cfg, path, err := resolveConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("autostart") {
				cfg.Autostart, _ = cmd.Flags().GetBool("autostart")
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if logFormat != "" {
				cfg.Log.Format = logFormat
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			if err := serverrun.Run(ctx, serverrun.Options{
				HTTPAddr:   httpAddr,
				GRPCAddr:   grpcAddr,
				ConfigPath: path,
				Config:     cfg,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
	serverStartCmd.Flags().String("http", ":5000", "HTTP listen address (API + UI)")
	serverStartCmd.Flags().String("grpc", ":50051", "gRPC listen address")
	serverStartCmd.Flags().String("config", os.Getenv("NIDS_CONFIG"), "Config file (.yaml|.yml|.json); searched in default locations when empty")
	serverStartCmd.Flags().Bool("autostart", false, "Start generating events immediately")
	serverStartCmd.Flags().String("log-level", "", "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", "", "Log format: text|json (default text)")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig layers defaults, the config file (explicit or discovered) and
// NIDS_* environment variables. The returned path is empty when no file was
// used.
func resolveConfig(path string) (cfgpkg.Config, string, error) {
	if path == "" {
		path = cfgpkg.DefaultConfigPath()
	}
	cfg := cfgpkg.Default()
	if path != "" {
		loaded, err := cfgpkg.Load(path)
		if err != nil {
			return cfgpkg.Config{}, "", fmt.Errorf("load config %s: %w", path, err)
		}
		cfg = loaded
	}
	cfgpkg.FromEnv(&cfg)
	return cfg, path, nil
}
