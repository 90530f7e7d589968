package main

import (
	"fmt"
	"os"
	"os/user"
	"time"

	"github.com/bakeops/ovenboard/pkg/server"
	"github.com/bakeops/ovenboard/pkg/services/config"
	"github.com/bakeops/ovenboard/pkg/services/dashboard"
	"github.com/bakeops/ovenboard/pkg/store/client"
	"github.com/bakeops/ovenboard/pkg/store/duckdb"
	"github.com/bakeops/ovenboard/pkg/store/duckdb/snapshot"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	serverCfg   string
	profileName string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the Ovenboard web console",
		RunE:  runServer,
	}

	usr, _ := user.Current()
	defaultPath := fmt.Sprintf("%s/.ovenboardcfg", usr.HomeDir)

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", defaultPath,
		"Path to the profile file (default is $HOME/.ovenboardcfg)")
	rootCmd.Flags().StringVarP(&serverCfg, "server-config", "s", "",
		"Optional path to the server config file")
	rootCmd.Flags().StringVarP(&profileName, "profile", "p", "default",
		"Bakehouse profile to use")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	srvCfg, err := config.LoadServerConfig(serverCfg)
	if err != nil {
		return fmt.Errorf("failed to load server config: %w", err)
	}

	registry, err := config.NewRegistry(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to create config registry: %w", err)
	}

	endpoint, err := registry.GetEndpoint(ctx, profileName)
	if err != nil {
		return fmt.Errorf("failed to resolve profile %q: %w", profileName, err)
	}

	bakehouse, err := client.NewBakehouse(client.Config{
		BaseURL: endpoint.Host,
		APIKey:  endpoint.APIKey,
		Timeout: endpoint.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create bakehouse client: %w", err)
	}

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: srvCfg.SnapshotPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	snapshots, err := snapshot.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create snapshot store: %w", err)
	}

	session, err := dashboard.NewSession(
		dashboard.Dependencies{Client: bakehouse, Snapshots: snapshots},
		dashboard.Params{
			LookbackDays: srvCfg.LookbackDays,
			LeadTimeDays: srvCfg.LeadTimeDays,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create dashboard session: %w", err)
	}

	// Warm the views; a bakehouse outage at boot is tolerated, the console
	// serves the persisted snapshot until the next successful refresh.
	if err := session.RefreshInventory(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial inventory refresh failed")
	}

	logger.Info().Msgf("Using bakehouse profile `%s` at `%s`.", endpoint.Name, endpoint.Host)

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr:            srvCfg.Addr,
		ShutdownTimeout: 10 * time.Second,
		Dependencies: server.Dependencies{
			Session: session,
		},
	})

	return webAPI.Start()
}
