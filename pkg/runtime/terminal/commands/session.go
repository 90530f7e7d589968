package commands

import (
	"context"
	"fmt"
	"os/user"

	"github.com/bakeops/ovenboard/pkg/services/config"
	"github.com/bakeops/ovenboard/pkg/services/dashboard"
	"github.com/bakeops/ovenboard/pkg/services/view"
	"github.com/bakeops/ovenboard/pkg/store/client"
)

// viewFlags are the filter/sort flags shared by both view commands.
type viewFlags struct {
	filter    string
	sortKey   string
	ascending bool
}

func defaultConfigPath() string {
	usr, err := user.Current()
	if err != nil {
		return ".ovenboardcfg"
	}
	return fmt.Sprintf("%s/.ovenboardcfg", usr.HomeDir)
}

// buildSession resolves the named profile into a bakehouse client and wraps
// it in a fresh session. The terminal runtime keeps no snapshot store; the
// web console owns that.
func buildSession(ctx context.Context, configPath, profile string, lookbackDays, leadTimeDays int) (*dashboard.Session, error) {
	registry, err := config.NewRegistry(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", configPath, err)
	}

	endpoint, err := registry.GetEndpoint(ctx, profile)
	if err != nil {
		return nil, err
	}

	bakehouse, err := client.NewBakehouse(client.Config{
		BaseURL: endpoint.Host,
		APIKey:  endpoint.APIKey,
		Timeout: endpoint.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bakehouse client: %w", err)
	}

	return dashboard.NewSession(
		dashboard.Dependencies{Client: bakehouse},
		dashboard.Params{LookbackDays: lookbackDays, LeadTimeDays: leadTimeDays},
	)
}

// applyViewFlags maps the flags onto the session's toggle semantics: one
// toggle lands on the default descending order, a second flips to ascending.
func applyViewFlags(flags viewFlags, setFilter func(string), toggleSort func(string) view.SortState) {
	if flags.filter != "" {
		setFilter(flags.filter)
	}
	if flags.sortKey != "" {
		toggleSort(flags.sortKey)
		if flags.ascending {
			toggleSort(flags.sortKey)
		}
	}
}
