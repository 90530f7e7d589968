package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/bakeops/ovenboard/pkg/models/api"
	"github.com/spf13/cobra"
)

type InventoryCmd struct {
	configPath   string
	profile      string
	lookbackDays int
	leadTimeDays int
	flags        viewFlags
	reporter     InventoryReporter
}

type InventoryReporter interface {
	HandleInventory(view api.InventoryView) error
}

func NewInventoryCmd(reporter InventoryReporter) *cobra.Command {
	ic := &InventoryCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Show current stock positions with restock status",
		RunE:  ic.run,
	}

	cmd.Flags().StringVar(&ic.configPath, "config", defaultConfigPath(), "Path to the profile file")
	cmd.Flags().StringVar(&ic.profile, "profile", "default", "Bakehouse profile to use")
	cmd.Flags().IntVar(&ic.lookbackDays, "lookback", 30, "Days of history for consumption rates")
	cmd.Flags().IntVar(&ic.leadTimeDays, "lead-time", 7, "Restock order lead time in days")
	cmd.Flags().StringVar(&ic.flags.filter, "filter", "", "Substring filter on product name or key")
	cmd.Flags().StringVar(&ic.flags.sortKey, "sort", "", "Sort column (quantity, status, days_until_restock, ...)")
	cmd.Flags().BoolVar(&ic.flags.ascending, "asc", false, "Sort ascending instead of descending")

	return cmd
}

func (ic *InventoryCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	session, err := buildSession(ctx, ic.configPath, ic.profile, ic.lookbackDays, ic.leadTimeDays)
	if err != nil {
		return err
	}

	if err := session.RefreshInventory(ctx); err != nil {
		return fmt.Errorf("failed to fetch inventory: %w", err)
	}

	applyViewFlags(ic.flags, session.SetInventoryFilter, session.ToggleInventorySort)
	return ic.reporter.HandleInventory(session.InventoryView())
}
