package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/bakeops/ovenboard/pkg/models/api"
	"github.com/spf13/cobra"
)

type ForecastCmd struct {
	configPath    string
	profile       string
	startDate     string
	endDate       string
	increment     string
	growthRate    float64
	lookbackWeeks int
	leadTimeDays  int
	expand        []string
	flags         viewFlags
	reporter      ForecastReporter
}

type ForecastReporter interface {
	HandleForecast(view api.ForecastView) error
}

func NewForecastCmd(reporter ForecastReporter) *cobra.Command {
	fc := &ForecastCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Generate and summarize a demand forecast per product",
		RunE:  fc.run,
	}

	cmd.Flags().StringVar(&fc.configPath, "config", defaultConfigPath(), "Path to the profile file")
	cmd.Flags().StringVar(&fc.profile, "profile", "default", "Bakehouse profile to use")
	cmd.Flags().StringVar(&fc.startDate, "start", "", "Forecast start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&fc.endDate, "end", "", "Forecast end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&fc.increment, "increment", "daily", "Forecast increment (daily or weekly)")
	cmd.Flags().Float64Var(&fc.growthRate, "growth", 0, "Growth rate applied by the engine")
	cmd.Flags().IntVar(&fc.lookbackWeeks, "lookback-weeks", 8, "Weeks of history the engine trains on")
	cmd.Flags().IntVar(&fc.leadTimeDays, "lead-time", 7, "Restock order lead time in days")
	cmd.Flags().StringArrayVar(&fc.expand, "expand", nil, "Product keys to expand into per-period records")
	cmd.Flags().StringVar(&fc.flags.filter, "filter", "", "Substring filter on product name or key")
	cmd.Flags().StringVar(&fc.flags.sortKey, "sort", "", "Sort column (total, average, max, ...)")
	cmd.Flags().BoolVar(&fc.flags.ascending, "asc", false, "Sort ascending instead of descending")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (fc *ForecastCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 120*time.Second)
	defer cancel()

	session, err := buildSession(ctx, fc.configPath, fc.profile, 0, fc.leadTimeDays)
	if err != nil {
		return err
	}

	err = session.RefreshForecast(ctx, api.ForecastRequest{
		StartDate:     fc.startDate,
		EndDate:       fc.endDate,
		Increment:     fc.increment,
		GrowthRate:    fc.growthRate,
		LookbackWeeks: fc.lookbackWeeks,
	})
	if err != nil {
		return fmt.Errorf("failed to generate forecast: %w", err)
	}

	applyViewFlags(fc.flags, session.SetForecastFilter, session.ToggleForecastSort)
	for _, key := range fc.expand {
		session.ToggleExpand(key)
	}

	return fc.reporter.HandleForecast(session.ForecastView())
}
