package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/fixora-ai/fixora/internal/usage"
)

var (
	usageCmd = &cobra.Command{
		Use:   "usage",
		Short: "Inspect and maintain daily usage counters",
	}

	usageStatusCmd = &cobra.Command{
		Use:   "status <client-id>",
		Short: "Print today's usage for a client",
		Args:  cobra.ExactArgs(1),
		RunE:  runUsageStatus,
	}

	usageSweepCmd = &cobra.Command{
		Use:   "sweep",
		Short: "Delete counters from previous days",
		Args:  cobra.NoArgs,
		RunE:  runUsageSweep,
	}
)

func init() {
	usageCmd.AddCommand(usageStatusCmd, usageSweepCmd)
	rootCmd.AddCommand(usageCmd)
}

func openService(cmd *cobra.Command) (*usage.Service, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := usage.OpenStore(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}
	return usage.NewServiceFromConfig(store, cfg.Usage), closeStore, nil
}

func runUsageStatus(cmd *cobra.Command, args []string) error {
	svc, closeStore, err := openService(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	status, err := svc.Status(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		ClientID string       `json:"clientId"`
		Day      string       `json:"day"`
		Usage    usage.Status `json:"usage"`
	}{args[0], svc.Today(), status})
}

func runUsageSweep(cmd *cobra.Command, _ []string) error {
	svc, closeStore, err := openService(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	removed, err := svc.Sweep(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Printf("removed %d stale usage records\n", removed)
	return nil
}
