package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/templui/balancewheel/internal/period"
)

func ProgressCmd() *cobra.Command {
	var (
		userID string
		per    string
		at     string
	)

	c := &cobra.Command{
		Use:   "progress",
		Short: "Print a user's completion distribution as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := period.ParsePeriod(per)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			now := time.Now().In(a.Cfg.Location)
			if at != "" {
				now, err = time.ParseInLocation(time.DateOnly, at, a.Cfg.Location)
				if err != nil {
					return fmt.Errorf("--at must be YYYY-MM-DD: %w", err)
				}
			}

			dist, err := a.ProgressService.Progress(ctx, userID, p, now)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(dist)
		},
	}

	c.Flags().StringVar(&userID, "user", "", "user ID (required)")
	c.Flags().StringVar(&per, "period", string(period.Week), "day, week, month, year or lifetime")
	c.Flags().StringVar(&at, "at", "", "reference date, YYYY-MM-DD (default: today)")
	c.MarkFlagRequired("user")

	return c
}
