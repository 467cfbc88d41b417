package cmd

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"
)

func SeedCmd() *cobra.Command {
	var (
		userID string
		year   int
		month  int
	)

	c := &cobra.Command{
		Use:   "seed",
		Short: "Create placeholder goals for a user's year and month",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			now := time.Now().In(a.Cfg.Location)
			if year == 0 {
				year = now.Year()
			}
			if month == 0 {
				month = int(now.Month())
			}

			result, err := a.GoalService.SeedPlaceholders(ctx, userID, year, month)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	c.Flags().StringVar(&userID, "user", "", "user ID (required)")
	c.Flags().IntVar(&year, "year", 0, "year to seed (default: current)")
	c.Flags().IntVar(&month, "month", 0, "month to seed, 1-12 (default: current)")
	c.MarkFlagRequired("user")

	return c
}
