package cli

import (
	"encoding/json"
	"strconv"

	"github.com/Rrens/support-chat/internal/analytics"
	"github.com/spf13/cobra"
)

var (
	statsFrom  string
	statsTo    string
	statsMicro bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print dashboard statistics as JSON",
	Long: `Compute the dashboard statistics the API serves at /dashboard/stats.

Dates are calendar days (YYYY-MM-DD) or RFC3339 timestamps, interpreted in
the configured analytics timezone.

Examples:
  supportctl stats
  supportctl stats --from 2024-05-01 --to 2024-05-31
  supportctl stats --micro=false

Without --micro every session is counted.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsFrom, "from", "", "first day to include")
	statsCmd.Flags().StringVar(&statsTo, "to", "", "last day to include")
	statsCmd.Flags().BoolVar(&statsMicro, "micro", true, "only sessions with (true) or without (false) micro interactions")
}

func runStats(cmd *cobra.Command, args []string) error {
	micro := ""
	if cmd.Flags().Changed("micro") {
		micro = strconv.FormatBool(statsMicro)
	}

	filter, err := analytics.ParseFilter(statsFrom, statsTo, micro, cfg.Analytics.Location())
	if err != nil {
		return err
	}

	stats := analyticsService().Compute(cmd.Context(), filter)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}
