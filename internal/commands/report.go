package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/cafedesk/internal/models"
	"github.com/balkashynov/cafedesk/internal/parser"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Revenue from completed sessions",
	Long: `Summarize revenue from completed sessions over a date range (default today).

Examples:
  cafedesk report
  cafedesk report --from 2026-03-01 --to 2026-03-31
  cafedesk report --from yesterday`,
	Args: cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string) {
		now := time.Now()

		fromArg, _ := cmd.Flags().GetString("from")
		toArg, _ := cmd.Flags().GetString("to")

		from, err := parser.ParseDate(fromArg, now)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		to := from
		if toArg != "" {
			if to, err = parser.ParseDate(toArg, now); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
		}

		rev, err := cafe.engine.RevenueSummary(cmd.Context(), from, to)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		period := from
		if from != to {
			period = from + " → " + to
		}

		fmt.Printf("📊 Revenue for %s\n", period)
		fmt.Println(strings.Repeat("-", 40))
		fmt.Printf("Completed sessions: %d", rev.Sessions)
		if rev.Refunded > 0 {
			fmt.Printf(" (%d refunded)", rev.Refunded)
		}
		fmt.Println()
		for _, m := range models.PaymentMethods {
			fmt.Printf("  %-8s %s\n", m, money(rev.ByMethod[m]))
		}
		fmt.Printf("Total:   %s\n", money(rev.Total))
		if rev.Pending > 0 {
			fmt.Printf("Pending: %s\n", money(rev.Pending))
		}
	}),
}

func init() {
	reportCmd.Flags().String("from", "", "First day (default today)")
	reportCmd.Flags().String("to", "", "Last day (default same as --from)")
}
