package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/balkashynov/cafedesk/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard of active sessions",
	Long: `Open the live dashboard. Countdowns are restored for every active session,
and warnings appear when a session is about to run out.

Keys:
  ↑/↓ select · + extend 1h · d end now · r refresh · q quit`,
	Args: cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		n, err := cafe.engine.RestoreTimers(ctx)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		cafe.log.Info().Int("sessions", n).Msg("dashboard opened")

		if err := tui.RunDashboard(ctx, cafe.engine, cafe.timers, nil); err != nil {
			fmt.Printf("Error: %v\n", err)
		}

		cafe.timers.StopAll()
	}),
}
