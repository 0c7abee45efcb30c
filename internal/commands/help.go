package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for cafedesk",
	Long:  `Display detailed help for all cafedesk commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp()
	},
}

func showCustomHelp() {
	fmt.Print(`
 ██████╗ █████╗ ███████╗███████╗██████╗ ███████╗███████╗██╗  ██╗
██╔════╝██╔══██╗██╔════╝██╔════╝██╔══██╗██╔════╝██╔════╝██║ ██╔╝
██║     ███████║█████╗  █████╗  ██║  ██║█████╗  ███████╗█████╔╝
██║     ██╔══██║██╔══╝  ██╔══╝  ██║  ██║██╔══╝  ╚════██║██╔═██╗
╚██████╗██║  ██║██║     ███████╗██████╔╝███████╗███████║██║  ██╗
 ╚═════╝╚═╝  ╚═╝╚═╝     ╚══════╝╚═════╝ ╚══════╝╚══════╝╚═╝  ╚═╝

cafedesk - Prepaid session desk for a gaming cafe

COMMANDS:

  session create          Plan a prepaid session (alias: s create)
    -c, --customer        Customer name (required)
    -s, --system          System name or ID (required)
    -H, --hours           Prepaid hours, e.g. 1, 1.5, 1h30m (default 1)
    -r, --rate            Hourly rate (default: system rate)
    -p, --payment         Cash|Online|Mixed (default Cash)
    --extra               Extra charges collected up front
    --notes               Free-form notes
    --date                Session date (default today)
    --start               Start the clock immediately

    Example:
      cafedesk s create -c Ravi -s PS-5 -H 2.5 -p Online --start

  session start <id>      Start a planned session
    --at                  Login time: now, 18:00, 6:30pm (default now)

  session end <id>        End an active session
    --at                  Logout time (default now)
    --extra               Extra charges (snacks, damages)
    --notes               Closing notes

  session extend <id> <hours>
                          Add prepaid time to an active session

  session show <id>       Show one session in detail
  session ls              List sessions for a day
    --date                Day to list (default today)
    --state               PLANNED|ACTIVE|COMPLETED
    --pending             Only sessions with pending payment
  session active          Active sessions with time remaining
  session pay <id> <status>
                          Set payment status: PAID|Pending|Refunded

  systems ls              List systems
    --available           Only available systems
    --in-use              Only systems in use
  systems add <name>      Register a system
    -t, --type            Console|PC|VR
    -r, --rate            Default hourly rate
  systems rate <name|id> <rate>
                          Change the default hourly rate
  systems rm <name|id>    Remove a system (history is kept)

  report                  Revenue from completed sessions
    --from                First day (default today)
    --to                  Last day (default --from)

  watch                   Live dashboard with countdowns
    Quick actions:
      ↑/↓           Select session
      +             Extend by 1 hour
      d             End now
      r             Refresh
      esc/q         Quit

  version                 Print version information
  help                    Show this help

GLOBAL FLAGS:
  --config                Config file (default ~/.cafedesk/config.yml)
  -v, --verbose           Also log to stderr

`)
}
