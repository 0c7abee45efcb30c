package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/cafedesk/internal/models"
	"github.com/balkashynov/cafedesk/internal/parser"
)

var systemsCmd = &cobra.Command{
	Use:     "systems",
	Aliases: []string{"sys"},
	Short:   "Manage rentable consoles and PCs",
}

var systemsListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List systems",
	Args:    cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string) {
		available, _ := cmd.Flags().GetBool("available")
		inUse, _ := cmd.Flags().GetBool("in-use")

		var filter models.Availability
		switch {
		case available && inUse:
			fmt.Println("Error: use only one of --available and --in-use")
			return
		case available:
			filter = models.Available
		case inUse:
			filter = models.InUse
		}

		systems, err := cafe.store.ListSystems(cmd.Context(), filter)
		if err != nil {
			fmt.Printf("Error fetching systems: %v\n", err)
			return
		}

		if len(systems) == 0 {
			fmt.Println("No systems found. Use 'cafedesk systems add' to register one.")
			return
		}

		fmt.Printf("%-4s %-12s %-10s %-10s %s\n", "ID", "NAME", "TYPE", "RATE/H", "STATUS")
		fmt.Println(strings.Repeat("-", 50))
		for _, s := range systems {
			icon := "●"
			if s.Availability == models.InUse {
				icon = "◉"
			}
			fmt.Printf("%-4d %-12s %-10s %-10s %s %s\n",
				s.ID,
				truncate(s.Name, 12),
				truncate(s.Type, 10),
				money(s.DefaultHourlyRate),
				icon,
				s.Availability)
		}
	}),
}

var systemsAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Register a new system",
	Long: `Register a new system.

Examples:
  cafedesk systems add PC-03 --type PC --rate 120
  cafedesk systems add VR-1 --type VR --rate 350`,
	Args: cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string) {
		name := strings.TrimSpace(args[0])
		if name == "" {
			fmt.Println("Error: system name cannot be empty")
			return
		}

		typ, _ := cmd.Flags().GetString("type")
		rateArg, _ := cmd.Flags().GetString("rate")
		rate, err := parser.ParseAmount(rateArg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if rate <= 0 {
			fmt.Println("Error: rate must be greater than 0")
			return
		}

		existing, err := cafe.store.FindSystemByName(cmd.Context(), name)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if existing != nil {
			fmt.Printf("Error: system '%s' already exists (ID %d)\n", name, existing.ID)
			return
		}

		id, err := cafe.store.InsertSystem(cmd.Context(), &models.System{
			Name:              name,
			Type:              typ,
			DefaultHourlyRate: rate,
			Availability:      models.Available,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("✅ Added system %s (ID %d) at %s/h\n", name, id, money(rate))
	}),
}

var systemsRateCmd = &cobra.Command{
	Use:   "rate [name|id] [rate]",
	Short: "Change a system's default hourly rate",
	Args:  cobra.ExactArgs(2),
	Run: withApp(func(cmd *cobra.Command, args []string) {
		sys, err := resolveSystem(cmd.Context(), args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		rate, err := parser.ParseAmount(args[1])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if rate <= 0 {
			fmt.Println("Error: rate must be greater than 0")
			return
		}

		if _, err := cafe.store.SetSystemRate(cmd.Context(), sys.ID, rate); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("💱 %s rate changed from %s to %s/h\n", sys.Name, money(sys.DefaultHourlyRate), money(rate))
	}),
}

var systemsRemoveCmd = &cobra.Command{
	Use:     "rm [name|id]",
	Aliases: []string{"remove"},
	Short:   "Remove a system (session history is kept)",
	Args:    cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string) {
		sys, err := resolveSystem(cmd.Context(), args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if sys.Availability == models.InUse {
			fmt.Printf("Error: %s is in use; end its session first\n", sys.Name)
			return
		}

		if _, err := cafe.store.DeleteSystem(cmd.Context(), sys.ID); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("🗑️  Removed system %s\n", sys.Name)
	}),
}

func init() {
	systemsListCmd.Flags().Bool("available", false, "Show only available systems")
	systemsListCmd.Flags().Bool("in-use", false, "Show only systems in use")

	systemsAddCmd.Flags().StringP("type", "t", "Console", "System type (Console, PC, VR)")
	systemsAddCmd.Flags().StringP("rate", "r", "100", "Default hourly rate")

	systemsCmd.AddCommand(systemsListCmd)
	systemsCmd.AddCommand(systemsAddCmd)
	systemsCmd.AddCommand(systemsRateCmd)
	systemsCmd.AddCommand(systemsRemoveCmd)
}
