package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/cafedesk/internal/billing"
	"github.com/balkashynov/cafedesk/internal/models"
	"github.com/balkashynov/cafedesk/internal/parser"
	"github.com/balkashynov/cafedesk/internal/session"
	"github.com/balkashynov/cafedesk/internal/timeutil"
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"s"},
	Short:   "Plan, start, extend and end prepaid sessions",
}

var sessionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Plan a prepaid session",
	Long: `Plan a prepaid session and record the upfront payment.

Examples:
  cafedesk session create -c "Asha" -s PC-01 -H 2
  cafedesk session create -c "Ravi" -s PS-5 -H 90m -p Online --extra 40 --start`,
	Args: cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		now := time.Now()

		customer, _ := cmd.Flags().GetString("customer")
		systemArg, _ := cmd.Flags().GetString("system")
		hoursArg, _ := cmd.Flags().GetString("hours")
		rateArg, _ := cmd.Flags().GetString("rate")
		payment, _ := cmd.Flags().GetString("payment")
		extraArg, _ := cmd.Flags().GetString("extra")
		notes, _ := cmd.Flags().GetString("notes")
		dateArg, _ := cmd.Flags().GetString("date")
		startNow, _ := cmd.Flags().GetBool("start")

		system, err := resolveSystem(ctx, systemArg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		hours, err := parser.ParseHours(hoursArg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		rate := system.DefaultHourlyRate
		if rateArg != "" {
			if rate, err = parser.ParseAmount(rateArg); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
		}

		extra, err := parser.ParseAmount(extraArg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		sessionDate, err := parser.ParseDate(dateArg, now)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if startNow && system.Availability != models.Available {
			fmt.Printf("Error: system %s is %s\n", system.Name, system.Availability)
			return
		}

		id, err := cafe.engine.CreatePrepaidSession(ctx, session.CreateRequest{
			Date:               sessionDate,
			CustomerName:       customer,
			SystemID:           system.ID,
			PlannedDurationMin: parser.HoursToMinutes(hours),
			HourlyRate:         rate,
			PaymentMethod:      normalizePayment(payment),
			ExtraCharges:       extra,
			Notes:              notes,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		s, err := cafe.engine.GetSession(ctx, id)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("🎮 Planned session #%d for %s on %s\n", s.ID, s.CustomerName, s.SystemName())
		fmt.Printf("Duration: %s · Paid: %s\n", timeutil.FormatDuration(s.PlannedDurationMin), money(s.PaidAmount))

		if startNow {
			login := timeutil.FromTime(now).String()
			if err := cafe.engine.StartSession(ctx, id, login); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			fmt.Printf("⏱️  Started at %s\n", login)
		}
	}),
}

var sessionQuickCmd = &cobra.Command{
	Use:     "quick [text]",
	Aliases: []string{"walkin"},
	Short:   "Create and start a walk-in session in one line",
	Long: `Create and start a walk-in session from quick-entry text.

Syntax:
  @SYSTEM       system name (required)
  2h, 90m       prepaid time (default 1h)
  +40           extra charges
  cash|online   payment method (default cash)

Examples:
  cafedesk session quick "Ravi @PS-5 2h online"
  cafedesk s walkin "Asha Rao @PC-01 90m +30"`,
	Args: cobra.MinimumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		now := time.Now()

		walkIn := parser.ParseWalkIn(strings.Join(args, " "))
		if len(walkIn.Errors) > 0 {
			for _, e := range walkIn.Errors {
				fmt.Printf("Error: %s\n", e)
			}
			return
		}

		system, err := resolveSystem(ctx, walkIn.System)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if system.Availability != models.Available {
			fmt.Printf("Error: system %s is %s\n", system.Name, system.Availability)
			return
		}

		payment := models.PaymentCash
		if walkIn.Payment != "" {
			payment = normalizePayment(walkIn.Payment)
		}

		id, err := cafe.engine.CreatePrepaidSession(ctx, session.CreateRequest{
			Date:               timeutil.DateKey(now),
			CustomerName:       walkIn.Customer,
			SystemID:           system.ID,
			PlannedDurationMin: parser.HoursToMinutes(walkIn.Hours),
			HourlyRate:         system.DefaultHourlyRate,
			PaymentMethod:      payment,
			ExtraCharges:       walkIn.Extra,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		login := timeutil.FromTime(now).String()
		if err := cafe.engine.StartSession(ctx, id, login); err != nil {
			fmt.Printf("Error: session #%d was planned but not started: %v\n", id, err)
			return
		}

		s, err := cafe.engine.GetSession(ctx, id)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("🎮 #%d %s on %s from %s\n", s.ID, s.CustomerName, s.SystemName(), login)
		fmt.Printf("Duration: %s · Paid: %s\n", timeutil.FormatDuration(s.PlannedDurationMin), money(s.PaidAmount))
	}),
}

var sessionStartCmd = &cobra.Command{
	Use:   "start [session-id]",
	Short: "Start a planned session",
	Long: `Start a planned session. The login time defaults to now.

Examples:
  cafedesk session start 12
  cafedesk session start 12 --at "6:05 PM"`,
	Args: cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		id, err := parseSessionID(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		at, _ := cmd.Flags().GetString("at")
		login, err := parser.ParseClock(at, time.Now())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		s, err := cafe.engine.GetSession(ctx, id)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if s.System != nil && s.System.Availability != models.Available {
			fmt.Printf("Error: system %s is %s\n", s.System.Name, s.System.Availability)
			return
		}

		if err := cafe.engine.StartSession(ctx, id, login.String()); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("⏱️  Started session #%d: %s on %s\n", s.ID, s.CustomerName, s.SystemName())
		fmt.Printf("Login: %s · Planned: %s\n", login, timeutil.FormatDuration(s.PlannedDurationMin))
	}),
}

var sessionEndCmd = &cobra.Command{
	Use:   "end [session-id]",
	Short: "End an active session",
	Long: `End an active session. The logout time defaults to now.
Leaving early is not refunded; extra charges are added to the amount due.

Examples:
  cafedesk session end 12
  cafedesk session end 12 --at 20:30 --extra 25 --notes "2 colas"`,
	Args: cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		id, err := parseSessionID(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		at, _ := cmd.Flags().GetString("at")
		logout, err := parser.ParseClock(at, time.Now())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		extraArg, _ := cmd.Flags().GetString("extra")
		extra, err := parser.ParseAmount(extraArg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		notes, _ := cmd.Flags().GetString("notes")

		err = cafe.engine.EndSession(ctx, id, session.EndRequest{
			LogoutTime:   logout.String(),
			ExtraCharges: extra,
			Notes:        notes,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		s, err := cafe.engine.GetSession(ctx, id)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("⏹️  Ended session #%d: %s on %s\n", s.ID, s.CustomerName, s.SystemName())
		if s.ActualDurationMin != nil {
			fmt.Printf("Played: %s of %s\n", timeutil.FormatDuration(*s.ActualDurationMin), timeutil.FormatDuration(s.PlannedDurationMin))
		}
		fmt.Printf("Total due: %s (paid %s)\n", money(s.TotalDue), money(s.PaidAmount))
	}),
}

var sessionExtendCmd = &cobra.Command{
	Use:   "extend [session-id] [hours]",
	Short: "Add prepaid time to an active session",
	Long: `Add prepaid time to an active session at its hourly rate.

Examples:
  cafedesk session extend 12 1
  cafedesk session extend 12 30m`,
	Args: cobra.ExactArgs(2),
	Run: withApp(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		id, err := parseSessionID(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		hours, err := parser.ParseHours(args[1])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if err := cafe.engine.ExtendSession(ctx, id, hours); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		s, err := cafe.engine.GetSession(ctx, id)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("➕ Extended session #%d by %s\n", s.ID, timeutil.FormatDuration(parser.HoursToMinutes(hours)))
		fmt.Printf("Planned: %s · Total due: %s\n", timeutil.FormatDuration(s.PlannedDurationMin), money(s.TotalDue))
	}),
}

var sessionShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show a session's details",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string) {
		id, err := parseSessionID(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		s, err := cafe.engine.GetSession(cmd.Context(), id)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		printSessionDetails(s)
	}),
}

var sessionListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List sessions",
	Long:    "List sessions for a day (default today), or filter by state or payment",
	Args:    cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		dateArg, _ := cmd.Flags().GetString("date")
		state, _ := cmd.Flags().GetString("state")
		pending, _ := cmd.Flags().GetBool("pending")

		var (
			sessions []models.Session
			err      error
		)
		switch {
		case pending:
			sessions, err = cafe.engine.PendingSessions(ctx)
		case strings.EqualFold(state, string(models.StatePlanned)):
			sessions, err = cafe.engine.PlannedSessions(ctx)
		case strings.EqualFold(state, string(models.StateActive)):
			sessions, err = cafe.engine.ActiveSessions(ctx)
		case strings.EqualFold(state, string(models.StateCompleted)):
			var from string
			if dateArg != "" {
				if from, err = parser.ParseDate(dateArg, time.Now()); err != nil {
					break
				}
			}
			sessions, err = cafe.engine.CompletedSessions(ctx, from, from)
		case state != "":
			err = fmt.Errorf("unknown state %q. Use: planned, active, completed", state)
		default:
			var day string
			if day, err = parser.ParseDate(dateArg, time.Now()); err == nil {
				sessions, err = cafe.engine.SessionsByDate(ctx, day)
			}
		}
		if err != nil {
			fmt.Printf("Error fetching sessions: %v\n", err)
			return
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found. Use 'cafedesk session create' to plan one.")
			return
		}

		printSessionTable(sessions)
	}),
}

var sessionActiveCmd = &cobra.Command{
	Use:   "active",
	Short: "Show active sessions with time remaining",
	Args:  cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		sessions, err := cafe.engine.ActiveSessions(ctx)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if len(sessions) == 0 {
			fmt.Println("No active sessions")
			return
		}

		// Countdowns live in memory; rebuild them from the stored login times
		if _, err := cafe.engine.RestoreTimers(ctx); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("%-4s %-20s %-8s %-9s %-8s %-9s\n", "ID", "CUSTOMER", "SYSTEM", "LOGIN", "PLANNED", "REMAINING")
		fmt.Println(strings.Repeat("-", 64))
		for _, s := range sessions {
			login := "-"
			if s.LoginTime != nil {
				login = *s.LoginTime
			}
			remaining, ok := cafe.timers.RemainingFormatted(s.ID)
			if !ok {
				remaining = "--:--:--"
			}
			fmt.Printf("%-4d %-20s %-8s %-9s %-8s %-9s\n",
				s.ID,
				truncate(s.CustomerName, 20),
				truncate(s.SystemName(), 8),
				login,
				timeutil.FormatDuration(s.PlannedDurationMin),
				remaining)
		}
	}),
}

var sessionPayCmd = &cobra.Command{
	Use:   "pay [session-id] [PAID|Pending|Refunded]",
	Short: "Update a session's payment status",
	Args:  cobra.ExactArgs(2),
	Run: withApp(func(cmd *cobra.Command, args []string) {
		id, err := parseSessionID(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		status := normalizeStatus(args[1])
		if err := cafe.engine.UpdatePaymentStatus(cmd.Context(), id, status); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("💳 Session #%d marked %s\n", id, status)
	}),
}

func init() {
	sessionCreateCmd.Flags().StringP("customer", "c", "", "Customer name")
	sessionCreateCmd.Flags().StringP("system", "s", "", "System name or ID")
	sessionCreateCmd.Flags().StringP("hours", "H", "1", "Planned duration (1.5, 2h, 90m)")
	sessionCreateCmd.Flags().StringP("rate", "r", "", "Hourly rate (defaults to the system's rate)")
	sessionCreateCmd.Flags().StringP("payment", "p", string(models.PaymentCash), "Payment method: Cash|Online|Mixed")
	sessionCreateCmd.Flags().String("extra", "", "Extra charges collected upfront")
	sessionCreateCmd.Flags().String("notes", "", "Notes")
	sessionCreateCmd.Flags().String("date", "", "Session date (today, yesterday, yyyy-mm-dd, dd/mm/yyyy)")
	sessionCreateCmd.Flags().Bool("start", false, "Start the session immediately")
	_ = sessionCreateCmd.MarkFlagRequired("customer")
	_ = sessionCreateCmd.MarkFlagRequired("system")

	sessionStartCmd.Flags().String("at", "now", "Login time (HH:MM[:SS] or h:MM AM/PM)")

	sessionEndCmd.Flags().String("at", "now", "Logout time (HH:MM[:SS] or h:MM AM/PM)")
	sessionEndCmd.Flags().String("extra", "", "Extra charges (snacks, drinks)")
	sessionEndCmd.Flags().String("notes", "", "Notes")

	sessionListCmd.Flags().String("date", "", "Day to list (default today)")
	sessionListCmd.Flags().String("state", "", "Filter by state: planned|active|completed")
	sessionListCmd.Flags().Bool("pending", false, "Show sessions with pending payment")

	sessionCmd.AddCommand(sessionCreateCmd)
	sessionCmd.AddCommand(sessionQuickCmd)
	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionEndCmd)
	sessionCmd.AddCommand(sessionExtendCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionActiveCmd)
	sessionCmd.AddCommand(sessionPayCmd)
}

// parseSessionID parses a positive session id argument
func parseSessionID(arg string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(arg, "#"), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid session ID '%s'", arg)
	}
	return uint(id), nil
}

// resolveSystem finds a system by name or numeric id
func resolveSystem(ctx context.Context, arg string) (*models.System, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, errors.New("system is required")
	}

	if id, err := strconv.ParseUint(arg, 10, 32); err == nil {
		sys, err := cafe.store.FindSystem(ctx, uint(id))
		if err != nil {
			return nil, err
		}
		if sys != nil {
			return sys, nil
		}
	}

	sys, err := cafe.store.FindSystemByName(ctx, arg)
	if err != nil {
		return nil, err
	}
	if sys == nil {
		return nil, fmt.Errorf("system '%s' not found. Use 'cafedesk systems ls' to see all systems", arg)
	}
	return sys, nil
}

func normalizePayment(p string) models.PaymentMethod {
	for _, m := range models.PaymentMethods {
		if strings.EqualFold(p, string(m)) {
			return m
		}
	}
	return models.PaymentMethod(p)
}

func normalizeStatus(s string) models.PaymentStatus {
	for _, st := range []models.PaymentStatus{models.PaymentPaid, models.PaymentPending, models.PaymentRefunded} {
		if strings.EqualFold(s, string(st)) {
			return st
		}
	}
	return models.PaymentStatus(s)
}

// money formats an amount with the configured currency symbol
func money(amount float64) string {
	currency := "₹"
	if cafe != nil && cafe.cfg.Billing.Currency != "" {
		currency = cafe.cfg.Billing.Currency
	}
	return fmt.Sprintf("%s%.2f", currency, billing.Round(amount))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func printSessionTable(sessions []models.Session) {
	fmt.Printf("%-4s %-10s %-20s %-8s %-10s %-9s %-9s %-10s %s\n", "ID", "DATE", "CUSTOMER", "SYSTEM", "STATE", "LOGIN", "PLANNED", "TOTAL", "PAYMENT")
	fmt.Println(strings.Repeat("-", 100))

	for _, s := range sessions {
		login := "-"
		if s.LoginTime != nil {
			login = *s.LoginTime
		}
		fmt.Printf("%-4d %-10s %-20s %-8s %-10s %-9s %-9s %-10s %s/%s\n",
			s.ID,
			s.Date,
			truncate(s.CustomerName, 20),
			truncate(s.SystemName(), 8),
			s.State,
			login,
			timeutil.FormatDuration(s.PlannedDurationMin),
			money(s.TotalDue),
			s.PaymentMethod,
			s.PaymentStatus)
	}
}

func printSessionDetails(s *models.Session) {
	optional := func(v *string) string {
		if v == nil {
			return "-"
		}
		return *v
	}

	fmt.Printf("Session #%d · %s\n", s.ID, s.State)
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Customer:   %s\n", s.CustomerName)
	fmt.Printf("System:     %s\n", s.SystemName())
	fmt.Printf("Date:       %s\n", s.Date)
	fmt.Printf("Login:      %s\n", optional(s.LoginTime))
	fmt.Printf("Logout:     %s\n", optional(s.LogoutTime))
	fmt.Printf("Planned:    %s\n", timeutil.FormatDuration(s.PlannedDurationMin))
	if s.ActualDurationMin != nil {
		fmt.Printf("Played:     %s\n", timeutil.FormatDuration(*s.ActualDurationMin))
	} else if s.State == models.StateActive {
		fmt.Printf("Elapsed:    %s\n", timeutil.FormatDuration(cafe.engine.ElapsedMinutes(s)))
	}
	fmt.Printf("Rate:       %s/h\n", money(s.HourlyRate))
	fmt.Printf("Paid:       %s (%s)\n", money(s.PaidAmount), s.PaymentMethod)
	fmt.Printf("Extras:     %s\n", money(s.ExtraCharges))
	fmt.Printf("Total due:  %s\n", money(s.TotalDue))
	fmt.Printf("Payment:    %s\n", s.PaymentStatus)
	if s.Notes != "" {
		fmt.Printf("Notes:      %s\n", s.Notes)
	}
}
