package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/cyclecast/internal/db"
	"github.com/terraincognita07/cyclecast/internal/services"
)

func PredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Print the cycle prediction for an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			rawToday, _ := cmd.Flags().GetString("today")

			today := services.CalendarDayAt(time.Now(), time.Local)
			if rawToday != "" {
				parsed, err := time.Parse("2006-01-02", rawToday)
				if err != nil {
					return fmt.Errorf("invalid --today %q: expected YYYY-MM-DD", rawToday)
				}
				today = parsed
			}

			database, repos, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer db.Close(database)

			return runPredict(cmd.Context(), repos, cmd.OutOrStdout(), email, today)
		},
	}
	cmd.Flags().String("db", "", "sqlite database path (defaults to database.path from config)")
	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("today", "", "evaluate as of this date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func runPredict(ctx context.Context, repos *db.Repositories, out io.Writer, email string, today time.Time) error {
	user, found, err := repos.Users.FindByNormalizedEmail(ctx, services.NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: %s", services.ErrUserNotFound, services.NormalizeEmail(email))
	}

	source := db.NewSource(repos)
	snapshot, err := services.NewPredictionService(source, source).Refresh(ctx, user.ID, services.RefreshInitialLoad)
	if err != nil {
		return err
	}

	renderPrediction(out, snapshot.Result, today)
	return nil
}

func renderPrediction(out io.Writer, result services.PredictionResult, today time.Time) {
	label := color.New(color.Faint).SprintFunc()

	if result.NextPeriodDate == nil {
		fmt.Fprintln(out, "No period starts logged yet.")
		fmt.Fprintf(out, "%s %d days (default)\n", label("Cycle length: "), result.CycleLengthDays)
		fmt.Fprintf(out, "%s %d days (default)\n", label("Period length:"), result.PeriodLengthDays)
		return
	}

	daysUntil, _ := services.DaysUntilNextPeriod(result.NextPeriodDate, today)
	fmt.Fprintf(out, "%s %s (%s)\n", label("Next period:  "), services.FormatCalendarDate(*result.NextPeriodDate), describeDaysUntil(daysUntil))
	fmt.Fprintf(out, "%s %d days, %s (std dev %.1f)\n", label("Cycle length: "), result.CycleLengthDays, regularityLabel(result.Regularity), result.StdDevDays)
	fmt.Fprintf(out, "%s %d days\n", label("Period length:"), result.PeriodLengthDays)

	cycleDay := services.CurrentCycleDay(result.LastPeriodStart, today)
	if cycleDay > 0 {
		status := services.ComputeFertilityStatus(cycleDay, result.CycleLengthDays)
		fmt.Fprintf(out, "%s %d (fertility %s)\n", label("Cycle day:    "), cycleDay, status.Status)
	}
	if window, ok := services.EstimateFertilityWindow(result); ok {
		fmt.Fprintf(out, "%s %s to %s, ovulation %s\n",
			label("Fertile:      "),
			services.FormatCalendarDate(window.WindowStart),
			services.FormatCalendarDate(window.WindowEnd),
			services.FormatCalendarDate(window.OvulationDate),
		)
	}
	if services.CycleDataLooksStale(result.LastPeriodStart, today, result.CycleLengthDays) {
		fmt.Fprintln(out, color.New(color.FgYellow).Sprint("Last logged start is older than one cycle; log a new period start to refresh the prediction."))
	}
}

func describeDaysUntil(days int) string {
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "in 1 day"
	case days > 1:
		return fmt.Sprintf("in %d days", days)
	case days == -1:
		return color.New(color.FgRed).Sprint("1 day late")
	default:
		return color.New(color.FgRed).Sprintf("%d days late", -days)
	}
}

func regularityLabel(regularity services.Regularity) string {
	switch regularity {
	case services.RegularityRegular:
		return color.New(color.FgGreen).Sprint(regularity)
	case services.RegularityIrregular:
		return color.New(color.FgYellow).Sprint(regularity)
	default:
		return color.New(color.FgHiBlack).Sprint(regularity)
	}
}
