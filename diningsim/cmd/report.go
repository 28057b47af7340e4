package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/diningsim/datarecording"
	"github.com/sarchlab/diningsim/dining"
	"github.com/sarchlab/diningsim/tracing"
)

var reportCmd = &cobra.Command{
	Use:   "report <recording>",
	Short: "Summarize a recorded run.",
	Long: `Report reads a database written by the --record flag and prints ` +
		`the run information, the trace sessions, and the number of events ` +
		`of each kind.`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		path := args[0]
		if _, err := os.Stat(path); err != nil {
			path += ".sqlite3"
		}

		_, err := os.Stat(path)
		failOnErr(err)

		reader := tracing.NewTraceReader(datarecording.NewReader(path))
		defer reader.Close()

		failOnErr(report(context.Background(), reader))
	},
}

var reportedKinds = []dining.EventKind{
	dining.EventTookFork,
	dining.EventStartedEating,
	dining.EventStartedSleeping,
	dining.EventStartedThinking,
	dining.EventDied,
	dining.EventAllFed,
}

func report(ctx context.Context, reader *tracing.TraceReader) error {
	info, err := reader.RunInfo(ctx)
	if err != nil {
		return err
	}

	for _, i := range info {
		fmt.Printf("%-18s %s\n", i.Property+":", i.Value)
	}

	sessions, err := reader.Sessions(ctx)
	if err != nil {
		return err
	}

	for _, s := range sessions {
		fmt.Printf("session %d: %s to %s\n", s.Session,
			time.Duration(s.SessionStart), time.Duration(s.SessionEnd))
	}

	total, err := reader.CountEvents(ctx, tracing.EventQuery{})
	if err != nil {
		return err
	}

	fmt.Printf("%d events\n", total)

	for _, kind := range reportedKinds {
		n, err := reader.CountEvents(ctx, tracing.EventQuery{Kind: kind})
		if err != nil {
			return err
		}

		if n > 0 {
			fmt.Printf("  %-16s %d\n", kind, n)
		}
	}

	deaths, err := reader.Deaths(ctx)
	if err != nil {
		return err
	}

	if len(deaths) > 0 {
		victims := make([]string, 0, len(deaths))
		for _, d := range deaths {
			victims = append(victims, fmt.Sprintf("P%d at %s (session %d)",
				d.PhilosopherID, time.Duration(d.Time), d.Session))
		}

		fmt.Printf("starved: %s\n", strings.Join(victims, ", "))
	}

	return nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
