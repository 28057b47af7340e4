package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/diningsim/dining"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the table continuously until it halts.",
	Long: `Run ticks the table from a wall-clock ticker until a philosopher ` +
		`starves, every philosopher ate the required meals, the timeout ` +
		`expires, or the program is interrupted.`,
	Run: func(cmd *cobra.Command, _ []string) {
		timeout, _ := cmd.Flags().GetDuration("timeout")
		watch, _ := cmd.Flags().GetBool("watch")

		s, err := builderFromFlags(cmd).Build()
		failOnErr(err)

		halt := make(chan struct{}, 1)
		s.RegisterHaltHandler(func(dining.TickReport) {
			select {
			case halt <- struct{}{}:
			default:
			}
		})

		ctx, cancel := signal.NotifyContext(
			context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		failOnErr(s.SetRunning(true))

		waitForHalt(ctx, halt, watch, func() { printTable(s.Snapshot()) })

		s.Terminate()
		printSummary(s)
	},
}

// waitForHalt blocks until the table halts or ctx is done. With watch set,
// show is called once per second in the meantime.
func waitForHalt(
	ctx context.Context,
	halt <-chan struct{},
	watch bool,
	show func(),
) {
	var tick <-chan time.Time

	if watch {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		tick = ticker.C
	}

	for {
		select {
		case <-halt:
			return
		case <-ctx.Done():
			if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				show()
			}

			return
		case <-tick:
			show()
		}
	}
}

func init() {
	addSimulationFlags(runCmd.Flags())
	runCmd.Flags().Duration("timeout", 0,
		"Stop after this much wall-clock time, 0 for never")
	runCmd.Flags().Bool("watch", false,
		"Print the philosopher states every second")
	rootCmd.AddCommand(runCmd)
}
