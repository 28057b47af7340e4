package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/diningsim/simulation"
)

func addSimulationFlags(flags *pflag.FlagSet) {
	flags.Duration("interval", simulation.DefaultTickInterval,
		"Wall-clock time between two ticks of a continuous run")
	flags.Int("max-step-ticks", simulation.DefaultMaxStepTicks,
		"Most ticks a single step may take")
	flags.String("record", "",
		"Record the run into the given sqlite file, without extension")
	flags.Bool("log", false, "Print every event to stderr")
}

// builderFromFlags creates a simulation builder configured by the root and
// the simulation flags of cmd.
func builderFromFlags(cmd *cobra.Command) simulation.Builder {
	flags := cmd.Flags()

	interval, _ := flags.GetDuration("interval")
	maxStepTicks, _ := flags.GetInt("max-step-ticks")

	b := simulation.MakeBuilder().
		WithConfig(configFromFlags(flags)).
		WithTickInterval(interval).
		WithMaxStepTicks(maxStepTicks).
		WithWaitTimeTracing()

	if record, _ := flags.GetString("record"); record != "" {
		b = b.WithRecording(record)
	}

	if verbose, _ := flags.GetBool("log"); verbose {
		b = b.WithLogger(log.New(os.Stderr, "", 0))
	}

	return b
}

func printTable(snapshot simulation.Snapshot) {
	states := make([]string, 0, len(snapshot.Philosophers))
	for _, p := range snapshot.Philosophers {
		states = append(states, fmt.Sprintf("P%d:%s", p.ID, p.State))
	}

	fmt.Printf("%10s  %s\n", snapshot.Time, strings.Join(states, " "))
}

func printSummary(s *simulation.Simulation) {
	snapshot := s.Snapshot()
	stats := snapshot.Stats

	fmt.Printf("time %s after %d ticks\n", snapshot.Time, snapshot.Ticks)
	fmt.Printf("meals: total %d, min %d, max %d\n",
		stats.TotalMeals, stats.MinMeals, stats.MaxMeals)

	if waits := s.GetWaitTimeTracer(); waits != nil && waits.TotalCount() > 0 {
		fmt.Printf("waits for forks: average %s, longest %s\n",
			waits.AverageWait(), waits.LongestWait())
	}

	switch {
	case snapshot.Dead:
		fmt.Printf("philosopher %d starved\n", snapshot.DeadID)
	case snapshot.Finished:
		fmt.Printf("every philosopher ate %d times\n",
			snapshot.Config.MealsRequired)
	}
}

func failOnErr(err error) {
	if err != nil {
		log.Printf("error: %v", err)
		atexit.Exit(1)
	}
}
