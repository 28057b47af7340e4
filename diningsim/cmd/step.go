package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/diningsim/simulation"
)

var stepCmd = &cobra.Command{
	Use:   "step",
	Short: "Advance the table one change at a time.",
	Long: `Step advances the table in step mode and prints the philosopher ` +
		`states after each step. A step lasts until something changes at ` +
		`the table.`,
	Run: func(cmd *cobra.Command, _ []string) {
		steps, _ := cmd.Flags().GetInt("steps")

		s, err := builderFromFlags(cmd).WithStepMode().Build()
		failOnErr(err)

		printTable(s.Snapshot())

		_, err = takeSteps(s, steps)
		failOnErr(err)

		s.Terminate()
		printSummary(s)
	},
}

// takeSteps steps the simulation until it halts or, if steps is positive,
// for at most steps steps. It returns the number of steps taken.
func takeSteps(s *simulation.Simulation, steps int) (int, error) {
	taken := 0

	for steps == 0 || taken < steps {
		result, err := s.Step()
		if err != nil {
			return taken, err
		}

		taken++
		printStep(result, s.Snapshot())

		if result.Halted {
			break
		}
	}

	return taken, nil
}

func printStep(result simulation.StepResult, snapshot simulation.Snapshot) {
	if !result.Changed {
		fmt.Printf("nothing happened in %d ticks\n", result.Ticks)
	}

	printTable(snapshot)
}

func init() {
	addSimulationFlags(stepCmd.Flags())
	stepCmd.Flags().Int("steps", 20,
		"Number of steps to take, 0 to step until the table halts")
	rootCmd.AddCommand(stepCmd)
}
