package cmd

import (
	"github.com/spf13/pflag"

	"github.com/sarchlab/diningsim/dining"
)

func addConfigFlags(flags *pflag.FlagSet) {
	d := dining.DefaultConfig()

	flags.Int("philosophers", d.PhilosopherCount,
		"Number of philosophers at the table")
	flags.Duration("time-to-die", d.TimeToDie,
		"Longest time a philosopher survives without eating")
	flags.Duration("time-to-eat", d.TimeToEat, "Duration of a meal")
	flags.Duration("time-to-sleep", d.TimeToSleep,
		"Duration of the sleep after a meal")
	flags.Duration("think", d.ThinkDelay,
		"Duration of the thinking after sleep")
	flags.Duration("quantum", d.Quantum,
		"Logical time that passes per tick")
	flags.Float64("speed", d.SpeedFactor, "Factor applied to the quantum")
	flags.Int("meals", d.MealsRequired,
		"Stop once every philosopher ate this many times, 0 for never")
	flags.Int("log-capacity", d.EventLogCapacity,
		"Number of events kept in the event log")
}

// configFromFlags reads the table configuration from the flags. Flag values
// are validated when the simulation is built.
func configFromFlags(flags *pflag.FlagSet) dining.Config {
	cfg := dining.Config{}

	cfg.PhilosopherCount, _ = flags.GetInt("philosophers")
	cfg.TimeToDie, _ = flags.GetDuration("time-to-die")
	cfg.TimeToEat, _ = flags.GetDuration("time-to-eat")
	cfg.TimeToSleep, _ = flags.GetDuration("time-to-sleep")
	cfg.ThinkDelay, _ = flags.GetDuration("think")
	cfg.Quantum, _ = flags.GetDuration("quantum")
	cfg.SpeedFactor, _ = flags.GetFloat64("speed")
	cfg.MealsRequired, _ = flags.GetInt("meals")
	cfg.EventLogCapacity, _ = flags.GetInt("log-capacity")

	return cfg
}
