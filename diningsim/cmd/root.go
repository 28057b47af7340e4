// Package cmd provides the command-line interface of diningsim.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tebeka/atexit"
)

// envPrefix prefixes the environment variables that provide flag defaults.
const envPrefix = "DININGSIM_"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "diningsim",
	Short: "Diningsim simulates the dining philosophers problem.",
	Long: `Diningsim simulates philosophers sharing forks around a table. ` +
		`It can run continuously, step through state changes, or serve an ` +
		`HTTP API to observe and control a run.

Every flag can also be set with an environment variable named after it, ` +
		`such as DININGSIM_PHILOSOPHERS or DININGSIM_TIME_TO_DIE. A .env ` +
		`file in the working directory is loaded first.`,
	SilenceUsage:      true,
	PersistentPreRunE: applyEnvironment,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func init() {
	addConfigFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().String("env-file", ".env",
		"File to load environment variables from")
}

// applyEnvironment loads the env file and uses the environment as the value
// of every flag not given on the command line.
func applyEnvironment(cmd *cobra.Command, _ []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")

	err := godotenv.Load(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", envFile, err)
	}

	var setErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || setErr != nil {
			return
		}

		value, ok := os.LookupEnv(envName(f.Name))
		if !ok {
			return
		}

		if err := cmd.Flags().Set(f.Name, value); err != nil {
			setErr = fmt.Errorf("%s: %w", envName(f.Name), err)
		}
	})

	return setErr
}

func envName(flag string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}
