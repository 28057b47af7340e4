package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve an HTTP API to observe and control the table.",
	Long: `Serve starts the monitor server and keeps the table alive until ` +
		`the program is interrupted. The table can be paused, stepped, ` +
		`reset, and retuned through the API.`,
	Run: func(cmd *cobra.Command, _ []string) {
		port, _ := cmd.Flags().GetInt("port")
		open, _ := cmd.Flags().GetBool("open")
		paused, _ := cmd.Flags().GetBool("paused")

		b := builderFromFlags(cmd).WithMonitor(port)
		if paused {
			b = b.WithStepMode()
		}

		s, err := b.Build()
		failOnErr(err)

		monitor := s.GetMonitor()
		fmt.Printf("Monitoring diningsim at %s\n", monitor.URL())

		if open {
			if err := monitor.OpenInBrowser(); err != nil {
				log.Printf("cannot open browser: %v", err)
			}
		}

		if !paused {
			failOnErr(s.SetRunning(true))
		}

		ctx, cancel := signal.NotifyContext(
			context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		<-ctx.Done()

		s.Terminate()
		printSummary(s)
	},
}

func init() {
	addSimulationFlags(serveCmd.Flags())
	serveCmd.Flags().Int("port", 0,
		"Port of the monitor server, a random one if below 1000")
	serveCmd.Flags().Bool("open", false, "Open the monitor URL in a browser")
	serveCmd.Flags().Bool("paused", false,
		"Start in step mode instead of running")
	rootCmd.AddCommand(serveCmd)
}
