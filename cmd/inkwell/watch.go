package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print session changes made by other inkwell processes",
	Long: `Watch follows the session file and prints an event whenever another
process logs in or out. Stop it with Ctrl-C.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		nb := openNotebook()
		defer nb.Close()

		if err := nb.Follow(ctx); err != nil {
			fatal("Failed to follow session", err)
		}

		src := nb.Source(ctx)
		if err := src.Start(ctx); err != nil {
			fatal("Failed to start event stream", err)
		}

		fmt.Fprintf(os.Stderr, "Watching %s (Ctrl-C to stop)\n", nb.SessionFile())
		for e := range src.Events() {
			fmt.Printf("%s %s\n", time.Now().Format(time.TimeOnly), e)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
