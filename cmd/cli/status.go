package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sevigo/vidflow/internal/wire"
)

var withQueue bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Shows the health of the ingress and, optionally, the queue depth",
	RunE: func(_ *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "COMPONENT\tSTATE\tDETAIL")

		ingressState := color.GreenString("up")
		detail := serverURL
		if err := checkIngress(); err != nil {
			ingressState = color.RedString("down")
			detail = err.Error()
		}
		fmt.Fprintf(w, "ingress\t%s\t%s\n", ingressState, detail)

		if withQueue {
			app, cleanup, err := wire.InitializeApp(context.Background())
			if err != nil {
				return fmt.Errorf("failed to initialize app services: %w", err)
			}
			defer cleanup()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			depth, err := app.Queue.ApproximateDepth(ctx)
			if err != nil {
				fmt.Fprintf(w, "queue\t%s\t%s\n", color.RedString("error"), err.Error())
			} else {
				fmt.Fprintf(w, "queue\t%s\t~%d pending notifications\n", color.GreenString("up"), depth)
			}
		}

		return w.Flush()
	},
}

func checkIngress() error {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(serverURL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return nil
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	statusCmd.Flags().BoolVar(&withQueue, "queue", false, "Also report the notification queue depth")
	rootCmd.AddCommand(statusCmd)
}
