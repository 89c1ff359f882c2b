package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipeboard/pipeboard/internal/logging"
	"github.com/pipeboard/pipeboard/internal/viewstate"
)

var openCmd = &cobra.Command{
	Use:   "open <deal-id>",
	Short: "Mark a deal as the last viewed one",
	Long: `Record a deal as the most recently opened one.

A running board picks the change up right away: the card is highlighted,
its column expands if the card was hidden, and the board scrolls to it.

Use --check to make sure the deal exists for the configured viewer first.`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

var openCheck bool

func init() {
	rootCmd.AddCommand(openCmd)
	openCmd.Flags().BoolVar(&openCheck, "check", false, "verify the deal exists before recording it")
}

var errDealNotVisible = errors.New("deal not found for this viewer")

func runOpen(cmd *cobra.Command, args []string) error {
	id := args[0]
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if openCheck {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		deals, err := newClient(cfg).FetchDeals(ctx, viewerScope(cfg))
		if err != nil {
			return fmt.Errorf("checking deal %s: %w", id, err)
		}
		found := false
		for _, d := range deals {
			if d.ID == id {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%s: %w", id, errDealNotVisible)
		}
	}

	views, err := viewstate.Open(cfg.ViewState.ResolvePath(), logging.NopLogger())
	if err != nil {
		return err
	}
	if err := views.SetLastViewedDealID(id); err != nil {
		return fmt.Errorf("recording last viewed deal: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Last viewed deal: %s\n", id)
	return nil
}
