package cmd

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"github.com/pipeboard/pipeboard/internal/aggregate"
	"github.com/pipeboard/pipeboard/internal/deal"
	"github.com/pipeboard/pipeboard/internal/remote"
	"github.com/pipeboard/pipeboard/internal/util"
)

var kpiCmd = &cobra.Command{
	Use:   "kpi",
	Short: "Print the pipeline KPIs as a table",
	Long: `Print the per-stage deal count, expected revenue and expected margin for
the configured viewer, followed by the unread notification count.

Examples:
  pipeboard kpi
  pipeboard kpi --customer 'Acme*'
  pipeboard kpi --deals --customer '*Industries'`,
	RunE: runKPI,
}

var (
	kpiCustomer  string
	kpiListDeals bool
)

func init() {
	rootCmd.AddCommand(kpiCmd)

	kpiCmd.Flags().StringVar(&kpiCustomer, "customer", "", "only count deals whose customer matches this glob (case-insensitive)")
	kpiCmd.Flags().BoolVar(&kpiListDeals, "deals", false, "also list the matching deals")
}

func runKPI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	filter, err := compileCustomerFilter(kpiCustomer)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	client := newClient(cfg)
	deals, notes, err := fetchReport(ctx, client, viewerScope(cfg))
	if err != nil {
		return err
	}

	return writeKPIReport(cmd.OutOrStdout(), filterDeals(deals, filter), notes, kpiListDeals)
}

// fetchReport loads the deals and the pending notifications concurrently.
// A failed notification fetch does not fail the report.
func fetchReport(ctx context.Context, client remote.Client, scope deal.Scope) ([]deal.Deal, []deal.Notification, error) {
	var (
		deals []deal.Deal
		notes []deal.Notification
	)

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		deals, err = client.FetchDeals(ctx, scope)
		if err != nil {
			return fmt.Errorf("fetching deals: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		// The report is still useful without the notification count.
		notes, _ = client.FetchPendingNotifications(ctx)
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, nil, err
	}
	return deals, notes, nil
}

// compileCustomerFilter compiles a case-insensitive customer glob. An empty
// pattern matches everything.
func compileCustomerFilter(pattern string) (glob.Glob, error) {
	if pattern == "" {
		return nil, nil
	}
	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid --customer pattern %q: %w", pattern, err)
	}
	return g, nil
}

func filterDeals(deals []deal.Deal, g glob.Glob) []deal.Deal {
	if g == nil {
		return deals
	}
	out := make([]deal.Deal, 0, len(deals))
	for _, d := range deals {
		if g.Match(strings.ToLower(d.Customer)) {
			out = append(out, d)
		}
	}
	return out
}

// writeKPIReport renders the stage table and, optionally, the deal list.
func writeKPIReport(w io.Writer, deals []deal.Deal, notes []deal.Notification, listDeals bool) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Stage", "Deals", "Revenue", "Margin"})
	for _, b := range aggregate.Buckets(deals) {
		t.AppendRow(table.Row{b.Stage, b.Count, util.FormatMoney(b.Revenue), util.FormatMoney(b.Margin)})
	}
	count, revenue, margin := aggregate.Totals(deals)
	t.AppendFooter(table.Row{"Total", count, util.FormatMoney(revenue), util.FormatMoney(margin)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()

	if listDeals && len(deals) > 0 {
		fmt.Fprintln(w)
		dt := table.NewWriter()
		dt.SetOutputMirror(w)
		dt.SetStyle(table.StyleLight)
		dt.AppendHeader(table.Row{"Customer", "Stage", "Owner", "Revenue", "Quotation"})
		sorted := slices.Clone(deals)
		slices.SortStableFunc(sorted, func(a, b deal.Deal) int {
			if c := cmp.Compare(a.Stage.Index(), b.Stage.Index()); c != 0 {
				return c
			}
			return cmp.Compare(a.Customer, b.Customer)
		})
		for _, d := range sorted {
			dt.AppendRow(table.Row{d.Customer, d.Stage, deal.ResolveOwner(d), util.FormatMoney(d.ExpectedRevenue), d.QuotationStatus})
		}
		dt.Render()
	}

	_, err := fmt.Fprintf(w, "\nUnread notifications: %d (%d quotation approvals)\n", len(notes), deal.PendingApprovals(notes))
	return err
}
