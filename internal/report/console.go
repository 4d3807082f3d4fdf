package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/seenimoa/marketpipe/pkg/models"
)

// WriteSummary renders the run summary as terminal tables: accepted
// quotes per kind plus per-source statistics.
func WriteSummary(w io.Writer, result *models.CollectionResult) {
	if len(result.Commodities) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetTitle("Commodities")
		t.AppendHeader(table.Row{"Name", "Symbol", "Category", "Price", "Change %", "Source"})
		for _, q := range result.Commodities {
			t.AppendRow(table.Row{
				q.Name, q.Symbol, q.Category,
				fmt.Sprintf("%.2f %s", q.CurrentPrice, q.Currency),
				optPct(q.ChangePercent), q.Source,
			})
		}
		t.SetStyle(table.StyleLight)
		t.Render()
	}

	if len(result.Pairs) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetTitle("Currency Pairs")
		t.AppendHeader(table.Row{"Pair", "Bid", "Ask", "Mid", "Spread", "Source"})
		for _, q := range result.Pairs {
			t.AppendRow(table.Row{
				q.Pair, optNum(q.BidPrice), optNum(q.AskPrice),
				optNum(q.MidPrice), optNum(q.Spread), q.Source,
			})
		}
		t.SetStyle(table.StyleLight)
		t.Render()
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Sources")
	t.AppendHeader(table.Row{"Source", "URLs", "Extracted", "Accepted", "Rejected", "Duration", "Error"})
	for _, s := range result.Sources {
		t.AppendRow(table.Row{
			s.Source, s.URLs, s.Extracted, s.Accepted, s.Rejected,
			s.Duration.Round(time.Millisecond), s.Err,
		})
	}
	t.AppendFooter(table.Row{"total", "", "", result.Accepted(), len(result.Rejections), "", ""})
	t.SetStyle(table.StyleLight)
	t.Render()
}

func optNum(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f", *v)
}

func optPct(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%+.2f%%", *v)
}
