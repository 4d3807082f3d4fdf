package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/seenimoa/marketpipe/pkg/models"
)

// WriteHTML writes the run report: report.html with summary tables and
// charts.html with price and category charts.
func WriteHTML(dir string, result *models.CollectionResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := writeReportPage(filepath.Join(dir, "report.html"), result); err != nil {
		return err
	}
	return writeChartPage(filepath.Join(dir, "charts.html"), result)
}

// writeChartPage renders the echarts page: commodity prices by name and
// record counts per category.
func writeChartPage(path string, result *models.CollectionResult) error {
	page := components.NewPage()
	page.PageTitle = "Market Collection Charts"

	if len(result.Commodities) > 0 {
		price := charts.NewBar()
		price.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: "Commodity Prices"}),
			charts.WithInitializationOpts(opts.Initialization{Width: "1000px"}),
		)
		var names []string
		var values []opts.BarData
		for _, q := range result.Commodities {
			names = append(names, q.Name)
			values = append(values, opts.BarData{Value: q.CurrentPrice})
		}
		price.SetXAxis(names).AddSeries("price", values)
		page.AddCharts(price)

		counts := make(map[string]int)
		for _, q := range result.Commodities {
			counts[q.Category]++
		}
		categories := make([]string, 0, len(counts))
		for c := range counts {
			categories = append(categories, c)
		}
		sort.Strings(categories)

		byCat := charts.NewBar()
		byCat.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Records per Category"}))
		var catValues []opts.BarData
		for _, c := range categories {
			catValues = append(catValues, opts.BarData{Value: counts[c]})
		}
		byCat.SetXAxis(categories).AddSeries("records", catValues)
		page.AddCharts(byCat)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return page.Render(f)
}

// reportTemplate is the HTML template for the collection report.
// It is embedded as a Go constant — no external file dependencies.
const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Market Collection Report</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
         color: #1a1a2e; max-width: 1000px; margin: 0 auto; padding: 20px; line-height: 1.5; }
  h1 { font-size: 1.4rem; color: #2563eb; border-bottom: 3px solid #2563eb; padding-bottom: 8px; }
  h2 { font-size: 1.1rem; margin: 24px 0 8px; }
  table { border-collapse: collapse; width: 100%; font-size: 0.9rem; }
  th, td { border: 1px solid #e5e7eb; padding: 6px 10px; text-align: left; }
  th { background: #f8fafc; }
  .muted { color: #6b7280; font-size: 0.85rem; }
  .neg { color: #dc2626; }
  .pos { color: #16a34a; }
</style>
</head>
<body>
<h1>Market Collection Report</h1>
<p class="muted">Run {{.StartedAt.Format "2006-01-02 15:04:05"}} — {{.FinishedAt.Format "15:04:05"}},
{{.Accepted}} accepted, {{len .Rejections}} rejected.</p>

{{if .Commodities}}
<h2>Commodities</h2>
<table>
<tr><th>Name</th><th>中文名</th><th>Symbol</th><th>Category</th><th>Price</th><th>Change %</th><th>Source</th></tr>
{{range .Commodities}}
<tr>
  <td>{{.Name}}</td><td>{{.ChineseName}}</td><td>{{.Symbol}}</td><td>{{.Category}}</td>
  <td>{{printf "%.2f" .CurrentPrice}} {{.Currency}}</td>
  <td>{{if .ChangePercent}}<span class="{{if negative .ChangePercent}}neg{{else}}pos{{end}}">{{pct .ChangePercent}}</span>{{else}}—{{end}}</td>
  <td>{{.Source}}</td>
</tr>
{{end}}
</table>
{{end}}

{{if .Pairs}}
<h2>Currency Pairs</h2>
<table>
<tr><th>Pair</th><th>Bid</th><th>Ask</th><th>Mid</th><th>Spread</th><th>Source</th></tr>
{{range .Pairs}}
<tr>
  <td>{{.Pair}}</td>
  <td>{{rate .BidPrice}}</td>
  <td>{{rate .AskPrice}}</td>
  <td>{{rate .MidPrice}}</td>
  <td>{{rate .Spread}}</td>
  <td>{{.Source}}</td>
</tr>
{{end}}
</table>
{{end}}

{{if .Rejections}}
<h2>Rejections</h2>
<table>
<tr><th>Source</th><th>Record</th><th>Reasons</th></tr>
{{range .Rejections}}
<tr><td>{{.Source}}</td><td>{{.Name}}</td><td>{{range .Reasons}}{{.}}<br>{{end}}</td></tr>
{{end}}
</table>
{{end}}

<h2>Sources</h2>
<table>
<tr><th>Source</th><th>URLs</th><th>Extracted</th><th>Accepted</th><th>Rejected</th><th>Error</th></tr>
{{range .Sources}}
<tr><td>{{.Source}}</td><td>{{.URLs}}</td><td>{{.Extracted}}</td><td>{{.Accepted}}</td><td>{{.Rejected}}</td><td>{{.Err}}</td></tr>
{{end}}
</table>

<p class="muted">Generated {{now.Format "2006-01-02 15:04:05"}}</p>
</body>
</html>`

func writeReportPage(path string, result *models.CollectionResult) error {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"now": time.Now,
		"negative": func(p *float64) bool {
			return p != nil && *p < 0
		},
		"pct": func(p *float64) string {
			if p == nil {
				return "—"
			}
			return fmt.Sprintf("%+.2f%%", *p)
		},
		"rate": func(p *float64) string {
			if p == nil {
				return "—"
			}
			return fmt.Sprintf("%.4f", *p)
		},
	}).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("parse report template: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, result); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
