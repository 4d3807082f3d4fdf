// Package report writes accepted, deduplicated quote streams to their
// output formats: CSV files, a console summary table and an HTML report
// with per-category charts.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/seenimoa/marketpipe/pkg/models"
)

// commodityColumns is the fixed CSV column order for commodity quotes.
var commodityColumns = []string{
	"name", "chinese_name", "symbol", "category", "currency",
	"current_price", "change_amount", "change_percent",
	"open_price", "high_price", "low_price", "previous_close",
	"volume", "market_cap", "source", "timestamp",
}

// pairColumns is the fixed CSV column order for currency-pair quotes.
var pairColumns = []string{
	"pair", "base_currency", "quote_currency",
	"bid_price", "ask_price", "mid_price", "spread",
	"change_amount", "change_percent",
	"source", "timestamp",
}

// WriteCommodityCSV writes commodity quotes to a CSV file, creating
// parent directories as needed.
func WriteCommodityCSV(quotes []models.CommodityQuote, path string) error {
	return writeCSVFile(path, commodityColumns, len(quotes), func(i int) []string {
		q := quotes[i]
		return []string{
			q.Name, q.ChineseName, q.Symbol, q.Category, q.Currency,
			formatFloat(q.CurrentPrice), formatOpt(q.ChangeAmount), formatOpt(q.ChangePercent),
			formatOpt(q.OpenPrice), formatOpt(q.HighPrice), formatOpt(q.LowPrice), formatOpt(q.PreviousClose),
			formatVolume(q.Volume), formatOpt(q.MarketCap), q.Source, q.Timestamp.Format(time.RFC3339),
		}
	})
}

// WritePairCSV writes currency-pair quotes to a CSV file.
func WritePairCSV(quotes []models.CurrencyPairQuote, path string) error {
	return writeCSVFile(path, pairColumns, len(quotes), func(i int) []string {
		q := quotes[i]
		return []string{
			q.Pair, q.BaseCurrency, q.QuoteCurrency,
			formatOpt(q.BidPrice), formatOpt(q.AskPrice), formatOpt(q.MidPrice), formatOpt(q.Spread),
			formatOpt(q.ChangeAmount), formatOpt(q.ChangePercent),
			q.Source, q.Timestamp.Format(time.RFC3339),
		}
	})
}

func writeCSVFile(path string, header []string, n int, row func(int) []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := writeCSV(f, header, n, row); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeCSV(w io.Writer, header []string, n int, row func(int) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(row(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOpt(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatVolume(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
