// Package composer renders fetched market data and computed indicators
// into the structured text block sent to the completion service.
package composer

import (
	"fmt"
	"strings"

	"FinSight/internal/market"
	"FinSight/internal/model"
)

// SystemInstruction is the fixed system prompt for every completion call.
const SystemInstruction = "You are a financial analyst assistant that provides real-time financial analysis " +
	"using up-to-date data from Yahoo Finance and Polygon.io. Analyze and summarize the data."

// TickerSection pairs one ticker's fetch outcomes with its computed
// indicators. Bundle may be nil when history was unavailable.
type TickerSection struct {
	Snapshot *market.Snapshot
	Bundle   *model.IndicatorBundle
}

// Compose renders every ticker section in input order, blank-line
// separated, followed by the literal user query.
func Compose(sections []TickerSection, query string) string {
	var b strings.Builder
	for _, s := range sections {
		writeTicker(&b, s)
		b.WriteString("\n")
	}
	b.WriteString(query)
	return b.String()
}

func writeTicker(b *strings.Builder, s TickerSection) {
	snap := s.Snapshot
	fmt.Fprintf(b, "Below is the real-time financial data for %s:\n\n", snap.Symbol)

	b.WriteString("Yahoo Finance Data:\n")
	writeFundamentals(b, snap.Fundamentals)

	b.WriteString("\nPolygon.io Data:\n")
	writeFundamentals(b, snap.Financials)

	b.WriteString("\nReal-Time Quotes:\n")
	if combined := snap.QuotesError(); combined != "" {
		fmt.Fprintf(b, "unavailable: %s\n", combined)
	} else {
		for _, q := range snap.Quotes {
			if !q.OK() {
				continue
			}
			quote := q.Value
			fmt.Fprintf(b, "%s: price %s", quote.Source, FormatNumber(quote.Price))
			if quote.High > 0 || quote.Low > 0 {
				fmt.Fprintf(b, " (open %s, high %s, low %s)",
					FormatNumber(quote.Open), FormatNumber(quote.High), FormatNumber(quote.Low))
			}
			if quote.Volume > 0 {
				fmt.Fprintf(b, ", volume %s", FormatNumber(quote.Volume))
			}
			b.WriteString("\n")
		}
	}

	if snap.Period != nil {
		fmt.Fprintf(b, "\nRequested period: %s\n", snap.Period)
	}

	if !snap.History.OK() {
		fmt.Fprintf(b, "\nHistorical Data: %s\n", snap.History.Err.Error())
	} else if s.Bundle != nil {
		b.WriteString("\nTechnical Indicators:\n")
		writeIndicators(b, s.Bundle)
	}
}

func writeFundamentals(b *strings.Builder, res model.FetchResult[*model.Fundamentals]) {
	if !res.OK() {
		fmt.Fprintf(b, "%s\n", res.Err.Error())
		return
	}
	for _, key := range res.Value.Keys {
		fmt.Fprintf(b, "%s: %s\n", key, FormatValue(res.Value.Fields[key]))
	}
}

func writeIndicators(b *strings.Builder, bundle *model.IndicatorBundle) {
	writeIndicator(b, "SMA(7)", bundle.SMA7)
	writeIndicator(b, "SMA(30)", bundle.SMA30)
	writeIndicator(b, "SMA(90)", bundle.SMA90)
	writeIndicator(b, "RSI(14)", bundle.RSI14)

	if bundle.BollErr != nil {
		b.WriteString("Bollinger Bands(20, 2): insufficient data\n")
	} else {
		fmt.Fprintf(b, "Bollinger Bands(20, 2): upper %s, middle %s, lower %s\n",
			FormatNumber(bundle.Bollinger.Upper),
			FormatNumber(bundle.Bollinger.Middle),
			FormatNumber(bundle.Bollinger.Lower))
	}

	if bundle.MCErr != nil {
		b.WriteString("Monte Carlo projection: insufficient data\n")
	} else {
		mc := bundle.MonteCarlo
		fmt.Fprintf(b, "Monte Carlo projection (%d days, %d paths): 5th pct %s, median %s, 95th pct %s\n",
			mc.Horizon, mc.Paths,
			FormatNumber(mc.P5), FormatNumber(mc.P50), FormatNumber(mc.P95))
	}

	if bundle.Beta.Defined() {
		fmt.Fprintf(b, "Beta vs benchmark: %.2f\n", bundle.Beta.Value)
	} else {
		b.WriteString("Beta vs benchmark: insufficient data\n")
	}
}

func writeIndicator(b *strings.Builder, label string, v model.IndicatorValue) {
	if !v.Defined() {
		fmt.Fprintf(b, "%s: insufficient data\n", label)
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, FormatNumber(v.Value))
}
