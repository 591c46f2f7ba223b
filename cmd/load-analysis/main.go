// load-analysis prints the consumption profile of the input table by hour of
// day and by weekday. Missing readings are left out rather than filled.
package main

import (
	"flag"
	"fmt"
	"os"

	"energy_predictor/internal/config"
	"energy_predictor/internal/dataset"
	"energy_predictor/internal/ingest"
)

var weekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type bucket struct {
	Sum   float64
	Count int
}

func (b bucket) mean() float64 {
	return safeDivide(b.Sum, float64(b.Count))
}

type loadProfile struct {
	ByHour    [24]bucket
	ByWeekday [7]bucket
	Total     bucket
	Missing   int
}

func main() {
	configPath := flag.String("config", "", "path to config file (default: config.yaml in . or ./configs)")
	inputPath := flag.String("input", "", "input table override")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *inputPath != "" {
		cfg.Dataset.Path = *inputPath
	}

	table, err := ingest.LoadFile(cfg.Dataset.Path, &ingest.EnergyParser{
		Delimiter:     cfg.Dataset.DelimiterRune(),
		MissingTokens: cfg.Dataset.MissingTokens,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ds, err := (&dataset.Deriver{Layouts: cfg.Dataset.DatetimeLayouts}).Derive(table.Records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	p := buildProfile(ds)

	fmt.Println()
	fmt.Println("Load Profile Analysis")
	fmt.Printf("  Data: %s (%d readings, %d missing)\n", cfg.Dataset.Path, p.Total.Count+p.Missing, p.Missing)
	fmt.Printf("  Mean power: %.3f kW\n", p.Total.mean())
	fmt.Println()

	printHourlyTable(p)
	fmt.Println()
	printWeekdayTable(p)
}

func buildProfile(ds *dataset.Dataset) loadProfile {
	var p loadProfile
	for i, r := range ds.Records {
		if r.Missing {
			p.Missing++
			continue
		}
		f := ds.Features[i]
		p.ByHour[f.Hour].Sum += r.Power
		p.ByHour[f.Hour].Count++
		p.ByWeekday[f.Weekday].Sum += r.Power
		p.ByWeekday[f.Weekday].Count++
		p.Total.Sum += r.Power
		p.Total.Count++
	}
	return p
}

// peakHour returns the hour with the highest mean power, or -1 without data.
func peakHour(p loadProfile) int {
	peak := -1
	for h, b := range p.ByHour {
		if b.Count == 0 {
			continue
		}
		if peak < 0 || b.mean() > p.ByHour[peak].mean() {
			peak = h
		}
	}
	return peak
}

func printHourlyTable(p loadProfile) {
	peak := peakHour(p)

	fmt.Println("  Hourly Distribution:")
	fmt.Printf("   %4s │ %9s │ %8s │ %5s\n", "Hour", "Mean kW", "Readings", "Share")
	fmt.Printf("  ──────┼───────────┼──────────┼──────\n")

	for h := 0; h < 24; h++ {
		b := p.ByHour[h]
		if b.Count == 0 {
			continue
		}
		share := safeDivide(b.Sum, p.Total.Sum) * 100
		marker := ""
		if h == peak {
			marker = " ← peak"
		}
		fmt.Printf("     %02d │ %9.3f │ %8d │ %4.1f%%%s\n", h, b.mean(), b.Count, share, marker)
	}
}

func printWeekdayTable(p loadProfile) {
	fmt.Println("  Weekday Distribution:")
	fmt.Printf("   %4s │ %9s │ %8s\n", "Day", "Mean kW", "Readings")
	fmt.Printf("  ──────┼───────────┼──────────\n")

	for d, b := range p.ByWeekday {
		if b.Count == 0 {
			continue
		}
		fmt.Printf("    %s │ %9.3f │ %8d\n", weekdayNames[d], b.mean(), b.Count)
	}
}

func safeDivide(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
