package main

// #region imports
import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/yufengw/ai-news-agent/internal/logging"
	"github.com/yufengw/ai-news-agent/internal/store"
)

// #endregion

// #region main

func main() {
	dbPath := flag.String("db", "", "path to news.db")
	last := flag.Int("last", 20, "show N most recent learning events")
	category := flag.String("category", "", "filter preference summary to one category")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/news.db [--last N] [--category name] [--json]")
		os.Exit(2)
	}

	st, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := run(st, *last, *category, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region report

type report struct {
	Preferences map[string][]store.Preference `json:"preferences"`
	Events      []logging.LearningEvent       `json:"events"`
}

func run(st *store.Store, last int, category string, jsonOut bool) error {
	stats, err := st.PreferenceStats(0)
	if err != nil {
		return err
	}
	if category != "" {
		filtered := map[string][]store.Preference{}
		if prefs, ok := stats[category]; ok {
			filtered[category] = prefs
		}
		stats = filtered
	}

	events, err := logging.ListEvents(st.DB(), last)
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(report{Preferences: stats, Events: events})
	}

	printPreferences(stats)
	printEvents(events)
	return nil
}

// #endregion report

// #region tables

func printPreferences(stats map[string][]store.Preference) {
	if len(stats) == 0 {
		fmt.Println("no preferences learned")
		return
	}
	fmt.Println("PREFERENCES")
	fmt.Printf("%-10s %-24s %8s %8s\n", "CATEGORY", "KEY", "WEIGHT", "SAMPLES")
	fmt.Println(strings.Repeat("-", 54))
	for _, category := range store.Categories {
		for _, p := range stats[category] {
			fmt.Printf("%-10s %-24s %+8.2f %8d\n", p.Category, p.Key, p.Weight, p.SampleCount)
		}
	}
	fmt.Println()
}

func printEvents(events []logging.LearningEvent) {
	if len(events) == 0 {
		fmt.Println("no learning events")
		return
	}
	fmt.Println("RECENT LEARNING EVENTS")
	fmt.Printf("%-20s %-8s %-10s %-20s %6s %8s\n", "CREATED", "RATING", "CATEGORY", "KEY", "DELTA", "WEIGHT")
	fmt.Println(strings.Repeat("-", 78))
	for _, e := range events {
		fmt.Printf("%-20s %-8s %-10s %-20s %+6.2f %+8.2f\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Rating, e.Category, e.Key, e.Delta, e.WeightAfter)
	}
}

// #endregion tables
