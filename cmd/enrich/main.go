// Command enrich backfills missing catalog metadata (description, director,
// runtime, year) from TMDB and writes an enhanced copy of the catalog CSV.
// Rows that cannot be matched are kept as-is and logged.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ivanmoure/reelmind/internal/adapter/poster"
	"github.com/ivanmoure/reelmind/pkg/config"
)

func main() {
	in := flag.String("in", "IMDB-Movie-Data.csv", "catalog CSV to enrich")
	out := flag.String("out", "IMDB-Movie-Data-enhanced.csv", "path for the enriched CSV")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.TMDBAPIKey == "" {
		slog.Error("TMDB_API_KEY is required for enrichment")
		os.Exit(1)
	}
	client := poster.NewClient(cfg.TMDBBaseURL, cfg.TMDBAPIKey)

	if err := run(context.Background(), client, *in, *out); err != nil {
		slog.Error("enrichment failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, client *poster.Client, in, out string) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return err
	}
	if len(records) < 2 {
		slog.Warn("nothing to enrich", "file", in)
		return writeAll(out, records)
	}

	cols := map[string]int{}
	for i, name := range records[0] {
		cols[strings.TrimSpace(name)] = i
	}

	enriched := 0
	for _, row := range records[1:] {
		title := cell(row, cols, "Title")
		if title == "" {
			continue
		}
		if cell(row, cols, "Description") != "" && cell(row, cols, "Director") != "" {
			continue
		}

		details, err := client.FetchDetails(ctx, title)
		if err != nil {
			slog.Warn("details fetch failed", "title", title, "error", err)
			continue
		}
		if details == nil {
			slog.Info("no TMDB match", "title", title)
			continue
		}

		fillCell(row, cols, "Description", details.Overview)
		fillCell(row, cols, "Director", details.Director)
		fillCell(row, cols, "Genre", strings.Join(details.Genres, ","))
		if details.Runtime > 0 {
			fillCell(row, cols, "Runtime (Minutes)", strconv.Itoa(details.Runtime))
		}
		if details.Year > 0 {
			fillCell(row, cols, "Year", strconv.Itoa(details.Year))
		}
		enriched++
	}

	slog.Info("enrichment complete", "rows", len(records)-1, "enriched", enriched)
	return writeAll(out, records)
}

func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// fillCell sets a column only when it is currently empty.
func fillCell(row []string, cols map[string]int, name, value string) {
	i, ok := cols[name]
	if !ok || i >= len(row) || value == "" {
		return
	}
	if strings.TrimSpace(row[i]) == "" {
		row[i] = value
	}
}

func writeAll(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
