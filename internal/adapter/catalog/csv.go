package catalog

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ivanmoure/reelmind/internal/domain"
)

// Required column headers as they appear in the IMDB dataset export.
var requiredColumns = []string{
	"Title",
	"Description",
	"Genre",
	"Director",
	"Actors",
	"Year",
	"Runtime (Minutes)",
	"Rating",
	"Votes",
	"Revenue (Millions)",
	"Metascore",
}

// Load parses the catalog CSV at path into movie records. Each movie's Index
// is its row position, and SearchText is derived from title, genre, actors,
// director, and description for the encoder. A missing required column or an
// empty catalog is fatal: the service must not start in an inconsistent state.
func Load(path string) ([]domain.Movie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("catalog %s: missing header row", path)
	}

	cols, err := columnIndex(records[0])
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	rows := records[1:]
	if len(rows) == 0 {
		return nil, fmt.Errorf("catalog %s: no movies", path)
	}

	movies := make([]domain.Movie, 0, len(rows))
	for i, row := range rows {
		m, err := parseMovie(i, row, cols)
		if err != nil {
			return nil, fmt.Errorf("catalog %s row %d: %w", path, i+2, err)
		}
		movies = append(movies, m)
	}
	return movies, nil
}

// columnIndex maps required column names to their positions in the header.
func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return cols, nil
}

func parseMovie(index int, row []string, cols map[string]int) (domain.Movie, error) {
	field := func(name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	year, err := strconv.Atoi(field("Year"))
	if err != nil {
		return domain.Movie{}, fmt.Errorf("parse Year: %w", err)
	}
	runtime, err := strconv.Atoi(field("Runtime (Minutes)"))
	if err != nil {
		return domain.Movie{}, fmt.Errorf("parse Runtime (Minutes): %w", err)
	}
	rating, err := strconv.ParseFloat(field("Rating"), 64)
	if err != nil {
		return domain.Movie{}, fmt.Errorf("parse Rating: %w", err)
	}
	votes, err := strconv.Atoi(field("Votes"))
	if err != nil {
		return domain.Movie{}, fmt.Errorf("parse Votes: %w", err)
	}

	m := domain.Movie{
		Index:       index,
		Title:       field("Title"),
		Description: field("Description"),
		Genre:       field("Genre"),
		Director:    field("Director"),
		Actors:      field("Actors"),
		Year:        year,
		Runtime:     runtime,
		Rating:      rating,
		Votes:       votes,
		Revenue:     optionalFloat(field("Revenue (Millions)")),
		Metascore:   optionalFloat(field("Metascore")),
	}
	m.SearchText = searchText(m)
	return m, nil
}

// optionalFloat parses a float cell that may be empty, returning NaN when absent.
func optionalFloat(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// searchText concatenates the fields the encoder embeds for a movie.
func searchText(m domain.Movie) string {
	return strings.Join([]string{m.Title, m.Genre, m.Actors, m.Director, m.Description}, " ")
}
