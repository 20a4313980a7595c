package poster

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ivanmoure/reelmind/internal/port"
)

const imageBaseURL = "https://image.tmdb.org/t/p/w500"

// Client implements port.PosterProvider against the TMDB search API.
// An empty API key degrades every lookup to "not found" so the service can
// run without poster enrichment. Each call is bounded by the client timeout;
// one slow lookup never stalls the rest of a request.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a TMDB client. baseURL is the API root, e.g.
// https://api.themoviedb.org/3.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Lookup searches TMDB for the title and returns the first result's poster
// URL. No match is reported via Found=false, not an error.
func (c *Client) Lookup(ctx context.Context, title string) (port.PosterResult, error) {
	if c.apiKey == "" {
		return port.PosterResult{}, nil
	}

	var resp struct {
		Results []struct {
			ID         int    `json:"id"`
			PosterPath string `json:"poster_path"`
		} `json:"results"`
	}
	if err := c.get(ctx, "/search/movie", url.Values{"query": {cleanTitle(title)}}, &resp); err != nil {
		return port.PosterResult{}, fmt.Errorf("tmdb search: %w", err)
	}

	if len(resp.Results) == 0 || resp.Results[0].PosterPath == "" {
		return port.PosterResult{}, nil
	}
	return port.PosterResult{URL: imageBaseURL + resp.Results[0].PosterPath, Found: true}, nil
}

// Details holds the subset of TMDB movie metadata used by the catalog
// enrichment tool.
type Details struct {
	Title     string
	Overview  string
	Genres    []string
	Director  string
	Year      int
	Runtime   int
	PosterURL string
}

// FetchDetails searches TMDB for the title and returns full metadata for the
// best match, including the director from the credits list. A title with no
// match returns (nil, nil).
func (c *Client) FetchDetails(ctx context.Context, title string) (*Details, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("tmdb details: no API key configured")
	}

	var search struct {
		Results []struct {
			ID int `json:"id"`
		} `json:"results"`
	}
	if err := c.get(ctx, "/search/movie", url.Values{"query": {cleanTitle(title)}}, &search); err != nil {
		return nil, fmt.Errorf("tmdb search: %w", err)
	}
	if len(search.Results) == 0 {
		return nil, nil
	}

	var info struct {
		Title       string `json:"title"`
		Overview    string `json:"overview"`
		ReleaseDate string `json:"release_date"`
		Runtime     int    `json:"runtime"`
		PosterPath  string `json:"poster_path"`
		Genres      []struct {
			Name string `json:"name"`
		} `json:"genres"`
		Credits struct {
			Crew []struct {
				Name string `json:"name"`
				Job  string `json:"job"`
			} `json:"crew"`
		} `json:"credits"`
	}
	path := fmt.Sprintf("/movie/%d", search.Results[0].ID)
	if err := c.get(ctx, path, url.Values{"append_to_response": {"credits"}}, &info); err != nil {
		return nil, fmt.Errorf("tmdb movie details: %w", err)
	}

	d := &Details{
		Title:    info.Title,
		Overview: info.Overview,
		Runtime:  info.Runtime,
	}
	for _, g := range info.Genres {
		d.Genres = append(d.Genres, g.Name)
	}
	for _, crew := range info.Credits.Crew {
		if crew.Job == "Director" {
			d.Director = crew.Name
			break
		}
	}
	if info.ReleaseDate != "" {
		year, _, _ := strings.Cut(info.ReleaseDate, "-")
		d.Year, _ = strconv.Atoi(year)
	}
	if info.PosterPath != "" {
		d.PosterURL = imageBaseURL + info.PosterPath
	}
	return d, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("tmdb API error (%d): %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// cleanTitle strips a trailing parenthesized segment, e.g. "Heat (1995)" → "Heat",
// which matches TMDB search results far more reliably.
func cleanTitle(title string) string {
	base, _, _ := strings.Cut(title, "(")
	return strings.TrimSpace(base)
}
