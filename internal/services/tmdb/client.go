// Package tmdb reads the trending feed from The Movie Database and, for the
// local watchlist providers, doubles as the discovery index.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/trendarr/internal/config"
	"github.com/amaumene/trendarr/internal/models"
	"github.com/amaumene/trendarr/internal/services/httpclient"
	"github.com/amaumene/trendarr/internal/utils"
)

// Result represents a single TMDB movie or TV entry
type Result struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	OriginalTitle    string   `json:"original_title"`
	Name             string   `json:"name"`
	OriginalName     string   `json:"original_name"`
	ReleaseDate      string   `json:"release_date"`
	FirstAirDate     string   `json:"first_air_date"`
	MediaType        string   `json:"media_type"`
	OriginalLanguage string   `json:"original_language"`
	OriginCountry    []string `json:"origin_country"`
	Popularity       float64  `json:"popularity"`
}

// DisplayTitle returns the movie title or the show name
func (r Result) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// DisplayOriginalTitle returns the original movie title or show name
func (r Result) DisplayOriginalTitle() string {
	if r.OriginalTitle != "" {
		return r.OriginalTitle
	}
	return r.OriginalName
}

// Date returns the release date for movies and the first air date for shows
func (r Result) Date() string {
	if r.ReleaseDate != "" {
		return r.ReleaseDate
	}
	return r.FirstAirDate
}

// Response models a TMDB paginated response
type Response struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// Client handles communication with the TMDB API
type Client struct {
	apiKey   string
	baseURL  string
	language string
	pages    int
	http     *httpclient.Client
	logger   *logrus.Logger
}

// NewClient creates a new TMDB API client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.TMDBAPIKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.TMDBBaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}

	pages := cfg.TrendingPages
	if pages < 1 {
		pages = 1
	}

	return &Client{
		apiKey:   apiKey,
		baseURL:  baseURL,
		language: cfg.TMDBLanguage,
		pages:    pages,
		http:     httpclient.New("tmdb", cfg.HTTPOptions(), logger),
		logger:   logger,
	}, nil
}

// ListTrending returns the trending feed for a media type, in feed order.
// Up to the configured number of pages is read.
func (c *Client) ListTrending(ctx context.Context, mediaType models.MediaType, window models.TimeWindow) ([]models.TrendingItem, error) {
	path := fmt.Sprintf("/trending/%s/%s", pathSegment(mediaType), window)

	var items []models.TrendingItem
	for page := 1; page <= c.pages; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))

		var resp Response
		if err := c.get(ctx, path, params, &resp); err != nil {
			return nil, fmt.Errorf("failed to get trending %s: %w", mediaType, err)
		}

		for _, r := range resp.Results {
			items = append(items, c.toTrendingItem(r, mediaType, len(items)+1))
		}

		if resp.TotalPages <= page {
			break
		}
	}

	c.logger.WithFields(logrus.Fields{
		"media_type": mediaType,
		"window":     window,
		"count":      len(items),
	}).Info("Fetched trending items from TMDB")

	return items, nil
}

// Search queries the TMDB search index. Candidates carry the TMDB id both as
// their own id and as the source id.
func (c *Client) Search(ctx context.Context, query string, mediaType models.MediaType) ([]models.CandidateMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}

	params := url.Values{}
	params.Set("query", query)

	var resp Response
	if err := c.get(ctx, "/search/"+pathSegment(mediaType), params, &resp); err != nil {
		return nil, fmt.Errorf("failed to search tmdb: %w", err)
	}

	candidates := make([]models.CandidateMatch, 0, len(resp.Results))
	for _, r := range resp.Results {
		id := strconv.FormatInt(r.ID, 10)
		candidates = append(candidates, models.CandidateMatch{
			ExternalID: id,
			SourceID:   id,
			Title:      r.DisplayTitle(),
			Year:       utils.ExtractYear(r.Date()),
			MediaType:  mediaType,
		})
	}

	return candidates, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint := c.baseURL + path + "?" + params.Encode()

	_, err := c.http.Do(ctx, http.MethodGet, endpoint, nil, nil, result)
	return err
}

func (c *Client) toTrendingItem(r Result, mediaType models.MediaType, rank int) models.TrendingItem {
	item := models.TrendingItem{
		ExternalID:       strconv.FormatInt(r.ID, 10),
		Title:            r.DisplayTitle(),
		OriginalTitle:    r.DisplayOriginalTitle(),
		MediaType:        mediaType,
		RawReleaseDate:   r.Date(),
		PopularityRank:   rank,
		OriginalLanguage: r.OriginalLanguage,
		OriginCountries:  r.OriginCountry,
	}

	released, err := utils.ParseReleaseDate(item.RawReleaseDate)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"title":        item.Title,
			"external_id":  item.ExternalID,
			"release_date": item.RawReleaseDate,
		}).Debug("Trending item has no usable release date")
		return item
	}
	item.ReleaseDate = released
	return item
}

// pathSegment maps a media type to the TMDB path segment
func pathSegment(mediaType models.MediaType) string {
	if mediaType == models.MediaTypeShow {
		return "tv"
	}
	return "movie"
}
