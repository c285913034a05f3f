// Package plex talks to the plex.tv online services: Discover search and the
// account watchlist. Candidates are identified by their Plex rating key.
package plex

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/trendarr/internal/config"
	"github.com/amaumene/trendarr/internal/models"
	"github.com/amaumene/trendarr/internal/services/httpclient"
)

const (
	product       = "trendarr"
	watchlistPage = 100
)

var tmdbGUIDRegex = regexp.MustCompile(`tmdb://(\d+)`)

// clientIdentifier is stable across runs so plex.tv sees a single device
var clientIdentifier = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/amaumene/trendarr")).String()

// GUID is an external identifier such as tmdb://603
type GUID struct {
	ID string `json:"id"`
}

// Metadata is a Plex catalog entry
type Metadata struct {
	RatingKey string `json:"ratingKey"`
	GUID      string `json:"guid"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
	GUIDs     []GUID `json:"Guid"`
}

// TMDBID extracts the TMDB id from the entry's external GUIDs
func (m Metadata) TMDBID() string {
	for _, g := range m.GUIDs {
		if match := tmdbGUIDRegex.FindStringSubmatch(g.ID); match != nil {
			return match[1]
		}
	}
	return ""
}

type searchResponse struct {
	MediaContainer struct {
		SearchResults []struct {
			ID           string `json:"id"`
			SearchResult []struct {
				Score    float64  `json:"score"`
				Metadata Metadata `json:"Metadata"`
			} `json:"SearchResult"`
		} `json:"SearchResults"`
	} `json:"MediaContainer"`
}

type watchlistResponse struct {
	MediaContainer struct {
		TotalSize int        `json:"totalSize"`
		Size      int        `json:"size"`
		Metadata  []Metadata `json:"Metadata"`
	} `json:"MediaContainer"`
}

// Client handles communication with the plex.tv Discover and watchlist APIs
type Client struct {
	token       string
	discoverURL string
	metadataURL string
	http        *httpclient.Client
	logger      *logrus.Logger
}

// NewClient creates a new Plex client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.PlexToken == "" {
		return nil, errors.New("plex token required")
	}

	return &Client{
		token:       cfg.PlexToken,
		discoverURL: cfg.PlexDiscoverURL,
		metadataURL: cfg.PlexMetadataURL,
		http:        httpclient.New("plex", cfg.HTTPOptions(), logger),
		logger:      logger,
	}, nil
}

// Search queries Plex Discover. Results keep Discover's relevance order.
func (c *Client) Search(ctx context.Context, query string, mediaType models.MediaType) ([]models.CandidateMatch, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("searchTypes", searchType(mediaType))
	params.Set("searchProviders", "discover")
	params.Set("includeMetadata", "1")
	params.Set("includeGuids", "1")
	params.Set("limit", "30")

	var resp searchResponse
	if err := c.do(ctx, http.MethodGet, c.discoverURL+"/library/search?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("failed to search plex discover: %w", err)
	}

	var candidates []models.CandidateMatch
	for _, group := range resp.MediaContainer.SearchResults {
		for _, result := range group.SearchResult {
			md := result.Metadata
			if md.RatingKey == "" || !typeMatches(md.Type, mediaType) {
				continue
			}
			candidates = append(candidates, toCandidate(md, mediaType))
		}
	}

	return candidates, nil
}

// ListEntries returns the account watchlist for a media type, following
// container pagination
func (c *Client) ListEntries(ctx context.Context, mediaType models.MediaType) ([]models.WatchlistEntry, error) {
	var entries []models.WatchlistEntry

	for start := 0; ; start += watchlistPage {
		params := url.Values{}
		params.Set("type", libraryType(mediaType))
		params.Set("includeGuids", "1")
		params.Set("X-Plex-Container-Start", strconv.Itoa(start))
		params.Set("X-Plex-Container-Size", strconv.Itoa(watchlistPage))

		var resp watchlistResponse
		if err := c.do(ctx, http.MethodGet, c.metadataURL+"/library/sections/watchlist/all?"+params.Encode(), &resp); err != nil {
			return nil, fmt.Errorf("failed to get plex watchlist: %w", err)
		}

		for _, md := range resp.MediaContainer.Metadata {
			entries = append(entries, models.WatchlistEntry{
				ExternalID: md.RatingKey,
				SourceID:   md.TMDBID(),
				Title:      md.Title,
				Year:       md.Year,
				MediaType:  mediaType,
			})
		}

		fetched := len(resp.MediaContainer.Metadata)
		if fetched == 0 || start+fetched >= resp.MediaContainer.TotalSize {
			break
		}
	}

	c.logger.WithFields(logrus.Fields{
		"media_type": mediaType,
		"count":      len(entries),
	}).Info("Retrieved Plex watchlist")

	return entries, nil
}

// Append adds a Discover item to the account watchlist. Plex treats adding an
// item that is already present as a no-op.
func (c *Client) Append(ctx context.Context, candidate models.CandidateMatch) error {
	params := url.Values{}
	params.Set("ratingKey", candidate.ExternalID)

	if err := c.do(ctx, http.MethodPut, c.metadataURL+"/actions/addToWatchlist?"+params.Encode(), nil); err != nil {
		return fmt.Errorf("failed to add %q to plex watchlist: %w", candidate.Title, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, result interface{}) error {
	header := http.Header{}
	header.Set("X-Plex-Token", c.token)
	header.Set("X-Plex-Product", product)
	header.Set("X-Plex-Client-Identifier", clientIdentifier)

	_, err := c.http.Do(ctx, method, endpoint, header, nil, result)
	return err
}

func toCandidate(md Metadata, mediaType models.MediaType) models.CandidateMatch {
	return models.CandidateMatch{
		ExternalID: md.RatingKey,
		SourceID:   md.TMDBID(),
		Title:      md.Title,
		Year:       md.Year,
		MediaType:  mediaType,
	}
}

func typeMatches(plexType string, mediaType models.MediaType) bool {
	if plexType == "" {
		return true
	}
	mt, err := models.ParseMediaType(plexType)
	return err == nil && mt == mediaType
}

func searchType(mediaType models.MediaType) string {
	if mediaType == models.MediaTypeShow {
		return "tv"
	}
	return "movies"
}

// libraryType is the Plex metadata type number: 1 for movies, 2 for shows
func libraryType(mediaType models.MediaType) string {
	if mediaType == models.MediaTypeShow {
		return "2"
	}
	return "1"
}
