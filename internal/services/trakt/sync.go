package trakt

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/trendarr/internal/models"
)

const watchlistPageSize = 100

// IDs holds the identifiers Trakt attaches to a movie or show
type IDs struct {
	Trakt int    `json:"trakt,omitempty"`
	Slug  string `json:"slug,omitempty"`
	IMDB  string `json:"imdb,omitempty"`
	TMDB  int    `json:"tmdb,omitempty"`
	TVDB  int    `json:"tvdb,omitempty"`
}

// TraktMedia is the movie or show part of a search result or watchlist item
type TraktMedia struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
	IDs   IDs    `json:"ids"`
}

// ListItem is an entry of /search and /sync/watchlist responses
type ListItem struct {
	Type  string      `json:"type"` // "movie" or "show"
	Movie *TraktMedia `json:"movie,omitempty"`
	Show  *TraktMedia `json:"show,omitempty"`
}

// Media returns the movie or show payload
func (i ListItem) Media() *TraktMedia {
	if i.Movie != nil {
		return i.Movie
	}
	return i.Show
}

type syncRequest struct {
	Movies []syncItem `json:"movies,omitempty"`
	Shows  []syncItem `json:"shows,omitempty"`
}

type syncItem struct {
	IDs IDs `json:"ids"`
}

type syncResponse struct {
	Added    map[string]int `json:"added"`
	Existing map[string]int `json:"existing"`
	NotFound struct {
		Movies []syncItem `json:"movies"`
		Shows  []syncItem `json:"shows"`
	} `json:"not_found"`
}

// Search queries the Trakt text search. Candidates are identified by their
// Trakt id and carry the TMDB id as source id.
func (c *Client) Search(ctx context.Context, query string, mediaType models.MediaType) ([]models.CandidateMatch, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", "20")
	path := fmt.Sprintf("/search/%s?%s", pathType(mediaType), params.Encode())

	var results []ListItem
	if _, err := c.doPublicRequest(ctx, http.MethodGet, path, nil, &results); err != nil {
		return nil, fmt.Errorf("failed to search trakt: %w", err)
	}

	candidates := make([]models.CandidateMatch, 0, len(results))
	for _, r := range results {
		media := r.Media()
		if media == nil || media.IDs.Trakt == 0 {
			continue
		}
		candidates = append(candidates, models.CandidateMatch{
			ExternalID: strconv.Itoa(media.IDs.Trakt),
			SourceID:   formatTMDB(media.IDs.TMDB),
			Title:      media.Title,
			Year:       media.Year,
			MediaType:  mediaType,
		})
	}

	return candidates, nil
}

// ListEntries retrieves the full watchlist for a media type, page by page
func (c *Client) ListEntries(ctx context.Context, mediaType models.MediaType) ([]models.WatchlistEntry, error) {
	var entries []models.WatchlistEntry

	for page := 1; ; page++ {
		path := fmt.Sprintf("/sync/watchlist/%ss?page=%d&limit=%d", mediaType, page, watchlistPageSize)

		var items []ListItem
		header, err := c.doRequest(ctx, http.MethodGet, path, nil, &items)
		if err != nil {
			return nil, fmt.Errorf("failed to get watchlist: %w", err)
		}

		for _, item := range items {
			media := item.Media()
			if media == nil {
				continue
			}
			entries = append(entries, models.WatchlistEntry{
				ExternalID: strconv.Itoa(media.IDs.Trakt),
				SourceID:   formatTMDB(media.IDs.TMDB),
				Title:      media.Title,
				Year:       media.Year,
				MediaType:  mediaType,
			})
		}

		pageCount, _ := strconv.Atoi(header.Get("X-Pagination-Page-Count"))
		if len(items) == 0 || page >= pageCount {
			break
		}
	}

	c.logger.WithFields(logrus.Fields{
		"media_type": mediaType,
		"count":      len(entries),
	}).Info("Retrieved Trakt watchlist")

	return entries, nil
}

// Append adds a candidate to the watchlist. Trakt reports items already on the
// list as existing rather than failing.
func (c *Client) Append(ctx context.Context, candidate models.CandidateMatch) error {
	traktID, err := strconv.Atoi(candidate.ExternalID)
	if err != nil {
		return fmt.Errorf("invalid trakt id %q: %w", candidate.ExternalID, err)
	}

	item := syncItem{IDs: IDs{Trakt: traktID}}
	var req syncRequest
	if candidate.MediaType == models.MediaTypeShow {
		req.Shows = []syncItem{item}
	} else {
		req.Movies = []syncItem{item}
	}

	var resp syncResponse
	if _, err := c.doRequest(ctx, http.MethodPost, "/sync/watchlist", req, &resp); err != nil {
		return fmt.Errorf("failed to add to watchlist: %w", err)
	}

	if len(resp.NotFound.Movies)+len(resp.NotFound.Shows) > 0 {
		return fmt.Errorf("trakt did not find %s %q", candidate.MediaType, candidate.Title)
	}

	c.logger.WithFields(logrus.Fields{
		"title":    candidate.Title,
		"trakt_id": traktID,
		"added":    resp.Added[pathType(candidate.MediaType)+"s"],
		"existing": resp.Existing[pathType(candidate.MediaType)+"s"],
	}).Debug("Trakt watchlist updated")

	return nil
}

func pathType(mediaType models.MediaType) string {
	if mediaType == models.MediaTypeShow {
		return "show"
	}
	return "movie"
}

func formatTMDB(id int) string {
	if id == 0 {
		return ""
	}
	return strconv.Itoa(id)
}
