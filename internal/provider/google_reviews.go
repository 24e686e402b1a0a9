// internal/provider/google_reviews.go
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// ReviewFetcher pulls published reviews for a place. Satisfied by the
// Google Places client and by test fakes.
type ReviewFetcher interface {
	FetchReviews(ctx context.Context, placeID string) ([]FetchedReview, error)
}

// FetchedReview is one provider review, normalized.
type FetchedReview struct {
	AuthorName  string
	AuthorEmail string
	Rating      int
	Comment     string
	PublishedAt time.Time
}

// GooglePlacesClient fetches reviews through the Places Details API.
type GooglePlacesClient struct {
	baseURL string
	apiKey  string
	logger  *zap.Logger
	client  *http.Client
}

func NewGooglePlacesClient(apiKey string, logger *zap.Logger) *GooglePlacesClient {
	return &GooglePlacesClient{
		baseURL: "https://maps.googleapis.com/maps/api/place",
		apiKey:  apiKey,
		logger:  logger,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type placeDetailsResponse struct {
	Status string `json:"status"`
	Result struct {
		Reviews []struct {
			AuthorName string `json:"author_name"`
			Rating     int    `json:"rating"`
			Text       string `json:"text"`
			Time       int64  `json:"time"`
		} `json:"reviews"`
	} `json:"result"`
	ErrorMessage string `json:"error_message"`
}

func (c *GooglePlacesClient) FetchReviews(ctx context.Context, placeID string) ([]FetchedReview, error) {
	endpoint := fmt.Sprintf("%s/details/json?place_id=%s&fields=reviews&key=%s",
		c.baseURL, url.QueryEscape(placeID), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build places request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places API returned status %d", resp.StatusCode)
	}

	var body placeDetailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode places response: %w", err)
	}

	if body.Status != "OK" {
		return nil, fmt.Errorf("places API status %s: %s", body.Status, body.ErrorMessage)
	}

	reviews := make([]FetchedReview, 0, len(body.Result.Reviews))
	for _, r := range body.Result.Reviews {
		reviews = append(reviews, FetchedReview{
			AuthorName:  r.AuthorName,
			Rating:      r.Rating,
			Comment:     r.Text,
			PublishedAt: time.Unix(r.Time, 0),
		})
	}

	c.logger.Debug("fetched place reviews",
		zap.String("place_id", placeID),
		zap.Int("count", len(reviews)),
	)

	return reviews, nil
}
