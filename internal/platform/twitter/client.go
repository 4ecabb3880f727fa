package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Tweet is the subset of a post the verification workflow needs.
type Tweet struct {
	ID             string
	Text           string
	AuthorUsername string
}

// RateLimitError signals upstream throttling. ResetAt is zero when the API
// did not advertise a reset time.
type RateLimitError struct {
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	if e.ResetAt.IsZero() {
		return "twitter: rate limited"
	}
	return fmt.Sprintf("twitter: rate limited until %s", e.ResetAt.Format(time.RFC3339))
}

// TweetFetcher fetches a post by ID. Implemented by Client and by test fakes.
type TweetFetcher interface {
	FetchTweet(ctx context.Context, tweetID string) (*Tweet, error)
}

// Client talks to the Twitter v2 API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(baseURL, bearerToken string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		token:      bearerToken,
	}
}

type tweetResponse struct {
	Data *struct {
		ID       string `json:"id"`
		Text     string `json:"text"`
		AuthorID string `json:"author_id"`
	} `json:"data"`
	Includes *struct {
		Users []struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"users"`
	} `json:"includes"`
	Detail string `json:"detail"`
	Title  string `json:"title"`
}

// FetchTweet loads a tweet with its author expansion. A 429 maps to
// *RateLimitError carrying the x-rate-limit-reset hint when present.
func (c *Client) FetchTweet(ctx context.Context, tweetID string) (*Tweet, error) {
	url := fmt.Sprintf("%s/2/tweets/%s?expansions=author_id&user.fields=username&tweet.fields=text,author_id", c.baseURL, tweetID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twitter request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{ResetAt: parseResetHeader(resp.Header)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("twitter response: %w", err)
	}

	var parsed tweetResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("twitter response decode: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		detail := parsed.Detail
		if detail == "" {
			detail = parsed.Title
		}
		if detail == "" {
			detail = resp.Status
		}
		return nil, fmt.Errorf("twitter API: %s", detail)
	}
	if parsed.Data == nil || parsed.Includes == nil || len(parsed.Includes.Users) == 0 {
		return nil, fmt.Errorf("twitter API: tweet data is incomplete")
	}

	return &Tweet{
		ID:             parsed.Data.ID,
		Text:           parsed.Data.Text,
		AuthorUsername: parsed.Includes.Users[0].Username,
	}, nil
}

func parseResetHeader(h http.Header) time.Time {
	raw := h.Get("x-rate-limit-reset")
	if raw == "" {
		return time.Time{}
	}
	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(unix, 0)
}
