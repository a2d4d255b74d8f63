// Package youtube fetches video metadata from the YouTube Data API v3.
package youtube

import (
	"context"
	"errors"
	"strings"
	"time"

	"contra-feed/internal/models"
	"contra-feed/shared/config"
	"contra-feed/shared/monitoring"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	// maxIDsPerRequest is the videos.list limit on comma-separated IDs.
	maxIDsPerRequest = 50
	maxSearchResults = 50
)

var (
	ErrVideoNotFound = goerr.New("video not found")
	// ErrUpstream wraps any failed API call, including calls rejected by the open breaker.
	ErrUpstream = goerr.New("youtube api call failed")
)

var videoParts = []string{"snippet", "statistics", "contentDetails"}

type Client struct {
	service *youtube.Service
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[any]
	logger  *zap.Logger
}

// NewClient authenticates with the API key when one is configured, otherwise
// with a stored or freshly authorized OAuth token.
func NewClient(ctx context.Context, cfg *config.YouTubeConfig, logger *zap.Logger) (*Client, error) {
	var opts []option.ClientOption

	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	} else {
		oauthConfig := newOAuthConfig(cfg.ClientID, cfg.ClientSecret)
		token, err := getToken(ctx, oauthConfig, cfg.TokenFile, logger)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get OAuth token")
		}
		ts := &tokenSaver{
			config:    oauthConfig,
			token:     token,
			tokenFile: cfg.TokenFile,
			logger:    logger,
		}
		opts = append(opts, option.WithHTTPClient(oauth2.NewClient(ctx, ts)))
	}

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create YouTube service")
	}
	return NewClientWithService(service, cfg, logger), nil
}

// NewClientWithService wraps an existing service, e.g. one pointed at a test server.
func NewClientWithService(service *youtube.Service, cfg *config.YouTubeConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	timeout := time.Duration(cfg.BreakerTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Minute
	}

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "youtube-api",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{
		service: service,
		limiter: limiter,
		breaker: breaker,
		logger:  logger,
	}
}

func execute[T any](ctx context.Context, c *Client, endpoint string, fn func() (T, error)) (T, error) {
	var zero T

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return zero, goerr.Wrap(err, "rate limiter wait", goerr.V("endpoint", endpoint))
		}
	}

	res, err := c.breaker.Execute(func() (any, error) { return fn() })
	if err != nil {
		monitoring.YouTubeRequests.WithLabelValues(endpoint, "error").Inc()
		return zero, goerr.Wrap(errors.Join(ErrUpstream, err), "youtube request failed", goerr.V("endpoint", endpoint))
	}
	monitoring.YouTubeRequests.WithLabelValues(endpoint, "ok").Inc()
	return res.(T), nil
}

func (c *Client) listVideos(ctx context.Context, parts []string, ids []string) ([]*youtube.Video, error) {
	return execute(ctx, c, "videos", func() ([]*youtube.Video, error) {
		resp, err := c.service.Videos.List(parts).Id(strings.Join(ids, ",")).Context(ctx).Do()
		if err != nil {
			return nil, err
		}
		return resp.Items, nil
	})
}

// GetVideo returns the enriched metadata of one video, or ErrVideoNotFound.
func (c *Client) GetVideo(ctx context.Context, id string) (*models.EnrichedVideo, error) {
	items, err := c.listVideos(ctx, videoParts, []string{id})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get video", goerr.V("video_id", id))
	}
	if len(items) == 0 {
		monitoring.YouTubeRequests.WithLabelValues("videos", "not_found").Inc()
		return nil, goerr.Wrap(ErrVideoNotFound, "no such video", goerr.V("video_id", id))
	}
	return Enrich(toVideo(items[0])), nil
}

// GetVideos fetches metadata in batches of 50. Unknown IDs are absent from the
// result and a failed batch is logged and skipped; only cancellation is returned.
func (c *Client) GetVideos(ctx context.Context, ids []string) ([]*models.EnrichedVideo, error) {
	videos := make([]*models.EnrichedVideo, 0, len(ids))

	for i := 0; i < len(ids); i += maxIDsPerRequest {
		if err := ctx.Err(); err != nil {
			return nil, goerr.Wrap(err, "video fetch cancelled", goerr.V("fetched", len(videos)))
		}

		end := min(i+maxIDsPerRequest, len(ids))
		items, err := c.listVideos(ctx, videoParts, ids[i:end])
		if err != nil {
			c.logger.Warn("failed to get video batch",
				zap.Int("offset", i),
				zap.Int("size", end-i),
				zap.Error(err))
			continue
		}

		for _, item := range items {
			videos = append(videos, Enrich(toVideo(item)))
		}
	}

	c.logger.Debug("fetched videos", zap.Int("requested", len(ids)), zap.Int("found", len(videos)))
	return videos, nil
}

// SearchVideos runs a free-text search and returns up to maxResults video IDs.
func (c *Client) SearchVideos(ctx context.Context, query string, maxResults int) ([]string, error) {
	if maxResults <= 0 || maxResults > maxSearchResults {
		maxResults = maxSearchResults
	}

	items, err := execute(ctx, c, "search", func() ([]*youtube.SearchResult, error) {
		resp, err := c.service.Search.List([]string{"id"}).
			Q(query).
			Type("video").
			MaxResults(int64(maxResults)).
			Context(ctx).
			Do()
		if err != nil {
			return nil, err
		}
		return resp.Items, nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "search failed", goerr.V("query", query))
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.Id != nil && item.Id.Kind == "youtube#video" && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	return ids, nil
}

// VideoExists probes a single ID with the cheapest part.
func (c *Client) VideoExists(ctx context.Context, id string) (bool, error) {
	items, err := c.listVideos(ctx, []string{"id"}, []string{id})
	if err != nil {
		return false, goerr.Wrap(err, "existence check failed", goerr.V("video_id", id))
	}
	return len(items) > 0, nil
}

func toVideo(item *youtube.Video) *models.Video {
	v := &models.Video{ID: item.Id}

	if s := item.Snippet; s != nil {
		v.Title = s.Title
		v.Description = s.Description
		v.ChannelTitle = s.ChannelTitle
		v.ChannelID = s.ChannelId
		v.PublishedAt = s.PublishedAt
		v.Tags = s.Tags
		v.CategoryID = s.CategoryId
	}
	if st := item.Statistics; st != nil {
		v.ViewCount = int64(st.ViewCount)
		v.LikeCount = int64(st.LikeCount)
		v.CommentCount = int64(st.CommentCount)
	}
	if cd := item.ContentDetails; cd != nil {
		v.Duration = cd.Duration
	}
	return v
}
