package media

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"clubsite/internal/service"
	"clubsite/pkg/errors"
	"clubsite/pkg/logger"
)

const (
	// DefaultLimit caps an import when the caller does not
	DefaultLimit = 25
	// MaxLimit is the most thumbnails one import may add
	MaxLimit = 200
	pageSize = 50
)

// YouTubeImporter reads playlist thumbnails through the YouTube Data API
type YouTubeImporter struct {
	apiKey string
	opts   []option.ClientOption
	logger *logger.Logger
}

// NewYouTubeImporter creates an importer. Extra client options are appended
// after the API key, e.g. option.WithEndpoint for a local test server.
func NewYouTubeImporter(apiKey string, logger *logger.Logger, opts ...option.ClientOption) *YouTubeImporter {
	return &YouTubeImporter{
		apiKey: apiKey,
		opts:   opts,
		logger: logger.Named("media"),
	}
}

var _ service.MediaImporter = (*YouTubeImporter)(nil)

// Enabled reports whether an API key is configured
func (i *YouTubeImporter) Enabled() bool {
	return i != nil && i.apiKey != ""
}

// PlaylistThumbnails returns the best available thumbnail of each playlist item
func (i *YouTubeImporter) PlaylistThumbnails(ctx context.Context, playlistID string, limit int) ([]string, error) {
	if !i.Enabled() {
		return nil, errors.NewUnavailableError("YouTube import is not configured")
	}
	playlistID = strings.TrimSpace(playlistID)
	if playlistID == "" {
		return nil, errors.NewValidationError("playlistId is required", nil)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	opts := append([]option.ClientOption{option.WithAPIKey(i.apiKey)}, i.opts...)
	yt, err := youtube.NewService(ctx, opts...)
	if err != nil {
		i.logger.WithError(err).Error("Failed to create YouTube service")
		return nil, errors.NewInternalError("Failed to initialize YouTube service", err)
	}

	thumbnails := make([]string, 0, limit)
	pageToken := ""
	for len(thumbnails) < limit {
		call := yt.PlaylistItems.List([]string{"snippet"}).
			PlaylistId(playlistID).
			MaxResults(pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, i.apiError(playlistID, err)
		}

		for _, item := range resp.Items {
			if item.Snippet == nil {
				continue
			}
			if url := bestThumbnail(item.Snippet.Thumbnails); url != "" {
				thumbnails = append(thumbnails, url)
				if len(thumbnails) == limit {
					break
				}
			}
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	i.logger.WithFields(map[string]interface{}{
		"playlist_id": playlistID,
		"count":       len(thumbnails),
	}).Info("Fetched playlist thumbnails")
	return thumbnails, nil
}

func (i *YouTubeImporter) apiError(playlistID string, err error) error {
	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return errors.NewNotFoundError("YouTube playlist not found")
	}
	i.logger.WithError(err).WithField("playlist_id", playlistID).Error("Failed to list playlist items")
	return errors.NewExternalError("Failed to read YouTube playlist", err)
}

// bestThumbnail picks the largest thumbnail present
func bestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.Maxres, t.Standard, t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}
