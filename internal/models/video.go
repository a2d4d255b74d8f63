package models

type Video struct {
	ID           string   `json:"video_id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ChannelTitle string   `json:"channel_title"`
	ChannelID    string   `json:"channel_id"`
	PublishedAt  string   `json:"published_at"`
	Tags         []string `json:"tags"`
	CategoryID   string   `json:"category_id"`
	ViewCount    int64    `json:"view_count"`
	LikeCount    int64    `json:"like_count"`
	CommentCount int64    `json:"comment_count"`
	Duration     string   `json:"duration"` // ISO-8601, e.g. PT4M13S
}

// URL returns the watch page for the video.
func (v *Video) URL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

type DurationCategory string

const (
	DurationVeryShort DurationCategory = "very_short" // < 1 minute
	DurationShort     DurationCategory = "short"      // 1-5 minutes
	DurationMedium    DurationCategory = "medium"     // 5-20 minutes
	DurationLong      DurationCategory = "long"       // 20-60 minutes
	DurationVeryLong  DurationCategory = "very_long"  // > 1 hour
)

// EnrichedVideo is a Video plus fields derived from it once, at fetch time.
type EnrichedVideo struct {
	Video

	DurationSeconds  int              `json:"duration_seconds"`
	DurationCategory DurationCategory `json:"duration_category"`
	EngagementRate   float64          `json:"engagement_rate"`
	EmbeddingText    string           `json:"embedding_text"`
}
