package youtube

import (
	"strings"
	"testing"

	"contra-feed/internal/models"

	"github.com/m-mizutani/gt"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Empty", "", ""},
		{"Removes URLs", "watch https://example.com/x and www.example.org now", "watch and now"},
		{"Removes emails", "contact me@example.com today", "contact today"},
		{"Collapses whitespace", "a\n\n\tb   c", "a b c"},
		{"Strips symbols", "Best #1 video!!! (2024) 🎉", "Best 1 video!!! 2024"},
		{"Keeps punctuation", "Wait, what? Yes. well-known!", "Wait, what? Yes. well-known!"},
		{"Keeps non-Latin letters", "Café ドキュメンタリー", "Café ドキュメンタリー"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, CleanText(tt.in)).Equal(tt.want)
		})
	}
}

func TestExtractEmbeddingText(t *testing.T) {
	t.Run("Combines fields with title twice", func(t *testing.T) {
		v := &models.Video{
			Title:        "Sourdough Basics",
			Tags:         []string{"bread", "baking"},
			ChannelTitle: "Home Baker",
			Description:  "Learn to bake at https://bake.example",
		}
		gt.Value(t, ExtractEmbeddingText(v)).
			Equal("Sourdough Basics Sourdough Basics bread baking Home Baker Learn to bake at")
	})

	t.Run("Truncates description to 500 characters", func(t *testing.T) {
		v := &models.Video{Description: strings.Repeat("é", 800)}
		gt.Value(t, len([]rune(ExtractEmbeddingText(v)))).Equal(500)
	})

	t.Run("Empty video", func(t *testing.T) {
		gt.Value(t, ExtractEmbeddingText(&models.Video{})).Equal("")
	})
}

func TestParseDurationSeconds(t *testing.T) {
	tests := map[string]int{
		"":          0,
		"PT45S":     45,
		"PT4M13S":   253,
		"PT1H":      3600,
		"PT2H15M3S": 8103,
		"garbage":   0,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			gt.Value(t, parseDurationSeconds(in)).Equal(want)
		})
	}
}

func TestCategorizeDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    models.DurationCategory
	}{
		{0, models.DurationVeryShort},
		{59, models.DurationVeryShort},
		{60, models.DurationShort},
		{299, models.DurationShort},
		{300, models.DurationMedium},
		{1199, models.DurationMedium},
		{1200, models.DurationLong},
		{3599, models.DurationLong},
		{3600, models.DurationVeryLong},
	}
	for _, tt := range tests {
		gt.Value(t, CategorizeDuration(tt.seconds)).Equal(tt.want)
	}
}

func TestEnrich(t *testing.T) {
	v := &models.Video{
		ID:           "abcdefghijk",
		Title:        "Chess openings",
		Duration:     "PT10M",
		ViewCount:    1000,
		LikeCount:    40,
		CommentCount: 10,
	}

	e := Enrich(v)
	gt.Value(t, e.ID).Equal("abcdefghijk")
	gt.Value(t, e.DurationSeconds).Equal(600)
	gt.Value(t, e.DurationCategory).Equal(models.DurationMedium)
	gt.Value(t, e.EngagementRate).Equal(0.05)
	gt.Value(t, e.EmbeddingText).Equal("Chess openings Chess openings")

	t.Run("Zero views", func(t *testing.T) {
		gt.Value(t, Enrich(&models.Video{LikeCount: 5}).EngagementRate).Equal(0.0)
	})
}
