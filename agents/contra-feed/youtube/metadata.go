package youtube

import (
	"regexp"
	"strconv"
	"strings"

	"contra-feed/internal/models"
)

const descriptionSnippetRunes = 500

var (
	urlPattern        = regexp.MustCompile(`http\S+|www.\S+`)
	emailPattern      = regexp.MustCompile(`\S+@\S+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	// \w in RE2 is ASCII only, so letters and digits are spelled out to keep non-Latin titles.
	disallowedPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s.,!?-]`)

	hoursPattern   = regexp.MustCompile(`(\d+)H`)
	minutesPattern = regexp.MustCompile(`(\d+)M`)
	secondsPattern = regexp.MustCompile(`(\d+)S`)
)

// CleanText strips URLs and email addresses, collapses whitespace and drops
// everything except letters, digits, whitespace and basic punctuation.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = urlPattern.ReplaceAllString(text, "")
	text = emailPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = disallowedPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ExtractEmbeddingText builds the text a video is embedded from. The title is
// included twice to weight it above tags, channel and description.
func ExtractEmbeddingText(v *models.Video) string {
	var components []string

	if v.Title != "" {
		title := CleanText(v.Title)
		components = append(components, title, title)
	}
	if len(v.Tags) > 0 {
		components = append(components, CleanText(strings.Join(v.Tags, " ")))
	}
	if v.ChannelTitle != "" {
		components = append(components, CleanText(v.ChannelTitle))
	}
	if v.Description != "" {
		desc := []rune(v.Description)
		if len(desc) > descriptionSnippetRunes {
			desc = desc[:descriptionSnippetRunes]
		}
		components = append(components, CleanText(string(desc)))
	}

	return strings.Join(components, " ")
}

// parseDurationSeconds converts an ISO 8601 duration such as PT1H2M3S.
// Day components are ignored; unparseable input yields 0.
func parseDurationSeconds(duration string) int {
	if duration == "" {
		return 0
	}
	duration = strings.Replace(duration, "PT", "", 1)

	unit := func(re *regexp.Regexp) int {
		m := re.FindStringSubmatch(duration)
		if m == nil {
			return 0
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0
		}
		return n
	}

	return unit(hoursPattern)*3600 + unit(minutesPattern)*60 + unit(secondsPattern)
}

func CategorizeDuration(seconds int) models.DurationCategory {
	switch {
	case seconds < 60:
		return models.DurationVeryShort
	case seconds < 300:
		return models.DurationShort
	case seconds < 1200:
		return models.DurationMedium
	case seconds < 3600:
		return models.DurationLong
	default:
		return models.DurationVeryLong
	}
}

// Enrich derives duration, engagement and embedding text from raw metadata.
func Enrich(v *models.Video) *models.EnrichedVideo {
	seconds := parseDurationSeconds(v.Duration)

	var engagement float64
	if v.ViewCount > 0 {
		engagement = float64(v.LikeCount+v.CommentCount) / float64(v.ViewCount)
	}

	return &models.EnrichedVideo{
		Video:            *v,
		DurationSeconds:  seconds,
		DurationCategory: CategorizeDuration(seconds),
		EngagementRate:   engagement,
		EmbeddingText:    ExtractEmbeddingText(v),
	}
}
