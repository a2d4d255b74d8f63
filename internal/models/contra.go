package models

type ContraScore struct {
	Distance float64 `json:"distance"`
	Angle    float64 `json:"angle"`
	Method   string  `json:"method"`
}

// ContraVideo is a pool candidate selected as opposite to the input videos.
type ContraVideo struct {
	*EnrichedVideo
	Score ContraScore `json:"contra_score"`
}

type AnalysisSummary struct {
	InputVideoID    string  `json:"input_video_id"`
	InputVideoTitle string  `json:"input_video_title"`
	NumContraVideos int     `json:"num_contra_videos"`
	AvgDistance     float64 `json:"avg_distance"`
	AvgAngle        float64 `json:"avg_angle"`
}

type Analysis struct {
	Input        *EnrichedVideo  `json:"input_video"`
	ContraVideos []*ContraVideo  `json:"contra_videos"`
	Summary      AnalysisSummary `json:"summary"`
}

type Relationship string

const (
	RelationshipVerySimilar           Relationship = "very_similar"
	RelationshipSimilar               Relationship = "similar"
	RelationshipDifferent             Relationship = "different"
	RelationshipOpposite              Relationship = "opposite"
	RelationshipDiametricallyOpposite Relationship = "diametrically_opposite"
)

// ClassifyAngle maps an angle in degrees onto one of five ordered bands.
func ClassifyAngle(angle float64) Relationship {
	switch {
	case angle < 30:
		return RelationshipVerySimilar
	case angle < 60:
		return RelationshipSimilar
	case angle < 120:
		return RelationshipDifferent
	case angle < 150:
		return RelationshipOpposite
	default:
		return RelationshipDiametricallyOpposite
	}
}

type Comparison struct {
	Video1            *EnrichedVideo `json:"video_1"`
	Video2            *EnrichedVideo `json:"video_2"`
	CosineSimilarity  float64        `json:"cosine_similarity"`
	CosineDistance    float64        `json:"cosine_distance"`
	AngleDegrees      float64        `json:"angle_degrees"`
	EuclideanDistance float64        `json:"euclidean_distance"`
	Relationship      Relationship   `json:"relationship"`
}

type Statistics struct {
	CacheDir           string  `json:"cache_dir"`
	CachedPools        int     `json:"cache_size"`
	EmbeddingCacheSize int     `json:"embedder_cache_size"`
	MinDistance        float64 `json:"min_distance"`
	MinAngle           float64 `json:"min_angle"`
}
