// Package vector holds the geometry used to compare embeddings. Every function
// is pure; callers may share inputs across goroutines freely.
package vector

import (
	"math"

	"github.com/m-mizutani/goerr/v2"
)

const (
	DefaultMinDistance = 0.7
	DefaultMinAngle    = 150.0
)

var (
	// ErrDimensionMismatch is returned whenever two operands differ in length.
	ErrDimensionMismatch = goerr.New("embedding dimension mismatch")
	ErrEmptyInput        = goerr.New("at least one vector is required")
)

func checkDims(a, b []float32) error {
	if len(a) != len(b) {
		return goerr.Wrap(ErrDimensionMismatch, "operands differ in length",
			goerr.V("left", len(a)),
			goerr.V("right", len(b)))
	}
	return nil
}

// CosineSimilarity returns the cosine of the angle between a and b. A zero-norm
// operand yields 0.
func CosineSimilarity(a, b []float32) (float64, error) {
	if err := checkDims(a, b); err != nil {
		return 0, err
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// CosineDistance is 1 - CosineSimilarity: 0 identical, 1 orthogonal, 2 opposite.
func CosineDistance(a, b []float32) (float64, error) {
	sim, err := CosineSimilarity(a, b)
	if err != nil {
		return 0, err
	}
	return 1 - sim, nil
}

func EuclideanDistance(a, b []float32) (float64, error) {
	if err := checkDims(a, b); err != nil {
		return 0, err
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// AngleDegrees returns the angle between a and b in degrees, 0 to 180.
func AngleDegrees(a, b []float32) (float64, error) {
	sim, err := CosineSimilarity(a, b)
	if err != nil {
		return 0, err
	}
	return angleFromSimilarity(sim), nil
}

func angleFromSimilarity(sim float64) float64 {
	// Rounding can push |sim| slightly past 1, where Acos returns NaN.
	sim = math.Max(-1, math.Min(1, sim))
	return math.Acos(sim) * 180 / math.Pi
}

// Centroid returns the element-wise mean of vectors.
func Centroid(vectors [][]float32) ([]float32, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyInput
	}

	dim := len(vectors[0])
	sums := make([]float64, dim)
	for _, v := range vectors {
		if err := checkDims(vectors[0], v); err != nil {
			return nil, err
		}
		for i, x := range v {
			sums[i] += float64(x)
		}
	}

	centroid := make([]float32, dim)
	n := float64(len(vectors))
	for i, s := range sums {
		centroid[i] = float32(s / n)
	}
	return centroid, nil
}

// PairwiseSimilarity returns the len(as) x len(bs) cosine similarity matrix.
func PairwiseSimilarity(as, bs [][]float32) ([][]float64, error) {
	matrix := make([][]float64, len(as))
	for i, a := range as {
		row := make([]float64, len(bs))
		for j, b := range bs {
			sim, err := CosineSimilarity(a, b)
			if err != nil {
				return nil, goerr.Wrap(err, "pairwise similarity", goerr.V("row", i), goerr.V("col", j))
			}
			row[j] = sim
		}
		matrix[i] = row
	}
	return matrix, nil
}
