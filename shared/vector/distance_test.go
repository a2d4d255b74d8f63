package vector_test

import (
	"math"
	"testing"

	"contra-feed/shared/vector"

	"github.com/m-mizutani/gt"
)

const eps = 1e-9

func approx(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"scaled", []float32{1, 2, 3}, []float32{2, 4, 6}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero left", []float32{0, 0}, []float32{1, 1}, 0},
		{"zero right", []float32{3, 4}, []float32{0, 0}, 0},
		{"both zero", []float32{0, 0}, []float32{0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := vector.CosineSimilarity(tt.a, tt.b)
			gt.NoError(t, err).Required()
			approx(t, got, tt.want)
		})
	}
}

func TestDimensionMismatch(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{1, 2}

	_, err := vector.CosineSimilarity(a, b)
	gt.Error(t, err).Is(vector.ErrDimensionMismatch)

	_, err = vector.CosineDistance(a, b)
	gt.Error(t, err).Is(vector.ErrDimensionMismatch)

	_, err = vector.EuclideanDistance(a, b)
	gt.Error(t, err).Is(vector.ErrDimensionMismatch)

	_, err = vector.AngleDegrees(a, b)
	gt.Error(t, err).Is(vector.ErrDimensionMismatch)

	_, err = vector.Centroid([][]float32{a, b})
	gt.Error(t, err).Is(vector.ErrDimensionMismatch)

	_, err = vector.FindDiametricallyOpposite([][]float32{a}, [][]float32{b}, 5, 0.7, 150)
	gt.Error(t, err).Is(vector.ErrDimensionMismatch)

	_, err = vector.FindOppositeToCentroid([][]float32{a}, [][]float32{b}, 5)
	gt.Error(t, err).Is(vector.ErrDimensionMismatch)
}

func TestCosineDistanceIsOneMinusSimilarity(t *testing.T) {
	pairs := [][2][]float32{
		{{1, 2, 3}, {-3, 0.5, 2}},
		{{0.1, 0.9}, {0.7, -0.2}},
		{{5, 5, 5, 5}, {-1, 2, -3, 4}},
	}
	for _, p := range pairs {
		sim, err := vector.CosineSimilarity(p[0], p[1])
		gt.NoError(t, err).Required()
		dist, err := vector.CosineDistance(p[0], p[1])
		gt.NoError(t, err).Required()
		gt.Value(t, dist).Equal(1 - sim)
	}
}

func TestAngleDegrees(t *testing.T) {
	t.Run("self angle is zero", func(t *testing.T) {
		a := []float32{0.3, -1.2, 4.5}
		angle, err := vector.AngleDegrees(a, a)
		gt.NoError(t, err).Required()
		gt.Bool(t, angle < 1e-3).True()
	})

	t.Run("orthogonal is 90", func(t *testing.T) {
		angle, err := vector.AngleDegrees([]float32{1, 0}, []float32{0, 1})
		gt.NoError(t, err).Required()
		approx(t, angle, 90)
	})

	t.Run("opposite is 180", func(t *testing.T) {
		angle, err := vector.AngleDegrees([]float32{1, 0}, []float32{-1, 0})
		gt.NoError(t, err).Required()
		approx(t, angle, 180)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := []float32{1, 2, -0.5}
		b := []float32{-0.2, 0.4, 3}
		ab, err := vector.AngleDegrees(a, b)
		gt.NoError(t, err).Required()
		ba, err := vector.AngleDegrees(b, a)
		gt.NoError(t, err).Required()
		gt.Value(t, ab).Equal(ba)
	})

	t.Run("zero vector is forced to 90", func(t *testing.T) {
		angle, err := vector.AngleDegrees([]float32{0, 0, 0}, []float32{1, 2, 3})
		gt.NoError(t, err).Required()
		approx(t, angle, 90)
	})

	t.Run("never NaN", func(t *testing.T) {
		a := []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7}
		angle, err := vector.AngleDegrees(a, a)
		gt.NoError(t, err).Required()
		gt.Bool(t, math.IsNaN(angle)).False()
	})
}

func TestEuclideanDistance(t *testing.T) {
	d, err := vector.EuclideanDistance([]float32{0, 0}, []float32{3, 4})
	gt.NoError(t, err).Required()
	approx(t, d, 5)

	d, err = vector.EuclideanDistance([]float32{1, 1}, []float32{1, 1})
	gt.NoError(t, err).Required()
	approx(t, d, 0)
}

func TestCentroid(t *testing.T) {
	c, err := vector.Centroid([][]float32{{1, 0}, {0, 1}, {2, 2}})
	gt.NoError(t, err).Required()
	gt.Array(t, c).Length(2)
	approx(t, float64(c[0]), 1)
	approx(t, float64(c[1]), 1)

	_, err = vector.Centroid(nil)
	gt.Error(t, err).Is(vector.ErrEmptyInput)
}

func TestPairwiseSimilarity(t *testing.T) {
	m, err := vector.PairwiseSimilarity(
		[][]float32{{1, 0}, {0, 1}},
		[][]float32{{1, 0}, {-1, 0}, {0, 2}},
	)
	gt.NoError(t, err).Required()
	gt.Array(t, m).Length(2)
	approx(t, m[0][0], 1)
	approx(t, m[0][1], -1)
	approx(t, m[0][2], 0)
	approx(t, m[1][2], 1)
}
