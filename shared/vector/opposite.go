package vector

import (
	"sort"

	"github.com/m-mizutani/goerr/v2"
)

// Match is a scored candidate. Index points into the candidate slice handed to
// the search function; Distance and Angle are averages over the query set for
// FindDiametricallyOpposite and single values everywhere else.
type Match struct {
	Index    int
	Distance float64
	Angle    float64
}

// FindDiametricallyOpposite keeps candidates whose closest query is still at
// least minDistance away and whose mean angle to the queries is at least
// minAngle. Survivors are ordered by angle, then distance, both descending, and
// at most k are returned. Fewer than k qualifiers is not an error.
func FindDiametricallyOpposite(queries, candidates [][]float32, k int, minDistance, minAngle float64) ([]Match, error) {
	if len(queries) == 0 {
		return nil, ErrEmptyInput
	}

	var matches []Match
	for i, candidate := range candidates {
		var sumDist, sumAngle float64
		minDist := 0.0

		for j, query := range queries {
			sim, err := CosineSimilarity(query, candidate)
			if err != nil {
				return nil, goerr.Wrap(err, "score candidate", goerr.V("candidate", i), goerr.V("query", j))
			}
			dist := 1 - sim
			sumDist += dist
			sumAngle += angleFromSimilarity(sim)
			if j == 0 || dist < minDist {
				minDist = dist
			}
		}

		n := float64(len(queries))
		avgDist, avgAngle := sumDist/n, sumAngle/n

		if minDist >= minDistance && avgAngle >= minAngle {
			matches = append(matches, Match{Index: i, Distance: avgDist, Angle: avgAngle})
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		if matches[a].Angle != matches[b].Angle {
			return matches[a].Angle > matches[b].Angle
		}
		return matches[a].Distance > matches[b].Distance
	})

	return truncate(matches, k), nil
}

// FindOppositeToCentroid collapses queries to their centroid and ranks every
// candidate by its angle to it, widest first. Nothing is filtered out.
func FindOppositeToCentroid(queries, candidates [][]float32, k int) ([]Match, error) {
	centroid, err := Centroid(queries)
	if err != nil {
		return nil, err
	}

	matches, err := scoreAgainst(centroid, candidates)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Angle > matches[b].Angle
	})

	return truncate(matches, k), nil
}

// FindNearest returns the k candidates with the smallest cosine distance to query.
func FindNearest(query []float32, candidates [][]float32, k int) ([]Match, error) {
	matches, err := scoreAgainst(query, candidates)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Distance < matches[b].Distance
	})
	return truncate(matches, k), nil
}

// FindFarthest returns the k candidates with the largest cosine distance to query.
func FindFarthest(query []float32, candidates [][]float32, k int) ([]Match, error) {
	matches, err := scoreAgainst(query, candidates)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Distance > matches[b].Distance
	})
	return truncate(matches, k), nil
}

func scoreAgainst(point []float32, candidates [][]float32) ([]Match, error) {
	matches := make([]Match, 0, len(candidates))
	for i, candidate := range candidates {
		sim, err := CosineSimilarity(point, candidate)
		if err != nil {
			return nil, goerr.Wrap(err, "score candidate", goerr.V("candidate", i))
		}
		matches = append(matches, Match{
			Index:    i,
			Distance: 1 - sim,
			Angle:    angleFromSimilarity(sim),
		})
	}
	return matches, nil
}

func truncate(matches []Match, k int) []Match {
	if k < 0 {
		k = 0
	}
	if len(matches) > k {
		return matches[:k]
	}
	return matches
}
