// Package rating turns review scores into reputation values.
package rating

import "talent-marketplace-backend/internal/domain"

// CompositeScore is the arithmetic mean of the six sub-scores.
func CompositeScore(s domain.ReviewScores) float64 {
	sum := s.Skill + s.Communication + s.Deadline + s.Availability + s.Quality + s.Cooperation
	return float64(sum) / 6
}

// Mean returns the average of values, or nil when there are none.
func Mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))
	return &avg
}

// TalentReputation averages the composite score of every review the talent received.
func TalentReputation(reviews []domain.Review) *float64 {
	scores := make([]float64, 0, len(reviews))
	for _, r := range reviews {
		scores = append(scores, CompositeScore(r.Scores))
	}
	return Mean(scores)
}

// ServiceReputation averages the composite score of the EMPLOYEE reviews in reviews.
func ServiceReputation(reviews []domain.Review) *float64 {
	scores := make([]float64, 0, len(reviews))
	for _, r := range reviews {
		if r.Type != domain.ReviewTypeEmployee {
			continue
		}
		scores = append(scores, CompositeScore(r.Scores))
	}
	return Mean(scores)
}

// BusinessReputation averages the per-service averages of a business.
func BusinessReputation(serviceAverages []float64) *float64 {
	return Mean(serviceAverages)
}
