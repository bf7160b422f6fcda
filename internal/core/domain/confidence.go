package domain

// Confidence is a coarse categorical estimate of answer grounding quality,
// derived from the similarity statistics of the surviving context chunks.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Retrieval policy constants. These were chosen empirically in the original
// system; they are fixed per process, not per call.
const (
	// RelevanceFloor is the minimum similarity score a candidate must
	// exceed to be included in the answer context.
	RelevanceFloor = 0.3

	// HighConfidenceMean and MediumConfidenceMean are the mean-similarity
	// thresholds for the high and medium confidence labels.
	HighConfidenceMean   = 0.8
	MediumConfidenceMean = 0.6

	// HighConfidenceCount and MediumConfidenceCount are the minimum number
	// of surviving candidates for the high and medium labels.
	HighConfidenceCount   = 3
	MediumConfidenceCount = 2

	// ConfidenceTopN is how many of the best surviving scores feed the
	// mean used for confidence.
	ConfidenceTopN = 3
)

// ConfidenceFromScores computes the confidence label for a set of surviving
// similarity scores, ordered highest first. It is a pure function: the mean
// of the top ConfidenceTopN scores (or fewer, if fewer exist) is combined
// with the surviving count.
func ConfidenceFromScores(scores []float64) Confidence {
	if len(scores) == 0 {
		return ConfidenceLow
	}

	n := len(scores)
	if n > ConfidenceTopN {
		n = ConfidenceTopN
	}
	var sum float64
	for _, s := range scores[:n] {
		sum += s
	}
	mean := sum / float64(n)

	switch {
	case mean > HighConfidenceMean && len(scores) >= HighConfidenceCount:
		return ConfidenceHigh
	case mean > MediumConfidenceMean && len(scores) >= MediumConfidenceCount:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
