package contribution

import (
	"errors"
	"math"
	"sort"
)

// ErrNoSamples is returned when the ensemble is fit on empty data.
var ErrNoSamples = errors.New("no samples to fit")

// Fitting constants. Threshold candidates are capped so a fit round
// stays O(features * candidates * samples).
const (
	defaultRounds       = 120
	defaultLearningRate = 0.1
	maxThresholds       = 32
)

// stump is a single-split regression tree on one feature.
type stump struct {
	feature   int
	threshold float64
	left      float64 // prediction for x[feature] <= threshold
	right     float64
}

// Ensemble is a gradient-boosted collection of regression stumps.
type Ensemble struct {
	bias         float64
	learningRate float64
	stumps       []stump

	// importance accumulates squared-error reduction per feature.
	importance []float64
}

// FitOptions tune boosting. Zero values fall back to defaults.
type FitOptions struct {
	Rounds       int
	LearningRate float64
}

// Fit trains an ensemble mapping feature rows to targets.
// features[i] is the feature vector of sample i.
func Fit(features [][]float64, target []float64, opts FitOptions) (*Ensemble, error) {
	n := len(features)
	if n == 0 || n != len(target) {
		return nil, ErrNoSamples
	}
	numFeatures := len(features[0])

	if opts.Rounds <= 0 {
		opts.Rounds = defaultRounds
	}
	if opts.LearningRate <= 0 {
		opts.LearningRate = defaultLearningRate
	}

	e := &Ensemble{
		learningRate: opts.LearningRate,
		importance:   make([]float64, numFeatures),
	}

	for _, y := range target {
		e.bias += y
	}
	e.bias /= float64(n)

	residual := make([]float64, n)
	for i := range target {
		residual[i] = target[i] - e.bias
	}

	candidates := thresholdCandidates(features, numFeatures)

	for round := 0; round < opts.Rounds; round++ {
		best, reduction, ok := bestStump(features, residual, candidates)
		if !ok {
			break // no split reduces error any further
		}

		e.stumps = append(e.stumps, best)
		e.importance[best.feature] += reduction

		for i := range residual {
			residual[i] -= e.learningRate * best.predict(features[i])
		}
	}

	return e, nil
}

// Predict returns the ensemble prediction for one feature vector.
func (e *Ensemble) Predict(x []float64) float64 {
	v := e.bias
	for _, s := range e.stumps {
		v += e.learningRate * s.predict(x)
	}
	return v
}

// FeatureImportance returns per-feature error-reduction shares,
// normalized to sum to 1. All-zero importance stays all-zero.
func (e *Ensemble) FeatureImportance() []float64 {
	out := make([]float64, len(e.importance))
	total := 0.0
	for _, v := range e.importance {
		total += v
	}
	if total == 0 {
		return out
	}
	for i, v := range e.importance {
		out[i] = v / total
	}
	return out
}

func (s stump) predict(x []float64) float64 {
	if x[s.feature] <= s.threshold {
		return s.left
	}
	return s.right
}

// thresholdCandidates picks up to maxThresholds midpoints per feature
// from the sorted distinct values.
func thresholdCandidates(features [][]float64, numFeatures int) [][]float64 {
	out := make([][]float64, numFeatures)
	for f := 0; f < numFeatures; f++ {
		values := make([]float64, 0, len(features))
		for _, row := range features {
			values = append(values, row[f])
		}
		sort.Float64s(values)

		var mids []float64
		for i := 1; i < len(values); i++ {
			if values[i] != values[i-1] {
				mids = append(mids, (values[i]+values[i-1])/2)
			}
		}
		if len(mids) > maxThresholds {
			stride := float64(len(mids)) / maxThresholds
			picked := make([]float64, 0, maxThresholds)
			for i := 0; i < maxThresholds; i++ {
				picked = append(picked, mids[int(float64(i)*stride)])
			}
			mids = picked
		}
		out[f] = mids
	}
	return out
}

// bestStump finds the split minimizing residual squared error. Returns
// ok=false when no candidate reduces error.
func bestStump(features [][]float64, residual []float64, candidates [][]float64) (stump, float64, bool) {
	baseSSE := 0.0
	for _, r := range residual {
		baseSSE += r * r
	}

	var (
		best      stump
		bestSSE   = baseSSE
		foundGain = false
	)

	for f, mids := range candidates {
		for _, threshold := range mids {
			var (
				leftSum, rightSum     float64
				leftCount, rightCount int
			)
			for i, row := range features {
				if row[f] <= threshold {
					leftSum += residual[i]
					leftCount++
				} else {
					rightSum += residual[i]
					rightCount++
				}
			}
			if leftCount == 0 || rightCount == 0 {
				continue
			}

			leftMean := leftSum / float64(leftCount)
			rightMean := rightSum / float64(rightCount)

			sse := 0.0
			for i, row := range features {
				var pred float64
				if row[f] <= threshold {
					pred = leftMean
				} else {
					pred = rightMean
				}
				d := residual[i] - pred
				sse += d * d
			}

			if sse < bestSSE-1e-12 {
				bestSSE = sse
				best = stump{feature: f, threshold: threshold, left: leftMean, right: rightMean}
				foundGain = true
			}
		}
	}

	if !foundGain || math.IsNaN(bestSSE) {
		return stump{}, 0, false
	}
	return best, baseSSE - bestSSE, true
}
