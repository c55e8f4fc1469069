// Package contribution fits a channel-contribution model over
// adstocked and saturated spend series and derives per-channel ROAS.
// The model is correlational decision support, not causal proof; ROAS
// estimates should be read accordingly.
package contribution

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"media-mix-lab/internal/curves"
	"media-mix-lab/internal/domain"
)

// ErrSeriesMismatch is returned when input series lengths disagree.
var ErrSeriesMismatch = errors.New("input series lengths disagree")

// Transform and fit constants.
const (
	adstockMaxLag          = 8
	defaultSaturationPoint = 0.5
	defaultSeasonPeriod    = 7
	relErrorFloor          = 1e-9
)

// Input is one immutable snapshot for a contribution run.
type Input struct {
	Channels []*domain.Channel

	// Spend holds one aligned per-period spend series per channel.
	Spend map[string][]float64

	// Outcome is the aligned outcome series (e.g. revenue).
	Outcome []float64

	// Regressors are optional aligned external series
	// (price, promotions, competitor spend).
	Regressors map[string][]float64

	// SeasonPeriod for the baseline decomposition; defaults to weekly.
	SeasonPeriod int
}

// Model runs contribution attribution by regression.
type Model struct {
	fitOpts FitOptions
}

// New creates a contribution model with the given boosting options.
func New(opts FitOptions) *Model {
	return &Model{fitOpts: opts}
}

// Run transforms spend series, subtracts the deterministic baseline
// from the outcome, fits the ensemble and derives contributions and
// ROAS. One channel's degenerate series degrades that channel to a
// zero contribution; it never fails the run.
func (m *Model) Run(in *Input) (*domain.ContributionResult, error) {
	n := len(in.Outcome)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty outcome series", ErrSeriesMismatch)
	}
	for id, s := range in.Spend {
		if len(s) != n {
			return nil, fmt.Errorf("%w: channel %s has %d periods, outcome has %d", ErrSeriesMismatch, id, len(s), n)
		}
	}
	for name, s := range in.Regressors {
		if len(s) != n {
			return nil, fmt.Errorf("%w: regressor %s has %d periods, outcome has %d", ErrSeriesMismatch, name, len(s), n)
		}
	}

	period := in.SeasonPeriod
	if period <= 0 {
		period = defaultSeasonPeriod
	}
	baseline := Decompose(in.Outcome, period)

	incremental := make([]float64, n)
	totalIncremental := 0.0
	for i := range in.Outcome {
		incremental[i] = in.Outcome[i] - baseline.Combined[i]
		totalIncremental += incremental[i]
	}
	if totalIncremental < 0 {
		totalIncremental = 0
	}

	// Deterministic channel order.
	channelIDs := make([]string, 0, len(in.Spend))
	for id := range in.Spend {
		channelIDs = append(channelIDs, id)
	}
	sort.Strings(channelIDs)

	paramsByID := make(map[string]*domain.Channel, len(in.Channels))
	for _, ch := range in.Channels {
		paramsByID[ch.ChannelID] = ch
	}

	// Transform each usable channel series; degenerate (constant)
	// series are excluded from the feature matrix.
	var (
		featureSeries [][]float64
		featureOwner  []string // channel owning each feature column; "" for regressors
		statuses      = make(map[string]domain.ContributionStatus, len(channelIDs))
	)
	for _, id := range channelIDs {
		series := in.Spend[id]
		if isConstant(series) {
			if totalSpend(series) == 0 {
				statuses[id] = domain.ContributionZeroSpend
			} else {
				statuses[id] = domain.ContributionDegenerate
			}
			continue
		}
		statuses[id] = domain.ContributionOK

		decay, satPoint := 0.0, defaultSaturationPoint
		if ch, ok := paramsByID[id]; ok {
			decay = ch.DecayRate
			if ch.SaturationPoint > 0 {
				satPoint = ch.SaturationPoint
			}
		}

		transformed := curves.Saturate(curves.Adstock(series, decay, adstockMaxLag), satPoint)
		featureSeries = append(featureSeries, transformed)
		featureOwner = append(featureOwner, id)
	}

	regressorNames := make([]string, 0, len(in.Regressors))
	for name := range in.Regressors {
		regressorNames = append(regressorNames, name)
	}
	sort.Strings(regressorNames)
	for _, name := range regressorNames {
		featureSeries = append(featureSeries, in.Regressors[name])
		featureOwner = append(featureOwner, "")
	}

	result := &domain.ContributionResult{TotalIncremental: totalIncremental}

	if len(featureSeries) == 0 {
		// Nothing to fit: every channel was degenerate.
		for _, id := range channelIDs {
			result.Channels = append(result.Channels, zeroContribution(id, statuses[id]))
		}
		return result, nil
	}

	// Rows are periods, columns are features.
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, len(featureSeries))
		for f, s := range featureSeries {
			row[f] = s[i]
		}
		rows[i] = row
	}

	ensemble, err := Fit(rows, incremental, m.fitOpts)
	if err != nil {
		// Fit failure degrades every channel, not the run.
		for _, id := range channelIDs {
			result.Channels = append(result.Channels, zeroContribution(id, domain.ContributionDegenerate))
		}
		return result, nil
	}

	result.Accuracy = accuracy(ensemble, rows, incremental)

	// Contribution = channel importance share of the explained
	// incremental total. Residual stays unexplained by design.
	importance := ensemble.FeatureImportance()
	channelImportance := make(map[string]float64)
	channelTotal := 0.0
	for f, owner := range featureOwner {
		if owner == "" {
			continue
		}
		channelImportance[owner] = importance[f]
		channelTotal += importance[f]
	}

	explained := totalIncremental * clamp01(result.Accuracy)
	for _, id := range channelIDs {
		status := statuses[id]
		contrib := 0.0
		if channelTotal > 0 && status == domain.ContributionOK {
			contrib = channelImportance[id] / channelTotal * explained
		}

		cc := &domain.ChannelContribution{
			ChannelID:    id,
			Contribution: contrib,
			Status:       status,
		}
		if spend := totalSpend(in.Spend[id]); spend > 0 {
			roas := contrib / spend
			cc.ROAS = &roas
		} else {
			cc.Status = domain.ContributionZeroSpend
		}
		result.Channels = append(result.Channels, cc)
	}

	return result, nil
}

// accuracy is 1 - mean relative prediction error, clamped to [0,1].
// Informational, not a correctness invariant.
func accuracy(e *Ensemble, rows [][]float64, target []float64) float64 {
	sum, count := 0.0, 0
	for i, row := range rows {
		if math.Abs(target[i]) < relErrorFloor {
			continue
		}
		sum += math.Abs(e.Predict(row)-target[i]) / math.Abs(target[i])
		count++
	}
	if count == 0 {
		return 0
	}
	return clamp01(1 - sum/float64(count))
}

func zeroContribution(id string, status domain.ContributionStatus) *domain.ChannelContribution {
	return &domain.ChannelContribution{ChannelID: id, Status: status}
}

func isConstant(series []float64) bool {
	for i := 1; i < len(series); i++ {
		if series[i] != series[0] {
			return false
		}
	}
	return true
}

func totalSpend(series []float64) float64 {
	sum := 0.0
	for _, v := range series {
		sum += v
	}
	return sum
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
