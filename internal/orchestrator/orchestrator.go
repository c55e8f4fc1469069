// Package orchestrator coordinates the planning pipeline.
// Flow: load snapshot → optimize → contribution → synergy/frequency →
// dayparting → attribution → report assembly.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"media-mix-lab/internal/attribution"
	"media-mix-lab/internal/contribution"
	"media-mix-lab/internal/daypart"
	"media-mix-lab/internal/domain"
	"media-mix-lab/internal/frequency"
	"media-mix-lab/internal/observability"
	"media-mix-lab/internal/optimizer"
	"media-mix-lab/internal/storage"
	"media-mix-lab/internal/synergy"
)

// attributionConcurrency bounds the parallel journey attribution.
const attributionConcurrency = 8

// Orchestrator runs the full planning pipeline over one snapshot.
type Orchestrator struct {
	// Stores
	channelStore           storage.ChannelStore
	touchpointStore        storage.TouchpointStore
	exposureBucketStore    storage.ExposureBucketStore
	spendSeriesStore       storage.SpendSeriesStore
	outcomeSeriesStore     storage.OutcomeSeriesStore
	coExposureStore        storage.CoExposureStore
	hourlyPerformanceStore storage.HourlyPerformanceStore

	// Knobs
	budget          float64
	topSynergyPairs int
	topDaypartHours int
	seasonPeriod    int
	optimizerOpts   optimizer.Options
	attributionCfg  attribution.Config

	logger  *logrus.Logger
	metrics *observability.Metrics
}

// Options for creating an Orchestrator.
type Options struct {
	// Required stores
	ChannelStore           storage.ChannelStore
	TouchpointStore        storage.TouchpointStore
	ExposureBucketStore    storage.ExposureBucketStore
	SpendSeriesStore       storage.SpendSeriesStore
	OutcomeSeriesStore     storage.OutcomeSeriesStore
	CoExposureStore        storage.CoExposureStore
	HourlyPerformanceStore storage.HourlyPerformanceStore

	// Planning knobs
	Budget          float64
	TopSynergyPairs int
	TopDaypartHours int
	SeasonPeriod    int
	Optimizer       optimizer.Options
	Attribution     attribution.Config

	// Optional. Logger defaults to the standard logrus logger; a nil
	// Metrics disables instrumentation.
	Logger  *logrus.Logger
	Metrics *observability.Metrics
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	topPairs := opts.TopSynergyPairs
	if topPairs <= 0 {
		topPairs = 5
	}
	topHours := opts.TopDaypartHours
	if topHours <= 0 {
		topHours = 6
	}

	return &Orchestrator{
		channelStore:           opts.ChannelStore,
		touchpointStore:        opts.TouchpointStore,
		exposureBucketStore:    opts.ExposureBucketStore,
		spendSeriesStore:       opts.SpendSeriesStore,
		outcomeSeriesStore:     opts.OutcomeSeriesStore,
		coExposureStore:        opts.CoExposureStore,
		hourlyPerformanceStore: opts.HourlyPerformanceStore,
		budget:                 opts.Budget,
		topSynergyPairs:        topPairs,
		topDaypartHours:        topHours,
		seasonPeriod:           opts.SeasonPeriod,
		optimizerOpts:          opts.Optimizer,
		attributionCfg:         opts.Attribution,
		logger:                 logger,
		metrics:                opts.Metrics,
	}
}

// Run executes the full planning pipeline and assembles the report.
// Degenerate data in one channel or journey degrades that item and adds
// a warning; it never aborts the run. Only storage failures do.
func (o *Orchestrator) Run(ctx context.Context) (*domain.PlanningReport, error) {
	report := &domain.PlanningReport{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Budget:      o.budget,
	}

	o.logger.WithField("run_id", report.RunID).Info("planning run started")

	channels, err := o.loadChannels(ctx)
	if err != nil {
		o.metrics.RecordRun("error")
		return nil, fmt.Errorf("load channels: %w", err)
	}
	o.logger.WithField("channels", len(channels)).Info("snapshot loaded")

	report.Allocation = o.runOptimization(channels, report)
	if err := o.runContribution(ctx, channels, report); err != nil {
		o.metrics.RecordRun("error")
		return nil, err
	}
	if err := o.runSynergy(ctx, report); err != nil {
		o.metrics.RecordRun("error")
		return nil, err
	}
	if err := o.runFrequency(ctx, report); err != nil {
		o.metrics.RecordRun("error")
		return nil, err
	}
	if err := o.runDaypart(ctx, report); err != nil {
		o.metrics.RecordRun("error")
		return nil, err
	}
	if err := o.runAttribution(ctx, report); err != nil {
		o.metrics.RecordRun("error")
		return nil, err
	}

	o.metrics.RecordRun("ok")
	o.logger.WithFields(logrus.Fields{
		"run_id":   report.RunID,
		"warnings": len(report.Warnings),
	}).Info("planning run completed")

	return report, nil
}

func (o *Orchestrator) loadChannels(ctx context.Context) ([]*domain.Channel, error) {
	return o.channelStore.List(ctx)
}

// channelOptimizable reports whether a channel can receive a budget
// share. Channels with an unset reach curve have a reach of zero at
// every impression level, so optimizing them would silently produce a
// zero allocation with an ok status.
func channelOptimizable(ch *domain.Channel) bool {
	return ch.CostPerImpression > 0 && ch.AudienceSize > 0 &&
		ch.ReachA > 0 && ch.ReachB > 0
}

// runOptimization splits the budget evenly across optimizable channels
// and maximizes each share independently.
func (o *Orchestrator) runOptimization(channels []*domain.Channel, report *domain.PlanningReport) *domain.AllocationPlan {
	start := time.Now()
	defer func() { o.metrics.RecordPhase("optimize", time.Since(start).Seconds()) }()

	plan := &domain.AllocationPlan{Budget: o.budget}
	if len(channels) == 0 {
		report.Warnings = append(report.Warnings, "optimize: no channels in snapshot")
		return plan
	}

	optimizable := 0
	for _, ch := range channels {
		if channelOptimizable(ch) {
			optimizable++
		}
	}

	var share float64
	if optimizable > 0 {
		share = o.budget / float64(optimizable)
	}

	allocs := make([]*domain.ChannelAllocation, len(channels))
	var mu sync.Mutex
	var g errgroup.Group

	for i, ch := range channels {
		if !channelOptimizable(ch) {
			allocs[i] = &domain.ChannelAllocation{
				ChannelID: ch.ChannelID,
				Status:    domain.AllocationSkipped,
				Note:      "non-positive cost per impression, audience size or reach curve",
			}
			mu.Lock()
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("optimize: channel %s skipped: invalid cost, audience or reach curve", ch.ChannelID))
			mu.Unlock()
			if o.metrics != nil {
				o.metrics.ChannelsSkipped.Inc()
			}
			continue
		}

		i, ch := i, ch
		g.Go(func() error {
			alloc, err := optimizer.Optimize(ch, share, o.optimizerOpts)
			if err != nil {
				alloc = &domain.ChannelAllocation{
					ChannelID: ch.ChannelID,
					Status:    domain.AllocationSkipped,
					Note:      err.Error(),
				}
				mu.Lock()
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("optimize: channel %s skipped: %v", ch.ChannelID, err))
				mu.Unlock()
			} else if o.metrics != nil {
				o.metrics.ChannelsOptimized.Inc()
			}
			allocs[i] = alloc
			return nil
		})
	}
	g.Wait()

	for _, a := range allocs {
		plan.Channels = append(plan.Channels, a)
		plan.TotalCost += a.Cost
	}

	o.logger.WithFields(logrus.Fields{
		"channels":   len(channels),
		"total_cost": plan.TotalCost,
	}).Info("optimization done")

	return plan
}

// runContribution aligns spend series on the outcome periods and fits
// the contribution model. Channels without spend data are excluded.
func (o *Orchestrator) runContribution(ctx context.Context, channels []*domain.Channel, report *domain.PlanningReport) error {
	start := time.Now()
	defer func() { o.metrics.RecordPhase("contribution", time.Since(start).Seconds()) }()

	outcomePoints, err := o.outcomeSeriesStore.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load outcome series: %w", err)
	}
	if len(outcomePoints) == 0 {
		report.Warnings = append(report.Warnings, "contribution: no outcome series, model skipped")
		return nil
	}

	periodIndex := make(map[int64]int, len(outcomePoints))
	outcome := make([]float64, len(outcomePoints))
	for i, p := range outcomePoints {
		periodIndex[p.PeriodStart] = i
		outcome[i] = p.Value
	}

	spend := make(map[string][]float64)
	var modeled []*domain.Channel
	for _, ch := range channels {
		points, err := o.spendSeriesStore.GetByChannelID(ctx, ch.ChannelID)
		if err != nil {
			return fmt.Errorf("load spend series for %s: %w", ch.ChannelID, err)
		}
		if len(points) == 0 {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("contribution: channel %s has no spend series", ch.ChannelID))
			continue
		}

		series := make([]float64, len(outcome))
		for _, p := range points {
			if i, ok := periodIndex[p.PeriodStart]; ok {
				series[i] = p.Spend
			}
		}
		spend[ch.ChannelID] = series
		modeled = append(modeled, ch)
	}

	if len(modeled) == 0 {
		report.Warnings = append(report.Warnings, "contribution: no channels with spend series, model skipped")
		return nil
	}

	model := contribution.New(contribution.FitOptions{})
	result, err := model.Run(&contribution.Input{
		Channels:     modeled,
		Spend:        spend,
		Outcome:      outcome,
		SeasonPeriod: o.seasonPeriod,
	})
	if err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("contribution: model failed: %v", err))
		return nil
	}

	if o.metrics != nil {
		o.metrics.ModelAccuracy.Set(result.Accuracy)
	}
	report.Contributions = result

	o.logger.WithFields(logrus.Fields{
		"channels": len(modeled),
		"accuracy": result.Accuracy,
	}).Info("contribution model fitted")

	return nil
}

func (o *Orchestrator) runSynergy(ctx context.Context, report *domain.PlanningReport) error {
	start := time.Now()
	defer func() { o.metrics.RecordPhase("synergy", time.Since(start).Seconds()) }()

	records, err := o.coExposureStore.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load co-exposure records: %w", err)
	}
	if len(records) == 0 {
		report.Warnings = append(report.Warnings, "synergy: no co-exposure records")
	}

	report.Synergy = synergy.Analyze(records)
	report.TopSynergies = synergy.TopPairs(report.Synergy, o.topSynergyPairs)
	return nil
}

func (o *Orchestrator) runFrequency(ctx context.Context, report *domain.PlanningReport) error {
	start := time.Now()
	defer func() { o.metrics.RecordPhase("frequency", time.Since(start).Seconds()) }()

	buckets, err := o.exposureBucketStore.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load exposure buckets: %w", err)
	}
	if len(buckets) == 0 {
		report.Warnings = append(report.Warnings, "frequency: no exposure buckets")
	}

	report.FrequencyCap = frequency.Advise(buckets)
	return nil
}

func (o *Orchestrator) runDaypart(ctx context.Context, report *domain.PlanningReport) error {
	start := time.Now()
	defer func() { o.metrics.RecordPhase("daypart", time.Since(start).Seconds()) }()

	rows, err := o.hourlyPerformanceStore.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load hourly performance: %w", err)
	}
	if len(rows) == 0 {
		report.Warnings = append(report.Warnings, "daypart: no hourly performance data")
	}

	report.Dayparting = daypart.Allocate(rows, o.budget, o.topDaypartHours)
	return nil
}

// runAttribution folds the touchpoint log into journeys and computes
// Shapley credit for every closed journey.
func (o *Orchestrator) runAttribution(ctx context.Context, report *domain.PlanningReport) error {
	start := time.Now()
	defer func() { o.metrics.RecordPhase("attribution", time.Since(start).Seconds()) }()

	touchpoints, err := o.touchpointStore.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load touchpoints: %w", err)
	}

	rates, err := o.channelConversionRates(ctx)
	if err != nil {
		return err
	}

	journeys := attribution.BuildJourneys(touchpoints)
	engine := attribution.NewEngine(rates, o.attributionCfg)

	results := make(map[string]*domain.AttributionResult)
	var mu sync.Mutex
	var discarded, exact, sampled int

	var g errgroup.Group
	g.SetLimit(attributionConcurrency)

	for _, j := range journeys {
		if j.State != domain.JourneyClosed {
			discarded++
			continue
		}

		j := j
		g.Go(func() error {
			res, err := engine.Attribute(j)
			if err != nil {
				mu.Lock()
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("attribution: journey %s: %v", j.JourneyID, err))
				mu.Unlock()
				return nil
			}
			mu.Lock()
			results[j.JourneyID] = res
			if res.Approximate {
				sampled++
			} else {
				exact++
			}
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	if discarded > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("attribution: %d journeys discarded without a conversion", discarded))
		if o.metrics != nil {
			o.metrics.JourneysDiscarded.Add(float64(discarded))
		}
	}
	o.metrics.RecordAttribution("exact", exact)
	o.metrics.RecordAttribution("sampled", sampled)

	report.Attribution = results

	o.logger.WithFields(logrus.Fields{
		"journeys":   len(journeys),
		"attributed": len(results),
		"discarded":  discarded,
	}).Info("attribution done")

	return nil
}

// channelConversionRates aggregates exposure buckets into one base
// conversion rate per channel.
func (o *Orchestrator) channelConversionRates(ctx context.Context) (map[string]float64, error) {
	buckets, err := o.exposureBucketStore.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load exposure buckets: %w", err)
	}

	impressions := make(map[string]float64)
	conversions := make(map[string]float64)
	for _, b := range buckets {
		impressions[b.ChannelID] += b.Impressions
		conversions[b.ChannelID] += b.Conversions
	}

	rates := make(map[string]float64, len(impressions))
	for id, imp := range impressions {
		if imp > 0 {
			rates[id] = conversions[id] / imp
		}
	}
	return rates, nil
}
