// Package fixtures populates stores with a deterministic demo snapshot.
package fixtures

import (
	"context"
	"math"

	"media-mix-lab/internal/domain"
	"media-mix-lab/internal/storage"
)

// periods of daily data in the demo snapshot, four weeks.
const periods = 28

// Stores collects everything a planning snapshot writes to.
type Stores struct {
	Channels    storage.ChannelStore
	Touchpoints storage.TouchpointStore
	Buckets     storage.ExposureBucketStore
	Spend       storage.SpendSeriesStore
	Outcome     storage.OutcomeSeriesStore
	CoExposure  storage.CoExposureStore
	Hourly      storage.HourlyPerformanceStore
}

// Load populates the stores with the demo snapshot.
func Load(ctx context.Context, s Stores) error {
	if err := loadChannels(ctx, s.Channels); err != nil {
		return err
	}
	if err := loadSeries(ctx, s.Spend, s.Outcome); err != nil {
		return err
	}
	if err := loadBuckets(ctx, s.Buckets); err != nil {
		return err
	}
	if err := loadTouchpoints(ctx, s.Touchpoints); err != nil {
		return err
	}
	if err := loadCoExposure(ctx, s.CoExposure); err != nil {
		return err
	}
	return loadHourly(ctx, s.Hourly)
}

func loadChannels(ctx context.Context, store storage.ChannelStore) error {
	channels := []*domain.Channel{
		{
			ChannelID: "search", Name: "Paid Search",
			CostPerImpression: 0.012, AudienceSize: 2_000_000,
			Viewability: 0.92, BrandSafety: 0.95, AudienceQuality: 0.85,
			DecayRate: 0.2, SaturationPoint: 0.6,
			ReachA: 2.2, ReachB: 0.9, ReachCeiling: 0.08,
		},
		{
			ChannelID: "social", Name: "Paid Social",
			CostPerImpression: 0.008, AudienceSize: 3_500_000,
			Viewability: 0.68, BrandSafety: 0.75, AudienceQuality: 0.80,
			DecayRate: 0.45, SaturationPoint: 0.5,
			ReachA: 1.6, ReachB: 0.8, ReachCeiling: 0.2,
		},
		{
			ChannelID: "ctv", Name: "Connected TV",
			CostPerImpression: 0.025, AudienceSize: 1_200_000,
			Viewability: 0.97, BrandSafety: 0.93, AudienceQuality: 0.70,
			DecayRate: 0.6, SaturationPoint: 0.4,
			ReachA: 1.8, ReachB: 0.85, ReachCeiling: 0.15,
		},
		{
			ChannelID: "email", Name: "Email",
			CostPerImpression: 0.001, AudienceSize: 400_000,
			Viewability: 0.99, BrandSafety: 0.99, AudienceQuality: 0.90,
			DecayRate: 0.1, SaturationPoint: 0.7,
			ReachA: 3.0, ReachB: 1.0, ReachCeiling: 0.02,
		},
	}

	for _, c := range channels {
		if err := store.Insert(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func loadSeries(ctx context.Context, spendStore storage.SpendSeriesStore, outcomeStore storage.OutcomeSeriesStore) error {
	var spend []*domain.SpendPoint
	var outcome []*domain.OutcomePoint

	// Daily periods starting 2026-01-05 (a Monday), unix seconds.
	const start = int64(1767571200)

	for i := 0; i < periods; i++ {
		period := start + int64(i)*86400
		weekday := i % 7

		searchSpend := 450.0 + 50*math.Sin(float64(i)/4)
		socialSpend := 300.0 + 40*float64(weekday)
		ctvSpend := 600.0
		if weekday >= 5 {
			ctvSpend = 900.0 // weekend flights
		}
		emailSpend := 25.0

		spend = append(spend,
			&domain.SpendPoint{ChannelID: "search", PeriodStart: period, Spend: searchSpend, Impressions: searchSpend / 0.012},
			&domain.SpendPoint{ChannelID: "social", PeriodStart: period, Spend: socialSpend, Impressions: socialSpend / 0.008},
			&domain.SpendPoint{ChannelID: "ctv", PeriodStart: period, Spend: ctvSpend, Impressions: ctvSpend / 0.025},
			&domain.SpendPoint{ChannelID: "email", PeriodStart: period, Spend: emailSpend, Impressions: emailSpend / 0.001},
		)

		revenue := 2000.0 +
			3.2*searchSpend +
			1.6*socialSpend +
			1.1*ctvSpend +
			8.0*emailSpend +
			300*math.Sin(2*math.Pi*float64(i)/7)
		outcome = append(outcome, &domain.OutcomePoint{PeriodStart: period, Value: revenue})
	}

	if err := spendStore.InsertBulk(ctx, spend); err != nil {
		return err
	}
	return outcomeStore.InsertBulk(ctx, outcome)
}

func loadBuckets(ctx context.Context, store storage.ExposureBucketStore) error {
	// Conversion rate ramps to a peak then wears out past it.
	type shape struct {
		channel string
		base    float64
		peak    int
	}
	shapes := []shape{
		{channel: "search", base: 0.020, peak: 3},
		{channel: "social", base: 0.010, peak: 5},
		{channel: "ctv", base: 0.006, peak: 4},
		{channel: "email", base: 0.030, peak: 2},
	}

	var buckets []*domain.ExposureBucket
	for _, s := range shapes {
		impressions := 100000.0
		for f := 1; f <= 8; f++ {
			rate := s.base * (1 + 0.25*float64(f-1))
			if f > s.peak {
				rate = s.base * (1 + 0.25*float64(s.peak-1)) * math.Pow(0.8, float64(f-s.peak))
			}
			buckets = append(buckets, &domain.ExposureBucket{
				ChannelID:   s.channel,
				Frequency:   f,
				Impressions: impressions,
				Conversions: impressions * rate,
				Cost:        impressions * 0.01,
			})
			impressions *= 0.55 // fewer users at higher frequencies
		}
	}

	return store.InsertBulk(ctx, buckets)
}

func loadTouchpoints(ctx context.Context, store storage.TouchpointStore) error {
	const base = int64(1767571200000) // unix millis

	touchpoints := []*domain.Touchpoint{
		// Multi-channel path ending in a conversion.
		{CustomerID: "cust_001", ChannelID: "social", Timestamp: base, Action: domain.ActionImpression},
		{CustomerID: "cust_001", ChannelID: "search", Timestamp: base + 3_600_000, Action: domain.ActionClick},
		{CustomerID: "cust_001", ChannelID: "email", Timestamp: base + 90_000_000, Action: domain.ActionClick},
		{CustomerID: "cust_001", ChannelID: "search", Timestamp: base + 93_600_000, Action: domain.ActionConversion, Value: 180},

		// Single-channel conversion.
		{CustomerID: "cust_002", ChannelID: "search", Timestamp: base + 1000, Action: domain.ActionImpression},
		{CustomerID: "cust_002", ChannelID: "search", Timestamp: base + 7_200_000, Action: domain.ActionConversion, Value: 65},

		// Two journeys for the same customer.
		{CustomerID: "cust_003", ChannelID: "ctv", Timestamp: base, Action: domain.ActionImpression},
		{CustomerID: "cust_003", ChannelID: "social", Timestamp: base + 3_600_000, Action: domain.ActionImpression},
		{CustomerID: "cust_003", ChannelID: "social", Timestamp: base + 7_200_000, Action: domain.ActionConversion, Value: 240},
		{CustomerID: "cust_003", ChannelID: "email", Timestamp: base + 200_000_000, Action: domain.ActionClick},
		{CustomerID: "cust_003", ChannelID: "email", Timestamp: base + 203_600_000, Action: domain.ActionConversion, Value: 40},

		// Exposure with no conversion; discarded at attribution time.
		{CustomerID: "cust_004", ChannelID: "ctv", Timestamp: base, Action: domain.ActionImpression},
		{CustomerID: "cust_004", ChannelID: "social", Timestamp: base + 3_600_000, Action: domain.ActionImpression},
	}

	return store.InsertBulk(ctx, touchpoints)
}

func loadCoExposure(ctx context.Context, store storage.CoExposureStore) error {
	const start = int64(1767571200)

	patterns := []struct {
		channels    []string
		performance float64
	}{
		{[]string{"search"}, 1.0},
		{[]string{"social"}, 0.7},
		{[]string{"ctv"}, 0.5},
		{[]string{"search", "social"}, 2.4}, // superadditive pair
		{[]string{"search", "ctv"}, 1.4},
		{[]string{"social", "ctv"}, 1.1},
		{[]string{"email"}, 0.9},
	}

	var records []*domain.CoExposureRecord
	for i := 0; i < periods; i++ {
		p := patterns[i%len(patterns)]
		records = append(records, &domain.CoExposureRecord{
			PeriodStart: start + int64(i)*86400,
			Channels:    p.channels,
			Performance: p.performance,
		})
	}

	return store.InsertBulk(ctx, records)
}

func loadHourly(ctx context.Context, store storage.HourlyPerformanceStore) error {
	var rows []*domain.HourlyPerformance
	for h := 0; h < 24; h++ {
		// Activity peaks in the evening, revenue follows with a
		// smaller midday bump.
		activity := 100 + 400*math.Exp(-math.Pow(float64(h)-20, 2)/8) +
			150*math.Exp(-math.Pow(float64(h)-12, 2)/6)
		spend := 40.0
		revenue := spend * (0.5 + activity/300)

		rows = append(rows, &domain.HourlyPerformance{
			Hour:        h,
			Spend:       spend,
			Revenue:     revenue,
			Conversions: math.Round(activity / 20),
			Activity:    activity,
		})
	}

	return store.InsertBulk(ctx, rows)
}
