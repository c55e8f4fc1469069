package domain

// ExposureBucket aggregates delivery at one frequency level over a
// reporting window. ChannelID may be empty for a global bucket.
// Invariant upstream: Conversions <= Impressions.
type ExposureBucket struct {
	ChannelID   string
	Frequency   int
	Impressions float64
	Conversions float64
	Cost        float64
}

// ConversionRate returns conversions per impression, 0 when the bucket
// delivered nothing.
func (b *ExposureBucket) ConversionRate() float64 {
	if b.Impressions == 0 {
		return 0
	}
	return b.Conversions / b.Impressions
}

// CoExposureRecord is one period's exposure indicator set plus the
// performance metric observed for that period.
type CoExposureRecord struct {
	PeriodStart int64
	Channels    []string // channels the period was exposed to
	Performance float64
}

// HourlyPerformance aggregates performance and audience activity for one
// hour of day (0-23).
type HourlyPerformance struct {
	Hour        int
	Spend       float64
	Revenue     float64
	Conversions float64
	Activity    float64 // audience-activity count
}
