package domain

// Channel represents one advertising channel in the planning snapshot.
// CostPerImpression is derived from historical cost/impressions upstream
// and must be positive for the channel to be optimizable.
type Channel struct {
	ChannelID string
	Name      string

	CostPerImpression float64
	AudienceSize      float64

	// Quality component scores, each in [0,1].
	Viewability     float64
	BrandSafety     float64
	AudienceQuality float64

	// Response-curve parameters (fitted or configured upstream).
	DecayRate       float64 // adstock carry-over, [0,1)
	SaturationPoint float64 // Hill half-saturation as fraction of series max
	ReachA          float64
	ReachB          float64
	ReachCeiling    float64 // c: fraction of audience never reachable
}

// Quality weight blend factors. Viewability dominates because unviewable
// impressions contribute nothing regardless of audience fit.
const (
	qualityViewabilityWeight = 0.5
	qualityBrandSafetyWeight = 0.2
	qualityAudienceWeight    = 0.3
)

// QualityWeight returns the blended quality score in [0,1].
func (c *Channel) QualityWeight() float64 {
	return qualityViewabilityWeight*c.Viewability +
		qualityBrandSafetyWeight*c.BrandSafety +
		qualityAudienceWeight*c.AudienceQuality
}

// SpendPoint is one (channel, period) record of the spend series.
type SpendPoint struct {
	ChannelID   string
	PeriodStart int64 // unix seconds, start of the reporting period
	Spend       float64
	Impressions float64
	Conversions float64
	Value       float64
}

// OutcomePoint is one period of the outcome series (e.g. revenue).
type OutcomePoint struct {
	PeriodStart int64
	Value       float64
}
