package domain

// AllocationStatus flags how a channel allocation was produced.
type AllocationStatus string

// Allocation statuses. Boundary cases are statuses, not errors.
const (
	AllocationOK         AllocationStatus = "ok"
	AllocationZeroBudget AllocationStatus = "zero_budget"
	AllocationSkipped    AllocationStatus = "skipped"
)

// ChannelAllocation is the optimizer output for one channel.
type ChannelAllocation struct {
	ChannelID     string
	Impressions   float64
	Reach         float64 // [0,1)
	Frequency     float64
	Cost          float64
	Effectiveness float64
	Status        AllocationStatus
	Note          string // reason when Status != AllocationOK
}

// AllocationPlan is the per-run allocation across channels.
// Invariant: TotalCost <= Budget.
type AllocationPlan struct {
	Budget    float64
	Channels  []*ChannelAllocation
	TotalCost float64
}

// ContributionStatus flags degenerate contribution results.
type ContributionStatus string

// Contribution statuses.
const (
	ContributionOK         ContributionStatus = "ok"
	ContributionZeroSpend  ContributionStatus = "zero_spend"
	ContributionDegenerate ContributionStatus = "degenerate"
)

// ChannelContribution is the modeled incremental contribution and ROAS
// for one channel. ROAS is nil when spend is zero (undefined).
type ChannelContribution struct {
	ChannelID    string
	Contribution float64
	ROAS         *float64
	Status       ContributionStatus
}

// ContributionResult is the fitted contribution model output.
// Accuracy = 1 - mean relative prediction error; informational only.
type ContributionResult struct {
	Channels         []*ChannelContribution
	TotalIncremental float64
	Accuracy         float64
}
