package domain

import "time"

// FrequencyLevelStats is the per-frequency-level performance breakdown.
type FrequencyLevelStats struct {
	Frequency         int
	Impressions       float64
	Conversions       float64
	Cost              float64
	ConversionRate    float64
	CostPerConversion float64 // 0 when conversions == 0
	MarginalRate      float64 // first difference vs previous level
}

// CapSimulation is one point of the ROI-vs-cap curve.
type CapSimulation struct {
	Cap int
	ROI float64
}

// FrequencyCapReport is the cap advisor output.
type FrequencyCapReport struct {
	OptimalCap int
	Levels     []*FrequencyLevelStats
	Simulation []*CapSimulation
}

// HourAllocation is one hour's efficiency score and reallocated budget.
type HourAllocation struct {
	Hour       int
	ROAS       float64
	Efficiency float64
	Budget     float64
	Optimal    bool
}

// DaypartReport is the daypart allocator output.
// Invariant: hour budgets sum to the input total budget.
type DaypartReport struct {
	TotalBudget  float64
	Hours        []*HourAllocation
	OptimalHours []int
}

// PlanningReport is the single artifact a planning run produces. All
// sub-results are immutable once assembled; the orchestrator only
// aggregates, it never rewrites component output.
type PlanningReport struct {
	RunID       string
	GeneratedAt time.Time
	Budget      float64

	Allocation    *AllocationPlan
	Contributions *ContributionResult
	Synergy       *SynergyMatrix
	TopSynergies  []*SynergyPair
	FrequencyCap  *FrequencyCapReport
	Dayparting    *DaypartReport
	Attribution   map[string]*AttributionResult // journey_id -> result

	// Warnings collect per-item degradations (skipped channels,
	// discarded journeys, model fallbacks). A run never aborts because
	// of one channel's or journey's degenerate data.
	Warnings []string
}
