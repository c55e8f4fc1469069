package domain

// Action is the interaction type recorded on a touchpoint.
type Action string

// Action constants.
const (
	ActionImpression Action = "impression"
	ActionClick      Action = "click"
	ActionConversion Action = "conversion"
)

// Touchpoint is one recorded customer interaction with a channel.
// Timestamps are unix milliseconds, non-decreasing within a customer.
type Touchpoint struct {
	CustomerID string
	ChannelID  string
	Timestamp  int64
	Action     Action
	Value      float64 // conversion value; 0 for non-conversion actions
}

// JourneyState tracks the lifecycle of a customer journey.
type JourneyState string

// Journey states. Only closed journeys produce attribution.
const (
	JourneyCollecting JourneyState = "collecting"
	JourneyClosed     JourneyState = "closed"
	JourneyDiscarded  JourneyState = "discarded"
)

// CustomerJourney is the ordered touchpoint sequence for one customer,
// optionally ending in a conversion whose value is the credit to attribute.
type CustomerJourney struct {
	JourneyID   string
	CustomerID  string
	Touchpoints []*Touchpoint
	State       JourneyState

	// Set when State == JourneyClosed.
	ConversionValue float64

	// Channels participating up to and including the conversion,
	// deduplicated, in first-touch order.
	Channels []string
}
