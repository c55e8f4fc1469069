// Package attribution assembles customer journeys from touchpoints and
// computes Shapley-value credit assignment over closed journeys.
package attribution

import (
	"sort"

	"media-mix-lab/internal/domain"
	"media-mix-lab/internal/idhash"
)

// BuildJourneys groups touchpoints by customer, orders them by
// timestamp and folds them through the journey state machine:
// collecting -> closed on the first conversion touchpoint, or discarded
// when the sequence ends without one. Touchpoints after a conversion
// start a new journey for the same customer.
func BuildJourneys(touchpoints []*domain.Touchpoint) []*domain.CustomerJourney {
	byCustomer := make(map[string][]*domain.Touchpoint)
	for _, tp := range touchpoints {
		byCustomer[tp.CustomerID] = append(byCustomer[tp.CustomerID], tp)
	}

	customers := make([]string, 0, len(byCustomer))
	for c := range byCustomer {
		customers = append(customers, c)
	}
	sort.Strings(customers)

	var journeys []*domain.CustomerJourney
	for _, customer := range customers {
		points := byCustomer[customer]
		sort.SliceStable(points, func(i, j int) bool {
			return points[i].Timestamp < points[j].Timestamp
		})

		var current []*domain.Touchpoint
		for _, tp := range points {
			current = append(current, tp)
			if tp.Action == domain.ActionConversion {
				journeys = append(journeys, closeJourney(customer, current, tp.Value))
				current = nil
			}
		}
		if len(current) > 0 {
			journeys = append(journeys, discardJourney(customer, current))
		}
	}
	return journeys
}

func closeJourney(customer string, points []*domain.Touchpoint, value float64) *domain.CustomerJourney {
	return &domain.CustomerJourney{
		JourneyID:       journeyID(customer, points),
		CustomerID:      customer,
		Touchpoints:     points,
		State:           domain.JourneyClosed,
		ConversionValue: value,
		Channels:        participatingChannels(points),
	}
}

func discardJourney(customer string, points []*domain.Touchpoint) *domain.CustomerJourney {
	return &domain.CustomerJourney{
		JourneyID:   journeyID(customer, points),
		CustomerID:  customer,
		Touchpoints: points,
		State:       domain.JourneyDiscarded,
	}
}

func journeyID(customer string, points []*domain.Touchpoint) string {
	return idhash.ComputeJourneyID(
		customer,
		points[0].Timestamp,
		points[len(points)-1].Timestamp,
		len(points),
	)
}

// participatingChannels deduplicates channels in first-touch order.
func participatingChannels(points []*domain.Touchpoint) []string {
	seen := make(map[string]struct{}, len(points))
	var channels []string
	for _, tp := range points {
		if tp.ChannelID == "" {
			continue
		}
		if _, ok := seen[tp.ChannelID]; ok {
			continue
		}
		seen[tp.ChannelID] = struct{}{}
		channels = append(channels, tp.ChannelID)
	}
	return channels
}
