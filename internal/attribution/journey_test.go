package attribution

import (
	"testing"

	"media-mix-lab/internal/domain"
)

func tp(customer, channel string, ts int64, action domain.Action, value float64) *domain.Touchpoint {
	return &domain.Touchpoint{
		CustomerID: customer,
		ChannelID:  channel,
		Timestamp:  ts,
		Action:     action,
		Value:      value,
	}
}

func TestBuildJourneys_ClosedOnConversion(t *testing.T) {
	journeys := BuildJourneys([]*domain.Touchpoint{
		tp("cust-1", "search", 100, domain.ActionImpression, 0),
		tp("cust-1", "social", 200, domain.ActionClick, 0),
		tp("cust-1", "email", 300, domain.ActionConversion, 150),
	})

	if len(journeys) != 1 {
		t.Fatalf("expected 1 journey, got %d", len(journeys))
	}
	j := journeys[0]
	if j.State != domain.JourneyClosed {
		t.Errorf("expected closed state, got %s", j.State)
	}
	if j.ConversionValue != 150 {
		t.Errorf("expected conversion value 150, got %f", j.ConversionValue)
	}
	want := []string{"search", "social", "email"}
	if len(j.Channels) != len(want) {
		t.Fatalf("expected channels %v, got %v", want, j.Channels)
	}
	for i := range want {
		if j.Channels[i] != want[i] {
			t.Errorf("channel[%d] = %s, want %s", i, j.Channels[i], want[i])
		}
	}
}

func TestBuildJourneys_DiscardedWithoutConversion(t *testing.T) {
	journeys := BuildJourneys([]*domain.Touchpoint{
		tp("cust-1", "search", 100, domain.ActionImpression, 0),
		tp("cust-1", "social", 200, domain.ActionClick, 0),
	})

	if len(journeys) != 1 {
		t.Fatalf("expected 1 journey, got %d", len(journeys))
	}
	if journeys[0].State != domain.JourneyDiscarded {
		t.Errorf("expected discarded state, got %s", journeys[0].State)
	}
}

func TestBuildJourneys_SortsByTimestamp(t *testing.T) {
	// Touchpoints arrive unordered; the builder sorts within customer.
	journeys := BuildJourneys([]*domain.Touchpoint{
		tp("cust-1", "email", 300, domain.ActionConversion, 50),
		tp("cust-1", "search", 100, domain.ActionImpression, 0),
	})

	j := journeys[0]
	if j.State != domain.JourneyClosed {
		t.Fatalf("expected closed journey, got %s", j.State)
	}
	if j.Channels[0] != "search" {
		t.Errorf("expected search first after sort, got %s", j.Channels[0])
	}
}

func TestBuildJourneys_ConversionStartsNewJourney(t *testing.T) {
	journeys := BuildJourneys([]*domain.Touchpoint{
		tp("cust-1", "search", 100, domain.ActionImpression, 0),
		tp("cust-1", "search", 200, domain.ActionConversion, 80),
		tp("cust-1", "social", 300, domain.ActionImpression, 0),
	})

	if len(journeys) != 2 {
		t.Fatalf("expected 2 journeys, got %d", len(journeys))
	}
	if journeys[0].State != domain.JourneyClosed {
		t.Errorf("first journey should close, got %s", journeys[0].State)
	}
	if journeys[1].State != domain.JourneyDiscarded {
		t.Errorf("trailing journey should discard, got %s", journeys[1].State)
	}
	if journeys[0].JourneyID == journeys[1].JourneyID {
		t.Error("journeys share an ID")
	}
}

func TestBuildJourneys_DeduplicatesChannels(t *testing.T) {
	journeys := BuildJourneys([]*domain.Touchpoint{
		tp("cust-1", "search", 100, domain.ActionImpression, 0),
		tp("cust-1", "search", 200, domain.ActionImpression, 0),
		tp("cust-1", "search", 300, domain.ActionConversion, 10),
	})

	if len(journeys[0].Channels) != 1 {
		t.Errorf("expected 1 deduplicated channel, got %v", journeys[0].Channels)
	}
}

func TestBuildJourneys_MultipleCustomers(t *testing.T) {
	journeys := BuildJourneys([]*domain.Touchpoint{
		tp("cust-2", "social", 100, domain.ActionConversion, 20),
		tp("cust-1", "search", 100, domain.ActionConversion, 10),
	})

	if len(journeys) != 2 {
		t.Fatalf("expected 2 journeys, got %d", len(journeys))
	}
	// Deterministic customer order.
	if journeys[0].CustomerID != "cust-1" {
		t.Errorf("expected cust-1 first, got %s", journeys[0].CustomerID)
	}
}
