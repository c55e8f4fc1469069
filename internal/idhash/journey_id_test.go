package idhash

import "testing"

func TestComputeJourneyID_Deterministic(t *testing.T) {
	a := ComputeJourneyID("cust-1", 1000, 5000, 4)
	b := ComputeJourneyID("cust-1", 1000, 5000, 4)
	if a != b {
		t.Errorf("same input produced different IDs: %s vs %s", a, b)
	}
}

func TestComputeJourneyID_DistinctInputs(t *testing.T) {
	base := ComputeJourneyID("cust-1", 1000, 5000, 4)

	variants := []string{
		ComputeJourneyID("cust-2", 1000, 5000, 4),
		ComputeJourneyID("cust-1", 1001, 5000, 4),
		ComputeJourneyID("cust-1", 1000, 5001, 4),
		ComputeJourneyID("cust-1", 1000, 5000, 5),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collided with base ID", i)
		}
	}
}

func TestComputeJourneyID_NonEmpty(t *testing.T) {
	if id := ComputeJourneyID("", 0, 0, 0); id == "" {
		t.Error("expected non-empty ID")
	}
}
