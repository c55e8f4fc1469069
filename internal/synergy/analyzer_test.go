package synergy

import (
	"math"
	"testing"

	"media-mix-lab/internal/domain"
)

func record(perf float64, channels ...string) *domain.CoExposureRecord {
	return &domain.CoExposureRecord{Channels: channels, Performance: perf}
}

func TestAnalyze_PositiveSynergy(t *testing.T) {
	// combined(A,B)=10 vs solo(A)+solo(B)=3+4 -> synergy 3.
	records := []*domain.CoExposureRecord{
		record(3, "search"),
		record(4, "social"),
		record(10, "search", "social"),
	}

	m := Analyze(records)
	if got := m.Score("search", "social"); math.Abs(got-3) > 1e-9 {
		t.Errorf("expected synergy 3, got %f", got)
	}
}

func TestAnalyze_SymmetricZeroDiagonal(t *testing.T) {
	records := []*domain.CoExposureRecord{
		record(3, "a"),
		record(4, "b"),
		record(2, "c"),
		record(10, "a", "b"),
		record(5, "a", "c"),
	}

	m := Analyze(records)
	for i := range m.Channels {
		if m.Scores[i][i] != 0 {
			t.Errorf("diagonal not zero at %d: %f", i, m.Scores[i][i])
		}
		for j := range m.Channels {
			if m.Scores[i][j] != m.Scores[j][i] {
				t.Errorf("matrix not symmetric at (%d,%d)", i, j)
			}
		}
	}
}

func TestAnalyze_NeverCoOccur(t *testing.T) {
	// A and B are never exposed together: the cell is undefined and
	// resolves to 0 without error.
	records := []*domain.CoExposureRecord{
		record(3, "a"),
		record(4, "b"),
	}

	m := Analyze(records)
	if got := m.Score("a", "b"); got != 0 {
		t.Errorf("expected 0 for never co-occurring pair, got %f", got)
	}
}

func TestAnalyze_MissingSolo(t *testing.T) {
	// B never appears alone: pair still resolves to 0.
	records := []*domain.CoExposureRecord{
		record(3, "a"),
		record(10, "a", "b"),
	}

	m := Analyze(records)
	if got := m.Score("a", "b"); got != 0 {
		t.Errorf("expected 0 when solo(b) undefined, got %f", got)
	}
}

func TestAnalyze_ExactSetMatching(t *testing.T) {
	// Triple-exposure periods must not count toward the (a,b) cell.
	records := []*domain.CoExposureRecord{
		record(3, "a"),
		record(4, "b"),
		record(10, "a", "b"),
		record(100, "a", "b", "c"),
	}

	m := Analyze(records)
	if got := m.Score("a", "b"); math.Abs(got-3) > 1e-9 {
		t.Errorf("triple exposure leaked into pair cell: got %f", got)
	}
}

func TestTopPairs_Ordering(t *testing.T) {
	records := []*domain.CoExposureRecord{
		record(1, "a"), record(1, "b"), record(1, "c"),
		record(10, "a", "b"), // synergy 8
		record(4, "a", "c"),  // synergy 2
		record(2, "b", "c"),  // synergy 0
	}

	pairs := TopPairs(Analyze(records), 2)
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].ChannelA != "a" || pairs[0].ChannelB != "b" {
		t.Errorf("expected (a,b) first, got (%s,%s)", pairs[0].ChannelA, pairs[0].ChannelB)
	}
	if pairs[0].Score < pairs[1].Score {
		t.Error("pairs not in descending score order")
	}
}
