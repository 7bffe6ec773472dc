package services

import (
	"testing"
	"time"

	"github.com/archboard/archboard-backend/internal/types"
	"gorm.io/datatypes"
)

func TestFocusTagFor(t *testing.T) {
	cases := []struct {
		name        string
		uncertainty types.Ordinal
		impact      types.Ordinal
		want        FocusTag
	}{
		{"high_high", types.OrdinalHigh, types.OrdinalHigh, FocusNeedAttention},
		{"very_high_both", types.OrdinalVeryHigh, types.OrdinalVeryHigh, FocusNeedAttention},
		{"high_very_high", types.OrdinalHigh, types.OrdinalVeryHigh, FocusNeedAttention},
		{"medium_low", types.OrdinalMedium, types.OrdinalLow, FocusCanPostpone},
		{"very_high_very_low", types.OrdinalVeryHigh, types.OrdinalVeryLow, FocusCanPostpone},
		{"medium_medium", types.OrdinalMedium, types.OrdinalMedium, FocusNone},
		{"low_high", types.OrdinalLow, types.OrdinalHigh, FocusNone},
		{"high_medium", types.OrdinalHigh, types.OrdinalMedium, FocusNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &types.Hypothesis{Uncertainty: tc.uncertainty, Impact: tc.impact}
			if got := FocusTagFor(h); got != tc.want {
				t.Fatalf("FocusTagFor(%s, %s)=%q, want %q", tc.uncertainty, tc.impact, got, tc.want)
			}
		})
	}
}

func TestComputeStats(t *testing.T) {
	now := time.Now()
	hyps := []*types.Hypothesis{
		{
			Status:      types.StatusOpen,
			Uncertainty: types.OrdinalHigh,
			Impact:      types.OrdinalMedium,
			UpdatedAt:   now.AddDate(0, 0, -2),
		},
		{
			Status:      types.StatusInReview,
			Uncertainty: types.OrdinalHigh,
			Impact:      types.OrdinalHigh,
			UpdatedAt:   now.AddDate(0, 0, -45),
		},
	}

	stats := ComputeStats(hyps, 30, now)
	if stats.Total != 2 {
		t.Fatalf("total=%d, want 2", stats.Total)
	}
	if stats.ByStatus["Open"] != 1 || stats.ByStatus["In Review"] != 1 {
		t.Fatalf("byStatus=%v", stats.ByStatus)
	}
	if len(stats.ByStatus) != 2 {
		t.Fatalf("byStatus should be sparse, got %v", stats.ByStatus)
	}
	if stats.ByUncertainty["High"] != 2 {
		t.Fatalf("byUncertainty=%v", stats.ByUncertainty)
	}
	if stats.NeedAttention != 1 {
		t.Fatalf("needAttention=%d, want 1", stats.NeedAttention)
	}
	if stats.CanPostpone != 0 {
		t.Fatalf("canPostpone=%d, want 0", stats.CanPostpone)
	}
	if stats.InLast30Days != 1 {
		t.Fatalf("inLast30Days=%d, want 1", stats.InLast30Days)
	}
}

func TestComputeStatsWithoutWindow(t *testing.T) {
	now := time.Now()
	hyps := []*types.Hypothesis{
		{Status: types.StatusOpen, Uncertainty: types.OrdinalLow, Impact: types.OrdinalLow, UpdatedAt: now},
	}
	stats := ComputeStats(hyps, 0, now)
	if stats.Total != 1 {
		t.Fatalf("total=%d, want 1", stats.Total)
	}
	if stats.InLast30Days != 0 {
		t.Fatalf("no window supplied, recency count should stay 0, got %d", stats.InLast30Days)
	}
	if stats.CanPostpone != 1 {
		t.Fatalf("canPostpone=%d, want 1", stats.CanPostpone)
	}
}

func TestFilterByEntityRef(t *testing.T) {
	hyps := []*types.Hypothesis{
		{EntityRefs: datatypes.NewJSONSlice([]string{"component:default/checkout"})},
		{EntityRefs: datatypes.NewJSONSlice([]string{"component:default/search"})},
	}

	got := FilterByEntityRef(hyps, "component:checkout")
	if len(got) != 1 {
		t.Fatalf("len=%d, want 1", len(got))
	}

	if got := FilterByEntityRef(hyps, "component:default/none"); len(got) != 0 {
		t.Fatalf("len=%d, want 0", len(got))
	}
}

func TestReferencedEntityRefs(t *testing.T) {
	hyps := []*types.Hypothesis{
		{EntityRefs: datatypes.NewJSONSlice([]string{"component:default/search", "component:default/checkout"})},
		{EntityRefs: datatypes.NewJSONSlice([]string{"component:default/checkout"})},
	}
	got := ReferencedEntityRefs(hyps)
	want := []string{"component:default/checkout", "component:default/search"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
