package services

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/archboard/archboard-backend/internal/types"
)

// HypothesisStats is the aggregate view over a (possibly pre-filtered)
// hypothesis set. The by-label maps are sparse: labels with zero occurrences
// are omitted.
type HypothesisStats struct {
	Total         int            `json:"total"`
	ByStatus      map[string]int `json:"byStatus"`
	ByUncertainty map[string]int `json:"byUncertainty"`
	ByImpact      map[string]int `json:"byImpact"`
	InLast30Days  int            `json:"inLast30Days"`
	NeedAttention int            `json:"needAttention"`
	CanPostpone   int            `json:"canPostpone"`
}

type FocusTag string

const (
	FocusNeedAttention FocusTag = "need-attention"
	FocusCanPostpone   FocusTag = "can-postpone"
	FocusNone          FocusTag = ""
)

// FocusTagFor classifies a single hypothesis on the ordinal ranks.
// need-attention is evaluated first and wins if both conditions would apply.
func FocusTagFor(h *types.Hypothesis) FocusTag {
	if h == nil {
		return FocusNone
	}
	highRank := types.OrdinalHigh.Rank()
	if h.Uncertainty.Rank() >= highRank && h.Impact.Rank() >= highRank {
		return FocusNeedAttention
	}
	if r := h.Impact.Rank(); r >= types.OrdinalVeryLow.Rank() && r <= types.OrdinalLow.Rank() {
		return FocusCanPostpone
	}
	return FocusNone
}

// ComputeStats aggregates over hyps. sinceDays bounds only the recency count;
// a non-positive window leaves it at zero.
func ComputeStats(hyps []*types.Hypothesis, sinceDays int, now time.Time) HypothesisStats {
	stats := HypothesisStats{
		Total:         len(hyps),
		ByStatus:      map[string]int{},
		ByUncertainty: map[string]int{},
		ByImpact:      map[string]int{},
	}
	var cutoff time.Time
	if sinceDays > 0 {
		cutoff = now.AddDate(0, 0, -sinceDays)
	}
	for _, h := range hyps {
		stats.ByStatus[string(h.Status)]++
		stats.ByUncertainty[string(h.Uncertainty)]++
		stats.ByImpact[string(h.Impact)]++
		if sinceDays > 0 && !h.UpdatedAt.Before(cutoff) {
			stats.InLast30Days++
		}
		switch FocusTagFor(h) {
		case FocusNeedAttention:
			stats.NeedAttention++
		case FocusCanPostpone:
			stats.CanPostpone++
		}
	}
	return stats
}

// FilterByEntityRef keeps hypotheses whose reference set contains ref.
// The ref is canonicalized before matching so "component:checkout" and
// "component:default/checkout" select the same rows.
func FilterByEntityRef(hyps []*types.Hypothesis, ref string) []*types.Hypothesis {
	want := ref
	if parsed, err := types.ParseEntityRef(ref); err == nil {
		want = parsed.String()
	}
	return lo.Filter(hyps, func(h *types.Hypothesis, _ int) bool {
		return lo.Contains([]string(h.EntityRefs), want)
	})
}

// ReferencedEntityRefs collects every reference across hyps, de-duplicated
// and sorted.
func ReferencedEntityRefs(hyps []*types.Hypothesis) []string {
	refs := lo.FlatMap(hyps, func(h *types.Hypothesis, _ int) []string {
		return h.EntityRefs
	})
	refs = lo.Uniq(refs)
	sort.Strings(refs)
	return refs
}
