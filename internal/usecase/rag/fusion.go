package rag

import (
	"sort"

	"github.com/matzipcloud/matzip/internal/domain/search/mode"
	"github.com/matzipcloud/matzip/internal/domain/venue"
)

// Weights controls the linear combination of the two retrieval channels.
type Weights struct {
	Vector float64
	Text   float64
}

// DefaultWeights splits the fused score evenly between channels.
func DefaultWeights() Weights {
	return Weights{Vector: 0.5, Text: 0.5}
}

// fuse merges the two retrieval channels into one ranked list.
//
// Candidates are deduplicated by venue ID keeping both channel scores.
// Text scores are BM25 values with no fixed upper bound, so they are
// normalized by the maximum text score within this request before
// weighting. Vector scores are already in [0,1] and used as-is.
//
// The effective mode decides the formula: a single active channel
// contributes its normalized score at weight 1, hybrid combines both.
// Ordering is fused score descending, ties broken by raw vector score
// descending, then first-seen input order. The result is deterministic
// for identical inputs.
func fuse(vecResults, textResults []venue.Candidate, m mode.Mode, w Weights) []venue.Candidate {
	type slot struct {
		cand  venue.Candidate
		order int
	}

	merged := make(map[string]int, len(vecResults)+len(textResults))
	slots := make([]slot, 0, len(vecResults)+len(textResults))

	add := func(c venue.Candidate) {
		if i, ok := merged[c.ID()]; ok {
			slots[i].cand = slots[i].cand.MergeScores(c)
			return
		}
		merged[c.ID()] = len(slots)
		slots = append(slots, slot{cand: c, order: len(slots)})
	}

	for _, c := range vecResults {
		add(c)
	}
	for _, c := range textResults {
		add(c)
	}

	maxText := 0.0
	for i := range slots {
		if s, ok := slots[i].cand.TextScore(); ok && s > maxText {
			maxText = s
		}
	}

	normText := func(c *venue.Candidate) float64 {
		s, ok := c.TextScore()
		if !ok || maxText == 0 {
			return 0
		}
		return s / maxText
	}
	rawVec := func(c *venue.Candidate) float64 {
		s, _ := c.VectorScore()
		return s
	}

	for i := range slots {
		c := &slots[i].cand
		var fused float64
		switch {
		case m.UsesVector() && m.UsesText():
			fused = w.Vector*rawVec(c) + w.Text*normText(c)
		case m.UsesVector():
			fused = rawVec(c)
		default:
			fused = normText(c)
		}
		slots[i].cand = c.WithFusedScore(fused)
	}

	sort.SliceStable(slots, func(i, j int) bool {
		a, b := &slots[i], &slots[j]
		if a.cand.FusedScore() != b.cand.FusedScore() {
			return a.cand.FusedScore() > b.cand.FusedScore()
		}
		av, bv := rawVec(&a.cand), rawVec(&b.cand)
		if av != bv {
			return av > bv
		}
		return a.order < b.order
	})

	out := make([]venue.Candidate, len(slots))
	for i := range slots {
		out[i] = slots[i].cand
	}
	return out
}
