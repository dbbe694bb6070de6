package venue

import "testing"

func TestCandidate_OptionalFields(t *testing.T) {
	c := New("v1", "Mille-feuille Nabe", "hotpot")

	if _, ok := c.Location(); ok {
		t.Error("location should be unset")
	}
	if _, ok := c.Price(); ok {
		t.Error("price should be unset")
	}
	if _, ok := c.VectorScore(); ok {
		t.Error("vector score should be unset")
	}
	if _, ok := c.TextScore(); ok {
		t.Error("text score should be unset")
	}

	c = c.WithLocation(37.5, 127.0).WithPrice(32000).WithVectorScore(0.91).WithTextScore(4.2)

	p, ok := c.Location()
	if !ok || p.Lat != 37.5 || p.Lng != 127.0 {
		t.Errorf("location = %+v, %v", p, ok)
	}
	if price, ok := c.Price(); !ok || price != 32000 {
		t.Errorf("price = %v, %v", price, ok)
	}
	if s, ok := c.VectorScore(); !ok || s != 0.91 {
		t.Errorf("vector score = %v, %v", s, ok)
	}
	if s, ok := c.TextScore(); !ok || s != 4.2 {
		t.Errorf("text score = %v, %v", s, ok)
	}
}

func TestCandidate_WithReturnsCopy(t *testing.T) {
	orig := New("v1", "A", "korean")
	scored := orig.WithVectorScore(0.5)

	if _, ok := orig.VectorScore(); ok {
		t.Error("With* must not mutate the receiver")
	}
	if s, ok := scored.VectorScore(); !ok || s != 0.5 {
		t.Errorf("copy score = %v, %v", s, ok)
	}
}

func TestMergeScores(t *testing.T) {
	fromVector := New("v1", "A", "korean").WithVectorScore(0.9)
	fromText := New("v1", "A", "korean").WithTextScore(7.5)

	merged := fromVector.MergeScores(fromText)

	if s, ok := merged.VectorScore(); !ok || s != 0.9 {
		t.Errorf("vector score = %v, %v", s, ok)
	}
	if s, ok := merged.TextScore(); !ok || s != 7.5 {
		t.Errorf("text score = %v, %v", s, ok)
	}
}

func TestMergeScores_DoesNotOverwrite(t *testing.T) {
	a := New("v1", "A", "korean").WithTextScore(9)
	b := New("v1", "A", "korean").WithTextScore(1)

	merged := a.MergeScores(b)
	if s, _ := merged.TextScore(); s != 9 {
		t.Errorf("first-seen score overwritten: got %v, want 9", s)
	}
}
