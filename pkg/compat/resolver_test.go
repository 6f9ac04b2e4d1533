package compat

import (
	"testing"

	"aquacore/pkg/domain"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  Amphiprion   Ocellaris ": "amphiprion ocellaris",
		"NÉON Tetra":                "neon tetra",
		"Barbonymus schwanenfeldiï": "barbonymus schwanenfeldii",
		"":                          "",
	}
	for input, want := range cases {
		if got := Normalize(input); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestResolveExactCanonicalName(t *testing.T) {
	catalog := testCatalog(t)
	rec := catalog.Resolve("amphiprion ocellaris", "")
	if rec == nil || rec.Name != "Amphiprion ocellaris" {
		t.Fatalf("expected canonical match, got %+v", rec)
	}
}

func TestResolveAlias(t *testing.T) {
	catalog := testCatalog(t)
	rec := catalog.Resolve("Common Clownfish", domain.ClassFish)
	if rec == nil || rec.Name != "Amphiprion ocellaris" {
		t.Fatalf("expected alias match, got %+v", rec)
	}
}

func TestResolveFuzzyWithinBound(t *testing.T) {
	catalog := testCatalog(t)
	// one transposition away from "green chromis"
	rec := catalog.Resolve("green chromiss", domain.ClassFish)
	if rec == nil || rec.Name != "Chromis viridis" {
		t.Fatalf("expected fuzzy match, got %+v", rec)
	}
}

func TestResolveFuzzyHonorsTypeHint(t *testing.T) {
	catalog := testCatalog(t)
	// "torch corall" is near the coral alias; a fish hint must not match it
	if rec := catalog.Resolve("torch corall", domain.ClassFish); rec != nil {
		t.Fatalf("expected nil for cross-type fuzzy match, got %+v", rec)
	}
	rec := catalog.Resolve("torch corall", domain.ClassCoral)
	if rec == nil || rec.Name != "Euphyllia glabrescens" {
		t.Fatalf("expected coral fuzzy match, got %+v", rec)
	}
}

func TestResolveAmbiguousFuzzyReturnsNil(t *testing.T) {
	catalog, err := NewCatalog([]TraitRecord{
		{Name: "Danio rerio"},
		{Name: "Danio kerio"},
	}, Thresholds{})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	// equidistant from both records; the resolver never guesses
	if rec := catalog.Resolve("Danio xerio", ""); rec != nil {
		t.Fatalf("expected nil for ambiguous match, got %+v", rec)
	}
}

func TestResolveNoMatch(t *testing.T) {
	catalog := testCatalog(t)
	if rec := catalog.Resolve("completely unknown species", ""); rec != nil {
		t.Fatalf("expected nil, got %+v", rec)
	}
	if rec := catalog.Resolve("   ", ""); rec != nil {
		t.Fatalf("expected nil for blank input, got %+v", rec)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	catalog := testCatalog(t)
	first := catalog.Resolve("Neon Tetra", domain.ClassFish)
	second := catalog.Resolve("Neon Tetra", domain.ClassFish)
	if first != second {
		t.Fatalf("expected identical record pointers, got %p vs %p", first, second)
	}
}
