package compat

import (
	"testing"
)

func TestWaterTypeRuleFreshVsSalt(t *testing.T) {
	salt := &TraitRecord{Name: "Amphiprion ocellaris", WaterType: WaterSaltwater}
	fresh := &TraitRecord{Name: "Paracheirodon innesi", WaterType: WaterFreshwater}

	findings := checkWaterType(PairInput{A: salt, NameA: "clownfish", B: fresh, NameB: "neon tetra"})
	if len(findings) != 1 {
		t.Fatalf("expected one finding, got %+v", findings)
	}
	f := findings[0]
	if f.Level != Incompatible {
		t.Fatalf("expected incompatible, got %v", f.Level)
	}
	if f.Key != KeyWaterTypeConflict {
		t.Fatalf("unexpected key %q", f.Key)
	}
	if f.SpeciesA != "clownfish" || f.SpeciesB != "neon tetra" {
		t.Fatalf("unexpected direction: %+v", f)
	}
}

func TestWaterTypeRuleBrackishIsCaution(t *testing.T) {
	brackish := &TraitRecord{Name: "Scatophagus argus", WaterType: WaterBrackish}
	fresh := &TraitRecord{Name: "Paracheirodon innesi", WaterType: WaterFreshwater}

	findings := checkWaterType(PairInput{A: brackish, NameA: "scat", B: fresh, NameB: "neon tetra"})
	if len(findings) != 1 || findings[0].Level != Caution {
		t.Fatalf("expected one caution finding, got %+v", findings)
	}
}

func TestWaterTypeRuleBothNeverConflicts(t *testing.T) {
	both := &TraitRecord{Name: "Poecilia sphenops", WaterType: WaterBoth}
	salt := &TraitRecord{Name: "Amphiprion ocellaris", WaterType: WaterSaltwater}

	if findings := checkWaterType(PairInput{A: both, NameA: "molly", B: salt, NameB: "clownfish"}); len(findings) != 0 {
		t.Fatalf("expected no findings for euryhaline species, got %+v", findings)
	}
	if findings := checkWaterType(PairInput{A: salt, NameA: "clownfish", B: both, NameB: "molly"}); len(findings) != 0 {
		t.Fatalf("expected no findings against euryhaline species, got %+v", findings)
	}
}

func TestWaterTypeRuleGuardsMissingData(t *testing.T) {
	salt := &TraitRecord{Name: "Amphiprion ocellaris", WaterType: WaterSaltwater}
	unknown := &TraitRecord{Name: "Mystery"}

	if findings := checkWaterType(PairInput{A: nil, NameA: "x", B: salt, NameB: "clownfish"}); findings != nil {
		t.Fatalf("expected nil for unresolved subject, got %+v", findings)
	}
	if findings := checkWaterType(PairInput{A: salt, NameA: "clownfish", B: unknown, NameB: "mystery"}); findings != nil {
		t.Fatalf("expected nil for unknown water type, got %+v", findings)
	}
}
