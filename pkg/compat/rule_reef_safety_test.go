package compat

import (
	"testing"

	"aquacore/pkg/domain"
)

func TestReefSafetyRuleUnsafeFishVsCoral(t *testing.T) {
	trigger := &TraitRecord{Name: "Balistoides conspicillum", Classification: domain.ClassFish, ReefSafety: ReefUnsafe}
	coral := &TraitRecord{Name: "Euphyllia glabrescens", Classification: domain.ClassCoral}

	findings := checkReefSafety(PairInput{A: trigger, NameA: "clown trigger", B: coral, NameB: "torch coral"})
	if len(findings) != 1 {
		t.Fatalf("expected one finding, got %+v", findings)
	}
	if findings[0].Level != Incompatible || findings[0].Key != KeyReefSafety {
		t.Fatalf("unexpected finding %+v", findings[0])
	}
	if findings[0].SpeciesA != "clown trigger" || findings[0].SpeciesB != "torch coral" {
		t.Fatalf("unexpected direction %+v", findings[0])
	}

	// reverse direction must stay silent: the coral threatens nothing
	if reverse := checkReefSafety(PairInput{A: coral, NameA: "torch coral", B: trigger, NameB: "clown trigger"}); len(reverse) != 0 {
		t.Fatalf("expected no coral-to-fish finding, got %+v", reverse)
	}
}

func TestReefSafetyRuleCautionClass(t *testing.T) {
	angel := &TraitRecord{Name: "Centropyge bispinosa", Classification: domain.ClassFish, ReefSafety: ReefSafeCaution}
	anemone := &TraitRecord{Name: "Entacmaea quadricolor", Classification: domain.ClassInvertebrate, Sessile: true}

	findings := checkReefSafety(PairInput{A: angel, NameA: "coral beauty", B: anemone, NameB: "bubble tip"})
	if len(findings) != 1 || findings[0].Level != Caution {
		t.Fatalf("expected one caution finding, got %+v", findings)
	}
}

func TestReefSafetyRuleSafeAndMobileTargetsSkip(t *testing.T) {
	safe := &TraitRecord{Name: "Amphiprion ocellaris", Classification: domain.ClassFish, ReefSafety: ReefSafe}
	coral := &TraitRecord{Name: "Euphyllia glabrescens", Classification: domain.ClassCoral}
	shrimp := &TraitRecord{Name: "Lysmata amboinensis", Classification: domain.ClassInvertebrate}

	if findings := checkReefSafety(PairInput{A: safe, NameA: "clownfish", B: coral, NameB: "torch coral"}); len(findings) != 0 {
		t.Fatalf("expected no findings for reef-safe species, got %+v", findings)
	}
	unsafe := &TraitRecord{Name: "Balistoides conspicillum", Classification: domain.ClassFish, ReefSafety: ReefUnsafe}
	if findings := checkReefSafety(PairInput{A: unsafe, NameA: "trigger", B: shrimp, NameB: "cleaner shrimp"}); len(findings) != 0 {
		t.Fatalf("reef safety rule should only target sessile species, got %+v", findings)
	}
}
