package compat

import (
	"testing"

	"aquacore/pkg/domain"
)

func predationInput(a, b *TraitRecord, nameA, nameB string) PairInput {
	return PairInput{A: a, B: b, NameA: nameA, NameB: nameB, Thresholds: DefaultThresholds()}
}

func TestPredationRulePreyInsideEnvelope(t *testing.T) {
	grouper := &TraitRecord{Name: "Cephalopholis miniata", Classification: domain.ClassFish, Temperament: TemperamentPredatory, AdultSizeCM: 40}
	chromis := &TraitRecord{Name: "Chromis viridis", Classification: domain.ClassFish, Temperament: TemperamentPeaceful, AdultSizeCM: 8}

	findings := checkPredation(predationInput(grouper, chromis, "coral grouper", "green chromis"))
	if len(findings) != 1 {
		t.Fatalf("expected one finding, got %+v", findings)
	}
	if findings[0].Level != Incompatible || findings[0].Key != KeyPredationRisk {
		t.Fatalf("unexpected finding %+v", findings[0])
	}
	if findings[0].SpeciesA != "coral grouper" || findings[0].SpeciesB != "green chromis" {
		t.Fatalf("finding must run predator to prey: %+v", findings[0])
	}

	// prey is never the source of risk
	if reverse := checkPredation(predationInput(chromis, grouper, "green chromis", "coral grouper")); len(reverse) != 0 {
		t.Fatalf("expected no prey-to-predator finding, got %+v", reverse)
	}
}

func TestPredationRuleBorderlineSizeIsCaution(t *testing.T) {
	grouper := &TraitRecord{Name: "Cephalopholis miniata", Temperament: TemperamentPredatory, AdultSizeCM: 40}
	tang := &TraitRecord{Name: "Zebrasoma flavescens", Temperament: TemperamentSemiAggressive, AdultSizeCM: 28}

	// 28cm is above the 0.5 envelope but inside the 0.8 caution band
	findings := checkPredation(predationInput(grouper, tang, "grouper", "yellow tang"))
	if len(findings) != 1 || findings[0].Level != Caution {
		t.Fatalf("expected one caution finding, got %+v", findings)
	}
}

func TestPredationRuleUnknownSizeIsCaution(t *testing.T) {
	grouper := &TraitRecord{Name: "Cephalopholis miniata", Temperament: TemperamentPredatory, AdultSizeCM: 40}
	mystery := &TraitRecord{Name: "Mystery wrasse", Temperament: TemperamentPeaceful}

	findings := checkPredation(predationInput(grouper, mystery, "grouper", "mystery wrasse"))
	if len(findings) != 1 || findings[0].Level != Caution {
		t.Fatalf("expected caution for unknown prey size, got %+v", findings)
	}
	if findings[0].Params["reason"] != "size_unknown" {
		t.Fatalf("expected size_unknown reason, got %+v", findings[0].Params)
	}
}

func TestPredationRulePreyTooLargeToEat(t *testing.T) {
	grouper := &TraitRecord{Name: "Cephalopholis miniata", Temperament: TemperamentPredatory, AdultSizeCM: 40}
	big := &TraitRecord{Name: "Acanthurus sohal", Temperament: TemperamentAggressive, AdultSizeCM: 38}

	if findings := checkPredation(predationInput(grouper, big, "grouper", "sohal tang")); len(findings) != 0 {
		t.Fatalf("expected no finding for outsized tankmate, got %+v", findings)
	}
}

func TestPredationRuleSkipsSessileTargets(t *testing.T) {
	grouper := &TraitRecord{Name: "Cephalopholis miniata", Temperament: TemperamentPredatory, AdultSizeCM: 40}
	coral := &TraitRecord{Name: "Euphyllia glabrescens", Classification: domain.ClassCoral, AdultSizeCM: 10}

	if findings := checkPredation(predationInput(grouper, coral, "grouper", "torch coral")); len(findings) != 0 {
		t.Fatalf("corals are covered by reef safety, not predation: %+v", findings)
	}
}
