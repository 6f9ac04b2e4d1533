package compat

import (
	"os"
	"path/filepath"
	"testing"
)

const catalogJSON = `{
  "thresholds": {"prey_ratio": 0.4},
  "species": [
    {
      "name": "Amphiprion ocellaris",
      "aliases": ["ocellaris clownfish"],
      "classification": "fish",
      "water_type": "saltwater",
      "temperament": "semi-aggressive",
      "reef_safety": "safe",
      "min_tank_liters": 75,
      "adult_size_cm": 8
    },
    {
      "name": "Euphyllia glabrescens",
      "aliases": ["torch coral"],
      "classification": "coral",
      "water_type": "saltwater"
    }
  ]
}`

const catalogYAML = `thresholds:
  volume_caution_ratio: 0.9
species:
  - name: Paracheirodon innesi
    aliases: [neon tetra]
    classification: fish
    water_type: freshwater
    temperament: peaceful
    min_tank_liters: 40
    adult_size_cm: 3
    min_group_size: 6
`

func TestParseCatalogJSON(t *testing.T) {
	catalog, err := ParseCatalog([]byte(catalogJSON), "json")
	if err != nil {
		t.Fatalf("parse json catalog: %v", err)
	}
	if catalog.Len() != 2 {
		t.Fatalf("expected 2 species, got %d", catalog.Len())
	}
	if rec := catalog.Resolve("ocellaris clownfish", ""); rec == nil || rec.MinTankLiters != 75 {
		t.Fatalf("expected clownfish record, got %+v", rec)
	}
	th := catalog.Thresholds()
	if th.PreyRatio != 0.4 {
		t.Fatalf("expected file-supplied prey ratio, got %v", th.PreyRatio)
	}
	if th.VolumeCautionRatio != DefaultThresholds().VolumeCautionRatio {
		t.Fatalf("expected default volume ratio, got %v", th.VolumeCautionRatio)
	}
}

func TestParseCatalogYAML(t *testing.T) {
	catalog, err := ParseCatalog([]byte(catalogYAML), "yaml")
	if err != nil {
		t.Fatalf("parse yaml catalog: %v", err)
	}
	rec := catalog.Resolve("Neon Tetra", "")
	if rec == nil || rec.MinGroupSize != 6 {
		t.Fatalf("expected neon tetra record, got %+v", rec)
	}
	if catalog.Thresholds().VolumeCautionRatio != 0.9 {
		t.Fatalf("expected file-supplied volume ratio, got %v", catalog.Thresholds().VolumeCautionRatio)
	}
}

func TestParseCatalogUnknownFormat(t *testing.T) {
	if _, err := ParseCatalog([]byte("{}"), "toml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestLoadCatalogFileByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(path, []byte(catalogYAML), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	catalog, err := LoadCatalogFile(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if catalog.Len() != 1 {
		t.Fatalf("expected 1 species, got %d", catalog.Len())
	}
	if _, err := LoadCatalogFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	if _, err := NewCatalog([]TraitRecord{
		{Name: "Chromis viridis"},
		{Name: "chromis  VIRIDIS"},
	}, Thresholds{}); err == nil {
		t.Fatalf("expected duplicate name error")
	}
	if _, err := NewCatalog([]TraitRecord{
		{Name: "Chromis viridis", Aliases: []string{"green chromis"}},
		{Name: "Chromis atripectoralis", Aliases: []string{"Green Chromis"}},
	}, Thresholds{}); err == nil {
		t.Fatalf("expected alias collision error")
	}
	if _, err := NewCatalog([]TraitRecord{{Name: "  "}}, Thresholds{}); err == nil {
		t.Fatalf("expected error for blank name")
	}
}

func TestNewCatalogAllowsSelfAlias(t *testing.T) {
	catalog, err := NewCatalog([]TraitRecord{
		{Name: "Chromis viridis", Aliases: []string{"chromis viridis", "green chromis"}},
	}, Thresholds{})
	if err != nil {
		t.Fatalf("self alias should be tolerated: %v", err)
	}
	if catalog.Resolve("green chromis", "") == nil {
		t.Fatalf("expected alias lookup to work")
	}
}

func TestCatalogRefReplaceIsObservedBySubsequentReads(t *testing.T) {
	ref := NewCatalogRef(testCatalog(t))
	if ref.Current().Resolve("torch coral", "") == nil {
		t.Fatalf("expected record in initial catalog")
	}

	replacement, err := NewCatalog([]TraitRecord{{Name: "Betta splendens"}}, Thresholds{})
	if err != nil {
		t.Fatalf("build replacement: %v", err)
	}
	ref.Replace(replacement)

	if ref.Current().Resolve("torch coral", "") != nil {
		t.Fatalf("old record visible after replace")
	}
	if ref.Current().Resolve("betta splendens", "") == nil {
		t.Fatalf("new record missing after replace")
	}
}
