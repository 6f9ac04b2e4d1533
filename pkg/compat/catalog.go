package compat

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// Thresholds carries the numeric cutoffs rules escalate on. They are
// knowledge-base content supplied by the catalog file, not engine logic;
// DefaultThresholds applies when the file omits them.
type Thresholds struct {
	// PreyRatio: prey at or below predator size * ratio is inside the prey
	// envelope and flagged incompatible.
	PreyRatio float64 `json:"prey_ratio" yaml:"prey_ratio"`
	// PreyCautionRatio: prey between PreyRatio and this ratio of the predator
	// size is borderline and flagged caution.
	PreyCautionRatio float64 `json:"prey_caution_ratio" yaml:"prey_caution_ratio"`
	// VolumeCautionRatio: a tank at or above this fraction of a species'
	// minimum volume is flagged caution; below it, incompatible.
	VolumeCautionRatio float64 `json:"volume_caution_ratio" yaml:"volume_caution_ratio"`
}

// DefaultThresholds returns the cutoffs used when a catalog supplies none.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PreyRatio:          0.5,
		PreyCautionRatio:   0.8,
		VolumeCautionRatio: 0.8,
	}
}

func (t Thresholds) withDefaults() Thresholds {
	def := DefaultThresholds()
	if t.PreyRatio <= 0 {
		t.PreyRatio = def.PreyRatio
	}
	if t.PreyCautionRatio <= 0 {
		t.PreyCautionRatio = def.PreyCautionRatio
	}
	if t.VolumeCautionRatio <= 0 {
		t.VolumeCautionRatio = def.VolumeCautionRatio
	}
	return t
}

// Catalog is a read-only index over species trait records. It is immutable
// after construction; updates are modeled as building a new Catalog and
// swapping it into a CatalogRef.
type Catalog struct {
	records    []TraitRecord
	byName     map[string]int
	byAlias    map[string]int
	thresholds Thresholds
}

// CatalogFile is the on-disk shape of a trait catalog.
type CatalogFile struct {
	Thresholds Thresholds    `json:"thresholds" yaml:"thresholds"`
	Species    []TraitRecord `json:"species" yaml:"species"`
}

// NewCatalog builds an index over the provided records. Records with duplicate
// normalized canonical names are rejected; a duplicate alias is rejected
// unless it collides with its own record's canonical name.
func NewCatalog(records []TraitRecord, thresholds Thresholds) (*Catalog, error) {
	c := &Catalog{
		records:    append([]TraitRecord(nil), records...),
		byName:     make(map[string]int, len(records)),
		byAlias:    make(map[string]int),
		thresholds: thresholds.withDefaults(),
	}
	for i, rec := range c.records {
		key := Normalize(rec.Name)
		if key == "" {
			return nil, fmt.Errorf("species %d: name required", i)
		}
		if _, exists := c.byName[key]; exists {
			return nil, fmt.Errorf("duplicate species name %q", rec.Name)
		}
		c.byName[key] = i
	}
	for i, rec := range c.records {
		for _, alias := range rec.Aliases {
			key := Normalize(alias)
			if key == "" {
				continue
			}
			if owner, exists := c.byName[key]; exists {
				if owner != i {
					return nil, fmt.Errorf("alias %q of %q collides with species %q", alias, rec.Name, c.records[owner].Name)
				}
				continue
			}
			if owner, exists := c.byAlias[key]; exists && owner != i {
				return nil, fmt.Errorf("alias %q of %q collides with alias of %q", alias, rec.Name, c.records[owner].Name)
			}
			c.byAlias[key] = i
		}
	}
	return c, nil
}

// ParseCatalog decodes catalog bytes in the given format ("json", "yaml").
func ParseCatalog(data []byte, format string) (*Catalog, error) {
	var file CatalogFile
	switch format {
	case "json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog json: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown catalog format %q", format)
	}
	return NewCatalog(file.Species, file.Thresholds)
}

// LoadCatalogFile reads a catalog from disk, selecting the format from the
// file extension (.json, .yaml, .yml).
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied catalog path
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	return ParseCatalog(data, format)
}

// Len returns the number of species in the catalog.
func (c *Catalog) Len() int { return len(c.records) }

// Records returns a copy of the catalog's trait records.
func (c *Catalog) Records() []TraitRecord {
	return append([]TraitRecord(nil), c.records...)
}

// Thresholds returns the rule cutoffs configured for this catalog.
func (c *Catalog) Thresholds() Thresholds { return c.thresholds }

// CatalogRef is a process-wide handle on the current catalog. Readers observe
// a consistent snapshot for the whole of an evaluation; Replace swaps the
// entire catalog atomically and is only observed by subsequent evaluations.
type CatalogRef struct {
	ptr atomic.Pointer[Catalog]
}

// NewCatalogRef wraps a catalog in a swappable handle.
func NewCatalogRef(c *Catalog) *CatalogRef {
	ref := &CatalogRef{}
	ref.ptr.Store(c)
	return ref
}

// Current returns the catalog snapshot in effect.
func (r *CatalogRef) Current() *Catalog {
	return r.ptr.Load()
}

// Replace atomically swaps in a new catalog.
func (r *CatalogRef) Replace(c *Catalog) {
	r.ptr.Store(c)
}
