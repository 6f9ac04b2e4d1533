package compat

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"aquacore/pkg/domain"
)

var diacriticFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize folds a species name to its comparison form: lower case, trimmed,
// whitespace collapsed, diacritics removed.
func Normalize(name string) string {
	folded, _, err := transform.String(diacriticFold, name)
	if err != nil {
		folded = name
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// fuzzyBound returns the accepted edit distance for a normalized needle.
// Short names tolerate a single edit; longer ones two.
func fuzzyBound(needle string) int {
	if len(needle) < 8 {
		return 1
	}
	return 2
}

// Resolve maps a display name to the matching trait record, or nil when no
// record matches. The matching policy is ordered and first match wins:
// exact normalized canonical name, exact normalized alias, then bounded fuzzy
// match. The fuzzy step is restricted to the hinted classification when a
// hint is given, and resolves to nil on ambiguity rather than guessing.
func (c *Catalog) Resolve(displayName string, hint domain.Classification) *TraitRecord {
	needle := Normalize(displayName)
	if needle == "" {
		return nil
	}
	if i, ok := c.byName[needle]; ok {
		return &c.records[i]
	}
	if i, ok := c.byAlias[needle]; ok {
		return &c.records[i]
	}
	return c.resolveFuzzy(needle, hint)
}

func (c *Catalog) resolveFuzzy(needle string, hint domain.Classification) *TraitRecord {
	bound := fuzzyBound(needle)
	best := bound + 1
	bestIdx := -1
	ambiguous := false

	consider := func(candidate string, idx int) {
		d := levenshtein.ComputeDistance(needle, candidate)
		if d > bound || d > best {
			return
		}
		if d < best {
			best = d
			bestIdx = idx
			ambiguous = false
			return
		}
		if idx != bestIdx {
			ambiguous = true
		}
	}

	for i := range c.records {
		if hint != "" && c.records[i].Classification != "" && c.records[i].Classification != hint {
			continue
		}
		consider(Normalize(c.records[i].Name), i)
		for _, alias := range c.records[i].Aliases {
			consider(Normalize(alias), i)
		}
	}
	if bestIdx < 0 || ambiguous {
		return nil
	}
	return &c.records[bestIdx]
}
