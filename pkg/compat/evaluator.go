package compat

import (
	"log"

	"aquacore/pkg/domain"
)

// StockEntry is one livestock record as supplied by the persistence layer:
// the user-entered display name, its broad classification, and how many
// individuals the record covers.
type StockEntry struct {
	DisplayName    string                `json:"display_name"`
	Classification domain.Classification `json:"classification"`
	Quantity       int                   `json:"quantity"`
}

// ResolvedSpecies binds a stock entry to the trait record the resolver
// matched, or to nil when the species is unknown to the catalog.
type ResolvedSpecies struct {
	DisplayName    string                `json:"display_name"`
	Classification domain.Classification `json:"classification"`
	Quantity       int                   `json:"quantity"`
	Traits         *TraitRecord          `json:"traits,omitempty"`
}

// Resolved reports whether a trait record was matched.
func (r ResolvedSpecies) Resolved() bool { return r.Traits != nil }

// Cell is one entry of the directional matrix. Assessed is false on the
// diagonal and whenever either species is unresolved; such cells render as
// "unknown", never as compatible.
type Cell struct {
	Assessed bool      `json:"assessed"`
	Severity Severity  `json:"severity"`
	Findings []Finding `json:"findings,omitempty"`
}

// Report is the engine's full output for one tank evaluation: the resolved
// species list and the N by N directional matrix. Cells[i][j] reflects only
// findings where species i is the judged source of risk toward species j,
// which is what makes the matrix asymmetric.
type Report struct {
	Species []ResolvedSpecies `json:"species"`
	Cells   [][]Cell          `json:"cells"`
	Tank    TankContext       `json:"tank"`
}

// Worst returns the highest severity across all assessed cells.
func (r Report) Worst() Severity {
	worst := Compatible
	for _, row := range r.Cells {
		for _, cell := range row {
			if cell.Assessed && cell.Severity > worst {
				worst = cell.Severity
			}
		}
	}
	return worst
}

// Alerts flattens every finding in the matrix in row-major order.
func (r Report) Alerts() []Finding {
	var out []Finding
	for _, row := range r.Cells {
		for _, cell := range row {
			out = append(out, cell.Findings...)
		}
	}
	return out
}

// Engine evaluates stocking compatibility against the current trait catalog.
// It is safe for concurrent use: it holds no mutable state beyond the
// atomically swapped catalog reference.
type Engine struct {
	catalog *CatalogRef
	rules   []PairRule
	strict  bool
	logf    func(format string, args ...any)
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the default rule catalog. The slice order is the
// evaluation order.
func WithRules(rules []PairRule) Option {
	return func(e *Engine) { e.rules = rules }
}

// WithStrictRules makes rule panics propagate instead of being logged and
// skipped. Tests use this so a broken rule fails loudly.
func WithStrictRules() Option {
	return func(e *Engine) { e.strict = true }
}

// WithLogf sets the function used to report recovered rule panics.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(e *Engine) { e.logf = logf }
}

// NewEngine builds an engine over the given catalog reference with the
// default rule set.
func NewEngine(catalog *CatalogRef, opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog,
		rules:   DefaultRules(),
		logf:    log.Printf,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve maps each stock entry to its trait record using the current
// catalog snapshot. Unknown species stay in the result with nil traits.
func (e *Engine) Resolve(stock []StockEntry) []ResolvedSpecies {
	catalog := e.catalog.Current()
	resolved := make([]ResolvedSpecies, len(stock))
	for i, entry := range stock {
		resolved[i] = ResolvedSpecies{
			DisplayName:    entry.DisplayName,
			Classification: entry.Classification,
			Quantity:       entry.Quantity,
		}
		if catalog != nil {
			resolved[i].Traits = catalog.Resolve(entry.DisplayName, entry.Classification)
		}
	}
	return resolved
}

// CheckPair runs the full rule set over one ordered pair and concatenates
// every finding. It performs no filtering or deduplication; that belongs to
// the aggregation step. A rule that panics is a programming error: in strict
// mode the panic propagates, otherwise it is logged and the rule contributes
// nothing for this pair.
func (e *Engine) CheckPair(in PairInput) []Finding {
	var findings []Finding
	for _, rule := range e.rules {
		findings = append(findings, e.runRule(rule, in)...)
	}
	return findings
}

func (e *Engine) runRule(rule PairRule, in PairInput) (out []Finding) {
	if !e.strict {
		defer func() {
			if r := recover(); r != nil {
				e.logf("compat: rule %s panicked on pair %q/%q: %v", rule.Key, in.NameA, in.NameB, r)
				out = nil
			}
		}()
	}
	return rule.Check(in)
}

// Evaluate resolves the stock list and builds the full directional matrix
// over all N*(N-1) ordered pairs. Self pairs are never evaluated. Pairs
// involving an unresolved species are left unassessed rather than reported
// compatible.
func (e *Engine) Evaluate(stock []StockEntry, tank TankContext) Report {
	species := e.Resolve(stock)
	thresholds := DefaultThresholds()
	if catalog := e.catalog.Current(); catalog != nil {
		thresholds = catalog.Thresholds()
	}

	cells := make([][]Cell, len(species))
	for i := range species {
		cells[i] = make([]Cell, len(species))
		for j := range species {
			if i == j || !species[i].Resolved() || !species[j].Resolved() {
				continue
			}
			findings := e.CheckPair(PairInput{
				A:          species[i].Traits,
				B:          species[j].Traits,
				NameA:      species[i].DisplayName,
				NameB:      species[j].DisplayName,
				QuantityA:  species[i].Quantity,
				Tank:       tank,
				Thresholds: thresholds,
			})
			cells[i][j] = Cell{
				Assessed: true,
				Severity: Worst(findings),
				Findings: findings,
			}
		}
	}
	return Report{Species: species, Cells: cells, Tank: tank}
}

// CheckAddition evaluates one candidate species against the existing
// occupants of a tank and returns the flattened findings touching the
// candidate in either direction, with their worst severity. This backs the
// single-pair advisory view shown when adding livestock. An empty tank
// still gets the candidate's solo checks, so an undersized school or a
// species the tank is too small for is flagged on the very first addition.
func (e *Engine) CheckAddition(candidate StockEntry, existing []StockEntry, tank TankContext) ([]Finding, Severity) {
	if len(existing) == 0 {
		findings := e.checkSolo(candidate, tank)
		return findings, Worst(findings)
	}

	stock := make([]StockEntry, 0, len(existing)+1)
	stock = append(stock, existing...)
	stock = append(stock, candidate)
	report := e.Evaluate(stock, tank)

	last := len(stock) - 1
	var findings []Finding
	for j, cell := range report.Cells[last] {
		if j != last {
			findings = append(findings, cell.Findings...)
		}
	}
	for i, row := range report.Cells {
		if i != last {
			findings = append(findings, row[last].Findings...)
		}
	}
	return findings, Worst(findings)
}

// checkSolo runs the rule set over the candidate alone. Pair rules guard
// against a nil partner, so only the checks that judge a single species
// against the tank itself contribute here.
func (e *Engine) checkSolo(candidate StockEntry, tank TankContext) []Finding {
	species := e.Resolve([]StockEntry{candidate})[0]
	if !species.Resolved() {
		return nil
	}
	thresholds := DefaultThresholds()
	if catalog := e.catalog.Current(); catalog != nil {
		thresholds = catalog.Thresholds()
	}
	return e.CheckPair(PairInput{
		A:          species.Traits,
		NameA:      species.DisplayName,
		NameB:      species.DisplayName,
		QuantityA:  species.Quantity,
		Tank:       tank,
		Thresholds: thresholds,
	})
}
