package compat

// Finding reports one directional compatibility issue between two species.
// SpeciesA is always the judged source of risk (the aggressor, the predator,
// or the species whose own requirement is violated); SpeciesB is the affected
// party. Key identifies the rule that produced the finding and doubles as a
// description lookup key for presentation layers; Params carries the values
// needed to render the description.
type Finding struct {
	SpeciesA string            `json:"species_a"`
	SpeciesB string            `json:"species_b"`
	Level    Severity          `json:"level"`
	Key      string            `json:"key"`
	Params   map[string]string `json:"params,omitempty"`
}
