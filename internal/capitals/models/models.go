// Package models defines the data types shared across the capitals modules.
package models

// EntryType tags persisted records so the store format can grow other record
// kinds without a migration.
const EntryType = "countryCapital"

// CapitalEntry is one persisted country-to-capital record. Country carries the
// canonical display form returned by directory validation, Capital the display
// form. Entries are append-only: they are never mutated or deleted in place.
type CapitalEntry struct {
	Country string `json:"country"`
	Capital string `json:"capital"`
	Type    string `json:"type"`
}

// MatchCandidate is a fuzzy match against one of the corpora. Score is an
// edit-distance ratio in [0,100] where 100 means identical.
type MatchCandidate struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// SaveStatus tags the outcome of a confirm-and-save attempt.
type SaveStatus string

const (
	// SaveStatusSaved means the entry was validated and durably persisted.
	SaveStatusSaved SaveStatus = "saved"
	// SaveStatusNeedsDisambiguation means validation failed but the remote
	// directory offered close candidates; the caller should re-prompt.
	SaveStatusNeedsDisambiguation SaveStatus = "needs_disambiguation"
	// SaveStatusInvalidCountry means validation failed and no candidates exist.
	SaveStatusInvalidCountry SaveStatus = "invalid_country"
)

// SaveResult is the three-way outcome of ConfirmAndSave. Exactly one of the
// optional fields is populated, selected by Status, so callers cannot collapse
// the saved / needs-disambiguation / invalid cases into one another.
type SaveResult struct {
	Status      SaveStatus
	Entry       *CapitalEntry    // set when Status == SaveStatusSaved
	Suggestions []MatchCandidate // set when Status == SaveStatusNeedsDisambiguation
}
