package provider

// DefinitionResult is the structured definition returned by the
// generative-text vendor, already schema-validated.
type DefinitionResult struct {
	Word       string
	Starting   string
	Phonetic   *string
	Definition string
	Examples   []string
	Synonyms   []string
	Usage      string
	// TokensUsed is the vendor-reported total token count. It is an
	// estimate: zero when the usage metadata is absent.
	TokensUsed int
}

// SpellingResult is the vendor's misspelling verdict for a single word.
type SpellingResult struct {
	IsMisspelling          bool
	SuggestedWord          string
	AlternativeSuggestions []string
}
