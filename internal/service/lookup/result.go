package lookup

import "github.com/heartmarshall/lexigen-backend/internal/domain"

// Input carries one lookup request plus the optional caller identity used
// for activity logging.
type Input struct {
	Word             string
	IgnoreCorrection bool
	UserID           *string
	UserEmail        *string
	UserAgent        *string
	IPAddress        string
	SessionID        *string
}

// Correction describes an applied spelling substitution.
type Correction struct {
	OriginalWord           string
	SuggestedWord          string
	AlternativeSuggestions []string
}

// Result is a resolved definition tagged with where it came from.
// Correction is nil when no substitution was applied.
type Result struct {
	Record     *domain.WordRecord
	Source     domain.ResponseSource
	TokensUsed int
	Correction *Correction
}
