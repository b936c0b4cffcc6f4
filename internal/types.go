package internal

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundRecord is one normalized catalog row. Code is always a 6-digit
// zero-padded string. NavDate and Nav stay nil until enrichment finds
// a valid observation.
type FundRecord struct {
	Code          string
	Name          string
	Type          *string
	FullName      *string
	Company       *string
	InceptionDate *string
	NavDate       *string
	Nav           *decimal.Decimal
}

// NavPoint is a single unit-NAV observation.
type NavPoint struct {
	Date  time.Time
	Value decimal.Decimal
}
