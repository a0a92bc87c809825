package enums

import "fmt"

// ScholarTransactionType maps to the scholar_transaction_type_enum type in
// Postgres and tags entries in the Green Scholar fund ledger.
type ScholarTransactionType string

const (
	ScholarTransactionTypePetContribution ScholarTransactionType = "pet_contribution"
	ScholarTransactionTypeDistribution    ScholarTransactionType = "distribution"
	ScholarTransactionTypeExpense         ScholarTransactionType = "expense"
)

var validScholarTransactionTypes = []ScholarTransactionType{
	ScholarTransactionTypePetContribution,
	ScholarTransactionTypeDistribution,
	ScholarTransactionTypeExpense,
}

// IsValid reports whether the value matches the canonical scholar ledger enum.
func (t ScholarTransactionType) IsValid() bool {
	for _, candidate := range validScholarTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseScholarTransactionType converts raw input into ScholarTransactionType.
func ParseScholarTransactionType(value string) (ScholarTransactionType, error) {
	for _, candidate := range validScholarTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid scholar transaction type %q", value)
}
