package shared

import (
	"errors"
	"strings"
)

// ExpenseCategory is the canonical classification of an expense row.
type ExpenseCategory string

const (
	CategoryDeuda          ExpenseCategory = "deuda"
	CategoryGastoOperativo ExpenseCategory = "gasto_operativo"
	CategoryOtros          ExpenseCategory = "otros"
)

// ErrUnknownCategory indicates an unrecognised expense category value.
var ErrUnknownCategory = errors.New("unknown expense category")

// Historical call sites spelled the operative category three different
// ways; they are all accepted on input and stored canonically.
var categoryAliases = map[string]ExpenseCategory{
	"deuda":           CategoryDeuda,
	"gasto_operativo": CategoryGastoOperativo,
	"operativo":       CategoryGastoOperativo,
	"gasto":           CategoryGastoOperativo,
	"otros":           CategoryOtros,
}

// NormalizeCategory maps a raw category value to its canonical form.
func NormalizeCategory(raw string) (ExpenseCategory, error) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", ErrUnknownCategory
	}
	return c, nil
}
