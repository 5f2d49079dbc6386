// Package scrape pulls daily sales and prize figures from the lottery
// vendors that feed the reconciliation summaries.
package scrape

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseAmount reads a Venezuelan-formatted figure ("1.234,56"): dots are
// thousands separators, the comma is the decimal mark. Blank or
// unparsable values are zero, matching how the vendor tables mix empty
// cells with amounts.
func ParseAmount(raw string) float64 {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0
	}
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseTargetDate validates the vendor-facing DD-MM-YYYY date and returns
// its ISO form for storage.
func ParseTargetDate(target string) (string, error) {
	t, err := time.Parse("02-01-2006", target)
	if err != nil {
		return "", fmt.Errorf("scrape: target date %q must be DD-MM-YYYY: %w", target, err)
	}
	return t.Format("2006-01-02"), nil
}
