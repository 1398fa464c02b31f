package schema

import (
	"fmt"
	"strings"
)

// CleanDisplayName trims a directory name and collapses inner whitespace runs,
// so "  Jane \t Doe " becomes "Jane Doe". Empty or blank names stay empty.
func CleanDisplayName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// ParseAuthorizationStatus converts user or host input into an AuthorizationStatus.
// Matching is case-insensitive and accepts "-" in place of "_".
func ParseAuthorizationStatus(s string) (AuthorizationStatus, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	status := AuthorizationStatus(norm)
	if _, ok := ValidAuthorizationStatuses[status]; !ok {
		return NotDetermined, fmt.Errorf("invalid authorization status '%s'. must be not_determined, denied, restricted, authorized, limited", s)
	}
	return status, nil
}

// HasNumbers reports whether the record carries at least one non-blank number.
func (c ContactRecord) HasNumbers() bool {
	for _, n := range c.Numbers {
		if strings.TrimSpace(n) != "" {
			return true
		}
	}
	return false
}
