package http

import "strings"

// containsFieldMsg reports whether a validation detail for the field carries
// the given message fragment; the comparison ignores case so tests don't
// break on message capitalization.
func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(strings.ToLower(e.Message), strings.ToLower(substr)) {
			return true
		}
	}
	return false
}
