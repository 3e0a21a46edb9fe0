// Package prompt renders prompt templates against a state snapshot.
package prompt

import (
	"fmt"
	"regexp"
)

var placeholderRe = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Compose substitutes every {{fieldName}} token in template with the string
// form of state[fieldName]. Unknown fields render as the empty string —
// omitted optional context is common and must not fail composition.
// Compose is pure: no external calls, no mutation of state.
func Compose(state map[string]interface{}, template string) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(token string) string {
		key := token[2 : len(token)-2]
		value, ok := state[key]
		if !ok || value == nil {
			return ""
		}
		if s, isString := value.(string); isString {
			return s
		}
		return fmt.Sprintf("%v", value)
	})
}
