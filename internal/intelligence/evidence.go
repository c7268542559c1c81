package intelligence

import (
	"fmt"
	"strings"
)

// ValidateHighlightScopes checks that every highlight names a scope from the
// trace. Returns an error listing all invalid references.
func ValidateHighlightScopes(highlights []ScopeHighlight, scopeKeys map[string]bool) error {
	var invalid []string
	for i, h := range highlights {
		if h.Scope == "" {
			invalid = append(invalid, fmt.Sprintf("highlight %d: empty scope", i))
			continue
		}
		if !scopeKeys[h.Scope] {
			invalid = append(invalid, fmt.Sprintf("highlight %d: unknown scope %q", i, h.Scope))
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("invalid highlight scopes: %s", strings.Join(invalid, "; "))
	}
	return nil
}
