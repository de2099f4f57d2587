package notion

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NormalizeID canonicalizes a page or block identifier into the dashed UUID
// form the API expects. It accepts dashed UUIDs, bare 32-hex IDs, and Notion
// page URLs (where the ID is the trailing slug segment).
func NormalizeID(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	if id, err := uuid.Parse(s); err == nil {
		return id.String(), nil
	}
	// Page URLs append the ID to the title slug: My-Page-<32 hex>.
	if i := strings.LastIndexByte(s, '-'); i >= 0 {
		if id, err := uuid.Parse(s[i+1:]); err == nil {
			return id.String(), nil
		}
	}
	return "", fmt.Errorf("invalid page id %q", raw)
}
