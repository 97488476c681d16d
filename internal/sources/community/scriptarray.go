package community

import (
	"errors"
	"fmt"
	"strings"
)

// The games page embeds its data as a script-injected JSON array inside
// otherwise non-well-formed markup, so a general HTML or JSON parser is the
// wrong tool. extractScriptArray finds the marker and walks bracket depth,
// honoring string and escape state, until the array closes.
//
// Layout drift upstream is a real failure mode and must surface loudly, not
// as a silent empty result.

var (
	errMarkerNotFound = errors.New("script array marker not found")
	errArrayNotOpened = errors.New("no array opens after marker")
	errArrayUnclosed  = errors.New("script array never closes")
)

func extractScriptArray(page, marker string) (string, error) {
	start := strings.Index(page, marker)
	if start < 0 {
		return "", fmt.Errorf("%w: %q", errMarkerNotFound, marker)
	}
	rest := page[start+len(marker):]

	open := strings.IndexByte(rest, '[')
	if open < 0 {
		return "", errArrayNotOpened
	}
	// The marker should sit directly against its array; anything else means
	// the page layout changed under us.
	if strings.TrimSpace(rest[:open]) != "" {
		return "", errArrayNotOpened
	}

	depth := 0
	inString := false
	escaped := false
	for i := open; i < len(rest); i++ {
		ch := rest[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return rest[open : i+1], nil
			}
		}
	}
	return "", errArrayUnclosed
}
