package interp

import "net/url"

// isURIReference reports whether s parses as an RFC 3986 URI reference
// (spec.md §4.3 "uri requires a Text parseable as a URI reference").
func isURIReference(s string) bool {
	_, err := url.Parse(s)
	return err == nil
}
