package obs

import "strings"

// workflow action suffixes that may follow /v1/rfps/:id
var rfpActions = map[string]bool{
	"publish":  true,
	"assign":   true,
	"complete": true,
	"cancel":   true,
	"actions":  true,
}

// CanonicalPath collapses resource identifiers in metric labels:
// /v1/rfps/01ABC -> /v1/rfps/:id, /v1/rfps/01ABC/publish -> /v1/rfps/:id/publish.
// Catalog item listings keep their catalog name (bounded set).
func CanonicalPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	rest, ok := strings.CutPrefix(path, "/v1/rfps/")
	if !ok || rest == "" || rest == "validate" {
		return path
	}
	parts := strings.Split(rest, "/")
	switch len(parts) {
	case 1:
		return "/v1/rfps/:id"
	case 2:
		if rfpActions[parts[1]] {
			return "/v1/rfps/:id/" + parts[1]
		}
	}
	return path
}
