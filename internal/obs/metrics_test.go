package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                              "/",
		"/metrics":                      "/metrics",
		"/v1/rfps/01HZX":                "/v1/rfps/:id",
		"/v1/rfps/01HZX/publish":        "/v1/rfps/:id/publish",
		"/v1/rfps/01HZX/actions":        "/v1/rfps/:id/actions",
		"/v1/rfps/01HZX/extra":          "/v1/rfps/01HZX/extra",
		"/v1/rfps":                      "/v1/rfps",
		"/v1/rfps/validate":             "/v1/rfps/validate",
		"/v1/rfps?status=NEW":           "/v1/rfps",
		"/lists/vehicle-type/items":     "/lists/vehicle-type/items",
		"/reference/counter-party/items": "/reference/counter-party/items",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
