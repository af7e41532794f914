package frontier

import "net/url"

// unknownHost is the synthetic host assigned to a URL whose authority
// component is empty.
const unknownHost = "unknown"

// admit validates and normalizes a raw URL for frontier admission: the
// fragment is stripped, the scheme is restricted to http/https, and the
// query string is retained unchanged. It returns the normalized URL, its
// host key, and whether the URL is admissible at all.
//
// This intentionally does far less than full canonicalization (no
// tracking-parameter stripping, no forced https upgrade, no dot-segment
// resolution) — canonicalization beyond fragment stripping is explicitly
// out of scope.
func admit(raw string) (normalized, host string, ok bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", false
	}

	switch u.Scheme {
	case "http", "https":
	default:
		return "", "", false
	}

	u.Fragment = ""
	u.RawFragment = ""

	h := u.Host
	if h == "" {
		h = unknownHost
	}

	return u.String(), h, true
}
