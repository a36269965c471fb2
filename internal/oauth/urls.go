// Package oauth drives third-party authentication: building provider URLs,
// the full-page redirect flow, and the popup flow with its settle-once state
// machine.
package oauth

import (
	"net/url"
	"strings"
)

// URLBuilder produces provider authorization URLs on the API host. The
// provider's own protocol never runs here; the backend owns the code
// exchange and hands control back via the redirect (or popup message).
type URLBuilder struct {
	base string
}

func NewURLBuilder(base string) URLBuilder {
	return URLBuilder{base: strings.TrimRight(base, "/")}
}

// ProviderURL returns <base>/auth/<provider>?redirect=<escaped path>, with
// the popup marker appended when the popup flow is in use.
func (b URLBuilder) ProviderURL(provider, redirectPath string, popup bool) string {
	u := b.base + "/auth/" + provider + "?redirect=" + url.QueryEscape(redirectPath)
	if popup {
		u += "&popup=1"
	}
	return u
}
