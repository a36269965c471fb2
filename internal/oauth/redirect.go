package oauth

import "github.com/zipboard/zipboard/internal/browser"

// RedirectFlow performs OAuth by navigating the current surface away to the
// provider URL. Fire-and-forget: completion is observed on a later page load
// through the callback route, not here.
type RedirectFlow struct {
	urls URLBuilder
	nav  browser.Navigator
}

func NewRedirectFlow(urls URLBuilder, nav browser.Navigator) *RedirectFlow {
	return &RedirectFlow{urls: urls, nav: nav}
}

func (f *RedirectFlow) Start(provider, redirectPath string) error {
	return f.nav.Navigate(f.urls.ProviderURL(provider, redirectPath, false))
}
