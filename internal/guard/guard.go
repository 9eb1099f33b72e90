// Package guard decides whether a visitor may see a page, from nothing but
// whether a user is present in the auth state.
package guard

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

type Kind int

const (
	// Protected pages need a user; visitors without one go to the login page.
	Protected Kind = iota
	// PublicOnly pages are for logged-out visitors; users go to the dashboard.
	PublicOnly
)

func (k Kind) String() string {
	if k == PublicOnly {
		return "public-only"
	}
	return "protected"
}

// Decide reports whether the page may render. When it may not, redirect is
// where the visitor is sent instead.
func Decide(kind Kind, hasUser bool) (redirect string, allowed bool) {
	switch kind {
	case PublicOnly:
		if hasUser {
			return DashboardPath, false
		}
	default:
		if !hasUser {
			return LoginPath, false
		}
	}
	return "", true
}
