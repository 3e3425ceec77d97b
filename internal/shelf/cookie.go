package shelf

import (
	"net/http"
	"net/url"
	"time"
)

// MaxAge is the lifetime of a list cookie.
const MaxAge = 365 * 24 * time.Hour

// Read returns the list stored in the request's cookie, or an empty list when it is absent or unreadable.
func (v Variant[T]) Read(r *http.Request) []T {
	c, err := r.Cookie(v.CookieName)
	if err != nil {
		return []T{}
	}
	return v.Parse(c.Value)
}

// NewCookie builds the cookie carrying list. secure should be true in production.
func (v Variant[T]) NewCookie(list []T, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     v.CookieName,
		Value:    url.QueryEscape(v.Serialize(list)),
		Path:     "/",
		MaxAge:   int(MaxAge / time.Second),
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		HttpOnly: true,
	}
}

// Write sets the list cookie on the response.
func (v Variant[T]) Write(w http.ResponseWriter, list []T, secure bool) {
	http.SetCookie(w, v.NewCookie(list, secure))
}
