package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "token", tok), ANY package that knows the string
// "token" can read or shadow your value. A package-private type prevents
// collisions: only this package can create keys of type contextKey.
type contextKey string

const tokenKey contextKey = "token"

// TokenExtractor is a middleware that inspects the Authorization header on
// every request and, when it carries a well-formed bearer token, attaches the
// raw token string to the request context.
//
// The rule: the header value must start with the case-insensitive literal
// "bearer"; the token is everything after the 7th character of the ORIGINAL
// (not lower-cased) value, i.e. what follows "Bearer ".
//
// EXTRACTION NEVER FAILS:
// A missing or malformed header just means "no token" — the request carries
// on and the handlers decide whether that matters. Listing posts works
// anonymously; creating one checks TokenFromContext and rejects with 401.
// Validation of the token itself (signature, expiry) is the TokenService's
// job, not this middleware's.
func TokenExtractor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if token := extractBearer(header); token != "" {
			ctx := context.WithValue(r.Context(), tokenKey, token)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// TokenFromContext retrieves the raw bearer token from the request context.
// Returns ("", false) when the request carried no usable Authorization header.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok && token != ""
}

// extractBearer applies the bearer rule to a raw header value.
// Returns "" for anything that isn't "bearer" (any casing) plus a token.
func extractBearer(header string) string {
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer") {
		return ""
	}
	if len(header) <= 7 {
		// "bearer" or "bearer " with nothing after it
		return ""
	}
	return header[7:]
}
