package solrtest

import (
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"
)

// exemptPaths bypass authentication.
var exemptPaths = map[string]struct{}{
	"/solr/admin/info/system": {},
}

// BasicAuth returns a middleware that rejects requests without the given
// credentials with 401 and an HTML error page.
func BasicAuth(user, password string) func(http.Handler) http.Handler {
	want := "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+password))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			switch {
			case auth == "":
				w.Header().Set("WWW-Authenticate", `Basic realm="solr"`)
				HTMLError(http.StatusUnauthorized, "require authentication")(w, r)
				return
			case !strings.HasPrefix(auth, "Basic "):
				HTMLError(http.StatusUnauthorized, "authorization header must use Basic scheme")(w, r)
				return
			case subtle.ConstantTimeCompare([]byte(auth), []byte(want)) != 1:
				HTMLError(http.StatusUnauthorized, "Bad credentials")(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
