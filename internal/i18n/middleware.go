package i18n

import "net/http"

// Middleware picks the translator for every request: the "lang" query
// parameter wins, then Accept-Language, then defaultLang.
func Middleware(defaultLang string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tr := NewTranslator(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"), defaultLang)
			next.ServeHTTP(w, r.WithContext(WithTranslator(r.Context(), tr)))
		})
	}
}
