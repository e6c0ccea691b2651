package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"promail/internal/domain"
)

type draftLanguageKey struct{}

// DraftLanguageKey carries the negotiated default drafting language.
var DraftLanguageKey = draftLanguageKey{}

// supportedTags is parallel to supportedLanguages; English first so it wins
// when nothing usable is sent.
var supportedTags = []language.Tag{
	language.English,
	language.Arabic,
	language.French,
	language.Spanish,
	language.German,
}

var supportedLanguages = []domain.Language{
	domain.LanguageEnglish,
	domain.LanguageArabic,
	domain.LanguageFrench,
	domain.LanguageSpanish,
	domain.LanguageGerman,
}

var draftMatcher = language.NewMatcher(supportedTags)

// DraftLanguage negotiates the default drafting language for the request
// from X-Locale and Accept-Language. Generation requests that name a
// language explicitly are unaffected; this only fills the gap when they
// leave it out.
func DraftLanguage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := negotiateDraftLanguage(r.Header.Get("X-Locale"), r.Header.Get("Accept-Language"))
		ctx := context.WithValue(r.Context(), DraftLanguageKey, lang)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func negotiateDraftLanguage(prefs ...string) domain.Language {
	_, idx := language.MatchStrings(draftMatcher, prefs...)
	if idx < 0 || idx >= len(supportedLanguages) {
		return domain.LanguageEnglish
	}
	return supportedLanguages[idx]
}

// DraftLanguageFromContext returns the negotiated default, falling back to
// English when the middleware did not run.
func DraftLanguageFromContext(ctx context.Context) domain.Language {
	if v, ok := ctx.Value(DraftLanguageKey).(domain.Language); ok {
		return v
	}
	return domain.LanguageEnglish
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
