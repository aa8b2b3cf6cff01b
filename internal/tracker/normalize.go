package tracker

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics strips combining marks so "Café" and "Cafe" compare equal.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeText canonicalizes free text for duplicate comparison:
// trimmed, lowercased, diacritics stripped, inner whitespace collapsed.
func NormalizeText(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if folded, _, err := transform.String(foldDiacritics, s); err == nil {
		s = folded
	}
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeURL canonicalizes a job posting URL for duplicate comparison:
// scheme and host lowercased, default ports, fragments, query noise and
// trailing slashes dropped. Unparseable input falls back to trimmed
// lowercase.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.ToLower(raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Host = strings.TrimPrefix(u.Host, "www.")
	u.Host = strings.TrimSuffix(u.Host, ":80")
	u.Host = strings.TrimSuffix(u.Host, ":443")
	u.Fragment = ""
	u.RawQuery = stripTrackingParams(u.Query())
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

// Query parameters that vary per visit without changing the posting.
var trackingParams = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_term":     true,
	"utm_content":  true,
	"ref":          true,
	"refid":        true,
	"trk":          true,
	"gclid":        true,
	"fbclid":       true,
}

func stripTrackingParams(q url.Values) string {
	for k := range q {
		if trackingParams[strings.ToLower(k)] {
			q.Del(k)
		}
	}
	return q.Encode()
}
