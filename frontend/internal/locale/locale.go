// Package locale picks the interface language for a request.
package locale

import (
	"net/http"
	"slices"
	"strings"
)

const CookieName = "i18nextLng"

// Context is the language state passed explicitly to the form and chat.
type Context struct {
	Language  string
	Supported []string
}

func New(supported []string, fallback string) *Context {
	return &Context{Language: fallback, Supported: slices.Clone(supported)}
}

func (c *Context) IsSupported(lang string) bool {
	return slices.Contains(c.Supported, lang)
}

// Set switches language; unsupported values are ignored.
func (c *Context) Set(lang string) bool {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if !c.IsSupported(lang) {
		return false
	}
	c.Language = lang
	return true
}

// Detect returns a copy of c with the language taken from, in order, the
// first path segment, the lng query parameter, the i18nextLng cookie and
// the first two letters of Accept-Language. The current language stays
// when none of them names a supported language.
func (c *Context) Detect(r *http.Request) *Context {
	out := &Context{Language: c.Language, Supported: c.Supported}

	candidates := []string{firstSegment(r.URL.Path), r.URL.Query().Get("lng")}
	if cookie, err := r.Cookie(CookieName); err == nil {
		candidates = append(candidates, cookie.Value)
	}
	candidates = append(candidates, acceptLanguage(r.Header.Get("Accept-Language")))

	for _, lang := range candidates {
		if out.Set(lang) {
			break
		}
	}
	return out
}

func firstSegment(path string) string {
	seg, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	return seg
}

// acceptLanguage reduces the first listed tag to its two letter language.
func acceptLanguage(header string) string {
	first, _, _ := strings.Cut(header, ",")
	first, _, _ = strings.Cut(first, ";")
	first = strings.TrimSpace(first)
	if len(first) < 2 {
		return ""
	}
	return first[:2]
}
