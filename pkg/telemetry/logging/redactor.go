package logging

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

// Redactor masks secrets in log fields. Configuration documents routinely
// carry endpoints with embedded credentials and API tokens, and reload
// messages log sources and values.
type Redactor struct {
	sensitiveKeys []string
}

var (
	apiKeyPattern      = regexp.MustCompile(`sk-[a-zA-Z0-9_-]{4,}`)
	bearerTokenPattern = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`)
	userinfoPattern    = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.-]*://[^\s/@]+@[^\s]+`)
)

var defaultSensitiveKeys = []string{
	"password", "passwd", "secret", "token",
	"api_key", "apikey", "authorization", "private_key",
}

// NewRedactor creates a Redactor that masks the default sensitive keys plus
// extraKeys. Keys match case-insensitively by substring.
func NewRedactor(extraKeys ...string) *Redactor {
	keys := append([]string(nil), defaultSensitiveKeys...)
	for _, k := range extraKeys {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keys = append(keys, k)
		}
	}
	return &Redactor{sensitiveKeys: keys}
}

// IsSensitiveKey reports whether values stored under key are always masked.
func (r *Redactor) IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range r.sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// RedactString masks API keys, bearer tokens and URL passwords inside value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	value = apiKeyPattern.ReplaceAllString(value, "sk-***")
	value = bearerTokenPattern.ReplaceAllString(value, "Bearer ***")
	return userinfoPattern.ReplaceAllStringFunc(value, redactURLPassword)
}

// RedactAttr masks attr when its key is sensitive and scrubs string values
// otherwise. Groups are processed recursively.
func (r *Redactor) RedactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]any, len(attrs))
		for i, ga := range attrs {
			out[i] = r.RedactAttr(ga)
		}
		return slog.Group(a.Key, out...)
	}

	if r.IsSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue(a.Value.String()))
	}

	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, r.RedactString(a.Value.String()))
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
	}
	return a
}

// MaskValue hides a secret, keeping at most a four character prefix for
// identification.
func MaskValue(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 8 {
		return "***"
	}
	return v[:4] + "***"
}

func redactURLPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
