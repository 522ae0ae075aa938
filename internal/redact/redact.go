// Package redact scrubs configured credential values from log output.
package redact

import "strings"

// Redactor replaces known secrets with a placeholder.
type Redactor struct {
	replacer *strings.Replacer
}

// New builds a redactor for the given secrets. Empty secrets are ignored.
func New(secrets ...string) *Redactor {
	pairs := make([]string, 0, len(secrets)*2)
	for _, s := range secrets {
		if s == "" {
			continue
		}
		pairs = append(pairs, s, "[REDACTED]")
	}
	return &Redactor{replacer: strings.NewReplacer(pairs...)}
}

func (r *Redactor) Redact(input string) string {
	if r == nil || r.replacer == nil {
		return input
	}
	return r.replacer.Replace(input)
}

// RedactErr formats an error with secrets scrubbed. Returns "" for nil.
func (r *Redactor) RedactErr(err error) string {
	if err == nil {
		return ""
	}
	return r.Redact(err.Error())
}
