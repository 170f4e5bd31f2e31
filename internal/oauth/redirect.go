package oauth

import (
	"net/url"
	"regexp"
	"strings"
)

// DeniedMessage is the fixed user-facing text for provider rejections that
// mean the identity was not pre-approved.
const DeniedMessage = "Acesso Negado: Apenas para uso autorizado"

// errorDescriptionPattern matches the raw redirect URI, hash or query, so
// the description is captured before any normalization strips it.
var errorDescriptionPattern = regexp.MustCompile(`error_description=([^&]+)`)

// RedirectError is a provider failure carried back on the post-auth
// redirect. Classified is false when the raw text matched no known
// signature; the message then passes through verbatim.
type RedirectError struct {
	Raw        string
	Message    string
	Classified bool
}

// Signatures the provider emits when the upstream store refuses to create
// an identity. Substring matching over opaque text; best effort only.
var deniedSignatures = []string{
	"Database error",
	"row-level security",
}

// ExtractRedirectError scans a raw redirect URI for an embedded
// error_description parameter and classifies it. Returns nil when the
// redirect carries no error.
func ExtractRedirectError(rawURI string) *RedirectError {
	match := errorDescriptionPattern.FindStringSubmatch(rawURI)
	if match == nil {
		return nil
	}

	raw, err := url.QueryUnescape(strings.ReplaceAll(match[1], "+", " "))
	if err != nil {
		raw = match[1]
	}
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	return classifyRedirectError(raw)
}

func classifyRedirectError(raw string) *RedirectError {
	for _, sig := range deniedSignatures {
		if strings.Contains(raw, sig) {
			return &RedirectError{Raw: raw, Message: DeniedMessage, Classified: true}
		}
	}
	return &RedirectError{Raw: raw, Message: raw, Classified: false}
}
