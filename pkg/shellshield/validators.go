// validators.go: pure security predicates over raw text and URLs
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package shellshield

import (
	"net/url"
	"regexp"
	"strings"
)

// hostCandidateRe isolates URL-like or dotted-host candidates from free text.
var hostCandidateRe = regexp.MustCompile(`(?i)(?:[a-z][a-z0-9+.-]*://)?[a-z0-9\p{L}](?:[a-z0-9\p{L}-]*[a-z0-9\p{L}])?(?:\.[a-z0-9\p{L}](?:[a-z0-9\p{L}-]*[a-z0-9\p{L}])?){1,}`)

type script int

const (
	scriptLatin script = iota
	scriptCyrillic
	scriptGreek
	scriptOther
)

func classifyRune(r rune) script {
	switch {
	case r < 0x80:
		return scriptLatin
	case r >= cyrillicLo && r <= cyrillicHi:
		return scriptCyrillic
	case r >= greekLo && r <= greekHi:
		return scriptGreek
	default:
		return scriptOther
	}
}

// extractHostname strips a leading scheme, trailing path/query/fragment,
// and a trailing port from a URL-like or dotted-host candidate.
func extractHostname(candidate string) string {
	host := candidate
	if idx := strings.Index(host, "://"); idx != -1 {
		host = host[idx+3:]
	}
	for _, cut := range []string{"/", "?", "#"} {
		if idx := strings.Index(host, cut); idx != -1 {
			host = host[:idx]
		}
	}
	if at := strings.LastIndex(host, "@"); at != -1 {
		host = host[at+1:]
	}
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return host
}

// hasHomograph implements spec §4.2: a hostname is suspicious iff it
// contains a non-ASCII letter AND (mixes Latin with any non-Latin script,
// OR uses two or more distinct non-Latin scripts). Single-script non-Latin
// hostnames are IDN-safe and allowed.
func hasHomograph(text string) bool {
	if len(text) > MaxInputLength {
		return false
	}
	for _, candidate := range hostCandidateRe.FindAllString(text, -1) {
		host := extractHostname(candidate)
		if hostIsHomograph(host) {
			return true
		}
	}
	return false
}

func hostIsHomograph(host string) bool {
	seen := map[script]bool{}
	hasNonASCIILetter := false
	for _, r := range host {
		if zeroWidthChars[r] {
			continue
		}
		sc := classifyRune(r)
		if sc != scriptLatin {
			hasNonASCIILetter = true
		}
		seen[sc] = true
	}
	if !hasNonASCIILetter {
		return false
	}
	nonLatin := 0
	for sc, present := range seen {
		if present && sc != scriptLatin {
			nonLatin++
		}
	}
	mixesLatinAndOther := seen[scriptLatin] && nonLatin > 0
	mixesTwoNonLatin := nonLatin >= 2
	return mixesLatinAndOther || mixesTwoNonLatin
}

// checkTerminalInjection implements spec §4.2's ANSI/zero-width detector.
// Returns ("", false) when clean.
func checkTerminalInjection(text string) (reason string, found bool) {
	if len(text) > MaxInputLength {
		return "", false
	}
	if strings.Contains(text, "\x1b[") {
		return "TERMINAL INJECTION DETECTED", true
	}
	for _, r := range text {
		if zeroWidthChars[r] {
			return "HIDDEN CHARACTERS DETECTED", true
		}
	}
	return "", false
}

// isTrustedDomain implements spec §4.2: host equals a trusted entry or ends
// in ".trusted" — case-insensitively, subdomain-aware.
func isTrustedDomain(rawURL string, trusted []string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	for _, t := range trusted {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if host == t || strings.HasSuffix(host, "."+t) {
			return true
		}
	}
	return strings.HasSuffix(host, ".trusted")
}

// IsTrustedDomain exports isTrustedDomain for callers outside the package —
// `shellshield run --allow-remote` reuses the same trust check the analyzer
// applies to download pipelines, rather than inventing a second one.
func IsTrustedDomain(rawURL string, trusted []string) bool {
	return isTrustedDomain(rawURL, trusted)
}

// scoreUrlRisk implements spec §4.2's additive, clamped 0-100 risk score.
func scoreUrlRisk(rawURL string, trustedDomains []string) (score int, reasons []string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 100, []string{"unparseable URL"}
	}

	if !strings.EqualFold(u.Scheme, "https") {
		score += 30
		reasons = append(reasons, "non-HTTPS")
	}
	if u.User != nil {
		score += 30
		reasons = append(reasons, "userinfo present")
	}
	host := u.Hostname()
	if strings.HasPrefix(strings.ToLower(host), "xn--") {
		score += 15
		reasons = append(reasons, "punycode host")
	}
	if isIPLiteral(host) {
		score += 20
		reasons = append(reasons, "IP literal host")
	}
	if hostIsHomograph(host) {
		score += 25
		reasons = append(reasons, "homograph mixed scripts")
	}
	if !isTrustedDomain(rawURL, trustedDomains) {
		score += 10
		reasons = append(reasons, "untrusted domain")
	}
	if len(rawURL) > 100 {
		score += 10
		reasons = append(reasons, "URL exceeds 100 chars")
	}

	if score > 100 {
		score = 100
	}
	return score, reasons
}

func isIPLiteral(host string) bool {
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	if host == "" {
		return false
	}
	dots := strings.Count(host, ".")
	colons := strings.Count(host, ":")
	if dots == 3 {
		for _, part := range strings.Split(host, ".") {
			if part == "" {
				return false
			}
			for _, r := range part {
				if r < '0' || r > '9' {
					return false
				}
			}
		}
		return true
	}
	return colons >= 2
}
