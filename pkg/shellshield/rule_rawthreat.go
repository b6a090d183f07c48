// rule_rawthreat.go: pre-phase ordered raw-regex rule
//
// Grounded on _examples/other_examples/afb8bc58_diillson-chatcli__cli-agent-
// command_validator.go.go's one-shot ordered regex list, and on
// _examples/fnzv-trash/safeguard.go's addRegex(name, pattern, reason) idiom.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package shellshield

// RawThreatRule runs rawThreatPatterns (patterns.go) against the raw command
// text, plus the length guard and the deep-nested-subshell check — spec.md
// §4.5. It is a fail-closed point: over-length input blocks here regardless
// of what later phases would have decided.
type RawThreatRule struct{}

func (r *RawThreatRule) Name() string { return "RawThreat" }
func (r *RawThreatRule) Phase() Phase { return PhasePre }

func (r *RawThreatRule) Check(rc *RuleContext) Decision {
	if len(rc.Raw) > MaxInputLength {
		return Decision{
			Blocked:    true,
			Reason:     "COMMAND TOO LONG",
			Suggestion: "split the command into shorter commands",
		}
	}

	for _, p := range rawThreatPatterns {
		if p.re.MatchString(rc.Raw) {
			return Decision{Blocked: true, Reason: p.reason, Suggestion: p.suggestion}
		}
	}

	if d := checkDeepSubshell(rc.Raw); d.Blocked {
		return d
	}

	return Decision{}
}

// checkDeepSubshell implements spec.md §4.5's "≥4 nested shell -c
// invocations and any destructive verb" check.
func checkDeepSubshell(raw string) Decision {
	matches := deepSubshellRe.FindAllStringIndex(raw, -1)
	if len(matches) >= 4 && destructiveVerbRe.MatchString(raw) {
		return Decision{
			Blocked:    true,
			Reason:     "DEEP SUBSHELL DETECTED",
			Suggestion: "flatten the nested shell invocations and run the inner command directly",
		}
	}
	return Decision{}
}
