// rule_terminalinjection.go: pre-phase wrapper over checkTerminalInjection
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package shellshield

// TerminalInjectionRule flags ANSI CSI escape sequences and zero-width
// characters hidden in the raw command text (spec.md §4.2).
type TerminalInjectionRule struct{}

func (r *TerminalInjectionRule) Name() string { return "TerminalInjection" }
func (r *TerminalInjectionRule) Phase() Phase { return PhasePre }

func (r *TerminalInjectionRule) Check(rc *RuleContext) Decision {
	if reason, found := checkTerminalInjection(rc.Raw); found {
		return Decision{
			Blocked:    true,
			Reason:     reason,
			Suggestion: "strip non-printing characters and review the command as plain text",
		}
	}
	return Decision{}
}
