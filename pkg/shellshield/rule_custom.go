// rule_custom.go: post-phase user-regex rule
//
// Grounded on spec.md §4.6. Each configured pattern is compiled on every
// Check call; compiled patterns are not cached between calls.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package shellshield

import "regexp"

// CustomRegexRule checks every Config.CustomRules entry against the raw
// command. Invalid patterns are ignored rather than surfaced as errors
// (spec.md §4.6). Named distinctly from the CustomRule config entry type
// (config.go) that it iterates over.
type CustomRegexRule struct{}

func (r *CustomRegexRule) Name() string { return "Custom" }
func (r *CustomRegexRule) Phase() Phase { return PhasePost }

func (r *CustomRegexRule) Check(rc *RuleContext) Decision {
	for _, cr := range rc.Config.CustomRules {
		re, err := regexp.Compile(cr.Pattern)
		if err != nil {
			continue
		}
		if re.MatchString(rc.Raw) {
			return Decision{
				Blocked:    true,
				Reason:     "CUSTOM RULE VIOLATION",
				Suggestion: cr.Suggestion,
			}
		}
	}
	return Decision{}
}
