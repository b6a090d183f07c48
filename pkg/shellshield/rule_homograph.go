// rule_homograph.go: pre-phase wrapper over hasHomograph
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package shellshield

// HomographRule flags hostnames that mix Unicode scripts to visually
// resemble a legitimate host (spec.md §4.2).
type HomographRule struct{}

func (r *HomographRule) Name() string { return "Homograph" }
func (r *HomographRule) Phase() Phase { return PhasePre }

func (r *HomographRule) Check(rc *RuleContext) Decision {
	if hasHomograph(rc.Raw) {
		return Decision{
			Blocked:    true,
			Reason:     "HOMOGRAPH ATTACK DETECTED",
			Suggestion: "verify the hostname character-by-character; it mixes Unicode scripts",
		}
	}
	return Decision{}
}
