// rules.go: the Rule interface and the fixed ordered Engine
//
// Grounded on _examples/fnzv-trash/safeguard.go's SafeguardRule{Name,Check,Reason}
// list with first-match-wins semantics — the closest rule-engine analog in the
// retrieval pack — generalized from a single Check func to the phase-tagged,
// Decision-returning shape spec.md §4/§9 requires.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package shellshield

// Phase marks when a Rule runs relative to tokenization.
type Phase int

const (
	// PhasePre rules run on the raw command string before tokenization.
	PhasePre Phase = iota
	// PhasePost rules run on the token stream produced by Tokenize.
	PhasePost
)

// RuleContext carries everything a Rule needs to evaluate one command. It is
// assembled once per analyzer invocation (and once per recursive subshell
// analysis) and is never mutated by a Rule.
type RuleContext struct {
	Raw     string
	Tokens  []Token
	Config  *Config
	Shell   *ShellContext
	Git     GitStatus
	Depth   int
	Analyze func(inner string, depth int) Decision // recursive entry point, for Rule uses that need it (CoreAst only)
}

// Rule is one named, ordered check. Check returns a blocking Decision, or the
// zero Decision ({Blocked:false}) to mean "no opinion, continue."
type Rule interface {
	Name() string
	Phase() Phase
	Check(rc *RuleContext) Decision
}

// Engine runs a fixed, ordered list of Rules. The first blocking Decision
// wins; later rules are not consulted — spec.md §4/§8's "first blocking rule
// wins" invariant.
type Engine struct {
	rules []Rule
}

// NewEngine builds the engine with ShellShield's fixed rule set and order:
// Homograph, TerminalInjection, RawThreat (pre); Custom, CoreAst (post).
func NewEngine() *Engine {
	return &Engine{
		rules: []Rule{
			&HomographRule{},
			&TerminalInjectionRule{},
			&RawThreatRule{},
			&CustomRegexRule{},
			&CoreAstRule{},
		},
	}
}

// RulesForPhase returns the rules belonging to a phase, in declaration order.
func (e *Engine) RulesForPhase(p Phase) []Rule {
	var out []Rule
	for _, r := range e.rules {
		if r.Phase() == p {
			out = append(out, r)
		}
	}
	return out
}

// Run evaluates every rule for the given phase in order and returns the first
// blocking Decision, annotated with the firing rule's name. A zero Decision
// means no rule in this phase blocked.
func (e *Engine) Run(phase Phase, rc *RuleContext) Decision {
	for _, r := range e.RulesForPhase(phase) {
		d := r.Check(rc)
		if d.Blocked {
			d.Rule = r.Name()
			return d
		}
	}
	return Decision{}
}
