// analyzer.go: the analyzer façade
//
// Orchestrates phases, enforces subshell recursion depth, and annotates the
// winning rule — spec.md §4.8. Grounded on pkg/orpheus/app.go's fluent
// New(...).Set...() builder style, adapted to a pure analysis entry point
// rather than a CLI dispatcher.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package shellshield

// Decision is the analyzer's verdict for one command — spec.md §3. When
// Blocked is false, Reason/Suggestion/Rule are empty.
type Decision struct {
	Blocked    bool
	Reason     string
	Suggestion string
	Rule       string
}

// Analyzer is the pure, synchronous façade a caller (CLI hook, preexec trap)
// invokes once per candidate command line. It holds no mutable state of its
// own beyond what it was constructed with — spec.md §5's concurrency model.
type Analyzer struct {
	config *Config
	shell  *ShellContext
	git    GitStatus
	engine *Engine
}

// NewAnalyzer builds an Analyzer from a Config. shell may be nil (no
// contextPath configured); a nil GitStatus falls back to the os/exec-backed
// implementation.
func NewAnalyzer(cfg *Config, shell *ShellContext, git GitStatus) *Analyzer {
	if git == nil {
		git = NewGitStatus()
	}
	return &Analyzer{config: cfg, shell: shell, git: git, engine: NewEngine()}
}

// Analyze implements spec.md §4.8 end to end: depth check, pre-phase rules,
// tokenization, post-phase rules, Allowed otherwise.
func (a *Analyzer) Analyze(command string) Decision {
	return a.analyzeAt(command, 0)
}

func (a *Analyzer) analyzeAt(command string, depth int) Decision {
	if depth > a.config.MaxSubshellDepth {
		return Decision{
			Blocked:    true,
			Reason:     "SUBSHELL DEPTH LIMIT EXCEEDED",
			Suggestion: "reduce nested shell invocations or raise maxSubshellDepth deliberately",
			Rule:       "Analyzer",
		}
	}

	preCtx := &RuleContext{Raw: command, Config: a.config, Shell: a.shell, Git: a.git, Depth: depth}
	if d := a.engine.Run(PhasePre, preCtx); d.Blocked {
		return d
	}

	tokens, err := Tokenize(command)
	if err != nil {
		return Decision{
			Blocked:    true,
			Reason:     "MALFORMED COMMAND SYNTAX",
			Suggestion: "check quoting and balanced parens/brackets",
			Rule:       "Tokenizer",
		}
	}

	postCtx := &RuleContext{
		Raw:    command,
		Tokens: tokens,
		Config: a.config,
		Shell:  a.shell,
		Git:    a.git,
		Depth:  depth,
		Analyze: func(inner string, d int) Decision {
			return a.analyzeAt(inner, d)
		},
	}
	if d := a.engine.Run(PhasePost, postCtx); d.Blocked {
		return d
	}

	return Decision{}
}
