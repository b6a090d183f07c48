// rule_coreast.go: the token-aware CoreAst rule
//
// This is the bulk of the analyzer (spec.md §2's budget allocates it 30% of
// core). Grounded on
// _examples/other_examples/ace14b47_alvinunreal-tmuxai__internal-risk_scorer.go.go's
// ParseCommand/evaluateComponent component walk and redirect-target handling,
// and on
// _examples/other_examples/d1bcd32d_ppipada-llmtools-go__exectool-shell.go.go's
// shell/-c argument derivation for the subshell recursion step.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package shellshield

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// VarMap is the per-command, local-to-the-walk name -> literal value table
// populated from leading K=V assignments (spec.md §3, §9).
type VarMap map[string]string

// boundaryOperators reset nextMustBeCommand — spec.md §4.7.
var boundaryOperators = map[string]bool{
	"&&": true, "||": true, ";": true, "&": true, "|": true, "|&": true,
}

// outputRedirectOperators are the operators whose target word is checked for
// sensitive-path targeting (spec.md §4.7's redirection-operator bullet).
var outputRedirectOperators = map[string]bool{
	">": true, ">>": true, "&>": true, ">&": true, "1>": true, "1>>": true, "2>": true, "2>>": true,
}

// inputRedirectOperators still consume the next word as a target (so it is
// not mistaken for a command word or file target) but are not checked for
// sensitive-path targeting.
var inputRedirectOperators = map[string]bool{
	"<": true, "<<": true, "<<<": true, "<>": true, "<&": true,
}

// CoreAstRule walks the token stream performing every token-aware check spec.md
// §4.7 describes.
type CoreAstRule struct{}

func (r *CoreAstRule) Name() string { return "CoreAst" }
func (r *CoreAstRule) Phase() Phase { return PhasePost }

func (r *CoreAstRule) Check(rc *RuleContext) Decision {
	w := &coreWalker{tokens: rc.Tokens, rc: rc, vars: VarMap{}}
	return w.run()
}

type coreWalker struct {
	tokens []Token
	rc     *RuleContext
	vars   VarMap
}

func (w *coreWalker) run() Decision {
	nextMustBeCommand := true
	i := 0
	for i < len(w.tokens) {
		tok := w.tokens[i]

		if tok.Kind == TokOperator {
			if tok.Text == "<(" {
				if i+1 < len(w.tokens) {
					inner := strings.TrimSpace(w.tokens[i+1].Text)
					if startsWithDownloader(inner) {
						return Decision{
							Blocked:    true,
							Reason:     "PROCESS SUBSTITUTION DETECTED",
							Suggestion: "download to a file and inspect it before running",
						}
					}
				}
				i += 2
				continue
			}
			if boundaryOperators[tok.Text] {
				nextMustBeCommand = true
				i++
				continue
			}
			if outputRedirectOperators[tok.Text] || inputRedirectOperators[tok.Text] {
				if i+1 < len(w.tokens) && w.tokens[i+1].Kind == TokWord {
					target := w.resolveWord(w.tokens[i+1].Text)
					if outputRedirectOperators[tok.Text] && isSensitivePath(target) {
						return Decision{
							Blocked:    true,
							Reason:     "SENSITIVE PATH TARGETED",
							Suggestion: "redirect to a path outside " + target,
						}
					}
					i += 2
					continue
				}
			}
			i++
			continue
		}

		// tok.Kind == TokWord
		if !nextMustBeCommand {
			if d := w.checkSensitiveOutputFlag(i); d.Blocked {
				return d
			}
			i++
			continue
		}

		if assignmentRe.MatchString(tok.Text) {
			name, val := splitAssignment(tok.Text)
			w.vars[name] = w.resolveWord(val)
			i++
			continue
		}

		if execPrefixes[tok.Text] {
			i++
			continue
		}

		resolvedCmd := w.resolveCommandName(tok.Text)

		if resolvedCmd == "git" && i+1 < len(w.tokens) && w.tokens[i+1].Kind == TokWord &&
			w.resolveWord(w.tokens[i+1].Text) == "rm" {
			i += 2
			nextMustBeCommand = false
			continue
		}

		if w.rc.Config.Allowed[resolvedCmd] {
			nextMustBeCommand = false
			i++
			continue
		}

		if d := w.checkShellContextOverride(resolvedCmd); d.Blocked {
			return d
		}

		if d := w.dispatch(resolvedCmd, i); d.Blocked {
			return d
		}

		nextMustBeCommand = false
		i++
	}
	return Decision{}
}

// dispatch routes the effective command to the check appropriate for it.
func (w *coreWalker) dispatch(resolvedCmd string, idx int) Decision {
	segEnd, opAfter := w.segmentBounds(idx)
	seg := w.tokens[idx:segEnd]

	switch resolvedCmd {
	case "find":
		return w.checkFind(seg)
	case "sh", "bash", "zsh", "dash", "ksh", "fish":
		if d := w.checkSubshellRecursion(resolvedCmd, seg); d.Blocked {
			return d
		}
		if d := w.checkInlineProcessSubstitution(resolvedCmd, seg); d.Blocked {
			return d
		}
		return Decision{}
	case "curl", "wget":
		return w.checkDownloader(resolvedCmd, seg, segEnd, opAfter)
	default:
		return w.checkBlockedCommand(resolvedCmd, seg)
	}
}

// segmentBounds returns the index just past the current command's segment
// (up to, but excluding, the next boundary operator) and that operator's
// text ("" if the command runs to the end of input).
func (w *coreWalker) segmentBounds(start int) (end int, opAfter string) {
	i := start
	for i < len(w.tokens) {
		t := w.tokens[i]
		if t.Kind == TokOperator && boundaryOperators[t.Text] {
			return i, t.Text
		}
		i++
	}
	return i, ""
}

// segmentWords resolves every Word token in a segment, skipping the command
// name itself (index 0) and any redirect target word.
func (w *coreWalker) segmentWords(seg []Token) (raw []string, resolved []string) {
	i := 1 // skip command name
	for i < len(seg) {
		t := seg[i]
		if t.Kind == TokOperator {
			if (outputRedirectOperators[t.Text] || inputRedirectOperators[t.Text]) && i+1 < len(seg) {
				i += 2
				continue
			}
			i++
			continue
		}
		raw = append(raw, t.Text)
		resolved = append(resolved, w.resolveWord(t.Text))
		i++
	}
	return raw, resolved
}

// resolveWord expands $NAME / ${NAME} / ${NAME:-default} via the local VarMap
// then the process environment, leaving unresolved references as literal
// placeholders (spec.md §4/§9).
func (w *coreWalker) resolveWord(s string) string {
	return varRefRe.ReplaceAllStringFunc(s, func(m string) string {
		groups := varRefRe.FindStringSubmatch(m)
		name := groups[1]
		fallback := strings.TrimPrefix(groups[2], ":-")
		if name == "" {
			name = groups[3]
		}
		if v, ok := w.vars[name]; ok {
			return v
		}
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		if fallback != "" {
			return fallback
		}
		return m
	})
}

// resolveCommandName implements spec.md §4.7's name-resolution algorithm.
func (w *coreWalker) resolveCommandName(raw string) string {
	resolved := w.resolveWord(raw)
	resolved = strings.TrimPrefix(resolved, `\`)
	resolved = basename(resolved)
	return strings.ToLower(resolved)
}

func basename(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return filepath.Base(p)
}

func splitAssignment(word string) (name, value string) {
	idx := strings.IndexByte(word, '=')
	if idx < 0 {
		return word, ""
	}
	return word[:idx], word[idx+1:]
}

func startsWithDownloader(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "curl") || strings.HasPrefix(s, "wget")
}

// checkShellContextOverride implements spec.md §4.4.
func (w *coreWalker) checkShellContextOverride(resolvedCmd string) Decision {
	if w.rc.Config.Blocked[resolvedCmd] {
		return Decision{}
	}
	entry, ok := w.rc.Shell.Lookup(resolvedCmd)
	if !ok {
		return Decision{}
	}
	if entry.ReferencesBlocked(w.rc.Config.Blocked) {
		return Decision{
			Blocked:    true,
			Reason:     "SHELL CONTEXT OVERRIDE DETECTED",
			Suggestion: "inspect with `type " + resolvedCmd + "` and bypass with \\" + resolvedCmd + " or `command " + resolvedCmd + "`",
		}
	}
	return Decision{}
}

// checkSensitiveOutputFlag implements spec.md §4.7's "sensitive-path write
// target" bullet for non-command-position words.
func (w *coreWalker) checkSensitiveOutputFlag(i int) Decision {
	tok := w.tokens[i]
	if tok.Kind != TokWord {
		return Decision{}
	}
	if target, ok := inlineOutputFlagValue(tok.Text); ok {
		if isSensitivePath(w.resolveWord(target)) {
			return sensitivePathDecision(target)
		}
		return Decision{}
	}
	if isOutputFlagWord(tok.Text) && i+1 < len(w.tokens) && w.tokens[i+1].Kind == TokWord {
		target := w.resolveWord(w.tokens[i+1].Text)
		if isSensitivePath(target) {
			return sensitivePathDecision(target)
		}
	}
	return Decision{}
}

func sensitivePathDecision(target string) Decision {
	return Decision{
		Blocked:    true,
		Reason:     "SENSITIVE PATH TARGETED",
		Suggestion: "write somewhere other than " + target,
	}
}

func isOutputFlagWord(w string) bool {
	switch w {
	case "-o", "-O", "--output", "--output-document":
		return true
	}
	return false
}

// inlineOutputFlagValue recognizes "--output=path", "--output-document=path",
// and the glued short-flag form "-o<path>".
func inlineOutputFlagValue(w string) (value string, ok bool) {
	for _, prefix := range []string{"--output=", "--output-document="} {
		if strings.HasPrefix(w, prefix) {
			return w[len(prefix):], true
		}
	}
	if strings.HasPrefix(w, "-o") && len(w) > 2 && w[2] != '-' {
		return w[2:], true
	}
	return "", false
}

// checkFind implements spec.md §4.7's `find` handling.
func (w *coreWalker) checkFind(seg []Token) Decision {
	for i := 1; i < len(seg); i++ {
		if seg[i].Kind != TokWord {
			continue
		}
		switch seg[i].Text {
		case "-delete":
			return Decision{
				Blocked:    true,
				Reason:     "DESTRUCTIVE FIND ACTION: -delete",
				Suggestion: "review matches first, then delete explicitly with trash",
			}
		case "-exec", "-execdir", "-ok":
			if i+1 < len(seg) && seg[i+1].Kind == TokWord {
				executor := basename(w.resolveWord(seg[i+1].Text))
				executor = strings.ToLower(executor)
				if w.rc.Config.Blocked[executor] || findExtraDestructive[executor] || findExecutors[executor] {
					return Decision{
						Blocked:    true,
						Reason:     "DESTRUCTIVE FIND ACTION: " + seg[i].Text + " " + executor,
						Suggestion: "review matches first, then invoke the destructive action explicitly",
					}
				}
			}
		}
	}
	return Decision{}
}

// checkSubshellRecursion implements spec.md §4.7's shell `-c` recursion.
func (w *coreWalker) checkSubshellRecursion(_ string, seg []Token) Decision {
	for i := 1; i < len(seg); i++ {
		if seg[i].Kind == TokWord && seg[i].Text == "-c" && i+1 < len(seg) && seg[i+1].Kind == TokWord {
			if w.rc.Depth >= w.rc.Config.MaxSubshellDepth {
				return Decision{
					Blocked:    true,
					Reason:     "SUBSHELL DEPTH LIMIT EXCEEDED",
					Suggestion: "reduce nested shell invocations or raise maxSubshellDepth deliberately",
				}
			}
			inner := w.resolveWord(seg[i+1].Text)
			return w.rc.Analyze(inner, w.rc.Depth+1)
		}
	}
	return Decision{}
}

// checkInlineProcessSubstitution implements spec.md §4.7's
// "inline process substitution in shells" bullet.
func (w *coreWalker) checkInlineProcessSubstitution(_ string, seg []Token) Decision {
	for i := 1; i < len(seg); i++ {
		if seg[i].Kind != TokWord {
			continue
		}
		resolved := w.resolveWord(seg[i].Text)
		if strings.Contains(resolved, "<(curl") || strings.Contains(resolved, "<(wget") {
			return Decision{
				Blocked:    true,
				Reason:     "PROCESS SUBSTITUTION DETECTED",
				Suggestion: "download to a file and inspect it before running",
			}
		}
	}
	return Decision{}
}

// checkDownloader implements spec.md §4.7's curl/wget handling: credential
// exposure, pipe-to-shell, and download-and-exec correlation.
func (w *coreWalker) checkDownloader(cmd string, seg []Token, segEnd int, opAfter string) Decision {
	_, resolvedArgs := w.segmentWords(seg)
	urls := extractURLs(resolvedArgs)

	for _, u := range urls {
		if hasUserInfo(u) {
			return Decision{
				Blocked:    true,
				Reason:     "CREDENTIAL EXPOSURE DETECTED",
				Suggestion: "pass credentials via a netrc file or an environment variable, not the URL",
			}
		}
	}

	if opAfter == "|" || opAfter == "|&" {
		if d := w.checkPipeToShell(cmd, resolvedArgs, urls, segEnd); d.Blocked {
			return d
		}
	}

	if d := w.checkDownloadAndExec(cmd, resolvedArgs, urls, segEnd, opAfter); d.Blocked {
		return d
	}

	return Decision{}
}

func hasUserInfo(rawURL string) bool {
	idx := strings.Index(rawURL, "://")
	if idx < 0 {
		return false
	}
	rest := rawURL[idx+3:]
	slash := strings.IndexByte(rest, '/')
	if slash >= 0 {
		rest = rest[:slash]
	}
	return strings.Contains(rest, "@")
}

func extractURLs(words []string) []string {
	var urls []string
	for _, w := range words {
		if strings.Contains(w, "://") {
			urls = append(urls, w)
		}
	}
	return urls
}

// checkPipeToShell implements spec.md §4.7's pipe-to-shell branch.
func (w *coreWalker) checkPipeToShell(_ string, args []string, urls []string, pipeIdx int) Decision {
	shellSegStart := pipeIdx + 1
	if shellSegStart >= len(w.tokens) {
		return Decision{}
	}
	shellEnd, nextOp := w.segmentBounds(shellSegStart)
	shellSeg := w.tokens[shellSegStart:shellEnd]
	if len(shellSeg) == 0 || shellSeg[0].Kind != TokWord {
		return Decision{}
	}
	shellCmd := w.resolveCommandName(shellSeg[0].Text)
	if !shellInterpreters[shellCmd] {
		return Decision{}
	}

	for _, u := range urls {
		if strings.HasPrefix(strings.ToLower(u), "http://") {
			return Decision{
				Blocked:    true,
				Reason:     "INSECURE TRANSPORT DETECTED",
				Suggestion: "use an https:// URL",
			}
		}
	}
	for _, a := range args {
		if certBypassFlags[a] {
			return Decision{
				Blocked:    true,
				Reason:     "INSECURE TRANSPORT DETECTED",
				Suggestion: "remove the certificate-verification bypass flag",
			}
		}
	}

	singlePipeStage := nextOp != "|" && nextOp != "|&"
	if singlePipeStage && len(urls) > 0 && isTrustedDomain(urls[0], w.rc.Config.TrustedDomains) {
		return Decision{}
	}

	return Decision{
		Blocked:    true,
		Reason:     "PIPE-TO-SHELL DETECTED",
		Suggestion: "download the script to a file, review it, then run it explicitly",
	}
}

// checkDownloadAndExec implements spec.md §4.7's download-and-exec
// correlation across a control operator.
func (w *coreWalker) checkDownloadAndExec(cmd string, args []string, urls []string, segEnd int, opAfter string) Decision {
	if opAfter != "&&" && opAfter != ";" && opAfter != "||" && opAfter != "&" {
		return Decision{}
	}
	targets := w.downloaderOutputTargets(cmd, args, urls)
	if len(targets) == 0 {
		return Decision{}
	}

	nextStart := segEnd + 1
	if nextStart >= len(w.tokens) || w.tokens[nextStart].Kind != TokWord {
		return Decision{}
	}
	nextEnd, _ := w.segmentBounds(nextStart)
	nextSeg := w.tokens[nextStart:nextEnd]
	nextCmd := w.resolveCommandName(nextSeg[0].Text)

	if !isExecLikeCommand(nextCmd) {
		return Decision{}
	}

	_, nextArgs := w.segmentWords(nextSeg)
	for _, a := range nextArgs {
		if matchesAnyTarget(a, targets) {
			return Decision{
				Blocked:    true,
				Reason:     "DOWNLOAD-AND-EXEC DETECTED",
				Suggestion: "inspect the downloaded script before executing it",
			}
		}
	}
	return Decision{}
}

func isExecLikeCommand(cmd string) bool {
	if shellInterpreters[cmd] || nonShellInterpreters[cmd] {
		return true
	}
	switch cmd {
	case ".", "source", "exec", "chmod":
		return true
	}
	return false
}

func matchesAnyTarget(candidate string, targets []string) bool {
	for _, t := range targets {
		if candidate == t || filepath.Base(candidate) == filepath.Base(t) {
			return true
		}
	}
	return false
}

// downloaderOutputTargets implements spec.md §4.7's output-target derivation
// for curl and wget.
func (w *coreWalker) downloaderOutputTargets(cmd string, args []string, urls []string) []string {
	var targets []string
	explicitOutput := false
	remoteName := false

	for i := 0; i < len(args); i++ {
		a := args[i]
		if value, ok := inlineOutputFlagValue(a); ok {
			targets = append(targets, value)
			explicitOutput = true
			continue
		}
		switch a {
		case "-o", "--output", "--output-document":
			if i+1 < len(args) {
				targets = append(targets, args[i+1])
				explicitOutput = true
			}
		case "-O":
			remoteName = true
		default:
			if cmd == "curl" && strings.HasPrefix(a, "-") && !strings.HasPrefix(a, "--") && strings.Contains(a, "O") {
				remoteName = true
			}
		}
	}

	if remoteName || (cmd == "wget" && !explicitOutput) {
		for _, u := range urls {
			targets = append(targets, filepath.Base(u))
		}
	}
	return targets
}

// checkBlockedCommand implements spec.md §4.7's checkBlockedCommand,
// including the dd/mv-cp/chmod-chown-chgrp/systemctl special cases.
func (w *coreWalker) checkBlockedCommand(resolvedCmd string, seg []Token) Decision {
	rawArgs, resolvedArgs := w.segmentWords(seg)

	switch resolvedCmd {
	case "dd":
		for _, a := range resolvedArgs {
			if strings.HasPrefix(a, "of=") {
				return Decision{
					Blocked:    true,
					Reason:     "Destructive command 'dd' detected",
					Suggestion: "verify the output device/file before writing raw blocks",
				}
			}
		}
		return Decision{}

	case "mv", "cp":
		for _, a := range resolvedArgs {
			if !strings.HasPrefix(a, "-") && isCriticalPath(a) {
				return Decision{
					Blocked:    true,
					Reason:     "CRITICAL PATH PROTECTED",
					Suggestion: "do not target critical path " + a,
				}
			}
		}
		return Decision{}

	case "chmod", "chown", "chgrp":
		if !hasRecursiveFlag(resolvedArgs) {
			return Decision{}
		}
		for _, a := range resolvedArgs {
			if !strings.HasPrefix(a, "-") && isCriticalPath(a) {
				return Decision{
					Blocked:    true,
					Reason:     "CRITICAL PATH PROTECTED",
					Suggestion: "do not recursively target critical path " + a,
				}
			}
		}
		return Decision{}

	case "systemctl":
		if len(resolvedArgs) > 0 && systemctlDestructiveSubcommands[resolvedArgs[0]] {
			return Decision{
				Blocked:    true,
				Reason:     "Destructive command 'systemctl " + resolvedArgs[0] + "' detected",
				Suggestion: "confirm the unit name and run systemctl " + resolvedArgs[0] + " manually",
			}
		}
		return Decision{}
	}

	if !w.rc.Config.Blocked[resolvedCmd] {
		return Decision{}
	}
	return w.checkGenericDestructive(resolvedCmd, rawArgs, resolvedArgs)
}

func hasRecursiveFlag(args []string) bool {
	for _, a := range args {
		if a == "-R" || a == "--recursive" {
			return true
		}
		if strings.HasPrefix(a, "-") && !strings.HasPrefix(a, "--") && strings.Contains(a, "R") {
			return true
		}
	}
	return false
}

// checkGenericDestructive implements spec.md §4.7's four-step generic
// blocked-command check: critical path, volume threshold, uncommitted
// changes, then the default destructive-command Decision.
func (w *coreWalker) checkGenericDestructive(resolvedCmd string, _ []string, resolvedArgs []string) Decision {
	var targets []string
	for _, a := range resolvedArgs {
		if strings.HasPrefix(a, "-") {
			continue
		}
		targets = append(targets, a)
	}

	for _, t := range targets {
		if isCriticalPath(t) {
			return Decision{
				Blocked:    true,
				Reason:     "CRITICAL PATH PROTECTED",
				Suggestion: "do not target critical path " + t,
			}
		}
	}

	if len(targets) > w.rc.Config.Threshold {
		return Decision{
			Blocked:    true,
			Reason:     "VOLUME THRESHOLD EXCEEDED",
			Suggestion: "operate on fewer than " + strconv.Itoa(w.rc.Config.Threshold) + " targets at a time",
		}
	}

	if dirty := w.dirtyTargets(targets); len(dirty) > 0 {
		return Decision{
			Blocked:    true,
			Reason:     "UNCOMMITTED CHANGES DETECTED",
			Suggestion: "commit or stash changes in " + strings.Join(dirty, ", ") + " first",
		}
	}

	suggestion := "trash"
	if len(targets) > 0 {
		suggestion += " " + strings.Join(targets, " ")
	} else {
		suggestion += " <files>"
	}
	return Decision{
		Blocked:    true,
		Reason:     "Destructive command '" + resolvedCmd + "' detected",
		Suggestion: suggestion,
	}
}

// dirtyTargets batches a single git-status call over every existing target,
// per spec.md §5/§9's "one batched invocation, not one spawn per file."
func (w *coreWalker) dirtyTargets(targets []string) []string {
	var existing []string
	for _, t := range targets {
		if _, err := os.Stat(t); err == nil {
			existing = append(existing, t)
		}
	}
	if len(existing) == 0 || w.rc.Git == nil {
		return nil
	}
	dirty, err := w.rc.Git.Dirty(context.Background(), existing)
	if err != nil {
		return nil
	}
	var out []string
	for _, t := range existing {
		if dirty[t] {
			out = append(out, t)
		}
	}
	return out
}
