// Package shellshield is the root of the ShellShield repository: a
// pre-execution gate that decides whether to allow, warn, or block a
// candidate shell command line before a coding-agent hook, interactive
// preexec trap, or bracketed paste hands it to a real shell.
//
// The analyzer itself lives in pkg/shellshield; internal/cli and
// cmd/shellshield wire it into a command-line tool. See SPEC_FULL.md and
// DESIGN.md for the full design and grounding ledger.
//
// Basic usage of the analyzer package:
//
//	cfg := shellshield.DefaultConfig()
//	az := shellshield.NewAnalyzer(cfg, nil, nil)
//	decision := az.Analyze("rm -rf /")
//	if decision.Blocked {
//		fmt.Println(decision.Reason, decision.Suggestion)
//	}
package shellshield
