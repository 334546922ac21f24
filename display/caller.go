package display

import "os"

// IsAgentCaller reports whether the CLI runs under a coding agent rather
// than a person. WATERCOLOR_CALLER=llm forces it; otherwise the variables
// known agent tools export are checked.
func IsAgentCaller() bool {
	if os.Getenv("WATERCOLOR_CALLER") == "llm" {
		return true
	}
	for _, env := range []string{"CLAUDECODE", "CLAUDE_CODE_ENTRYPOINT", "CURSOR", "GITHUB_COPILOT"} {
		if os.Getenv(env) != "" {
			return true
		}
	}
	return false
}
