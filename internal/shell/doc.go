// Package shell generates the eval-able command stream and per-shell hook
// snippets (chpwd for Zsh, PROMPT_COMMAND for Bash, --on-variable for Fish)
// that run envctx activate on every prompt redraw. Everything printed to
// stdout by envctx activate is eval'd by the hosting shell, so output from
// this package must stay a clean command stream.
package shell
