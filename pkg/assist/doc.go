// Package assist runs an optional external assistant next to the rule-based
// advisor.
//
// A [Summarizer] turns a topology snapshot into free text. [Noop] is the
// default and reports [ErrNotConfigured]; [ChatClient] calls an
// OpenAI-compatible chat completions endpoint. The assistant only ever sees
// the node and link counts, formatted by [Prompt].
//
// [Runner] owns the background call. Enabling starts a cancellable
// goroutine; disabling cancels it and bumps a generation counter so that a
// response arriving afterwards is dropped. A failure moves the runner to
// [StateUnavailable] and switches it off until the user enables it again.
//
// [Compose] merges the runner status with the advisor output into the lines
// a UI displays: assistant text first, then a caption stating the heuristics
// stay active, then the advice.
package assist
