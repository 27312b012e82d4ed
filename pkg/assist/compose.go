package assist

// Fixed display strings.
const (
	Caption     = "Assistant active – rule-based advice remains active as fallback."
	LoadingText = "Loading assistant…"
	Unavailable = "Assistant could not be reached (endpoint/network/quota). Heuristics active."
	TextPrefix  = "Assistant: "
)

// LineKind tells a UI how to style a display line.
type LineKind string

const (
	LineAssistant LineKind = "assistant"
	LineSeparator LineKind = "separator"
	LineCaption   LineKind = "caption"
	LineNotice    LineKind = "notice"
	LineAdvice    LineKind = "advice"
)

// Line is one entry of the advice panel.
type Line struct {
	Kind LineKind `json:"kind"`
	Text string   `json:"text,omitempty"`
}

// Compose merges the assistant status with the advisor output.
//
// Disabled shows the advice alone. Loading and Ready put the caption ahead
// of the advice; Ready additionally puts the assistant text and a separator
// in front. Unavailable shows the fixed notice followed by the advice.
func Compose(st Status, advice []string) []Line {
	var out []Line
	switch st.State {
	case StateReady:
		out = append(out,
			Line{Kind: LineAssistant, Text: TextPrefix + st.Text},
			Line{Kind: LineSeparator},
			Line{Kind: LineCaption, Text: Caption},
		)
	case StateLoading:
		out = append(out,
			Line{Kind: LineNotice, Text: LoadingText},
			Line{Kind: LineCaption, Text: Caption},
		)
	case StateUnavailable:
		out = append(out, Line{Kind: LineNotice, Text: Unavailable})
	}
	for _, a := range advice {
		out = append(out, Line{Kind: LineAdvice, Text: a})
	}
	return out
}

// Plain renders lines as text, bulleting advice and drawing the separator
// as a rule.
func Plain(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		switch l.Kind {
		case LineAdvice:
			out = append(out, "• "+l.Text)
		case LineSeparator:
			out = append(out, "────────")
		default:
			out = append(out, l.Text)
		}
	}
	return out
}
