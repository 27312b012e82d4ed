package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/labforge/pkg/advisor"
	"github.com/matzehuels/labforge/pkg/assist"
	"github.com/matzehuels/labforge/pkg/session"
	"github.com/matzehuels/labforge/pkg/topology"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleHeader    = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleAssistant = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconBullet  = "•"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints the node and link counters on a single line.
func printStats(st session.Stats) {
	fmt.Println("  " + StyleDim.Render(formatStats(st)))
}

func formatStats(st session.Stats) string {
	return fmt.Sprintf("%d nodes · %d links", st.Nodes, st.Links)
}

// =============================================================================
// Topology & Advice
// =============================================================================

// renderTopology draws the node list as a table.
func renderTopology(snap topology.Snapshot) string {
	rows := make([][]string, 0, len(snap.Nodes))
	for _, n := range snap.Nodes {
		rows = append(rows, []string{
			n.Name,
			string(n.Type),
			formatNum(n.CPU),
			formatNum(n.RAM) + " GB",
			formatNum(n.Net) + " Gbps",
			formatNum(n.VRAM) + " GB",
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Type", "CPU", "RAM", "Net", "VRAM").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader.Padding(0, 1)
			case col == 0:
				return StyleHighlight.Padding(0, 1)
			default:
				return StyleValue.Padding(0, 1)
			}
		})
	return t.Render()
}

// renderLinks lists links one per line.
func renderLinks(snap topology.Snapshot) string {
	var b strings.Builder
	for _, l := range snap.Links {
		fmt.Fprintf(&b, "  %s %s %s  %s\n",
			StyleValue.Render(l.Source), StyleDim.Render("⇄"), StyleValue.Render(l.Target),
			StyleDim.Render(formatNum(l.BW)+" Gbps "+l.Media))
	}
	return b.String()
}

// renderDisplay formats the advice panel. Findings colour the advice lines by
// severity; they are matched by position.
func renderDisplay(lines []assist.Line, findings []advisor.Finding) string {
	var b strings.Builder
	i := 0
	for _, l := range lines {
		switch l.Kind {
		case assist.LineAdvice:
			style := StyleValue
			if i < len(findings) {
				switch findings[i].Severity {
				case advisor.SeverityWarning:
					style = StyleWarning
				case advisor.SeverityHint:
					style = StyleHighlight
				case advisor.SeverityOK:
					style = StyleSuccess
				}
			}
			i++
			b.WriteString(StyleDim.Render(iconBullet) + " " + style.Render(l.Text))
		case assist.LineAssistant:
			b.WriteString(styleAssistant.Render(l.Text))
		case assist.LineSeparator:
			b.WriteString(StyleDim.Render(strings.Repeat("─", 40)))
		case assist.LineCaption:
			b.WriteString(StyleDim.Render(l.Text))
		case assist.LineNotice:
			b.WriteString(StyleWarning.Render(l.Text))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Utilities
// =============================================================================

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}
