package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	lferrors "github.com/matzehuels/labforge/pkg/errors"
	"github.com/matzehuels/labforge/pkg/session"
	"github.com/matzehuels/labforge/pkg/topology"
)

// Form defaults applied to empty fields.
const (
	defaultNet   = 1.0
	defaultBW    = 1.0
	defaultMedia = topology.MediaEthernet
)

// Export file names written by the editor.
const (
	editorJSONFile = "homelab_topology.json"
	editorPlanFile = "build_plan.yaml"
)

var (
	formLabelStyle = lipgloss.NewStyle().Foreground(colorGray).Width(8)
	formFocusStyle = lipgloss.NewStyle().Foreground(colorCyan).Width(8)
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	errorLineStyle = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Form parsing
// =============================================================================

// parseNumber reads a form number. Empty input yields def.
func parseNumber(field, raw string, def float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, lferrors.New(lferrors.ErrCodeInvalidInput, "%s must be a number, got %q", field, raw)
	}
	return v, nil
}

// parseNodeForm builds a node from the add-node fields
// (name, type, cpu, ram, net, vram). An empty type means the first known type.
func parseNodeForm(values []string) (topology.Node, error) {
	n := topology.Node{
		Name: strings.TrimSpace(values[0]),
		Type: topology.NodeType(strings.TrimSpace(values[1])),
	}
	if n.Type == "" {
		n.Type = topology.KnownTypes[0]
	}
	var err error
	if n.CPU, err = parseNumber("cpu", values[2], 0); err != nil {
		return n, err
	}
	if n.RAM, err = parseNumber("ram", values[3], 0); err != nil {
		return n, err
	}
	if n.Net, err = parseNumber("net", values[4], defaultNet); err != nil {
		return n, err
	}
	if n.VRAM, err = parseNumber("vram", values[5], 0); err != nil {
		return n, err
	}
	return n, nil
}

// parseLinkForm builds a link from the add-link fields
// (source, target, bw, media).
func parseLinkForm(values []string) (topology.Link, error) {
	l := topology.Link{
		Source: strings.TrimSpace(values[0]),
		Target: strings.TrimSpace(values[1]),
		Media:  strings.TrimSpace(values[3]),
	}
	if l.Media == "" {
		l.Media = defaultMedia
	}
	var err error
	if l.BW, err = parseNumber("bandwidth", values[2], defaultBW); err != nil {
		return l, err
	}
	return l, nil
}

// =============================================================================
// EditorModel - interactive topology editor
// =============================================================================

type editorMode int

const (
	modeBrowse editorMode = iota
	modeNode
	modeLink
)

// viewMsg delivers a session view published outside the update loop, such
// as an assistant result.
type viewMsg session.View

// form is a focused list of text inputs.
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(fields [][2]string) form {
	f := form{}
	for _, fl := range fields {
		ti := textinput.New()
		ti.Placeholder = fl[1]
		ti.CharLimit = 64
		f.labels = append(f.labels, fl[0])
		f.inputs = append(f.inputs, ti)
	}
	f.inputs[0].Focus()
	return f
}

func newNodeForm() form {
	types := make([]string, len(topology.KnownTypes))
	for i, t := range topology.KnownTypes {
		types[i] = string(t)
	}
	return newForm([][2]string{
		{"name", "nas-02"},
		{"type", strings.Join(types, " | ")},
		{"cpu", "cores"},
		{"ram", "GB"},
		{"net", "Gbps (default 1)"},
		{"vram", "GB, 0 if none"},
	})
}

func newLinkForm() form {
	return newForm([][2]string{
		{"from", "node name"},
		{"to", "node name"},
		{"bw", "Gbps (default 1)"},
		{"media", topology.MediaEthernet + " | " + topology.MediaDAC + " | " + topology.MediaThunderbolt},
	})
}

func (f *form) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f form) values() []string {
	out := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		out[i] = in.Value()
	}
	return out
}

func (f form) view() string {
	var b strings.Builder
	for i, in := range f.inputs {
		label := formLabelStyle
		if i == f.focus {
			label = formFocusStyle
		}
		b.WriteString(label.Render(f.labels[i]) + " " + in.View() + "\n")
	}
	return b.String()
}

// EditorModel is the bubbletea model behind `labforge edit`.
type EditorModel struct {
	ctx    context.Context
	sess   *session.Session
	view   session.View
	mode   editorMode
	form   form
	status string
	err    string
	outDir string
}

// NewEditorModel creates an editor over sess. Exports are written to outDir.
func NewEditorModel(ctx context.Context, sess *session.Session, outDir string) EditorModel {
	return EditorModel{ctx: ctx, sess: sess, view: sess.View(), outDir: outDir}
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewMsg:
		if msg.Version > m.view.Version {
			m.view = session.View(msg)
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.mode == modeBrowse {
			return m.updateBrowse(msg)
		}
		return m.updateForm(msg)
	}
	return m, nil
}

func (m EditorModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = ""
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "n":
		m.mode, m.form, m.status = modeNode, newNodeForm(), ""
		return m, textinput.Blink
	case "l":
		m.mode, m.form, m.status = modeLink, newLinkForm(), ""
		return m, textinput.Blink
	case "a":
		m.view = m.sess.ToggleAssistant(m.ctx)
		m.status = "Assistant " + string(m.view.Assistant.State)
	case "s":
		m.apply(m.sess.Seed(m.ctx, topology.DefaultSeed().Nodes, topology.DefaultSeed().Links))
		if m.err == "" {
			m.status = "Demo lab added"
		}
	case "r":
		m.view = m.sess.Reset(m.ctx)
		m.status = "Topology cleared"
	case "j":
		m.export(editorJSONFile, m.sess.ExportJSON)
	case "p":
		m.export(editorPlanFile, m.sess.ExportPlan)
	}
	return m, nil
}

func (m EditorModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode, m.err = modeBrowse, ""
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.form.move(1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.form.move(-1)
	case tea.KeyEnter:
		if m.form.focus < len(m.form.inputs)-1 {
			return m, m.form.move(1)
		}
		m.submit()
		return m, nil
	}
	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

// submit runs the form's command. On failure the form stays open with the
// error shown.
func (m *EditorModel) submit() {
	switch m.mode {
	case modeNode:
		n, err := parseNodeForm(m.form.values())
		if err != nil {
			m.err = lferrors.UserMessage(err)
			return
		}
		if m.apply(m.sess.AddNode(m.ctx, n)) {
			m.status = "Added node " + n.Name
		}
	case modeLink:
		l, err := parseLinkForm(m.form.values())
		if err != nil {
			m.err = lferrors.UserMessage(err)
			return
		}
		if m.apply(m.sess.AddLink(m.ctx, l)) {
			m.status = fmt.Sprintf("Added link %s ⇄ %s", l.Source, l.Target)
		}
	}
	if m.err == "" {
		m.mode = modeBrowse
	}
}

// apply records the outcome of a session command.
func (m *EditorModel) apply(v session.View, err error) bool {
	if err != nil {
		m.err = lferrors.UserMessage(err)
		return false
	}
	m.view, m.err = v, ""
	return true
}

func (m *EditorModel) export(name string, write func(w io.Writer) error) {
	path := filepath.Join(m.outDir, name)
	f, err := os.Create(path)
	if err != nil {
		m.err = err.Error()
		return
	}
	defer f.Close()
	if err := write(f); err != nil {
		m.err = lferrors.UserMessage(err)
		return
	}
	m.status = "Wrote " + path
}

func (m EditorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Labforge"))
	b.WriteString("  " + StyleDim.Render(formatStats(m.view.Stats)) + "\n\n")
	b.WriteString(renderTopology(m.view.Topology) + "\n")
	b.WriteString(renderLinks(m.view.Topology) + "\n")
	b.WriteString(panelStyle.Render(strings.TrimRight(renderDisplay(m.view.Display, m.view.Findings), "\n")))
	b.WriteString("\n\n")

	switch m.mode {
	case modeNode:
		b.WriteString(StyleHighlight.Render("Add node") + "\n" + m.form.view())
		b.WriteString(listDimStyle.Render("tab next  ⏎ submit  esc cancel") + "\n")
	case modeLink:
		b.WriteString(StyleHighlight.Render("Add link") + "\n" + m.form.view())
		b.WriteString(listDimStyle.Render("tab next  ⏎ submit  esc cancel") + "\n")
	default:
		b.WriteString(listDimStyle.Render("n node  l link  a assistant  s demo  r reset  j json  p plan  q quit") + "\n")
	}

	if m.err != "" {
		b.WriteString(errorLineStyle.Render(iconError+" "+m.err) + "\n")
	} else if m.status != "" {
		b.WriteString(StyleSuccess.Render(iconSuccess+" "+m.status) + "\n")
	}
	return b.String()
}

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
