// internal/tui/wizard.go
//
// The interactive question flow for `backforge new`. It is a bubbletea
// model that walks through one question per step:
//
//	language -> orm -> framework -> project name -> features -> done
//
// ctrl+c or esc at any step aborts the whole run.

package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/backforge/internal/deps"
	"github.com/kingrea/backforge/internal/stack"
)

// ErrAborted is returned when the user cancels the wizard.
var ErrAborted = errors.New("tui: operation aborted")

type step int

const (
	stepLanguage step = iota
	stepORM
	stepFramework
	stepName
	stepFeatures
	stepDone
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	checkedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	defaultWidth  = 60
	defaultHeight = 12
)

// choiceItem implements list.Item for a single-select option.
type choiceItem struct {
	value string
	label string
}

func (i choiceItem) Title() string       { return i.label }
func (i choiceItem) Description() string { return i.value }
func (i choiceItem) FilterValue() string { return i.value }

// Wizard is the bubbletea model for the question flow.
type Wizard struct {
	step    step
	choices map[step]*list.Model
	name    textinput.Model

	features []deps.Feature
	cursor   int
	picked   map[string]bool

	answers stack.Answers
	errMsg  string
	aborted bool
	width   int
	height  int
}

// NewWizard builds the wizard with defaults preselected. features is the
// catalog offered on the last step, in display order.
func NewWizard(defaults stack.Answers, features []deps.Feature) *Wizard {
	w := &Wizard{
		choices:  map[step]*list.Model{},
		features: features,
		picked:   map[string]bool{},
		width:    defaultWidth,
		height:   defaultHeight,
	}
	w.choices[stepLanguage] = newChoiceList("Choose a language", stack.LanguageOptions, string(defaults.Language))
	w.choices[stepORM] = newChoiceList("Choose an ORM", stack.ORMOptions, string(defaults.ORM))
	w.choices[stepFramework] = newChoiceList("Choose a framework", stack.FrameworkOptions, string(defaults.Framework))

	name := textinput.New()
	name.Placeholder = stack.DefaultProjectName
	name.Prompt = "› "
	name.CharLimit = 214
	if defaults.ProjectName != "" {
		name.SetValue(defaults.ProjectName)
	}
	w.name = name

	for _, id := range defaults.Features {
		w.picked[id] = true
	}
	return w
}

func newChoiceList(title string, options []stack.Option, selected string) *list.Model {
	items := make([]list.Item, 0, len(options))
	index := 0
	for i, opt := range options {
		items = append(items, choiceItem{value: opt.Value, label: opt.Label})
		if opt.Value == selected {
			index = i
		}
	}
	l := list.New(items, list.NewDefaultDelegate(), defaultWidth, defaultHeight)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.Select(index)
	return &l
}

// Init implements tea.Model.
func (w *Wizard) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width, w.height = msg.Width, msg.Height
		for _, l := range w.choices {
			l.SetSize(msg.Width, max(defaultHeight, msg.Height-4))
		}
		return w, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			w.aborted = true
			return w, tea.Quit
		}
		return w.handleKey(msg)
	}
	return w, nil
}

func (w *Wizard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch w.step {
	case stepLanguage, stepORM, stepFramework:
		l := w.choices[w.step]
		if msg.Type == tea.KeyEnter {
			item, ok := l.SelectedItem().(choiceItem)
			if !ok {
				return w, nil
			}
			w.recordChoice(item.value)
			return w, w.advance()
		}
		updated, cmd := l.Update(msg)
		*l = updated
		return w, cmd
	case stepName:
		if msg.Type == tea.KeyEnter {
			value := strings.TrimSpace(w.name.Value())
			if value == "" {
				value = stack.DefaultProjectName
			}
			if err := stack.ValidateProjectName(value); err != nil {
				w.errMsg = err.Error()
				return w, nil
			}
			w.errMsg = ""
			w.answers.ProjectName = value
			return w, w.advance()
		}
		var cmd tea.Cmd
		w.name, cmd = w.name.Update(msg)
		return w, cmd
	case stepFeatures:
		return w.handleFeatureKey(msg)
	}
	return w, nil
}

func (w *Wizard) recordChoice(value string) {
	switch w.step {
	case stepLanguage:
		w.answers.Language = stack.Language(value)
	case stepORM:
		w.answers.ORM = stack.ORM(value)
	case stepFramework:
		w.answers.Framework = stack.Framework(value)
	}
}

func (w *Wizard) handleFeatureKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if w.cursor > 0 {
			w.cursor--
		}
	case "down", "j":
		if w.cursor < len(w.features)-1 {
			w.cursor++
		}
	case " ":
		if len(w.features) > 0 {
			id := w.features[w.cursor].ID
			w.picked[id] = !w.picked[id]
		}
	case "enter":
		w.answers.Features = w.selectedFeatures()
		return w, w.advance()
	}
	return w, nil
}

func (w *Wizard) selectedFeatures() []string {
	var out []string
	for _, f := range w.features {
		if w.picked[f.ID] {
			out = append(out, f.ID)
		}
	}
	return out
}

func (w *Wizard) advance() tea.Cmd {
	w.step++
	switch w.step {
	case stepName:
		return w.name.Focus()
	case stepFeatures:
		w.name.Blur()
	case stepDone:
		return tea.Quit
	}
	return nil
}

// Answers returns what was collected so far.
func (w *Wizard) Answers() stack.Answers {
	return w.answers
}

// Aborted reports whether the user cancelled.
func (w *Wizard) Aborted() bool {
	return w.aborted
}

// Done reports whether every question was answered.
func (w *Wizard) Done() bool {
	return w.step == stepDone
}

// View implements tea.Model.
func (w *Wizard) View() string {
	if w.aborted {
		return errorStyle.Render("Operation aborted") + "\n"
	}
	var b strings.Builder
	switch w.step {
	case stepLanguage, stepORM, stepFramework:
		b.WriteString(w.choices[w.step].View())
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("↑/↓ to move · enter to choose · esc to abort"))
	case stepName:
		b.WriteString(titleStyle.Render("Project name"))
		b.WriteString("\n\n")
		b.WriteString(w.name.View())
		if w.errMsg != "" {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(w.errMsg))
		}
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render("enter to confirm · esc to abort"))
	case stepFeatures:
		b.WriteString(titleStyle.Render("Choose additional features"))
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("space to select/deselect · ↑/↓ to navigate · enter to confirm"))
		b.WriteString("\n\n")
		for i, f := range w.features {
			b.WriteString(w.renderFeature(i, f))
			b.WriteString("\n")
		}
	case stepDone:
		b.WriteString(doneStyle.Render("Configuration complete"))
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().Width(max(20, w.width)).Render(b.String())
}

func (w *Wizard) renderFeature(index int, f deps.Feature) string {
	cursor := "  "
	if index == w.cursor {
		cursor = cursorStyle.Render("› ")
	}
	box := "[ ]"
	if w.picked[f.ID] {
		box = checkedStyle.Render("[x]")
	}
	line := fmt.Sprintf("%s%s %s", cursor, box, f.Label)
	if f.Hint != "" {
		line += " " + hintStyle.Render("("+f.Hint+")")
	}
	return line
}

// Summary renders the "Selected features" block printed after the wizard.
func Summary(ans stack.Answers, catalog *deps.FeatureRegistry) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s · %s · %s · %s",
		ans.ProjectName,
		stack.Label(stack.LanguageOptions, string(ans.Language)),
		stack.Label(stack.ORMOptions, string(ans.ORM)),
		stack.Label(stack.FrameworkOptions, string(ans.Framework)),
	)))
	b.WriteString("\n")
	if len(ans.Features) == 0 {
		return b.String()
	}
	b.WriteString("\nSelected features:\n")
	for _, id := range ans.Features {
		label := id
		if catalog != nil {
			if f, ok := catalog.Lookup(id); ok {
				label = f.Label
			}
		}
		b.WriteString("  ")
		b.WriteString(checkedStyle.Render("✓"))
		b.WriteString(" ")
		b.WriteString(label)
		b.WriteString("\n")
	}
	return b.String()
}

// Run drives the wizard on the terminal and returns the collected answers.
func Run(defaults stack.Answers, features []deps.Feature, opts ...tea.ProgramOption) (stack.Answers, error) {
	w := NewWizard(defaults, features)
	final, err := tea.NewProgram(w, opts...).Run()
	if err != nil {
		return stack.Answers{}, fmt.Errorf("tui: run wizard: %w", err)
	}
	done, ok := final.(*Wizard)
	if !ok || done.Aborted() || !done.Done() {
		return stack.Answers{}, ErrAborted
	}
	return done.Answers(), nil
}
