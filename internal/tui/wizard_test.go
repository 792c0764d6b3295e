package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/backforge/internal/deps"
	"github.com/kingrea/backforge/internal/stack"
)

func press(t *testing.T, w *Wizard, keys ...tea.KeyMsg) *Wizard {
	t.Helper()
	for _, key := range keys {
		model, _ := w.Update(key)
		next, ok := model.(*Wizard)
		if !ok {
			t.Fatalf("unexpected model type %T", model)
		}
		w = next
	}
	return w
}

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func TestWizardCollectsAnswers(t *testing.T) {
	w := NewWizard(stack.Answers{}, deps.DefaultFeatures.Features())
	w = press(t, w,
		down, enter, // js
		down, enter, // prisma
		enter, // express
		typeText("orders-api"), enter,
		space, down, down, space, enter, // oauth + graphql
	)
	if !w.Done() {
		t.Fatalf("wizard should be done, at step %d", w.step)
	}
	got := w.Answers()
	want := stack.Answers{
		Language:    stack.LanguageJS,
		ORM:         stack.ORMPrisma,
		Framework:   stack.FrameworkExpress,
		ProjectName: "orders-api",
		Features:    []string{"oauth", "graphql"},
	}
	if got.Language != want.Language || got.ORM != want.ORM || got.Framework != want.Framework || got.ProjectName != want.ProjectName {
		t.Fatalf("answers = %+v, want %+v", got, want)
	}
	if strings.Join(got.Features, ",") != "oauth,graphql" {
		t.Fatalf("features = %v", got.Features)
	}
	if !strings.Contains(w.View(), "Configuration complete") {
		t.Fatalf("done view missing confirmation")
	}
}

func TestWizardUsesDefaults(t *testing.T) {
	defaults := stack.Answers{
		Language:  stack.LanguageJS,
		ORM:       stack.ORMPrisma,
		Framework: stack.FrameworkFastify,
		Features:  []string{"email"},
	}
	w := NewWizard(defaults, deps.DefaultFeatures.Features())
	w = press(t, w, enter, enter, enter, enter, enter)
	if !w.Done() {
		t.Fatalf("wizard should be done")
	}
	got := w.Answers()
	if got.Language != stack.LanguageJS || got.ORM != stack.ORMPrisma || got.Framework != stack.FrameworkFastify {
		t.Fatalf("defaults not preselected: %+v", got)
	}
	if got.ProjectName != stack.DefaultProjectName {
		t.Fatalf("project name = %q, want default", got.ProjectName)
	}
	if len(got.Features) != 1 || got.Features[0] != "email" {
		t.Fatalf("features = %v", got.Features)
	}
}

func TestWizardRejectsInvalidName(t *testing.T) {
	w := NewWizard(stack.Answers{}, nil)
	w = press(t, w, enter, enter, enter, typeText("bad/name"), enter)
	if w.step != stepName {
		t.Fatalf("wizard should stay on the name step, at %d", w.step)
	}
	if !strings.Contains(w.View(), "invalid characters") {
		t.Fatalf("view should show the validation error")
	}
}

func TestWizardAbort(t *testing.T) {
	w := NewWizard(stack.Answers{}, nil)
	model, cmd := w.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	w = model.(*Wizard)
	if !w.Aborted() {
		t.Fatalf("ctrl+c should abort")
	}
	if cmd == nil {
		t.Fatalf("abort should quit the program")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
	if !strings.Contains(w.View(), "Operation aborted") {
		t.Fatalf("abort view missing message")
	}
}

func TestWizardFeatureToggleOff(t *testing.T) {
	w := NewWizard(stack.Answers{Features: []string{"oauth"}}, deps.DefaultFeatures.Features())
	w = press(t, w, enter, enter, enter, enter, space, enter)
	if len(w.Answers().Features) != 0 {
		t.Fatalf("oauth should have been toggled off: %v", w.Answers().Features)
	}
}

func TestSummaryListsFeatureLabels(t *testing.T) {
	ans := stack.Answers{
		Language:    stack.LanguageTS,
		ORM:         stack.ORMMongoose,
		Framework:   stack.FrameworkExpress,
		ProjectName: "api",
		Features:    []string{"websocket", "mystery"},
	}
	out := Summary(ans, deps.DefaultFeatures)
	for _, needle := range []string{"TypeScript", "Mongoose", "Express", "Selected features", "WebSocket (Socket.io)", "mystery"} {
		if !strings.Contains(out, needle) {
			t.Fatalf("summary missing %q:\n%s", needle, out)
		}
	}
}
