package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/passgen/passgen-go/internal/crypto"
	"github.com/passgen/passgen-go/internal/model"
	"github.com/passgen/passgen-go/internal/service"
)

// HistoryFilename is where the export key writes the session history.
const HistoryFilename = "password_history.txt"

// Model is the root bubbletea model. It drives one session of the password
// service, the same engine the web server uses.
type Model struct {
	svc       *service.PasswordService
	sessionID string
	state     model.SessionState

	input      textinput.Model
	typing     bool
	spinner    spinner.Model
	generating bool
	help       help.Model
	tips       []model.Tip

	flash string

	copyText  func(string) error
	writeFile func(name string, data []byte, perm os.FileMode) error
}

// generatedMsg carries the outcome of a generate request.
type generatedMsg struct {
	state model.SessionState
	err   error
}

// flashMsg clears the flash after a timeout.
type flashMsg struct{}

// New starts a session on svc and returns a model bound to it.
func New(ctx context.Context, svc *service.PasswordService) (Model, error) {
	sess, err := svc.StartSession(ctx)
	if err != nil {
		return Model{}, fmt.Errorf("start session: %w", err)
	}

	state, err := svc.State(ctx, sess.ID)
	if err != nil {
		return Model{}, fmt.Errorf("load session: %w", err)
	}

	ti := textinput.New()
	ti.Placeholder = "type a password"
	ti.CharLimit = service.MaxInputLength
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle

	return Model{
		svc:       svc,
		sessionID: sess.ID,
		state:     state,
		input:     ti,
		spinner:   sp,
		help:      help.New(),
		tips:      service.Tips(),
		copyText:  clipboard.WriteAll,
		writeFile: os.WriteFile,
	}, nil
}

// SessionID returns the session the model is bound to.
func (m Model) SessionID() string {
	return m.sessionID
}

// Close ends the session so no state outlives the program.
func (m Model) Close(ctx context.Context) error {
	return m.svc.EndSession(ctx, m.sessionID)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.typing {
			return m.handleTypingKey(msg)
		}
		return m.handleKey(msg)

	case generatedMsg:
		m.generating = false
		if msg.err != nil {
			return m.setFlash("generate: " + msg.err.Error()), clearFlashAfter()
		}
		m.state = msg.state
		m.input.SetValue(m.state.Password)
		return m, nil

	case spinner.TickMsg:
		if !m.generating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case flashMsg:
		m.flash = ""
		return m, nil
	}

	return m, nil
}

func (m Model) handleTypingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.ForceQuit) {
		return m, tea.Quit
	}

	if key.Matches(msg, keys.Blur) {
		m.typing = false
		m.input.Blur()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if m.input.Value() == before {
		return m, cmd
	}

	state, err := m.svc.Input(context.Background(), m.sessionID, model.InputRequest{Password: m.input.Value()})
	if err != nil {
		return m.setFlash(err.Error()), tea.Batch(cmd, clearFlashAfter())
	}
	m.state = state
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		return m, tea.Quit
	}

	// generating owns the session until it reports back
	if m.generating {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Shorter):
		return m.changeLength(-1)

	case key.Matches(msg, keys.Longer):
		return m.changeLength(1)

	case key.Matches(msg, keys.Digits):
		v := !m.state.Policy.IncludeDigits
		return m.applyPolicy(model.PolicyRequest{IncludeDigits: &v})

	case key.Matches(msg, keys.Special):
		v := !m.state.Policy.IncludeSpecial
		return m.applyPolicy(model.PolicyRequest{IncludeSpecial: &v})

	case key.Matches(msg, keys.Generate):
		m.generating = true
		return m, tea.Batch(m.spinner.Tick, m.generateCmd())

	case key.Matches(msg, keys.Reset):
		state, err := m.svc.Reset(context.Background(), m.sessionID)
		if err != nil {
			return m.setFlash("clear: " + err.Error()), clearFlashAfter()
		}
		m.state = state
		m.input.SetValue("")
		return m, nil

	case key.Matches(msg, keys.Copy):
		return m.copyPassword()

	case key.Matches(msg, keys.Export):
		return m.exportHistory()

	case key.Matches(msg, keys.ClearHistory):
		state, err := m.svc.ClearHistory(context.Background(), m.sessionID)
		if err != nil {
			return m.setFlash("clear history: " + err.Error()), clearFlashAfter()
		}
		m.state = state
		return m.setFlash("history cleared"), clearFlashAfter()

	case key.Matches(msg, keys.Focus):
		m.typing = true
		m.input.SetValue(m.state.Password)
		m.input.CursorEnd()
		return m, m.input.Focus()
	}

	return m, nil
}

// changeLength steps the length and stays put at the bounds.
func (m Model) changeLength(delta int) (tea.Model, tea.Cmd) {
	next := m.state.Policy.Length + delta
	if next < crypto.MinLength || next > crypto.MaxLength {
		return m, nil
	}
	return m.applyPolicy(model.PolicyRequest{Length: &next})
}

func (m Model) applyPolicy(req model.PolicyRequest) (tea.Model, tea.Cmd) {
	state, err := m.svc.SetPolicy(context.Background(), m.sessionID, req)
	if err != nil {
		return m.setFlash("policy: " + err.Error()), clearFlashAfter()
	}
	m.state = state
	return m, nil
}

func (m Model) generateCmd() tea.Cmd {
	svc, id := m.svc, m.sessionID
	return func() tea.Msg {
		state, err := svc.Generate(context.Background(), id, model.GenerateRequest{})
		return generatedMsg{state: state, err: err}
	}
}

func (m Model) copyPassword() (tea.Model, tea.Cmd) {
	if m.state.Password == "" {
		return m.setFlash("nothing to copy"), clearFlashAfter()
	}
	if err := m.copyText(m.state.Password); err != nil {
		return m.setFlash("copy: " + err.Error()), clearFlashAfter()
	}
	return m.setFlash("copied!"), clearFlashAfter()
}

func (m Model) exportHistory() (tea.Model, tea.Cmd) {
	data, err := m.svc.ExportHistory(context.Background(), m.sessionID)
	if err != nil {
		return m.setFlash("export: " + err.Error()), clearFlashAfter()
	}
	if err := m.writeFile(HistoryFilename, data, 0o600); err != nil {
		return m.setFlash("export: " + err.Error()), clearFlashAfter()
	}
	return m.setFlash(fmt.Sprintf("exported %d passwords to %s", len(m.state.History), HistoryFilename)), clearFlashAfter()
}

func (m Model) setFlash(msg string) Model {
	m.flash = msg
	return m
}

func clearFlashAfter() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return flashMsg{}
	})
}
