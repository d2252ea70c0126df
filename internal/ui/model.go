// Package ui is the interactive terminal front end: a search box, the
// paginated note list and a modal create form, all driven by app.Controller.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/notehub/internal/platform"
	"github.com/aretw0/notehub/pkg/app"
	"github.com/aretw0/notehub/pkg/core"
	"github.com/aretw0/notehub/pkg/form"
)

type focus int

const (
	focusList focus = iota
	focusSearch
	focusTitle
	focusContent
	focusTag
)

type (
	changedMsg   struct{}
	configMsg    platform.Config
	submittedMsg struct{ err error }
	deletedMsg   struct {
		id  core.NoteID
		err error
	}
	startErrMsg struct{ err error }
)

// Option configures a Model.
type Option func(*Model)

// WithConfigUpdates applies page size and debounce changes received on ch.
func WithConfigUpdates(ch <-chan platform.Config) Option {
	return func(m *Model) {
		m.configs = ch
	}
}

// WithStyles overrides DefaultStyles.
func WithStyles(st Styles) Option {
	return func(m *Model) {
		m.styles = st
	}
}

// Model is the bubbletea model of the notes screen.
type Model struct {
	ctx         context.Context
	ctrl        *app.Controller
	form        *form.Form
	styles      Styles
	changes     chan struct{}
	unsubscribe func()
	configs     <-chan platform.Config

	snap     app.Snapshot
	cursor   int
	focus    focus
	search   textinput.Model
	title    textinput.Model
	content  textarea.Model
	tagIndex int
	spinner  spinner.Model
	width    int
	notice   string
	quitting bool
}

// New builds the model and subscribes it to ctrl. The controller is started
// by Init.
func New(ctx context.Context, ctrl *app.Controller, opts ...Option) Model {
	search := textinput.New()
	search.Placeholder = "Search notes"
	search.Prompt = "/ "

	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 50

	content := textarea.New()
	content.Placeholder = "Content"
	content.CharLimit = 500
	content.SetHeight(4)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:     ctx,
		ctrl:    ctrl,
		form:    form.New(),
		styles:  DefaultStyles(),
		changes: make(chan struct{}, 1),
		search:  search,
		title:   title,
		content: content,
		spinner: sp,
		snap:    ctrl.Snapshot(),
	}
	for _, opt := range opts {
		opt(&m)
	}

	changes := m.changes
	m.unsubscribe = ctrl.Subscribe(func(app.Snapshot) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	return m
}

// Close detaches the model from the controller.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m Model) Init() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return tea.Batch(
		m.spinner.Tick,
		m.waitForChange(),
		m.waitForConfig(),
		func() tea.Msg {
			if err := ctrl.Start(ctx); err != nil && !errors.Is(err, app.ErrStarted) {
				return startErrMsg{err}
			}
			return nil
		},
	)
}

func (m Model) waitForChange() tea.Cmd {
	changes := m.changes
	return func() tea.Msg {
		<-changes
		return changedMsg{}
	}
}

func (m Model) waitForConfig() tea.Cmd {
	if m.configs == nil {
		return nil
	}
	configs := m.configs
	return func() tea.Msg {
		cfg, ok := <-configs
		if !ok {
			return nil
		}
		return configMsg(cfg)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.search.Width = msg.Width - 4
		m.title.Width = msg.Width/2 - 4
		m.content.SetWidth(msg.Width/2 - 4)
		return m, nil

	case changedMsg:
		m.sync()
		return m, m.waitForChange()

	case configMsg:
		m.ctrl.SetPageSize(msg.PageSize)
		m.ctrl.SetDebounce(msg.Debounce)
		m.notice = fmt.Sprintf("Config reloaded (page size %d).", msg.PageSize)
		return m, m.waitForConfig()

	case submittedMsg:
		if msg.err == nil {
			m.resetForm()
			m.focus = focusList
			m.notice = "Note created."
		}
		m.sync()
		return m, nil

	case deletedMsg:
		if msg.err == nil {
			m.notice = fmt.Sprintf("Note %s deleted.", msg.id)
		}
		m.sync()
		return m, nil

	case startErrMsg:
		m.notice = msg.err.Error()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.snap.ModalOpen {
			return m.updateModal(msg)
		}
		if m.focus == focusSearch {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

// sync pulls the latest snapshot and keeps the cursor in range.
func (m *Model) sync() {
	m.snap = m.ctrl.Snapshot()
	if m.cursor >= len(m.snap.Notes) {
		m.cursor = len(m.snap.Notes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if !m.snap.ModalOpen && m.focus >= focusTitle {
		m.focus = focusList
	}
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "/":
		m.focus = focusSearch
		cmd := m.search.Focus()
		return m, cmd
	case "n":
		m.resetForm()
		m.ctrl.OpenModal()
		m.sync()
		m.focus = focusTitle
		cmd := m.title.Focus()
		return m, cmd
	case "d":
		return m, m.deleteSelected()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.snap.Notes)-1 {
			m.cursor++
		}
	case "left", "h":
		m.ctrl.PrevPage()
		m.cursor = 0
		m.sync()
	case "right", "l":
		m.ctrl.NextPage()
		m.cursor = 0
		m.sync()
	case "r":
		m.notice = ""
		m.ctrl.Retry()
		m.sync()
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.ctrl.FlushSearch()
		m.search.Blur()
		m.focus = focusList
		m.cursor = 0
		m.sync()
		return m, nil
	case "esc":
		m.search.Blur()
		m.focus = focusList
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		m.ctrl.TypeSearch(v)
		m.cursor = 0
		m.sync()
	}
	return m, cmd
}

func (m Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ctrl.CloseModal()
		m.resetForm()
		m.focus = focusList
		m.sync()
		return m, nil
	case "ctrl+s":
		if !m.form.CanSubmit() {
			for _, f := range form.Fields {
				_ = m.form.Blur(f)
			}
			return m, nil
		}
		return m, m.submit()
	case "tab":
		cmd := m.moveFocus(1)
		return m, cmd
	case "shift+tab":
		cmd := m.moveFocus(-1)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusTitle:
		m.title, cmd = m.title.Update(msg)
		_ = m.form.Set(form.FieldTitle, m.title.Value())
	case focusContent:
		m.content, cmd = m.content.Update(msg)
		_ = m.form.Set(form.FieldContent, m.content.Value())
	case focusTag:
		tags := core.Tags()
		switch msg.String() {
		case "left", "h":
			m.tagIndex = (m.tagIndex + len(tags) - 1) % len(tags)
		case "right", "l", " ":
			m.tagIndex = (m.tagIndex + 1) % len(tags)
		default:
			return m, nil
		}
		_ = m.form.Set(form.FieldTag, string(tags[m.tagIndex]))
	}
	return m, cmd
}

// moveFocus cycles through the form fields, marking the one left as touched.
func (m *Model) moveFocus(step int) tea.Cmd {
	fields := []focus{focusTitle, focusContent, focusTag}
	names := map[focus]string{focusTitle: form.FieldTitle, focusContent: form.FieldContent, focusTag: form.FieldTag}

	i := 0
	for j, f := range fields {
		if f == m.focus {
			i = j
		}
	}
	_ = m.form.Blur(names[m.focus])
	m.title.Blur()
	m.content.Blur()

	m.focus = fields[(i+step+len(fields))%len(fields)]
	switch m.focus {
	case focusTitle:
		return m.title.Focus()
	case focusContent:
		return m.content.Focus()
	}
	return nil
}

func (m Model) submit() tea.Cmd {
	f, ctrl, ctx := m.form, m.ctrl, m.ctx
	return func() tea.Msg {
		err := f.Submit(ctx, func(ctx context.Context, d core.Draft) error {
			_, err := ctrl.Create(ctx, d)
			return err
		})
		return submittedMsg{err}
	}
}

func (m Model) deleteSelected() tea.Cmd {
	if m.cursor >= len(m.snap.Notes) {
		return nil
	}
	id := m.snap.Notes[m.cursor].ID
	if m.snap.IsDeleting(id) {
		return nil
	}
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		_, err := ctrl.Delete(ctx, id)
		return deletedMsg{id: id, err: err}
	}
}

func (m *Model) resetForm() {
	m.form.Reset()
	m.title.SetValue("")
	m.content.SetValue("")
	m.title.Blur()
	m.content.Blur()
	m.tagIndex = tagIndex(m.form.Values().Tag)
}

func tagIndex(t core.Tag) int {
	for i, tag := range core.Tags() {
		if tag == t {
			return i
		}
	}
	return 0
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	st := m.styles

	var sb strings.Builder
	sb.WriteString(st.Header.Render("NoteHub"))
	sb.WriteString("\n")
	sb.WriteString(m.search.View())
	sb.WriteString("\n\n")

	if m.snap.ModalOpen {
		sb.WriteString(m.modalView())
		sb.WriteString("\n")
		return sb.String()
	}

	switch {
	case m.snap.Loading():
		sb.WriteString(m.spinner.View() + " " + st.Status.Render(LoadingText))
	case m.snap.ReadErr != nil && !m.snap.HasResult:
		sb.WriteString(st.Error.Render(ErrorText))
	default:
		if m.snap.ReadErr != nil {
			sb.WriteString(st.Error.Render(ErrorText) + " " + st.Help.Render("(r to retry)"))
			sb.WriteString("\n")
		} else if m.snap.Fetching {
			sb.WriteString(m.spinner.View() + " " + st.Status.Render("Refreshing..."))
			sb.WriteString("\n")
		}
		sb.WriteString(RenderNoteList(m.snap.Notes, m.snap.Deleting, m.cursor, m.width, st))
	}
	sb.WriteString("\n")

	if p := RenderPagination(m.snap.Page, m.snap.TotalPages, st); p != "" {
		sb.WriteString("\n" + p + "\n")
	}
	if m.snap.MutationErr != nil {
		sb.WriteString("\n" + st.Error.Render(m.snap.MutationErr.Error()) + "\n")
	} else if m.notice != "" {
		sb.WriteString("\n" + st.Status.Render(m.notice) + "\n")
	}

	sb.WriteString("\n" + st.Help.Render("/ search • n new • d delete • ←/→ page • r retry • q quit"))
	return sb.String()
}

func (m Model) modalView() string {
	st := m.styles

	field := func(label, view, name string) string {
		out := st.Label.Render(label) + "\n" + view
		if msg := m.form.FieldError(name); msg != "" {
			out += "\n" + st.Error.Render(msg)
		}
		return out
	}

	var tags []string
	for i, t := range core.Tags() {
		if i == m.tagIndex {
			tags = append(tags, st.ActivePage.Render("["+string(t)+"]"))
		} else {
			tags = append(tags, string(t))
		}
	}
	tagLabel := "Tag"
	if m.focus == focusTag {
		tagLabel = "Tag (←/→)"
	}

	submit := st.Action.Render("[Create note]")
	if !m.form.CanSubmit() {
		submit = st.Disabled.Render("[Create note]")
	}
	if m.snap.Creating {
		submit = st.Disabled.Render("[Creating…]")
	}

	parts := []string{
		st.Title.Render("New note"),
		field("Title", m.title.View(), form.FieldTitle),
		field("Content", m.content.View(), form.FieldContent),
		field(tagLabel, strings.Join(tags, " "), form.FieldTag),
		submit + "  " + st.Help.Render("tab next • ctrl+s submit • esc cancel"),
	}
	if m.snap.MutationErr != nil {
		parts = append(parts, st.Error.Render(m.snap.MutationErr.Error()))
	}
	return st.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
