package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/dpshade/prompt-overflow/internal/clipboard"
	"github.com/dpshade/prompt-overflow/internal/config"
	apperrors "github.com/dpshade/prompt-overflow/internal/errors"
	"github.com/dpshade/prompt-overflow/internal/logging"
	"github.com/dpshade/prompt-overflow/internal/models"
	"github.com/dpshade/prompt-overflow/internal/renderer"
	"github.com/dpshade/prompt-overflow/internal/service"
)

const (
	appTitle          = "Prompt Overflow"
	allCategories     = "All Categories"
	minReservedHeight = 8
)

// createGlamourRenderer creates a glamour renderer suited to the terminal background
func createGlamourRenderer(wordWrap int) (*glamour.TermRenderer, error) {
	// Check for environment variable override first
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		return glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrap),
		)
	}

	profile := termenv.ColorProfile()

	var styleOption glamour.TermRendererOption
	switch profile {
	case termenv.TrueColor, termenv.ANSI256:
		if lipgloss.HasDarkBackground() {
			styleOption = glamour.WithStandardStyle("dark")
		} else {
			styleOption = glamour.WithStandardStyle("light")
		}
	default:
		// Limited color terminals
		styleOption = glamour.WithAutoStyle()
	}

	return glamour.NewTermRenderer(
		styleOption,
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(wordWrap),
	)
}

// loadCompleteMsg reports the end of the initial fetch
type loadCompleteMsg struct {
	seq int
	err error
}

// ReloadMsg is sent when the library changed on disk and the service reloaded
type ReloadMsg struct {
	Err error
}

type copiedMsg struct {
	id  string
	err error
}

type copyResetMsg struct {
	id  string
	seq int
}

// loadPromptsCmd fetches the collection once through the service
func loadPromptsCmd(ctx context.Context, svc *service.Service, seq int) tea.Cmd {
	return func() tea.Msg {
		return loadCompleteMsg{seq: seq, err: svc.Load(ctx)}
	}
}

func copyCmd(w clipboard.Writer, id, text string) tea.Cmd {
	return func() tea.Msg {
		_, err := clipboard.CopyWithFallback(w, text)
		return copiedMsg{id: id, err: err}
	}
}

// ViewMode represents the current view in the TUI
type ViewMode int

const (
	ViewLibrary ViewMode = iota
	ViewPromptDetail
	ViewTemplateForm
)

// cardItem is one prompt card in the library list
type cardItem struct {
	prompt models.Prompt
	copied bool
}

func (c cardItem) Title() string {
	title := c.prompt.Title()
	if c.copied {
		title += " ✓ Copied!"
	}
	return title
}

func (c cardItem) Description() string { return c.prompt.Description() }
func (c cardItem) FilterValue() string { return c.prompt.FilterValue() }

// Options tunes the TUI
type Options struct {
	SuggestionLimit int
	CopyFeedback    time.Duration
	Clipboard       clipboard.Writer
}

// Model represents the TUI application state
type Model struct {
	ctx      context.Context
	service  *service.Service
	viewMode ViewMode
	prevMode ViewMode

	// UI components
	promptList   list.Model
	viewport     viewport.Model
	help         help.Model
	keys         KeyMap
	search       *SearchBox
	templateForm *TemplateForm

	// Data
	loadSeq        int
	loadState      service.LoadState
	loadErr        error
	categories     []string
	category       string
	filtered       []models.Prompt
	selectedPrompt *models.Prompt

	// Copy feedback, keyed by prompt id
	clip         clipboard.Writer
	copyFeedback time.Duration
	copied       map[string]int
	copySeq      int

	glamourRenderer *glamour.TermRenderer
	errHandler      *apperrors.TUIErrorHandler

	// Window dimensions
	width  int
	height int

	// Status messages
	statusMsg     string
	statusType    string
	statusTimeout int

	showExpandedHelp bool
}

// KeyMap defines all key bindings
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Enter        key.Binding
	Back         key.Binding
	Quit         key.Binding
	ExpandHelp   key.Binding
	Search       key.Binding
	ClearSearch  key.Binding
	NextCategory key.Binding
	PrevCategory key.Binding
	Copy         key.Binding
	CopyJSON     key.Binding
}

// ShortHelp returns keybindings to show in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.NextCategory, k.Enter, k.Copy, k.ExpandHelp, k.Quit}
}

// FullHelp returns keybindings to show in the full help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Back},
		{k.Search, k.ClearSearch, k.NextCategory, k.PrevCategory},
		{k.Copy, k.CopyJSON, k.ExpandHelp, k.Quit},
	}
}

var keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "view"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	ExpandHelp: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("ctrl+g", "more"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	ClearSearch: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("ctrl+u", "clear search"),
	),
	NextCategory: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next category"),
	),
	PrevCategory: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous category"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy"),
	),
	CopyJSON: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy as JSON"),
	),
}

// NewModel creates a new TUI model. Data is loaded by the command returned from Init.
func NewModel(ctx context.Context, svc *service.Service, opts Options) (*Model, error) {
	// Initialize adaptive colors based on terminal background
	initializeColors()

	if opts.CopyFeedback <= 0 {
		opts.CopyFeedback = config.DefaultCopyFeedback
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.SystemWriter{}
	}

	l := list.New(nil, list.NewDefaultDelegate(), 80, 20) // Default size, will be updated on first WindowSizeMsg
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	// Filtering is driven by the search box and category bar
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()

	glamourRenderer, err := createGlamourRenderer(60)
	if err != nil {
		return nil, fmt.Errorf("failed to create glamour renderer: %w", err)
	}

	return &Model{
		ctx:             ctx,
		service:         svc,
		viewMode:        ViewLibrary,
		promptList:      l,
		viewport:        vp,
		help:            help.New(),
		keys:            keys,
		search:          NewSearchBox(svc.SuggestionPool(), opts.SuggestionLimit),
		loadSeq:         1,
		loadState:       service.LoadPending,
		clip:            opts.Clipboard,
		copyFeedback:    opts.CopyFeedback,
		copied:          make(map[string]int),
		glamourRenderer: glamourRenderer,
		errHandler:      apperrors.NewTUIErrorHandler(false),
	}, nil
}

// Init starts the initial fetch
func (m Model) Init() tea.Cmd {
	return loadPromptsCmd(m.ctx, m.service, m.loadSeq)
}

// tickMsg is sent to clear the status message
type tickMsg time.Time

// clearStatusCmd returns a command that clears the status message after a delay
func clearStatusCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) setStatus(text, statusType string) tea.Cmd {
	m.statusMsg = text
	m.statusType = statusType
	m.statusTimeout = 3
	return clearStatusCmd()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		if m.statusTimeout > 0 {
			m.statusTimeout--
			if m.statusTimeout == 0 {
				m.statusMsg = ""
			} else {
				return m, clearStatusCmd()
			}
		}
		return m, nil

	case loadCompleteMsg:
		// Results from a superseded load or a closed program are dropped
		if msg.seq != m.loadSeq || m.ctx.Err() != nil {
			return m, nil
		}
		m.applyCollection()
		return m, nil

	case ReloadMsg:
		if m.ctx.Err() != nil {
			return m, nil
		}
		if msg.Err != nil {
			m.errHandler.HandleError(msg.Err)
			return m, m.setStatus(m.errHandler.FormatError(msg.Err), m.errHandler.StatusType(msg.Err))
		}
		m.applyCollection()
		return m, m.setStatus("Library reloaded at "+m.service.LoadedAt().Format("15:04:05"), "info")

	case copiedMsg:
		if msg.err != nil {
			appErr := apperrors.ClipboardError(msg.err)
			m.errHandler.HandleError(appErr)
			return m, m.setStatus(m.errHandler.FormatError(appErr), "error")
		}
		m.copySeq++
		seq := m.copySeq
		m.copied[msg.id] = seq
		m.refreshItems()
		id := msg.id
		return m, tea.Batch(
			m.setStatus(clipboard.CopiedMessage, "success"),
			tea.Tick(m.copyFeedback, func(time.Time) tea.Msg {
				return copyResetMsg{id: id, seq: seq}
			}),
		)

	case copyResetMsg:
		// A newer copy of the same card restarts the indicator
		if m.copied[msg.id] == msg.seq {
			delete(m.copied, msg.id)
			m.refreshItems()
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.viewMode {
		case ViewPromptDetail:
			return m.updateDetail(msg)
		case ViewTemplateForm:
			return m.updateTemplateForm(msg)
		default:
			return m.updateLibrary(msg)
		}
	}

	// Cursor blinks and other input messages
	if m.search.Focused() {
		return m, m.search.Forward(msg)
	}
	return m, nil
}

func (m Model) updateLibrary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextCategory):
		m.cycleCategory(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevCategory):
		m.cycleCategory(-1)
		return m, nil
	case key.Matches(msg, m.keys.ClearSearch):
		if m.search.Clear() {
			m.refreshPromptList()
		}
		return m, nil
	}

	if m.search.Focused() {
		cmd, changed := m.search.Update(msg)
		if changed {
			m.refreshPromptList()
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.ExpandHelp):
		m.showExpandedHelp = !m.showExpandedHelp
		m.resize(m.width, m.height)
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if m.search.Clear() || m.category != "" {
			m.category = ""
			m.refreshPromptList()
		}
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		if p, ok := m.selected(); ok {
			m.openDetail(p)
		}
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		if p, ok := m.selected(); ok {
			return m, m.startCopy(p)
		}
		return m, nil
	case key.Matches(msg, m.keys.CopyJSON):
		if p, ok := m.selected(); ok {
			return m, m.copyJSON(p)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.promptList, cmd = m.promptList.Update(msg)
	return m, cmd
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), msg.String() == "left":
		m.viewMode = ViewLibrary
		m.selectedPrompt = nil
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.ExpandHelp):
		m.showExpandedHelp = !m.showExpandedHelp
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		return m, m.startCopy(*m.selectedPrompt)
	case key.Matches(msg, m.keys.CopyJSON):
		return m, m.copyJSON(*m.selectedPrompt)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateTemplateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		m.viewMode = m.prevMode
		return m, nil
	}

	cmd := m.templateForm.Update(msg)
	if m.templateForm.IsSubmitted() {
		p := m.templateForm.Prompt()
		text := m.templateForm.Rendered()
		m.viewMode = m.prevMode
		return m, copyCmd(m.clip, p.ID, text)
	}
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.viewMode == ViewPromptDetail {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	if m.viewMode != ViewLibrary {
		return m, nil
	}

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		// The pick lands before the blur caused by the same press
		row := msg.Y - lipgloss.Height(m.renderHeader())
		if idx, ok := m.search.SuggestionAt(row); ok {
			if m.search.PickAt(idx) {
				m.refreshPromptList()
			}
			return m, nil
		}
		if row >= 0 && row < lipgloss.Height(m.search.renderInput()) {
			return m, m.search.Focus()
		}
		if m.search.Focused() {
			m.search.Blur()
		}
	case msg.Button == tea.MouseButtonWheelUp:
		m.promptList.CursorUp()
	case msg.Button == tea.MouseButtonWheelDown:
		m.promptList.CursorDown()
	}
	return m, nil
}

func (m *Model) selected() (models.Prompt, bool) {
	item, ok := m.promptList.SelectedItem().(cardItem)
	if !ok {
		return models.Prompt{}, false
	}
	return item.prompt, true
}

// startCopy copies a plain prompt, or opens the form when it has placeholders
func (m *Model) startCopy(p models.Prompt) tea.Cmd {
	if len(renderer.ExtractFields(p.Body)) == 0 {
		return copyCmd(m.clip, p.ID, p.Body)
	}
	// Values never outlive the form, so reopening the same prompt starts empty
	if m.templateForm != nil && m.templateForm.Prompt().ID == p.ID && m.templateForm.Prompt().Body == p.Body {
		m.templateForm.Reset()
	} else {
		m.templateForm = NewTemplateForm(p)
	}
	m.templateForm.Resize(m.formWidth())
	m.prevMode = m.viewMode
	m.viewMode = ViewTemplateForm
	return nil
}

func (m *Model) copyJSON(p models.Prompt) tea.Cmd {
	text, err := renderer.NewRenderer(&p).RenderJSON(nil)
	if err != nil {
		return m.setStatus(fmt.Sprintf("Failed to render JSON: %v", err), "error")
	}
	return copyCmd(m.clip, p.ID, text)
}

func (m *Model) openDetail(p models.Prompt) {
	m.selectedPrompt = &p
	m.viewMode = ViewPromptDetail
	if err := m.renderPreview(); err != nil {
		logging.Logger.Warnw("Failed to render preview", "id", p.ID, "error", err)
	}
	m.viewport.GotoTop()
}

// applyCollection pulls the service state after a load or reload
func (m *Model) applyCollection() {
	m.loadState, m.loadErr = m.service.State()
	if m.loadState == service.LoadFailed {
		m.errHandler.HandleError(m.loadErr)
	}

	all := m.service.Categories()
	m.categories = make([]string, 0, len(all))
	for _, c := range all {
		// Uncategorized prompts are reachable through "All Categories"
		if c != "" {
			m.categories = append(m.categories, c)
		}
	}
	if m.category != "" && m.categoryIndex() == 0 {
		m.category = ""
	}
	m.search.SetPool(m.service.SuggestionPool())
	m.refreshPromptList()

	if m.selectedPrompt != nil {
		if p, err := m.service.GetPrompt(m.selectedPrompt.ID); err == nil {
			m.selectedPrompt = p
			_ = m.renderPreview()
		}
	}
}

// categoryIndex is the selected position in the category bar, 0 being all
func (m *Model) categoryIndex() int {
	for i, c := range m.categories {
		if c == m.category {
			return i + 1
		}
	}
	return 0
}

func (m *Model) cycleCategory(step int) {
	n := len(m.categories) + 1
	next := (m.categoryIndex() + step + n) % n
	if next == 0 {
		m.category = ""
	} else {
		m.category = m.categories[next-1]
	}
	m.refreshPromptList()
}

// refreshPromptList re-applies the search query and category to the collection
func (m *Model) refreshPromptList() {
	m.filtered = m.service.FilterPrompts(m.search.Value(), m.category)
	m.refreshItems()
	m.promptList.Select(0)
}

func (m *Model) refreshItems() {
	items := make([]list.Item, len(m.filtered))
	for i, p := range m.filtered {
		_, copied := m.copied[p.ID]
		items[i] = cardItem{prompt: p, copied: copied}
	}
	m.promptList.SetItems(items)
}

// renderPreview renders the selected prompt for the detail view
func (m *Model) renderPreview() error {
	if m.selectedPrompt == nil {
		return fmt.Errorf("no prompt selected")
	}

	r := renderer.NewRenderer(m.selectedPrompt)
	rendered, err := r.RenderText(nil)
	if err != nil {
		rendered = m.selectedPrompt.Body
	}

	formatted, err := m.glamourRenderer.Render(rendered)
	if err != nil {
		m.viewport.SetContent(rendered)
		return err
	}
	m.viewport.SetContent(formatted)
	return nil
}

func (m *Model) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.width = width
	m.height = height
	m.search.SetWidth(width - 4)
	m.help.Width = width - 4

	reserved := minReservedHeight
	if m.showExpandedHelp {
		reserved += 3
	}
	listHeight := height - reserved
	if listHeight < 3 {
		listHeight = 3
	}
	m.promptList.SetSize(width-4, listHeight)

	m.viewport.Width = width - 8
	m.viewport.Height = listHeight - 2
	if m.templateForm != nil {
		m.templateForm.Resize(m.formWidth())
	}

	if r, err := createGlamourRenderer(width - 10); err == nil {
		m.glamourRenderer = r
		if m.viewMode == ViewPromptDetail {
			_ = m.renderPreview()
		}
	}
}

func (m *Model) formWidth() int {
	if m.width > 84 {
		return 80
	}
	return m.width - 4
}

// View renders the current view
func (m Model) View() string {
	var mainView string

	switch m.viewMode {
	case ViewPromptDetail:
		mainView = m.renderPromptDetailView()
	case ViewTemplateForm:
		return CenterModal(m.templateForm.View(), m.width, m.height)
	default:
		mainView = m.renderLibraryView()
	}

	if m.statusMsg != "" {
		statusBar := CreateStatus(m.statusMsg, m.statusType)
		return AddMainPadding(lipgloss.JoinVertical(lipgloss.Left, mainView, statusBar))
	}

	return AddMainPadding(mainView)
}

// renderHeader renders the title and, once loaded, the result count
func (m Model) renderHeader() string {
	lines := []string{CreateMainHeader(appTitle)}
	if m.loadState == service.LoadReady {
		lines = append(lines, CreateResultCount(len(m.filtered)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderLibraryView renders the search box, category bar and prompt cards
func (m Model) renderLibraryView() string {
	elements := []string{m.renderHeader(), m.search.View()}

	switch m.loadState {
	case service.LoadPending:
		elements = append(elements, StyleLoading.Render("⏳ Loading prompts..."))
	case service.LoadFailed:
		elements = append(elements, CreateStatus(m.errHandler.FormatError(m.loadErr), "error"))
	default:
		labels := append([]string{allCategories}, m.categories...)
		elements = append(elements, CreateCategoryBar(labels, m.categoryIndex(), m.width-4))
		if len(m.filtered) == 0 {
			elements = append(elements, m.renderEmptyState())
		} else {
			elements = append(elements, m.promptList.View())
		}
	}

	m.help.ShowAll = m.showExpandedHelp
	elements = append(elements, StyleTextDim.Render(m.help.View(m.keys)))

	return lipgloss.JoinVertical(lipgloss.Left, elements...)
}

func (m Model) renderEmptyState() string {
	title := "No prompts available"
	body := "There are no prompts in the collection yet. Check back soon for new additions!"
	if m.search.Value() != "" || m.category != "" {
		title = "No prompts found"
		body = "Try adjusting your search terms or category filters to find what you're looking for."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		StyleText.Bold(true).Render(title),
		StyleTextMuted.Render(body),
		"",
	)
}

// renderPromptDetailView renders the selected prompt in full-page view
func (m Model) renderPromptDetailView() string {
	if m.selectedPrompt == nil {
		return "No prompt selected"
	}
	p := m.selectedPrompt

	header := CreateMainHeader(p.Title())
	if _, ok := m.copied[p.ID]; ok {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, CreateStatus("✓ Copied!", "success"))
	}

	var meta []string
	meta = append(meta, "ID: "+p.ID)
	if p.Category != "" {
		meta = append(meta, StyleBadge.Render(p.Category))
	}
	if len(p.Tags) > 0 {
		meta = append(meta, "Tags: "+strings.Join(p.Tags, ", "))
	}
	if !p.CreatedAt.IsZero() {
		meta = append(meta, "Added: "+p.CreatedAt.Format("2006-01-02"))
	}

	elements := []string{header, CreateMetadata(strings.Join(meta, " • "))}
	if p.Summary != "" {
		elements = append(elements, StyleTextMuted.Render(p.Summary))
	}

	topIndicator, bottomIndicator := CreateScrollIndicators(!m.viewport.AtTop(), !m.viewport.AtBottom())
	content := StyleContentContainer.Render(lipgloss.JoinVertical(lipgloss.Left,
		topIndicator,
		m.viewport.View(),
		bottomIndicator,
	))
	elements = append(elements, content)

	copyHint := "c copy"
	if len(renderer.ExtractFields(p.Body)) > 0 {
		copyHint = "c copy with inputs"
	}
	essential := []string{copyHint, "esc back"}
	additional := []string{"y copy JSON • ↑/↓ scroll • q quit"}
	elements = append(elements, CreateContextualHelp(essential, additional, m.showExpandedHelp, m.width))

	return lipgloss.JoinVertical(lipgloss.Left, elements...)
}
