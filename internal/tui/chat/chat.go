// Package chat implements the interactive chat TUI: a bubbletea model that
// feeds provider chunks through the streaming renderer and paints settled
// markdown plus a dimmed pending tail.
package chat

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"golang.org/x/term"

	chatsvc "github.com/AlphsX/synx-agent-preview-sub000/internal/chat"
	"github.com/AlphsX/synx-agent-preview-sub000/internal/config"
	"github.com/AlphsX/synx-agent-preview-sub000/internal/stream"
	"github.com/AlphsX/synx-agent-preview-sub000/internal/ui"
)

// eventBufferSize bounds the bridge channel between stream callbacks and the
// bubbletea loop. Renderer updates are posted synchronously, so the buffer
// must never be zero.
const eventBufferSize = 64

// Model is the main chat TUI model
type Model struct {
	width  int
	height int

	textarea textarea.Model
	spinner  spinner.Model
	styles   *ui.Styles
	keyMap   KeyMap

	cfg            *config.Config
	service        *chatsvc.Service
	modelName      string
	conversationID string

	messages []chatsvc.Message // settled transcript
	current  *chatsvc.Message  // in-flight assistant message

	renderer *stream.Renderer
	snapshot stream.Update

	streaming bool
	events    chan tea.Msg
	cancel    context.CancelFunc

	errText  string
	quitting bool
}

// New creates a new chat model
func New(cfg *config.Config, service *chatsvc.Service, modelName string) *Model {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	styles := ui.DefaultStyles()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.Prompt = "❯ "
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(width)
	ta.SetHeight(1)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle()
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(styles.Theme().Muted)
	ta.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(styles.Theme().Primary).Bold(true)
	ta.BlurredStyle = ta.FocusedStyle
	ta.Focus()

	m := &Model{
		width:          width,
		height:         height,
		textarea:       ta,
		spinner:        s,
		styles:         styles,
		keyMap:         DefaultKeyMap(),
		cfg:            cfg,
		service:        service,
		modelName:      modelName,
		conversationID: uuid.NewString(),
		events:         make(chan tea.Msg, eventBufferSize),
	}

	m.renderer = stream.NewRenderer(stream.Options{
		DebounceInterval: time.Duration(cfg.Streaming.DebounceMs) * time.Millisecond,
		CacheSize:        cfg.Streaming.CacheSize,
		WordsPerMinute:   cfg.Streaming.WordsPerMinute,
		OnUpdate:         func(string) { m.events <- rendererUpdateMsg{} },
	})

	return m
}

func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textarea.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			m.quitting = true
			m.stopStream()
			m.renderer.Close()
			return m, tea.Quit

		case key.Matches(msg, m.keyMap.Cancel):
			if m.streaming {
				m.stopStream()
				m.settleCurrent()
			}
			return m, nil

		case key.Matches(msg, m.keyMap.Clear):
			if !m.streaming {
				m.messages = nil
				m.errText = ""
				m.service.Reset(m.conversationID)
				m.conversationID = uuid.NewString()
			}
			return m, nil

		case key.Matches(msg, m.keyMap.Send):
			if m.streaming {
				return m, nil
			}
			text := strings.TrimSpace(m.textarea.Value())
			if text == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m, tea.Batch(m.startStream(text), m.waitForEvent(), m.spinner.Tick)
		}

	case streamChunkMsg:
		if m.current != nil {
			m.current.Content += msg.delta
			m.renderer.SetMessage(m.current.ID, m.current.Content, false)
		}
		return m, m.waitForEvent()

	case streamCompleteMsg:
		if m.current != nil {
			m.current.Content = msg.data.Content
			m.renderer.SetMessage(m.current.ID, m.current.Content, true)
			m.settleCurrent()
		}
		m.streaming = false
		return m, nil

	case streamErrorMsg:
		m.errText = msg.message
		m.settleCurrent()
		m.streaming = false
		return m, nil

	case rendererUpdateMsg:
		m.snapshot = m.renderer.Snapshot()
		if m.streaming {
			return m, m.waitForEvent()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.streaming {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// settleCurrent moves the in-flight assistant message into the transcript.
func (m *Model) settleCurrent() {
	if m.current == nil {
		return
	}
	m.current.IsStreaming = false
	if analysis := m.renderer.Analysis(); m.current.Content != "" {
		features := analysis.Features
		m.current.Features = &features
	}
	if m.current.Content != "" {
		m.messages = append(m.messages, *m.current)
	}
	m.current = nil
	m.snapshot = stream.Update{}
}
