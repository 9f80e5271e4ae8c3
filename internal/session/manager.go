package session

import (
	"log/slog"
	"sync"

	"pagebrief/internal/summarizer"
)

// Manager hands out one Session per chat, constructing lazily.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Session

	extractor  ArticleSource
	summarizer summarizer.Summarizer
	translator Translator
	log        *slog.Logger
}

func NewManager(
	extractor ArticleSource,
	s summarizer.Summarizer,
	translator Translator,
	log *slog.Logger,
) *Manager {
	return &Manager{
		sessions:   make(map[int64]*Session),
		extractor:  extractor,
		summarizer: s,
		translator: translator,
		log:        log,
	}
}

func (m *Manager) Session(chatID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[chatID]; ok {
		return s
	}

	s := newSession(m.extractor, m.summarizer, m.translator, m.log)
	m.sessions[chatID] = s

	return s
}

// Reset drops the chat's session, including its cached summary.
func (m *Manager) Reset(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, chatID)
}
