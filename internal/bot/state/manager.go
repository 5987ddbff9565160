package state

import "sync"

// Dialog states of a chat
const (
	None                    = "none"
	WaitingForQuestions     = "waiting_for_questions"
	WaitingForChecklistItem = "waiting_for_checklist_item"
)

// StateManager tracks which free-text answer a chat is expected to send next
type StateManager interface {
	SetUserState(chatID int64, state string)
	GetUserState(chatID int64) string
	ClearUserState(chatID int64)
}

// Manager keeps dialog states in memory. States are short-lived and are not persisted.
type Manager struct {
	userStates map[int64]string
	mu         sync.RWMutex
}

// NewManager creates a new state manager
func NewManager() *Manager {
	return &Manager{
		userStates: make(map[int64]string),
	}
}

// SetUserState sets the state for a chat
func (m *Manager) SetUserState(chatID int64, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state == None {
		delete(m.userStates, chatID)
		return
	}
	m.userStates[chatID] = state
}

// GetUserState gets the state for a chat
func (m *Manager) GetUserState(chatID int64) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, exists := m.userStates[chatID]
	if !exists {
		return None
	}
	return state
}

// ClearUserState clears the state for a chat
func (m *Manager) ClearUserState(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.userStates, chatID)
}
