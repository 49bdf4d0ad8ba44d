package bot

import "sync"

// Mode tracks whether entries go to the trial sheet or the live sheet. The
// bot starts in test mode so a fresh deployment cannot touch live data
// before the user opts in with /enable_production.
type Mode struct {
	mu   sync.Mutex
	test bool
}

func NewMode() *Mode {
	return &Mode{test: true}
}

func (m *Mode) TestMode() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.test
}

func (m *Mode) SetTestMode(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.test = enabled
}
