package session

import "sync"

// State is the explicit session context shared by the API client (reads the
// token) and the manager (writes it). It replaces ambient storage lookups.
type State struct {
	mu      sync.RWMutex
	token   string
	email   string
	cashier string
}

func NewState() *State {
	return &State{}
}

// Token implements the API client's token source.
func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *State) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

// Cashier is the display name stamped onto sales and receipts.
func (s *State) Cashier() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cashier
}

func (s *State) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

func (s *State) set(token, email, cashier string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.email = email
	s.cashier = cashier
}

func (s *State) setCashier(cashier string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cashier = cashier
}

func (s *State) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.email = ""
	s.cashier = ""
}
