package versions

// State is the lifecycle of a single version operation.
type State int

const (
	Idle State = iota
	Requesting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Requesting:
		return "requesting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) transition(to State) {
	m.mu.Lock()
	m.state = to
	hook := m.onState
	m.mu.Unlock()
	if hook != nil {
		hook(to)
	}
}

// run moves Idle → Requesting → Succeeded|Failed → Idle around fn. The
// return to Idle happens even if fn panics.
func (m *Manager) run(fn func() error) (err error) {
	m.mu.Lock()
	if m.state != Idle {
		m.mu.Unlock()
		return ErrBusy
	}
	m.state = Requesting
	hook := m.onState
	m.mu.Unlock()
	if hook != nil {
		hook(Requesting)
	}

	settled := false
	defer func() {
		if !settled {
			m.transition(Failed)
			m.transition(Idle)
		}
	}()

	err = fn()
	settled = true
	if err == nil {
		m.transition(Succeeded)
	} else {
		m.transition(Failed)
	}
	m.transition(Idle)
	return err
}
