package agents

import (
	"fmt"
	"strings"
)

// MaxRecentInputs bounds how many prior utterances the session keeps.
const MaxRecentInputs = 3

// SessionMemory holds the bounded recent-input history and the last
// produced plan. It is owned by a single conversation and mutated once
// per turn; it is not safe for concurrent use and is discarded at exit.
type SessionMemory struct {
	inputs   []string
	lastPlan string
}

func NewSessionMemory() *SessionMemory { return &SessionMemory{} }

// RememberInput appends an utterance, keeping only the most recent ones.
func (m *SessionMemory) RememberInput(utterance string) {
	m.inputs = append(m.inputs, utterance)
	if len(m.inputs) > MaxRecentInputs {
		m.inputs = m.inputs[len(m.inputs)-MaxRecentInputs:]
	}
}

// RecentInputs returns the remembered utterances, oldest first.
func (m *SessionMemory) RecentInputs() []string {
	out := make([]string, len(m.inputs))
	copy(out, m.inputs)
	return out
}

// LastPlan returns the most recently produced plan, or "" when none exists.
func (m *SessionMemory) LastPlan() string { return m.lastPlan }

// SetLastPlan replaces the remembered plan after a planning turn.
func (m *SessionMemory) SetLastPlan(plan string) { m.lastPlan = plan }

// Block renders the session state for inclusion in every stage prompt.
func (m *SessionMemory) Block() string {
	var history strings.Builder
	if len(m.inputs) == 0 {
		history.WriteString("(κανένα)")
	} else {
		for i, in := range m.inputs {
			if i > 0 {
				history.WriteString("\n")
			}
			history.WriteString("- ")
			history.WriteString(in)
		}
	}
	plan := m.lastPlan
	if plan == "" {
		plan = "Κανένα"
	}
	return fmt.Sprintf(`SESSION MEMORY (τελευταία inputs χρήστη):
%s

ΤΕΛΕΥΤΑΙΟ PLAN (αν υπάρχει):
%s`, history.String(), plan)
}
