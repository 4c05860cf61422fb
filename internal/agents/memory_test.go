package agents

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionMemoryKeepsLastThreeInputs(t *testing.T) {
	m := NewSessionMemory()
	for i := 1; i <= 5; i++ {
		m.RememberInput(fmt.Sprintf("input %d", i))
	}

	assert.Equal(t, []string{"input 3", "input 4", "input 5"}, m.RecentInputs())

	block := m.Block()
	assert.NotContains(t, block, "input 1")
	assert.NotContains(t, block, "input 2")
	// oldest first
	assert.Less(t, strings.Index(block, "input 3"), strings.Index(block, "input 5"))
}

func TestSessionMemoryBlockWithoutPlan(t *testing.T) {
	m := NewSessionMemory()
	m.RememberInput("πρώτη ερώτηση")

	block := m.Block()
	assert.Contains(t, block, "SESSION MEMORY")
	assert.Contains(t, block, "- πρώτη ερώτηση")
	assert.Contains(t, block, "Κανένα")
}

func TestSessionMemoryTracksLastPlan(t *testing.T) {
	m := NewSessionMemory()
	assert.Empty(t, m.LastPlan())

	m.SetLastPlan("goal: study plan")
	assert.Equal(t, "goal: study plan", m.LastPlan())
	assert.Contains(t, m.Block(), "goal: study plan")
	assert.NotContains(t, m.Block(), "Κανένα")
}

func TestSessionMemoryEmptyHistoryPlaceholder(t *testing.T) {
	m := NewSessionMemory()
	assert.Contains(t, m.Block(), "(κανένα)")
}
