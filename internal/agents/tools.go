package agents

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ToolMarker is the literal the Planner emits to request the study-time
// estimate. Detection is a substring match over the plan text: the
// upstream model returns loose text, so parameters are parsed defensively
// and fall back to defaults instead of assuming structure.
const ToolMarker = "estimate_study_time"

const (
	hoursPerTopic = 2

	defaultToolDays   = 4
	defaultToolTopics = 4
)

var (
	daysPattern   = regexp.MustCompile(`(?i)"?days"?\s*[:=]\s*(\d+)`)
	topicsPattern = regexp.MustCompile(`(?i)"?topics"?\s*[:=]\s*(\d+)`)
)

// ToolCall is the parameters recovered from a Planner tool request.
type ToolCall struct {
	Days   int
	Topics int
}

// DetectToolCall reports whether the plan text requests the study-time
// tool, extracting days/topics when the Planner stated them.
func DetectToolCall(plan string) (ToolCall, bool) {
	if !strings.Contains(plan, ToolMarker) {
		return ToolCall{}, false
	}
	call := ToolCall{Days: defaultToolDays, Topics: defaultToolTopics}
	if m := daysPattern.FindStringSubmatch(plan); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			call.Days = n
		}
	}
	if m := topicsPattern.FindStringSubmatch(plan); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			call.Topics = n
		}
	}
	return call, true
}

// EstimateStudyTime computes a deterministic study-time estimate:
// topics * 2 hours in total, spread over the requested days. Zero or
// negative days are rejected before computation rather than producing
// infinity.
func EstimateStudyTime(days, topics int) (string, error) {
	if days <= 0 {
		return "", fmt.Errorf("days must be positive, got %d", days)
	}
	if topics <= 0 {
		return "", fmt.Errorf("topics must be positive, got %d", topics)
	}
	totalHours := topics * hoursPerTopic
	perDay := math.Round(float64(totalHours)/float64(days)*10) / 10
	return fmt.Sprintf("Εκτιμώμενος συνολικός χρόνος: %d ώρες.\nΠερίπου %.1f ώρες μελέτης ανά ημέρα.", totalHours, perDay), nil
}
