// Package router classifies user utterances as knowledge questions or
// planning requests using two configurable keyword sets.
package router

import (
	"strings"

	"ragplanner/internal/domain"
)

// Router is a deterministic keyword heuristic, not a trained classifier.
// An utterance is a knowledge question iff it contains at least one
// question keyword and no planning keyword; planning-intent keywords win
// every tie.
type Router struct {
	question []string
	planning []string
}

func New(questionKeywords, planningKeywords []string) *Router {
	return &Router{
		question: lowerAll(questionKeywords),
		planning: lowerAll(planningKeywords),
	}
}

// Classify routes the utterance. The zero-keyword fallback is Planning,
// matching the original behaviour for utterances that look like neither.
func (r *Router) Classify(utterance string) domain.Route {
	lower := strings.ToLower(utterance)
	if containsAny(lower, r.planning) {
		return domain.RoutePlanning
	}
	if containsAny(lower, r.question) {
		return domain.RouteQuestionAnswering
	}
	return domain.RoutePlanning
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(strings.TrimSpace(s))
	}
	return out
}
