// Package service composes router, retriever, agent pipeline and session
// memory into one request/response cycle per user turn.
package service

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"ragplanner/internal/agents"
	"ragplanner/internal/domain"
	"ragplanner/internal/llm"
)

// NotFoundSentinel is the fixed answer the Q/A instruction mandates when
// the retrieved context cannot answer the question.
const NotFoundSentinel = "Δεν βρέθηκε στο αρχείο"

// ContextRetriever is the retrieval-facing contract of the orchestrator.
type ContextRetriever interface {
	RetrieveContext(query string, k int) (string, error)
}

// Classifier routes an utterance to Q/A or planning.
type Classifier interface {
	Classify(utterance string) domain.Route
}

// Orchestrator owns the session state for one conversation and drives
// one turn at a time. A turn makes one completion call on the Q/A route
// and three on the planning route; the deterministic tool adds none.
type Orchestrator struct {
	retriever ContextRetriever
	router    Classifier
	pipeline  *agents.Pipeline
	completer llm.Completer
	memory    *agents.SessionMemory
	topK      int
	log       *log.Logger
}

func NewOrchestrator(
	retriever ContextRetriever,
	router Classifier,
	pipeline *agents.Pipeline,
	completer llm.Completer,
	topK int,
	logger *log.Logger,
) *Orchestrator {
	if topK <= 0 {
		topK = 4
	}
	return &Orchestrator{
		retriever: retriever,
		router:    router,
		pipeline:  pipeline,
		completer: completer,
		memory:    agents.NewSessionMemory(),
		topK:      topK,
		log:       logger,
	}
}

// HandleTurn appends the utterance to the session history, retrieves
// context, classifies the utterance, and runs either the direct Q/A call
// or the full agent pipeline. On the planning route the session's last
// plan is replaced by the Planner's raw output; Q/A leaves it unchanged.
func (o *Orchestrator) HandleTurn(ctx context.Context, utterance string) (string, error) {
	o.memory.RememberInput(utterance)
	memoryBlock := o.memory.Block()

	contextBlock, err := o.retriever.RetrieveContext(utterance, o.topK)
	if err != nil {
		return "", fmt.Errorf("retrieve context: %w", err)
	}

	route := o.router.Classify(utterance)
	o.log.Debug("routed utterance", "route", route.String())

	if route == domain.RouteQuestionAnswering {
		answer, err := o.completer.Complete(ctx, qaPrompt(memoryBlock, utterance, contextBlock))
		if err != nil {
			return "", fmt.Errorf("qa completion: %w", err)
		}
		return answer, nil
	}

	result, err := o.pipeline.Run(ctx, utterance, contextBlock, memoryBlock)
	if err != nil {
		return "", err
	}
	o.memory.SetLastPlan(result.Plan)
	return result.FinalAnswer, nil
}

// LastPlan exposes the session's remembered plan.
func (o *Orchestrator) LastPlan() string { return o.memory.LastPlan() }

func qaPrompt(memoryBlock, utterance, contextBlock string) string {
	if contextBlock == "" {
		contextBlock = agents.NoContextSentinel
	}
	return fmt.Sprintf(`%s

Απάντησε στην ερώτηση χρησιμοποιώντας ΜΟΝΟ το CONTEXT.
- Μην φτιάξεις πλάνο.
- Μην γράψεις ημέρες.
- Αν το CONTEXT δεν έχει την απάντηση, πες: "%s".

ΕΡΩΤΗΣΗ:
%s

CONTEXT:
%s`, memoryBlock, NotFoundSentinel, utterance, contextBlock)
}
