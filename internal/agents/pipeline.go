// Package agents implements the Planner -> Critic -> Executor pipeline,
// the deterministic tool invoker and the per-conversation session memory.
package agents

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"ragplanner/internal/llm"
)

// Result is the terminal output of one pipeline run. Plan is the
// Planner's raw output, kept separately from the final answer so the
// session can thread it into later turns.
type Result struct {
	FinalAnswer string
	Plan        string
}

// Pipeline runs the three agent stages strictly in sequence; each stage
// makes exactly one completion call whose prompt depends on the previous
// stage's output, so there is no parallelism opportunity within a turn.
type Pipeline struct {
	completer llm.Completer
	log       *log.Logger
}

func NewPipeline(completer llm.Completer, logger *log.Logger) *Pipeline {
	return &Pipeline{completer: completer, log: logger}
}

// Run executes Planner, the tool invoker, Critic and Executor for one
// planning turn. A completion failure at any stage aborts the turn.
func (p *Pipeline) Run(ctx context.Context, utterance, contextBlock, memoryBlock string) (Result, error) {
	plan, err := p.completer.Complete(ctx, plannerPrompt(memoryBlock, utterance, contextBlock))
	if err != nil {
		return Result{}, fmt.Errorf("planner stage: %w", err)
	}

	toolOutput := ToolNotRequiredSentinel
	if call, ok := DetectToolCall(plan); ok {
		out, terr := EstimateStudyTime(call.Days, call.Topics)
		if terr != nil {
			p.log.Warn("rejected tool invocation", "days", call.Days, "topics", call.Topics, "err", terr)
			toolOutput = "Μη έγκυρες παράμετροι εκτίμησης χρόνου: " + terr.Error()
		} else {
			toolOutput = out
		}
	}

	critique, err := p.completer.Complete(ctx, criticPrompt(memoryBlock, contextBlock, plan))
	if err != nil {
		return Result{}, fmt.Errorf("critic stage: %w", err)
	}

	final, err := p.completer.Complete(ctx, executorPrompt(memoryBlock, contextBlock, plan, critique, toolOutput))
	if err != nil {
		return Result{}, fmt.Errorf("executor stage: %w", err)
	}

	return Result{FinalAnswer: final, Plan: plan}, nil
}
