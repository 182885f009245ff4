// Package workflow runs the idea-generation pipeline: optional web search, prompt assembly and a
// structured LLM call, modelled as a small explicit state machine.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ideaforge-be/internal/entities"
	"ideaforge-be/internal/logging"
	"ideaforge-be/internal/search"
)

// ErrNoIdeas is returned when the pipeline finishes without ideas and without a recorded cause.
var ErrNoIdeas = errors.New("No ideas were generated") //nolint:staticcheck // shown to users as is

type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) *search.Results
}

type Generator interface {
	GenerateIdeas(ctx context.Context, prompt string) ([]entities.Idea, error)
}

// Step names a node of the pipeline.
type Step string

const (
	StepStart     Step = "start"
	StepWebSearch Step = "web_search"
	StepGenerate  Step = "generate_ideas"
	StepFormat    Step = "format_output"
	StepDone      Step = "done"
)

// State is threaded through every step of a single run.
type State struct {
	Niche            string
	WebSearchEnabled bool
	SearchText       string
	Sources          []entities.Source
	Ideas            []entities.Idea
	Err              error
}

// Result is a successful run.
type Result struct {
	Niche         string            `json:"niche"`
	Ideas         []entities.Idea   `json:"ideas"`
	Sources       []entities.Source `json:"sources"`
	WebSearchUsed bool              `json:"web_search_used"`
}

type Workflow struct {
	searcher  Searcher
	generator Generator
	logger    logging.Logger
	now       func() time.Time
}

func New(searcher Searcher, generator Generator, logger logging.Logger) *Workflow {
	return &Workflow{
		searcher:  searcher,
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes the pipeline for one niche. The search step is only entered when webSearchEnabled
// is set, and its failure never fails the run. Nothing is retried.
func (w *Workflow) Run(ctx context.Context, niche string, webSearchEnabled bool) (*Result, error) {
	state := &State{
		Niche:            niche,
		WebSearchEnabled: webSearchEnabled,
	}

	step := StepStart
	for step != StepDone {
		switch step {
		case StepStart:
			step = shouldWebSearch(state)
		case StepWebSearch:
			step = w.webSearch(ctx, state)
		case StepGenerate:
			step = w.generateIdeas(ctx, state)
		case StepFormat:
			step = formatOutput(state)
		default:
			return nil, fmt.Errorf("unknown workflow step %q", step)
		}
	}

	if state.Err != nil {
		w.logger.Error(ctx, "idea generation failed", "niche", niche, "error", state.Err)
		return nil, state.Err
	}

	return &Result{
		Niche:         niche,
		Ideas:         state.Ideas,
		Sources:       state.Sources,
		WebSearchUsed: webSearchEnabled,
	}, nil
}

func shouldWebSearch(state *State) Step {
	if state.WebSearchEnabled {
		return StepWebSearch
	}
	return StepGenerate
}

func (w *Workflow) webSearch(ctx context.Context, state *State) Step {
	if w.searcher == nil {
		return StepGenerate
	}

	query := searchQuery(state.Niche, w.now())

	// nil means no key, a failed call or nothing useful; generation proceeds without context
	res := w.searcher.Search(ctx, query, search.DefaultMaxResults)
	if res == nil {
		w.logger.Warn(ctx, "web search returned no context", "niche", state.Niche)
		return StepGenerate
	}

	state.SearchText = res.Text
	state.Sources = res.Sources
	return StepGenerate
}

func (w *Workflow) generateIdeas(ctx context.Context, state *State) Step {
	ideas, err := w.generator.GenerateIdeas(ctx, buildPrompt(state.Niche, state.SearchText))
	if err != nil {
		state.Err = fmt.Errorf("Failed to generate ideas: %w", err) //nolint:staticcheck // user-facing
		state.Ideas = nil
		return StepFormat
	}

	state.Ideas = ideas
	return StepFormat
}

// formatOutput enforces the batch contract regardless of which Generator produced the ideas
func formatOutput(state *State) Step {
	switch {
	case state.Err != nil:
	case len(state.Ideas) == 0:
		state.Err = ErrNoIdeas
	default:
		if err := entities.ValidateIdeas(state.Ideas); err != nil {
			state.Err = fmt.Errorf("Failed to generate ideas: %w", err) //nolint:staticcheck // user-facing
			state.Ideas = nil
		}
	}
	return StepDone
}

func searchQuery(niche string, now time.Time) string {
	return fmt.Sprintf("startup ideas trends opportunities %s market analysis %d", niche, now.Year())
}
