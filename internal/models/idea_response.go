package models

import (
	"time"

	"ideaforge-be/internal/entities"
)

// GenerateResponse is returned for a generation request. Warning is set when the ideas were
// generated but could not be stored.
type GenerateResponse struct {
	Message       string            `json:"message"`
	Warning       string            `json:"warning,omitempty"`
	ID            string            `json:"id,omitempty"`
	Niche         string            `json:"niche"`
	Ideas         []entities.Idea   `json:"ideas"`
	Sources       []entities.Source `json:"sources"`
	WebSearchUsed bool              `json:"web_search_used"`
	Saved         bool              `json:"saved"`
}

// IdeaBatchResponse is a stored batch as shown in history and detail views
type IdeaBatchResponse struct {
	ID            string          `json:"id"`
	Niche         string          `json:"niche"`
	Ideas         []entities.Idea `json:"ideas"`
	WebSearchUsed bool            `json:"web_search_used"`
	CreatedAt     time.Time       `json:"created_at"`
}

// HistoryResponse is one page of a user's stored batches
type HistoryResponse struct {
	Ideas   []IdeaBatchResponse `json:"ideas"`
	Page    int                 `json:"page"`
	PerPage int                 `json:"per_page"`
	HasPrev bool                `json:"has_prev"`
	HasNext bool                `json:"has_next"`
}

// DashboardResponse greets the user with their latest batches
type DashboardResponse struct {
	Email         string              `json:"email"`
	DisplayName   string              `json:"display_name"`
	PreviousIdeas []IdeaBatchResponse `json:"previous_ideas"`
}

// NewIdeaBatchResponse converts a stored batch to its response DTO
func NewIdeaBatchResponse(b *entities.BusinessIdea) IdeaBatchResponse {
	return IdeaBatchResponse{
		ID:            b.ID,
		Niche:         b.Niche,
		Ideas:         b.Ideas,
		WebSearchUsed: b.WebSearchUsed,
		CreatedAt:     b.CreatedAt,
	}
}

// NewIdeaBatchResponses converts a list of batches, never returning nil
func NewIdeaBatchResponses(batches []*entities.BusinessIdea) []IdeaBatchResponse {
	out := make([]IdeaBatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, NewIdeaBatchResponse(b))
	}
	return out
}
