package entities

import "time"

// IdeasPerBatch is the number of ideas every generation produces and every stored batch holds.
const IdeasPerBatch = 3

// Idea is one generated startup idea. It is embedded in a BusinessIdea and never stored on its own.
type Idea struct {
	Name         string `json:"name" validate:"notblank"`
	Pitch        string `json:"pitch" validate:"notblank"`
	Audience     string `json:"audience" validate:"notblank"`
	RevenueModel string `json:"revenue_model" validate:"notblank"`
}

// BusinessIdea is one generation batch owned by a user
type BusinessIdea struct {
	ID            string    `json:"id"` // UUID
	UserID        string    `json:"user_id"`
	Niche         string    `json:"niche"`
	Ideas         []Idea    `json:"ideas"`
	WebSearchUsed bool      `json:"web_search_used"`
	CreatedAt     time.Time `json:"created_at"`
}

// Source is a web search citation shown next to generated ideas.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}
