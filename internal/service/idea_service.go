package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"ideaforge-be/internal/common"
	"ideaforge-be/internal/entities"
	"ideaforge-be/internal/logging"
	"ideaforge-be/internal/models"
	"ideaforge-be/internal/repository"
	"ideaforge-be/internal/workflow"
)

const (
	// HistoryLimit bounds how many batches the history view loads
	HistoryLimit = 50
	// HistoryPerPage is the history page size
	HistoryPerPage = 5
	// DashboardLimit is how many recent batches the dashboard shows
	DashboardLimit = 10
)

// IdeaGenerator runs the generation pipeline for one niche
type IdeaGenerator interface {
	Run(ctx context.Context, niche string, webSearchEnabled bool) (*workflow.Result, error)
}

// IdeaService defines the interface for idea generation and storage
type IdeaService interface {
	Generate(ctx context.Context, userID, niche string, webSearch bool) (*models.GenerateResponse, error)
	SaveIdeas(ctx context.Context, userID, niche string, ideas []entities.Idea, webSearchUsed bool) (*entities.BusinessIdea, error)
	GetUserIdeas(ctx context.Context, userID string, limit int) []*entities.BusinessIdea
	GetIdeaByID(ctx context.Context, id string) (*entities.BusinessIdea, error)
	GetOwnedIdea(ctx context.Context, userID, id string) (*entities.BusinessIdea, error)
	History(ctx context.Context, userID string, page int) *models.HistoryResponse
	Dashboard(ctx context.Context, userID, email string) *models.DashboardResponse
}

type ideaService struct {
	repo      repository.IdeaRepository
	generator IdeaGenerator
	logger    logging.Logger
}

// NewIdeaService creates a new idea service
func NewIdeaService(repo repository.IdeaRepository, generator IdeaGenerator, logger logging.Logger) IdeaService {
	return &ideaService{
		repo:      repo,
		generator: generator,
		logger:    logger,
	}
}

// Generate runs the pipeline and stores the batch. A batch that was generated but could not be
// stored is still returned, with Saved unset and a warning.
func (s *ideaService) Generate(ctx context.Context, userID, niche string, webSearch bool) (*models.GenerateResponse, error) {
	result, err := s.generator.Run(ctx, niche, webSearch)
	if err != nil {
		return nil, err
	}

	sources := result.Sources
	if sources == nil {
		sources = []entities.Source{}
	}

	resp := &models.GenerateResponse{
		Niche:         result.Niche,
		Ideas:         result.Ideas,
		Sources:       sources,
		WebSearchUsed: result.WebSearchUsed,
	}

	batch, err := s.SaveIdeas(ctx, userID, niche, result.Ideas, result.WebSearchUsed)
	if err != nil {
		s.logger.Error(ctx, "failed to save generated ideas", "user_id", userID, "error", err)
		resp.Message = "Ideas generated"
		resp.Warning = "Ideas generated but failed to save to database."
		if errors.Is(err, common.ErrValidation) {
			resp.Warning = "Ideas generated but were incomplete and not saved."
		}
		return resp, nil
	}

	resp.Message = "Business ideas generated successfully!"
	resp.ID = batch.ID
	resp.Saved = true

	s.logger.Info(ctx, "ideas generated", "user_id", userID, "batch_id", batch.ID, "web_search", webSearch)
	return resp, nil
}

// SaveIdeas validates the batch shape and persists it
func (s *ideaService) SaveIdeas(ctx context.Context, userID, niche string, ideas []entities.Idea, webSearchUsed bool) (*entities.BusinessIdea, error) {
	if !entities.ValidateFormat(ideas) {
		return nil, fmt.Errorf("%w: expected %d ideas with non-blank fields", common.ErrValidation, entities.IdeasPerBatch)
	}

	batch, err := s.repo.Create(ctx, userID, niche, ideas, webSearchUsed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	return batch, nil
}

// GetUserIdeas returns the newest batches first. Storage failures yield an empty list.
func (s *ideaService) GetUserIdeas(ctx context.Context, userID string, limit int) []*entities.BusinessIdea {
	batches, err := s.repo.FindByUserID(ctx, userID, limit)
	if err != nil {
		s.logger.Error(ctx, "failed to load user ideas", "user_id", userID, "error", err)
		return []*entities.BusinessIdea{}
	}
	return batches
}

func (s *ideaService) GetIdeaByID(ctx context.Context, id string) (*entities.BusinessIdea, error) {
	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	return batch, nil
}

// GetOwnedIdea is GetIdeaByID restricted to batches owned by userID
func (s *ideaService) GetOwnedIdea(ctx context.Context, userID, id string) (*entities.BusinessIdea, error) {
	batch, err := s.GetIdeaByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch.UserID != userID {
		return nil, common.ErrForbidden
	}
	return batch, nil
}

func (s *ideaService) History(ctx context.Context, userID string, page int) *models.HistoryResponse {
	if page < 1 {
		page = 1
	}

	all := s.GetUserIdeas(ctx, userID, HistoryLimit)

	start := (page - 1) * HistoryPerPage
	end := start + HistoryPerPage
	if start > len(all) {
		start = len(all)
	}
	if end > len(all) {
		end = len(all)
	}

	return &models.HistoryResponse{
		Ideas:   models.NewIdeaBatchResponses(all[start:end]),
		Page:    page,
		PerPage: HistoryPerPage,
		HasPrev: page > 1,
		HasNext: len(all) > page*HistoryPerPage,
	}
}

func (s *ideaService) Dashboard(ctx context.Context, userID, email string) *models.DashboardResponse {
	return &models.DashboardResponse{
		Email:         email,
		DisplayName:   DisplayName(email),
		PreviousIdeas: models.NewIdeaBatchResponses(s.GetUserIdeas(ctx, userID, DashboardLimit)),
	}
}

// DisplayName turns the local part of an email into a greeting name: john.doe_x@y -> John Doe X.
// Falls back to the email itself when nothing usable is left.
func DisplayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.NewReplacer(".", " ", "_", " ").Replace(local)

	words := strings.Fields(local)
	for i, w := range words {
		words[i] = capitalize(w)
	}

	if name := strings.Join(words, " "); name != "" {
		return name
	}
	return email
}

func capitalize(w string) string {
	r := []rune(strings.ToLower(w))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
