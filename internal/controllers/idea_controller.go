package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"ideaforge-be/internal/common"
	"ideaforge-be/internal/entities"
	"ideaforge-be/internal/middleware"
	"ideaforge-be/internal/models"
	"ideaforge-be/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const minNicheLength = 3

type IdeaController struct {
	ideaService service.IdeaService
}

func NewIdeaController(ideaService service.IdeaService) *IdeaController {
	return &IdeaController{
		ideaService: ideaService,
	}
}

// Dashboard handles GET /api/v1/dashboard
func (ic *IdeaController) Dashboard(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	email := c.GetString(middleware.ContextEmail)

	c.JSON(http.StatusOK, ic.ideaService.Dashboard(c.Request.Context(), userID, email))
}

// Generate handles POST /api/v1/ideas/generate
func (ic *IdeaController) Generate(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": bindErrorMessage(err, "Invalid request body"),
		})
		return
	}

	niche := strings.TrimSpace(req.Niche)
	if niche == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Please enter a niche or industry.",
		})
		return
	}
	if utf8.RuneCountInString(niche) < minNicheLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Please enter a more specific niche (at least 3 characters).",
		})
		return
	}

	userID := c.GetString(middleware.ContextUserID)

	response, err := ic.ideaService.Generate(c.Request.Context(), userID, niche, bool(req.WebSearch))
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, gin.H{
			"error":   "Failed to generate business ideas. Please try again.",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// History handles GET /api/v1/ideas/history?page=N
func (ic *IdeaController) History(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	userID := c.GetString(middleware.ContextUserID)
	c.JSON(http.StatusOK, ic.ideaService.History(c.Request.Context(), userID, page))
}

// View handles GET /api/v1/ideas/:id
func (ic *IdeaController) View(c *gin.Context) {
	batch, ok := loadOwnedIdea(c, ic.ideaService)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, models.NewIdeaBatchResponse(batch))
}

// loadOwnedIdea resolves the :id param to a batch owned by the caller, writing the error
// response itself when that fails.
func loadOwnedIdea(c *gin.Context, ideaService service.IdeaService) (*entities.BusinessIdea, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Business idea not found.",
		})
		return nil, false
	}

	userID := c.GetString(middleware.ContextUserID)

	batch, err := ideaService.GetOwnedIdea(c.Request.Context(), userID, id)
	switch {
	case err == nil:
		return batch, true
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Business idea not found.",
		})
	case errors.Is(err, common.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "You do not have permission to view this idea.",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load business idea",
		})
	}
	return nil, false
}
