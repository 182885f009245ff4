package controllers

import (
	"net/http"
	"strings"

	"ideaforge-be/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

const qrCodeSize = 256

type QRCodeController struct {
	ideaService service.IdeaService
	frontendURL string
}

func NewQRCodeController(ideaService service.IdeaService, frontendURL string) *QRCodeController {
	return &QRCodeController{
		ideaService: ideaService,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// GenerateQRCode handles GET /api/v1/ideas/:id/qrcode. The code points at the frontend view of
// the batch, so only its owner can request one.
func (qc *QRCodeController) GenerateQRCode(c *gin.Context) {
	batch, ok := loadOwnedIdea(c, qc.ideaService)
	if !ok {
		return
	}

	viewURL := qc.frontendURL + "/ideas/" + batch.ID

	pngData, err := qrcode.Encode(viewURL, qrcode.Medium, qrCodeSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate QR code",
		})
		return
	}

	c.Header("Content-Disposition", "inline; filename=idea-"+batch.ID+".png")
	c.Data(http.StatusOK, "image/png", pngData)
}
