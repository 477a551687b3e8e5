// Package api exposes the prediction service over HTTP.
package api

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Manideep667320/Email-Spam-detection/internal/artifact"
	"github.com/Manideep667320/Email-Spam-detection/internal/core"
	"github.com/Manideep667320/Email-Spam-detection/internal/model"
)

// PredictRequest is the body of POST /predict
type PredictRequest struct {
	Email string `json:"email"`
}

// PredictResponse is the success body of POST /predict
type PredictResponse struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status       string `json:"status"`
	ModelLoaded  bool   `json:"model_loaded"`
	ModelVersion string `json:"model_version,omitempty"`
}

// Handler serves the prediction endpoints
type Handler struct {
	service      *core.SpamFilterService
	artifactPath string
	metricsPath  string
	logger       *zap.Logger
}

// NewHandler creates a handler. artifactPath is only used in error messages.
func NewHandler(service *core.SpamFilterService, artifactPath, metricsPath string, logger *zap.Logger) *Handler {
	return &Handler{
		service:      service,
		artifactPath: artifactPath,
		metricsPath:  metricsPath,
		logger:       logger,
	}
}

// Predict handles POST /predict
func (h *Handler) Predict(c *gin.Context) {
	var req PredictRequest
	// a malformed body is treated the same as a missing field
	_ = c.ShouldBindJSON(&req)

	text := strings.TrimSpace(req.Email)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'email'"})
		return
	}

	prediction, err := h.service.ClassifyText(c.Request.Context(), text)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'email'"})
		case errors.Is(err, core.ErrModelUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Model not loaded. Train and save artifacts to " + h.artifactPath,
			})
		case errors.Is(err, core.ErrFeatureDimensionMismatch):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Model artifact does not match the feature layout"})
		default:
			h.logger.Error("Prediction failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Prediction failed"})
		}
		return
	}

	c.JSON(http.StatusOK, PredictResponse{
		Prediction: prediction.Label.String(),
		Confidence: model.Round3(prediction.Confidence),
	})
}

// Metrics handles GET /metrics by serving the training report
func (h *Handler) Metrics(c *gin.Context) {
	report, err := artifact.LoadReport(h.metricsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Metrics not generated. Run training first."})
			return
		}
		h.logger.Error("Failed to read metrics report", zap.String("path", h.metricsPath), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read metrics: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:       "ok",
		ModelLoaded:  h.service.Available(),
		ModelVersion: h.service.ModelVersion(),
	})
}
