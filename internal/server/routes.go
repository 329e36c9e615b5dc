package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/truthquest/truthquest/internal/model"
	"github.com/truthquest/truthquest/internal/pipeline"
	"github.com/truthquest/truthquest/internal/video"
)

type API struct {
	cfg      *model.Config
	analyzer Analyzer
	quota    QuotaChecker
}

func registerRoutes(r *gin.Engine, api *API, cfg *model.Config) {
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", api.handleHealth)

		metered := apiGroup.Group("")
		metered.Use(Auth(cfg.Server.AuthToken))
		metered.Use(Quota(api.quota))
		metered.POST("/analyze", api.handleAnalyze)
		metered.POST("/transcription", api.handleTranscription)
	}
}

type analyzeRequest struct {
	URL        string `json:"url" binding:"required"`
	OAuthToken string `json:"oauthToken"`
	Exhaustive bool   `json:"exhaustive"`
}

func (a *API) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *API) handleAnalyze(c *gin.Context) {
	var payload analyzeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := a.analyzer.Analyze(c.Request.Context(), payload.URL, pipeline.Options{
		OAuthToken: payload.OAuthToken,
		Exhaustive: payload.Exhaustive,
	})
	if err != nil {
		respondError(c, statusFor(err), "analysis failed", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (a *API) handleTranscription(c *gin.Context) {
	var payload analyzeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	transcript, err := a.analyzer.Transcript(c.Request.Context(), payload.URL, pipeline.Options{
		OAuthToken: payload.OAuthToken,
	})
	if err != nil {
		respondError(c, statusFor(err), "transcription failed", err)
		return
	}

	c.JSON(http.StatusOK, transcript)
}

// statusFor maps pipeline failures onto HTTP statuses: unusable input is the
// caller's fault, everything else is an upstream failure.
func statusFor(err error) int {
	if errors.Is(err, video.ErrNoIdentifier) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func respondError(c *gin.Context, status int, message string, err error) {
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
