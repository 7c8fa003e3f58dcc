package handlers

import (
	"errors"
	"net/http"

	"github.com/federal-associados/app-cadastro/internal/logging"
	"github.com/federal-associados/app-cadastro/internal/models"
	"github.com/federal-associados/app-cadastro/internal/services"
	"github.com/federal-associados/app-cadastro/internal/wizard"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegistrationHandlers forwards complete submissions to the affiliate
// platform
type RegistrationHandlers struct {
	submitter wizard.Submitter
	limiter   *services.RateLimiter
	logger    *logging.SafeLogger
}

// NewRegistrationHandlers creates a new registration handlers instance. A nil
// limiter disables rate limiting.
func NewRegistrationHandlers(submitter wizard.Submitter, limiter *services.RateLimiter, logger *logging.SafeLogger) *RegistrationHandlers {
	return &RegistrationHandlers{
		submitter: submitter,
		limiter:   limiter,
		logger:    logger,
	}
}

// SubmitRegistration godoc
// @Summary Enviar cadastro
// @Description Encaminha o cadastro para a Federal Associados e normaliza a resposta. Em caso de sucesso inclui o link de WhatsApp do patrocinador.
// @Tags registrations
// @Accept json
// @Produce json
// @Param data body models.Submission true "Dados do cadastro"
// @Success 200 {object} models.SubmissionResult "Cadastro enviado"
// @Failure 400 {object} models.SubmissionResult "Corpo inválido ou cadastro não confirmado"
// @Failure 429 {object} ErrorResponse "Limite de envios excedido"
// @Failure 500 {object} models.SubmissionResult "Falha de comunicação com a Federal Associados"
// @Router /registrations [post]
func (h *RegistrationHandlers) SubmitRegistration(c *gin.Context) {
	ctx := c.Request.Context()

	var sub models.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, models.SubmissionResult{Success: false, Error: "Invalid request body: " + err.Error()})
		return
	}
	if sub.TypeChip == "" {
		sub.TypeChip = models.ChipPhysical
	}

	if h.limiter != nil && !h.limiter.Allow(ctx, "registration") {
		h.logger.Warn("registration rate limited", zap.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "Too many registrations, try again shortly"})
		return
	}

	result, err := h.submitter.Submit(ctx, sub)
	if err != nil {
		if result == nil {
			result = &models.SubmissionResult{Success: false, Error: err.Error()}
		}
		if !errors.Is(err, models.ErrUpstreamTransport) {
			h.logger.Error("registration failed", zap.Error(err))
		}
		c.JSON(http.StatusInternalServerError, result)
		return
	}

	if !result.Success {
		c.JSON(http.StatusBadRequest, result)
		return
	}
	c.JSON(http.StatusOK, result)
}
