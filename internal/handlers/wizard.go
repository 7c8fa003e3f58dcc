package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/federal-associados/app-cadastro/internal/logging"
	"github.com/federal-associados/app-cadastro/internal/models"
	"github.com/federal-associados/app-cadastro/internal/wizard"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WizardSessions is the session API the wizard handlers drive
type WizardSessions interface {
	Create(ctx context.Context, layout string) (wizard.State, error)
	Load(ctx context.Context, id string) (wizard.State, error)
	SetFields(ctx context.Context, id string, fields map[string]string) (wizard.State, error)
	Advance(ctx context.Context, id string) (wizard.State, error)
	Retreat(ctx context.Context, id string) (wizard.State, error)
	Reset(ctx context.Context, id string) (wizard.State, error)
	Submit(ctx context.Context, id string) (wizard.State, error)
}

// WizardHandlers exposes the server-side form wizard
type WizardHandlers struct {
	sessions WizardSessions
	logger   *logging.SafeLogger
}

// NewWizardHandlers creates a new wizard handlers instance
func NewWizardHandlers(sessions WizardSessions, logger *logging.SafeLogger) *WizardHandlers {
	return &WizardHandlers{
		sessions: sessions,
		logger:   logger,
	}
}

// CreateSession godoc
// @Summary Criar sessão do assistente
// @Description Inicia um cadastro no passo 1. O layout "four" junta endereço e envio no último passo; "five" os separa.
// @Tags wizard
// @Accept json
// @Produce json
// @Param data body CreateWizardRequest false "Layout dos passos"
// @Success 201 {object} wizard.State "Sessão criada"
// @Failure 400 {object} ErrorResponse "Layout inválido"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /wizard [post]
func (h *WizardHandlers) CreateSession(c *gin.Context) {
	var req CreateWizardRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
			return
		}
	}

	state, err := h.sessions.Create(c.Request.Context(), req.Layout)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

// GetSession godoc
// @Summary Consultar sessão do assistente
// @Tags wizard
// @Produce json
// @Param id path string true "ID da sessão"
// @Success 200 {object} wizard.State "Estado atual"
// @Failure 404 {object} ErrorResponse "Sessão não encontrada"
// @Router /wizard/{id} [get]
func (h *WizardHandlers) GetSession(c *gin.Context) {
	state, err := h.sessions.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SetFields godoc
// @Summary Preencher campos
// @Description Aplica a máscara de cada campo e grava os valores. Quando o CEP fica completo o endereço é preenchido pela consulta de CEP.
// @Tags wizard
// @Accept json
// @Produce json
// @Param id path string true "ID da sessão"
// @Param data body map[string]string true "Campos e valores"
// @Success 200 {object} wizard.State "Estado atualizado"
// @Failure 400 {object} ErrorResponse "Campo desconhecido ou corpo inválido"
// @Failure 404 {object} ErrorResponse "Sessão não encontrada"
// @Failure 409 {object} ErrorResponse "Cadastro em envio ou já enviado"
// @Router /wizard/{id}/fields [patch]
func (h *WizardHandlers) SetFields(c *gin.Context) {
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	state, err := h.sessions.SetFields(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Advance godoc
// @Summary Avançar passo
// @Tags wizard
// @Produce json
// @Param id path string true "ID da sessão"
// @Success 200 {object} wizard.State "Estado atualizado"
// @Failure 404 {object} ErrorResponse "Sessão não encontrada"
// @Failure 422 {object} ValidationErrorResponse "Passo incompleto"
// @Failure 409 {object} ErrorResponse "Envio em andamento"
// @Router /wizard/{id}/advance [post]
func (h *WizardHandlers) Advance(c *gin.Context) {
	h.transition(c, h.sessions.Advance)
}

// Retreat godoc
// @Summary Voltar passo
// @Tags wizard
// @Produce json
// @Param id path string true "ID da sessão"
// @Success 200 {object} wizard.State "Estado atualizado"
// @Failure 404 {object} ErrorResponse "Sessão não encontrada"
// @Failure 409 {object} ErrorResponse "Envio em andamento"
// @Router /wizard/{id}/retreat [post]
func (h *WizardHandlers) Retreat(c *gin.Context) {
	h.transition(c, h.sessions.Retreat)
}

// Submit godoc
// @Summary Enviar cadastro da sessão
// @Description Valida todos os passos e encaminha o cadastro. Uma falha do envio volta a sessão ao último passo com lastError preenchido.
// @Tags wizard
// @Produce json
// @Param id path string true "ID da sessão"
// @Success 200 {object} wizard.State "Estado após o envio"
// @Failure 404 {object} ErrorResponse "Sessão não encontrada"
// @Failure 409 {object} ErrorResponse "Envio em andamento, já enviado ou fora do último passo"
// @Failure 422 {object} ValidationErrorResponse "Cadastro incompleto"
// @Router /wizard/{id}/submit [post]
func (h *WizardHandlers) Submit(c *gin.Context) {
	h.transition(c, h.sessions.Submit)
}

// Reset godoc
// @Summary Novo cadastro
// @Description Descarta os dados e volta ao passo 1 mantendo o layout.
// @Tags wizard
// @Produce json
// @Param id path string true "ID da sessão"
// @Success 200 {object} wizard.State "Sessão reiniciada"
// @Failure 404 {object} ErrorResponse "Sessão não encontrada"
// @Failure 409 {object} ErrorResponse "Envio em andamento"
// @Router /wizard/{id}/reset [post]
func (h *WizardHandlers) Reset(c *gin.Context) {
	h.transition(c, h.sessions.Reset)
}

func (h *WizardHandlers) transition(c *gin.Context, fn func(context.Context, string) (wizard.State, error)) {
	state, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// writeError maps wizard and session errors to status codes
func (h *WizardHandlers) writeError(c *gin.Context, err error) {
	var verr *wizard.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{
			Error:    verr.Message,
			Step:     verr.Step,
			Category: string(verr.Category),
			Missing:  verr.Missing,
		})
	case errors.Is(err, models.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, wizard.ErrUnknownField), errors.Is(err, wizard.ErrUnknownLayout):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrSubmitInProgress),
		errors.Is(err, wizard.ErrSubmissionInProgress),
		errors.Is(err, wizard.ErrAlreadySubmitted),
		errors.Is(err, wizard.ErrNotOnLastStep):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		h.logger.Error("wizard request failed",
			zap.String("session_id", c.Param("id")),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}
