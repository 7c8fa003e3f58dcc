package handlers

import (
	"errors"
	"net/http"

	"github.com/federal-associados/app-cadastro/internal/logging"
	"github.com/federal-associados/app-cadastro/internal/models"
	"github.com/federal-associados/app-cadastro/internal/wizard"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CEPHandlers serves postal code lookups
type CEPHandlers struct {
	finder wizard.AddressFinder
	logger *logging.SafeLogger
}

// NewCEPHandlers creates a new CEP handlers instance
func NewCEPHandlers(finder wizard.AddressFinder, logger *logging.SafeLogger) *CEPHandlers {
	return &CEPHandlers{
		finder: finder,
		logger: logger,
	}
}

// GetCEP godoc
// @Summary Consultar CEP
// @Description Busca logradouro, bairro, cidade e UF de um CEP com 8 dígitos (formatado ou não).
// @Tags cep
// @Produce json
// @Param cep path string true "CEP (8 dígitos)"
// @Success 200 {object} models.AddressLookup "Endereço encontrado"
// @Failure 400 {object} ErrorResponse "CEP inválido"
// @Failure 404 {object} ErrorResponse "CEP não encontrado"
// @Failure 502 {object} ErrorResponse "Serviço de CEP indisponível"
// @Router /cep/{cep} [get]
func (h *CEPHandlers) GetCEP(c *gin.Context) {
	cep := c.Param("cep")

	addr, err := h.finder.LookupCEP(c.Request.Context(), cep)
	switch {
	case errors.Is(err, models.ErrInvalidCEP):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	case err != nil:
		h.logger.Warn("CEP lookup failed", zap.String("cep", cep), zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "CEP lookup failed"})
		return
	case addr == nil || !addr.Found:
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "CEP not found"})
		return
	}

	c.JSON(http.StatusOK, addr)
}
