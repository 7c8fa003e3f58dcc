package handlers

import (
	"net/http"

	"github.com/federal-associados/app-cadastro/internal/models"
	"github.com/gin-gonic/gin"
)

// ListPlans godoc
// @Summary Catálogo de planos
// @Description Lista os planos disponíveis agrupados por operadora, além dos tipos de chip e formas de envio.
// @Tags catalog
// @Produce json
// @Success 200 {object} PlanCatalogResponse "Catálogo de planos"
// @Router /plans [get]
func ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, PlanCatalogResponse{
		Operators:       models.Plans(),
		ChipTypes:       models.ChipTypes,
		DeliveryMethods: models.DeliveryMethods,
	})
}

// ListStates godoc
// @Summary Lista de UFs
// @Description Lista as unidades federativas aceitas no campo state.
// @Tags catalog
// @Produce json
// @Success 200 {object} StatesResponse "Unidades federativas"
// @Router /states [get]
func ListStates(c *gin.Context) {
	c.JSON(http.StatusOK, StatesResponse{States: models.States})
}
