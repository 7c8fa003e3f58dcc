package handlers

import (
	"time"

	"github.com/federal-associados/app-cadastro/internal/models"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// ValidationErrorResponse describes an incomplete wizard step
type ValidationErrorResponse struct {
	Error    string   `json:"error"`
	Step     int      `json:"step"`
	Category string   `json:"category"`
	Missing  []string `json:"missing"`
}

// PlanCatalogResponse carries everything the plan step renders
type PlanCatalogResponse struct {
	Operators       []models.OperatorPlans `json:"operators"`
	ChipTypes       []models.Option        `json:"chip_types"`
	DeliveryMethods []models.Option        `json:"delivery_methods"`
}

type StatesResponse struct {
	States []models.Option `json:"states"`
}

// CreateWizardRequest selects the step layout of a new session
type CreateWizardRequest struct {
	Layout string `json:"layout" example:"four"`
}
