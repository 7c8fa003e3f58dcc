package handlers

import (
	"net/http"
	"time"

	"github.com/federal-associados/app-cadastro/internal/config"
	"github.com/federal-associados/app-cadastro/internal/observability"
	"github.com/federal-associados/app-cadastro/internal/utils"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// HealthCheck godoc
// @Summary Verificação de saúde
// @Description Verifica a saúde da API e do Redis (sessões do assistente e cache de CEP).
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "Todos os serviços estão saudáveis"
// @Failure 503 {object} HealthResponse "Um ou mais serviços estão indisponíveis"
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	startTime := time.Now()
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "HealthCheck")
	defer span.End()

	span.SetAttributes(
		attribute.String("operation", "health_check"),
		attribute.String("service", "health"),
	)

	logger := observability.Logger()

	health := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services:  make(map[string]string),
	}

	_, redisSpan := utils.TraceExternalService(ctx, "redis", "ping")
	if config.Redis == nil {
		health.Status = "unhealthy"
		health.Services["redis"] = "not_configured"
	} else if err := config.Redis.Ping(ctx).Err(); err != nil {
		utils.RecordErrorInSpan(redisSpan, err, map[string]interface{}{
			"service.name":      "redis",
			"service.operation": "ping",
		})
		health.Status = "unhealthy"
		health.Services["redis"] = "unhealthy"
	} else {
		health.Services["redis"] = "healthy"
	}
	redisSpan.End()

	span.SetAttributes(attribute.String("health.status", health.Status))

	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, health)

	logger.Debug("HealthCheck completed",
		zap.String("status", health.Status),
		zap.Duration("total_duration", time.Since(startTime)))
}
