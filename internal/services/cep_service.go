package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/federal-associados/app-cadastro/internal/logging"
	"github.com/federal-associados/app-cadastro/internal/models"
	"github.com/federal-associados/app-cadastro/internal/observability"
	"github.com/federal-associados/app-cadastro/internal/utils"
	"github.com/federal-associados/app-cadastro/internal/utils/httpclient"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// viaCEPResponse is the ViaCEP JSON document. erro arrives either as the
// boolean true or as the string "true".
type viaCEPResponse struct {
	CEP        string          `json:"cep"`
	Logradouro string          `json:"logradouro"`
	Bairro     string          `json:"bairro"`
	Localidade string          `json:"localidade"`
	UF         string          `json:"uf"`
	Erro       json.RawMessage `json:"erro"`
}

func (r viaCEPResponse) notFound() bool {
	v := strings.Trim(strings.TrimSpace(string(r.Erro)), `"`)
	return strings.EqualFold(v, "true")
}

// CEPService resolves postal codes through ViaCEP with a Redis cache
type CEPService struct {
	store    CacheStore
	baseURL  string
	cacheTTL time.Duration
	timeout  time.Duration
	pool     *httpclient.HTTPClientPool
	logger   *logging.SafeLogger
}

// NewCEPService creates a CEPService. A nil store disables caching.
func NewCEPService(store CacheStore, baseURL string, cacheTTL, timeout time.Duration, pool *httpclient.HTTPClientPool, logger *logging.SafeLogger) *CEPService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if pool == nil {
		pool = httpclient.GetGlobalPool()
	}
	return &CEPService{
		store:    store,
		baseURL:  strings.TrimRight(baseURL, "/"),
		cacheTTL: cacheTTL,
		timeout:  timeout,
		pool:     pool,
		logger:   logger.Named("cep"),
	}
}

func cepCacheKey(digits string) string {
	return "cep:" + digits
}

// LookupCEP resolves a postal code. Unknown codes return Found=false with
// no error.
func (s *CEPService) LookupCEP(ctx context.Context, cep string) (*models.AddressLookup, error) {
	digits := utils.OnlyDigits(cep)
	if len(digits) != 8 {
		return nil, models.ErrInvalidCEP
	}

	ctx, span, cleanup := utils.TraceOperation(ctx, "cep.lookup", map[string]interface{}{"cep": digits})
	defer cleanup()

	if cached, ok := s.fromCache(ctx, digits); ok {
		observability.CacheHits.WithLabelValues("cep_lookup").Inc()
		observability.CEPLookups.WithLabelValues("cache_hit").Inc()
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}

	addr, err := s.fetch(ctx, digits)
	if err != nil {
		observability.CEPLookups.WithLabelValues("error").Inc()
		utils.RecordErrorInSpan(span, err, nil)
		s.logger.Warn("cep lookup failed", zap.String("cep", digits), zap.Error(err))
		return nil, err
	}

	if !addr.Found {
		observability.CEPLookups.WithLabelValues("not_found").Inc()
		s.logger.Debug("cep not found", zap.String("cep", digits))
		return addr, nil
	}

	observability.CEPLookups.WithLabelValues("found").Inc()
	s.toCache(ctx, digits, addr)
	return addr, nil
}

func (s *CEPService) fetch(ctx context.Context, digits string) (*models.AddressLookup, error) {
	ctx, span := utils.TraceExternalService(ctx, "viacep", "lookup")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/ws/%s/json/", s.baseURL, digits), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCEPLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.pool.Get()
	defer s.pool.Put(client)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCEPLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", models.ErrCEPLookupFailed, resp.StatusCode)
	}

	var doc viaCEPResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: invalid response: %v", models.ErrCEPLookupFailed, err)
	}

	if doc.notFound() {
		return &models.AddressLookup{CEP: digits, Found: false}, nil
	}

	return &models.AddressLookup{
		CEP:      digits,
		Street:   doc.Logradouro,
		District: doc.Bairro,
		City:     doc.Localidade,
		State:    doc.UF,
		Found:    true,
	}, nil
}

func (s *CEPService) fromCache(ctx context.Context, digits string) (*models.AddressLookup, bool) {
	if s.store == nil {
		return nil, false
	}

	data, err := s.store.Get(ctx, cepCacheKey(digits)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("failed to read cep cache", zap.String("cep", digits), zap.Error(err))
		}
		return nil, false
	}

	var addr models.AddressLookup
	if err := json.Unmarshal(data, &addr); err != nil {
		s.logger.Warn("discarding corrupt cep cache entry", zap.String("cep", digits), zap.Error(err))
		return nil, false
	}
	return &addr, true
}

func (s *CEPService) toCache(ctx context.Context, digits string, addr *models.AddressLookup) {
	if s.store == nil {
		return
	}

	data, err := json.Marshal(addr)
	if err != nil {
		return
	}
	if err := s.store.Set(ctx, cepCacheKey(digits), data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("failed to cache cep", zap.String("cep", digits), zap.Error(err))
	}
}
