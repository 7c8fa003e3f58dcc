package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/federal-associados/app-cadastro/internal/models"
	"github.com/federal-associados/app-cadastro/internal/services"
	"github.com/federal-associados/app-cadastro/internal/wizard"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memStore is an in-memory services.SessionStore
type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}}
}

func (m *memStore) Get(_ context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = stringValue(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *memStore) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = stringValue(value)
	return redis.NewBoolResult(true, nil)
}

func (m *memStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}

type fakeFinder struct {
	addr *models.AddressLookup
	err  error
}

func (f fakeFinder) LookupCEP(context.Context, string) (*models.AddressLookup, error) {
	return f.addr, f.err
}

type fakeSubmitter struct {
	mu     sync.Mutex
	calls  int
	last   models.Submission
	result *models.SubmissionResult
	err    error
}

func (f *fakeSubmitter) Submit(_ context.Context, sub models.Submission) (*models.SubmissionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = sub
	return f.result, f.err
}

var paulista = &models.AddressLookup{
	CEP:      "01310-930",
	Street:   "Avenida Paulista",
	District: "Bela Vista",
	City:     "São Paulo",
	State:    "SP",
	Found:    true,
}

// newWizardRouter wires the wizard routes to a real session service over
// an in-memory store
func newWizardRouter(finder wizard.AddressFinder, submitter wizard.Submitter) *gin.Engine {
	return newWizardRouterWithStore(newMemStore(), finder, submitter)
}

func newWizardRouterWithStore(store *memStore, finder wizard.AddressFinder, submitter wizard.Submitter) *gin.Engine {
	sessions := services.NewWizardSessionService(store, time.Hour, wizard.LayoutFour, finder, submitter, nil)
	h := NewWizardHandlers(sessions, nil)

	router := gin.New()
	router.POST("/wizard", h.CreateSession)
	router.GET("/wizard/:id", h.GetSession)
	router.PATCH("/wizard/:id/fields", h.SetFields)
	router.POST("/wizard/:id/advance", h.Advance)
	router.POST("/wizard/:id/retreat", h.Retreat)
	router.POST("/wizard/:id/submit", h.Submit)
	router.POST("/wizard/:id/reset", h.Reset)
	return router
}

// performRequest sends body as JSON when it is not nil
func performRequest(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func validSubmission() models.Submission {
	return models.Submission{
		CPF:            "529.982.247-25",
		Birth:          "1990-05-17",
		Name:           "Maria da Silva",
		Email:          "maria@example.com",
		Phone:          "(11) 3333-4444",
		Cell:           "(11) 98888-7777",
		CEP:            "01310-930",
		District:       "Bela Vista",
		City:           "São Paulo",
		State:          "SP",
		Street:         "Avenida Paulista",
		Number:         "1578",
		TypeChip:       models.ChipPhysical,
		DeliveryMethod: models.DeliveryMail,
		PlanID:         "178",
		PlanOperator:   models.OperatorVivo,
	}
}
