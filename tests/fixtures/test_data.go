package fixtures

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/federal-associados/app-cadastro/tests/config"
)

// APIClient wraps HTTP client with common test functionality
type APIClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewAPIClient creates a new API client for testing
func NewAPIClient(cfg *config.TestConfig) *APIClient {
	return &APIClient{
		BaseURL: cfg.BaseURL,
		HTTPClient: &http.Client{
			Timeout: time.Duration(cfg.APICallTimeout) * time.Second,
		},
	}
}

// Get performs a GET request
func (c *APIClient) Get(path string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.HTTPClient.Do(req)
}

// Post performs a POST request with a JSON body. A nil body sends none.
func (c *APIClient) Post(path string, body interface{}) (*http.Response, error) {
	return c.send(http.MethodPost, path, body)
}

// Patch performs a PATCH request with a JSON body
func (c *APIClient) Patch(path string, body interface{}) (*http.Response, error) {
	return c.send(http.MethodPatch, path, body)
}

func (c *APIClient) send(method, path string, body interface{}) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(method, c.BaseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.HTTPClient.Do(req)
}

// WizardSteps returns the field updates that complete each step of the
// four-step layout, in order
func WizardSteps() []map[string]string {
	return []map[string]string{
		{"planId": "178", "typeChip": "fisico"},
		{"cpf": "52998224725", "birth": "1990-05-17", "name": "Teste Automatizado"},
		{"email": "teste@example.com", "phone": "1133334444", "cell": "11988887777"},
		{
			"cep":            "01310930",
			"street":         "Avenida Paulista",
			"number":         "1578",
			"district":       "Bela Vista",
			"city":           "São Paulo",
			"state":          "SP",
			"deliveryMethod": "carta",
		},
	}
}
