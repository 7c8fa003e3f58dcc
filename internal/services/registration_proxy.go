package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/federal-associados/app-cadastro/internal/config"
	"github.com/federal-associados/app-cadastro/internal/logging"
	"github.com/federal-associados/app-cadastro/internal/models"
	"github.com/federal-associados/app-cadastro/internal/observability"
	"github.com/federal-associados/app-cadastro/internal/utils"
	"github.com/federal-associados/app-cadastro/internal/utils/httpclient"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// maxUpstreamBody bounds how much of an upstream answer is read
const maxUpstreamBody = 1 << 20

// upstream delivery vocabulary
var deliveryValues = map[models.DeliveryMethod]string{
	models.DeliveryMail:            "Carta",
	models.DeliveryPickupAtOffice:  "semFrete",
	models.DeliveryPickupAffiliate: "semFrete",
}

// ProxyConfig configures the registration proxy
type ProxyConfig struct {
	RegisterURL     string
	FormURL         string
	CSRFEnabled     bool
	Encoding        string
	DeliveryField   string
	Timeout         time.Duration
	Classifiers     []string
	ReferralCode    string
	SponsorName     string
	SponsorWhatsApp string
	WhatsAppBaseURL string
}

// ProxyConfigFrom copies the proxy settings out of the application config
func ProxyConfigFrom(cfg *config.Config) ProxyConfig {
	return ProxyConfig{
		RegisterURL:     cfg.UpstreamRegisterURL,
		FormURL:         cfg.UpstreamFormURL,
		CSRFEnabled:     cfg.UpstreamCSRFEnabled,
		Encoding:        cfg.UpstreamEncoding,
		DeliveryField:   cfg.UpstreamDeliveryField,
		Timeout:         cfg.UpstreamTimeout,
		Classifiers:     cfg.ResponseClassifiers,
		ReferralCode:    cfg.ReferralCode,
		SponsorName:     cfg.SponsorName,
		SponsorWhatsApp: cfg.SponsorWhatsApp,
		WhatsAppBaseURL: cfg.WhatsAppBaseURL,
	}
}

// FormField is one name/value pair of the upstream form, in send order
type FormField struct {
	Name  string
	Value string
}

// RegistrationProxy forwards submissions to the affiliate registration
// endpoint and normalizes its answer. It keeps no state between calls.
type RegistrationProxy struct {
	cfg    ProxyConfig
	chain  *ClassifierChain
	links  *WhatsAppLinkBuilder
	pool   *httpclient.HTTPClientPool
	logger *logging.SafeLogger
}

// NewRegistrationProxy validates the configuration and builds the classifier chain
func NewRegistrationProxy(cfg ProxyConfig, pool *httpclient.HTTPClientPool, logger *logging.SafeLogger) (*RegistrationProxy, error) {
	if cfg.RegisterURL == "" {
		return nil, errors.New("registration URL is required")
	}
	if cfg.Encoding == "" {
		cfg.Encoding = config.EncodingURLEncoded
	}
	if cfg.Encoding != config.EncodingURLEncoded && cfg.Encoding != config.EncodingMultipart {
		return nil, fmt.Errorf("unsupported upstream encoding %q", cfg.Encoding)
	}
	if cfg.DeliveryField == "" {
		cfg.DeliveryField = "typeFrete"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if pool == nil {
		pool = httpclient.GetGlobalPool()
	}

	chain, err := NewClassifierChain(cfg.Classifiers, cfg.FormURL)
	if err != nil {
		return nil, err
	}

	proxy := &RegistrationProxy{
		cfg:    cfg,
		chain:  chain,
		links:  NewWhatsAppLinkBuilder(cfg.WhatsAppBaseURL, cfg.SponsorWhatsApp, cfg.SponsorName, cfg.ReferralCode),
		pool:   pool,
		logger: logger.Named("registration_proxy"),
	}
	if !proxy.links.HasSponsorPhone() {
		proxy.logger.Warn("SPONSOR_WHATSAPP is not set, follow-up links will open the WhatsApp contact picker",
			zap.String("sponsor_name", cfg.SponsorName))
	}
	return proxy, nil
}

// BuildUpstreamFields maps a submission onto the upstream form fields
func (p *RegistrationProxy) BuildUpstreamFields(sub models.Submission, csrfToken string) []FormField {
	typeChip := string(sub.TypeChip)
	if typeChip == "" {
		typeChip = string(models.ChipPhysical)
	}

	delivery, ok := deliveryValues[sub.DeliveryMethod]
	if !ok {
		delivery = string(sub.DeliveryMethod)
	}

	var fields []FormField
	if csrfToken != "" {
		fields = append(fields, FormField{"_token", csrfToken})
	}
	return append(fields,
		FormField{"status", "0"},
		FormField{"father", p.cfg.ReferralCode},
		FormField{"type", "Recorrente"},
		FormField{"cpf", sub.CPF},
		FormField{"birth", sub.Birth},
		FormField{"name", sub.Name},
		FormField{"email", sub.Email},
		FormField{"phone", sub.Phone},
		FormField{"cell", sub.Cell},
		FormField{"cep", sub.CEP},
		FormField{"district", sub.District},
		FormField{"city", sub.City},
		FormField{"state", sub.State},
		FormField{"street", sub.Street},
		FormField{"number", sub.Number},
		FormField{"complement", sub.Complement},
		FormField{"typeChip", typeChip},
		FormField{"coupon", sub.Coupon},
		FormField{"plan_id", sub.PlanID},
		FormField{p.cfg.DeliveryField, delivery},
	)
}

// Submit forwards the submission once. The error is non-nil only for
// transport failures, in which case the result carries the error text.
func (p *RegistrationProxy) Submit(ctx context.Context, sub models.Submission) (*models.SubmissionResult, error) {
	ctx, span, cleanup := utils.TraceOperation(ctx, "registration.submit", map[string]interface{}{
		"registration.plan_id":  sub.PlanID,
		"registration.encoding": p.cfg.Encoding,
	})
	defer cleanup()

	p.logger.Info("forwarding registration", zap.Any("submission", RedactSubmission(sub)))

	client := p.pool.Get()
	defer p.pool.Put(client)

	// cookies from the form page must accompany the post
	jar, err := cookiejar.New(nil)
	if err != nil {
		return p.transportFailure(span, err)
	}
	client.Jar = jar

	token := ""
	if p.cfg.CSRFEnabled {
		token = p.fetchCSRFToken(ctx, client)
	}

	body, contentType, err := p.encode(p.BuildUpstreamFields(sub, token))
	if err != nil {
		return p.transportFailure(span, err)
	}

	resp, err := p.post(ctx, client, body, contentType)
	if err != nil {
		return p.transportFailure(span, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	p.logger.Debug("registration endpoint answered",
		zap.Int("status", resp.StatusCode),
		zap.String("location", resp.Location),
		zap.String("body_prefix", prefix(resp.Body, maxMessageLength)))

	class := p.chain.Classify(resp)
	outcome := "failure"
	if class.Success {
		outcome = "success"
	}
	observability.Registrations.WithLabelValues(outcome, class.Classifier).Inc()
	span.SetAttributes(
		attribute.String("registration.classifier", class.Classifier),
		attribute.Bool("registration.success", class.Success),
	)

	result := &models.SubmissionResult{
		Success:   class.Success,
		Message:   class.Message,
		Error:     class.Error,
		Note:      class.Note,
		BillingID: class.BillingID,
		Data:      class.Data,
	}
	if class.Success {
		result.WhatsAppURL = p.links.Build(sub, class.BillingID)
		p.logger.Info("registration accepted",
			zap.String("classifier", class.Classifier),
			zap.String("billing_id", class.BillingID))
	} else {
		p.logger.Warn("registration not confirmed",
			zap.String("classifier", class.Classifier),
			zap.Int("status", resp.StatusCode))
	}

	return result, nil
}

func (p *RegistrationProxy) transportFailure(span trace.Span, err error) (*models.SubmissionResult, error) {
	utils.RecordErrorInSpan(span, err, map[string]interface{}{"registration.outcome": "transport_error"})
	observability.Registrations.WithLabelValues("transport_error", "none").Inc()
	p.logger.Error("registration endpoint unreachable", zap.Error(err))

	return &models.SubmissionResult{Success: false, Error: err.Error()},
		fmt.Errorf("%w: %v", models.ErrUpstreamTransport, err)
}

// post sends the encoded form. Redirects are returned, never followed.
func (p *RegistrationProxy) post(ctx context.Context, client *http.Client, body []byte, contentType string) (UpstreamResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.RegisterURL, bytes.NewReader(body))
	if err != nil {
		return UpstreamResponse{}, fmt.Errorf("failed to build registration request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "text/html,application/json;q=0.9,*/*;q=0.8")
	if p.cfg.FormURL != "" {
		req.Header.Set("Referer", p.cfg.FormURL)
	}

	resp, err := client.Do(req)
	if err != nil {
		observability.UpstreamDuration.WithLabelValues("register", "error").Observe(time.Since(start).Seconds())
		return UpstreamResponse{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	observability.UpstreamDuration.WithLabelValues("register", strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())
	if err != nil {
		return UpstreamResponse{}, fmt.Errorf("failed to read registration response: %w", err)
	}

	return UpstreamResponse{
		StatusCode: resp.StatusCode,
		Location:   resp.Header.Get("Location"),
		Body:       data,
	}, nil
}

// fetchCSRFToken loads the registration page and scrapes its CSRF token.
// Any failure yields an empty token.
func (p *RegistrationProxy) fetchCSRFToken(ctx context.Context, client *http.Client) string {
	if p.cfg.FormURL == "" {
		return ""
	}

	ctx, span := utils.TraceExternalService(ctx, "federal-associados", "csrf_fetch")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.FormURL, nil)
	if err != nil {
		p.csrfMiss(span, "error", err)
		return ""
	}
	req.Header.Set("Accept", "text/html")

	resp, err := client.Do(req)
	if err != nil {
		p.csrfMiss(span, "error", err)
		return ""
	}
	defer resp.Body.Close()
	observability.UpstreamDuration.WithLabelValues("csrf_fetch", strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode >= 400 {
		p.csrfMiss(span, "error", fmt.Errorf("registration page returned status %d", resp.StatusCode))
		return ""
	}

	token := ExtractCSRFToken(io.LimitReader(resp.Body, maxUpstreamBody))
	if token == "" {
		p.csrfMiss(span, "missing", nil)
		return ""
	}

	observability.CSRFFetches.WithLabelValues("found").Inc()
	p.logger.Debug("csrf token obtained")
	return token
}

func (p *RegistrationProxy) csrfMiss(span trace.Span, result string, err error) {
	observability.CSRFFetches.WithLabelValues(result).Inc()
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
	}
	p.logger.Warn("csrf token unavailable, submitting without it",
		zap.String("result", result),
		zap.Error(err))
}

// ExtractCSRFToken returns the value of <input name="_token">, falling back
// to the content of <meta name="csrf-token">
func ExtractCSRFToken(r io.Reader) string {
	var metaToken string
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return metaToken
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.Data {
			case "input":
				if attr(tok, "name") == "_token" {
					if v := attr(tok, "value"); v != "" {
						return v
					}
				}
			case "meta":
				if metaToken == "" && attr(tok, "name") == "csrf-token" {
					metaToken = attr(tok, "content")
				}
			}
		}
	}
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// encode renders the form in the configured encoding
func (p *RegistrationProxy) encode(fields []FormField) ([]byte, string, error) {
	if p.cfg.Encoding == config.EncodingMultipart {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for _, f := range fields {
			if err := w.WriteField(f.Name, f.Value); err != nil {
				return nil, "", fmt.Errorf("failed to encode field %s: %w", f.Name, err)
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
		}
		return buf.Bytes(), w.FormDataContentType(), nil
	}

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, url.QueryEscape(f.Name)+"="+url.QueryEscape(f.Value))
	}
	return []byte(strings.Join(parts, "&")), "application/x-www-form-urlencoded", nil
}

// RedactSubmission returns the submission as a log-safe map
func RedactSubmission(sub models.Submission) map[string]interface{} {
	return observability.MaskSensitiveData(map[string]interface{}{
		"cpf":            sub.CPF,
		"birth":          sub.Birth,
		"name":           sub.Name,
		"email":          sub.Email,
		"phone":          sub.Phone,
		"cell":           sub.Cell,
		"cep":            sub.CEP,
		"city":           sub.City,
		"state":          sub.State,
		"typeChip":       string(sub.TypeChip),
		"deliveryMethod": string(sub.DeliveryMethod),
		"planId":         sub.PlanID,
		"coupon":         sub.Coupon,
	})
}

func prefix(body []byte, n int) string {
	if len(body) > n {
		return string(body[:n])
	}
	return string(body)
}
