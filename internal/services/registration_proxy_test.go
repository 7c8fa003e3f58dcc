package services

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/federal-associados/app-cadastro/internal/config"
	"github.com/federal-associados/app-cadastro/internal/logging"
	"github.com/federal-associados/app-cadastro/internal/models"
	"github.com/federal-associados/app-cadastro/internal/utils/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const formPage = `<!DOCTYPE html>
<html>
<head><meta name="csrf-token" content="meta-token-123"></head>
<body>
<form method="POST" action="/registroSave">
  <input type="hidden" name="_token" value="input-token-456">
  <input type="text" name="cpf">
</form>
</body>
</html>`

// fakeUpstream records what the proxy sends and answers with a canned response
type fakeUpstream struct {
	mu          sync.Mutex
	server      *httptest.Server
	formHits    int
	posted      url.Values
	contentType string
	cookie      string
	order       []string

	formBody   string
	formStatus int
	respond    func(w http.ResponseWriter)
	postDelay  time.Duration
}

func newFakeUpstream(t *testing.T, respond func(w http.ResponseWriter), opts ...func(*fakeUpstream)) *fakeUpstream {
	f := &fakeUpstream{formBody: formPage, formStatus: http.StatusOK, respond: respond}
	for _, opt := range opts {
		opt(f)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/registro/110956", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.formHits++
		f.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: "laravel_session", Value: "abc", Path: "/"})
		w.WriteHeader(f.formStatus)
		_, _ = io.WriteString(w, f.formBody)
	})
	mux.HandleFunc("/registroSave", func(w http.ResponseWriter, r *http.Request) {
		if f.postDelay > 0 {
			time.Sleep(f.postDelay)
		}
		f.mu.Lock()
		f.contentType = r.Header.Get("Content-Type")
		if c, err := r.Cookie("laravel_session"); err == nil {
			f.cookie = c.Value
		}
		mediaType, params, _ := mime.ParseMediaType(f.contentType)
		if mediaType == "multipart/form-data" {
			form, err := multipart.NewReader(r.Body, params["boundary"]).ReadForm(1 << 20)
			if err == nil {
				f.posted = url.Values(form.Value)
			}
		} else {
			raw, _ := io.ReadAll(r.Body)
			f.posted, _ = url.ParseQuery(string(raw))
			for _, pair := range strings.Split(string(raw), "&") {
				name, _, _ := strings.Cut(pair, "=")
				f.order = append(f.order, name)
			}
		}
		f.mu.Unlock()
		f.respond(w)
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

// settled orders the handler's writes before the test's reads
func (f *fakeUpstream) settled() *fakeUpstream {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f
}

func (f *fakeUpstream) proxyConfig() ProxyConfig {
	return ProxyConfig{
		RegisterURL:     f.server.URL + "/registroSave",
		FormURL:         f.server.URL + "/registro/110956",
		CSRFEnabled:     true,
		Encoding:        config.EncodingURLEncoded,
		DeliveryField:   "typeFrete",
		Timeout:         2 * time.Second,
		ReferralCode:    "110956",
		SponsorName:     "Francisco Eliedisom Dos Santos",
		SponsorWhatsApp: "+55 11 98888-7777",
		WhatsAppBaseURL: "https://wa.me",
	}
}

func newTestProxy(t *testing.T, cfg ProxyConfig) *RegistrationProxy {
	t.Helper()
	pool := httpclient.NewHTTPClientPool(2)
	t.Cleanup(pool.Close)

	proxy, err := NewRegistrationProxy(cfg, pool, logging.Nop())
	require.NoError(t, err)
	return proxy
}

func testSubmission() models.Submission {
	sub := models.NewSubmission()
	sub.CPF = "529.982.247-25"
	sub.Birth = "1990-05-17"
	sub.Name = "Maria da Silva"
	sub.Email = "maria@example.com"
	sub.Phone = "(11) 2345-6789"
	sub.Cell = "(11) 98765-4321"
	sub.CEP = "01310-930"
	sub.District = "Bela Vista"
	sub.City = "São Paulo"
	sub.State = "SP"
	sub.Street = "Avenida Paulista"
	sub.Number = "1578"
	sub.DeliveryMethod = models.DeliveryPickupAtOffice
	sub.PlanID = "178"
	sub.PlanOperator = models.OperatorVivo
	return sub
}

func TestRegistrationProxy_RedirectWithBillingID(t *testing.T) {
	upstream := newFakeUpstream(t, func(w http.ResponseWriter) {
		w.Header().Set("Location", "https://federalassociados.com.br/billing/42")
		w.WriteHeader(http.StatusFound)
	})
	proxy := newTestProxy(t, upstream.proxyConfig())

	result, err := proxy.Submit(context.Background(), testSubmission())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "42", result.BillingID)
	assert.Equal(t, MessageRegistrationSent, result.Message)
	assert.Contains(t, result.WhatsAppURL, "42")
	assert.True(t, strings.HasPrefix(result.WhatsAppURL, "https://wa.me/5511988887777?text="))
}

func TestRegistrationProxy_SendsMappedFieldsWithCSRF(t *testing.T) {
	upstream := newFakeUpstream(t, func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "<html>Cadastro realizado com sucesso</html>")
	})
	proxy := newTestProxy(t, upstream.proxyConfig())

	result, err := proxy.Submit(context.Background(), testSubmission())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, NoteCommission, result.Note)
	assert.Empty(t, result.BillingID)
	assert.NotEmpty(t, result.WhatsAppURL)

	upstream.settled()
	assert.Equal(t, 1, upstream.formHits)
	assert.Equal(t, "abc", upstream.cookie, "form page cookies must reach the post")
	assert.Equal(t, "application/x-www-form-urlencoded", upstream.contentType)

	posted := upstream.posted
	assert.Equal(t, "input-token-456", posted.Get("_token"))
	assert.Equal(t, "0", posted.Get("status"))
	assert.Equal(t, "110956", posted.Get("father"))
	assert.Equal(t, "Recorrente", posted.Get("type"))
	assert.Equal(t, "529.982.247-25", posted.Get("cpf"))
	assert.Equal(t, "São Paulo", posted.Get("city"))
	assert.Equal(t, "fisico", posted.Get("typeChip"))
	assert.Equal(t, "178", posted.Get("plan_id"))
	assert.Equal(t, "semFrete", posted.Get("typeFrete"))
	assert.NotContains(t, posted, "deliveryMethod")
	assert.NotContains(t, posted, "planId")

	assert.Equal(t, []string{"_token", "status", "father", "type", "cpf"}, upstream.order[:5])
	assert.Equal(t, "typeFrete", upstream.order[len(upstream.order)-1])
}

func TestRegistrationProxy_HTMLFailure(t *testing.T) {
	upstream := newFakeUpstream(t, func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "<!DOCTYPE html><html><body>Whoops, looks like something went wrong.</body></html>")
	})
	proxy := newTestProxy(t, upstream.proxyConfig())

	result, err := proxy.Submit(context.Background(), testSubmission())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, result.WhatsAppURL)
}

func TestRegistrationProxy_RedirectBackToForm(t *testing.T) {
	var upstream *fakeUpstream
	upstream = newFakeUpstream(t, func(w http.ResponseWriter) {
		w.Header().Set("Location", upstream.server.URL+"/registro/110956")
		w.WriteHeader(http.StatusFound)
	})
	proxy := newTestProxy(t, upstream.proxyConfig())

	result, err := proxy.Submit(context.Background(), testSubmission())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, MessageFormRejected, result.Error)
	assert.Empty(t, result.BillingID, "the referral code in the form path is not a billing id")
	assert.Empty(t, result.WhatsAppURL)
}

func TestRegistrationProxy_RedirectBackToFormWithoutRedirectClassifier(t *testing.T) {
	upstream := newFakeUpstream(t, func(w http.ResponseWriter) {
		w.Header().Set("Location", "/registro/110956")
		w.WriteHeader(http.StatusFound)
	})
	cfg := upstream.proxyConfig()
	cfg.Classifiers = []string{ClassifierHTML, ClassifierJSON, ClassifierFallback}
	proxy := newTestProxy(t, cfg)

	result, err := proxy.Submit(context.Background(), testSubmission())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, MessageFormRejected, result.Error)
	assert.Empty(t, result.WhatsAppURL)
}

func TestRegistrationProxy_JSONResponse(t *testing.T) {
	upstream := newFakeUpstream(t, func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true,"billing":7}`)
	})
	proxy := newTestProxy(t, upstream.proxyConfig())

	result, err := proxy.Submit(context.Background(), testSubmission())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, map[string]interface{}{"ok": true, "billing": float64(7)}, result.Data)
}

func TestRegistrationProxy_DeliveryMapping(t *testing.T) {
	tests := []struct {
		method models.DeliveryMethod
		want   string
	}{
		{models.DeliveryMail, "Carta"},
		{models.DeliveryPickupAtOffice, "semFrete"},
		{models.DeliveryPickupAffiliate, "semFrete"},
		{"motoboy", "motoboy"},
	}

	proxy := newTestProxy(t, ProxyConfig{RegisterURL: "http://unused", ReferralCode: "110956"})
	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			sub := testSubmission()
			sub.DeliveryMethod = tt.method

			fields := proxy.BuildUpstreamFields(sub, "")
			last := fields[len(fields)-1]
			assert.Equal(t, FormField{"typeFrete", tt.want}, last)
			assert.NotEqual(t, "_token", fields[0].Name)
		})
	}
}

func TestRegistrationProxy_DeliveryFieldName(t *testing.T) {
	proxy := newTestProxy(t, ProxyConfig{RegisterURL: "http://unused", DeliveryField: "deliveryMethod"})

	sub := testSubmission()
	sub.DeliveryMethod = models.DeliveryMail
	sub.TypeChip = ""

	fields := proxy.BuildUpstreamFields(sub, "tok")
	assert.Equal(t, FormField{"_token", "tok"}, fields[0])
	assert.Equal(t, FormField{"deliveryMethod", "Carta"}, fields[len(fields)-1])

	values := map[string]string{}
	for _, f := range fields {
		values[f.Name] = f.Value
	}
	assert.Equal(t, "fisico", values["typeChip"])
}

func TestRegistrationProxy_Multipart(t *testing.T) {
	upstream := newFakeUpstream(t, func(w http.ResponseWriter) {
		w.Header().Set("Location", "/pagamento?billing_id=555")
		w.WriteHeader(http.StatusSeeOther)
	})
	cfg := upstream.proxyConfig()
	cfg.Encoding = config.EncodingMultipart
	proxy := newTestProxy(t, cfg)

	result, err := proxy.Submit(context.Background(), testSubmission())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "555", result.BillingID)
	upstream.settled()
	assert.True(t, strings.HasPrefix(upstream.contentType, "multipart/form-data; boundary="))
	assert.Equal(t, "Maria da Silva", upstream.posted.Get("name"))
	assert.Equal(t, "input-token-456", upstream.posted.Get("_token"))
}

func TestRegistrationProxy_CSRFDisabled(t *testing.T) {
	upstream := newFakeUpstream(t, func(w http.ResponseWriter) {
		_, _ = io.WriteString(w, "ok")
	})
	cfg := upstream.proxyConfig()
	cfg.CSRFEnabled = false
	proxy := newTestProxy(t, cfg)

	result, err := proxy.Submit(context.Background(), testSubmission())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "ok", result.Message)
	upstream.settled()
	assert.Equal(t, 0, upstream.formHits)
	assert.NotContains(t, upstream.posted, "_token")
}

func TestRegistrationProxy_CSRFFailureIsNotFatal(t *testing.T) {
	upstream := newFakeUpstream(t, func(w http.ResponseWriter) {
		_, _ = io.WriteString(w, "<html>registrado</html>")
	}, func(f *fakeUpstream) { f.formStatus = http.StatusInternalServerError })
	proxy := newTestProxy(t, upstream.proxyConfig())

	result, err := proxy.Submit(context.Background(), testSubmission())
	require.NoError(t, err)

	assert.True(t, result.Success)
	upstream.settled()
	assert.NotContains(t, upstream.posted, "_token")
}

func TestRegistrationProxy_TransportFailure(t *testing.T) {
	upstream := newFakeUpstream(t, func(w http.ResponseWriter) {})
	cfg := upstream.proxyConfig()
	upstream.server.Close()
	proxy := newTestProxy(t, cfg)

	result, err := proxy.Submit(context.Background(), testSubmission())

	require.ErrorIs(t, err, models.ErrUpstreamTransport)
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, result.WhatsAppURL)
}

func TestRegistrationProxy_Timeout(t *testing.T) {
	upstream := newFakeUpstream(t, func(w http.ResponseWriter) {
		_, _ = io.WriteString(w, "late")
	}, func(f *fakeUpstream) { f.postDelay = 300 * time.Millisecond })
	cfg := upstream.proxyConfig()
	cfg.CSRFEnabled = false
	cfg.Timeout = 50 * time.Millisecond
	proxy := newTestProxy(t, cfg)

	result, err := proxy.Submit(context.Background(), testSubmission())

	assert.ErrorIs(t, err, models.ErrUpstreamTransport)
	assert.False(t, result.Success)
}

func TestNewRegistrationProxy_InvalidConfig(t *testing.T) {
	_, err := NewRegistrationProxy(ProxyConfig{}, nil, nil)
	assert.Error(t, err)

	_, err = NewRegistrationProxy(ProxyConfig{RegisterURL: "http://x", Encoding: "xml"}, nil, nil)
	assert.ErrorContains(t, err, "xml")

	_, err = NewRegistrationProxy(ProxyConfig{RegisterURL: "http://x", Classifiers: []string{"magic"}}, nil, nil)
	assert.ErrorContains(t, err, "magic")
}

func TestNewRegistrationProxy_WarnsWithoutSponsorPhone(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := logging.New(zap.New(core))

	_, err := NewRegistrationProxy(ProxyConfig{RegisterURL: "http://x"}, nil, logger)
	require.NoError(t, err)
	require.Equal(t, 1, logs.FilterMessageSnippet("SPONSOR_WHATSAPP").Len())

	_, err = NewRegistrationProxy(ProxyConfig{RegisterURL: "http://x", SponsorWhatsApp: "+55 11 98888-7777"}, nil, logger)
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessageSnippet("SPONSOR_WHATSAPP").Len())
}

func TestExtractCSRFToken(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"input wins over meta", formPage, "input-token-456"},
		{"meta only", `<html><head><meta name="csrf-token" content="m1"></head></html>`, "m1"},
		{"self closing input", `<form><input name="_token" value="s1" /></form>`, "s1"},
		{"no token", `<html><body><input name="cpf" value="x"></body></html>`, ""},
		{"empty document", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCSRFToken(strings.NewReader(tt.html)))
		})
	}
}

func TestRedactSubmission(t *testing.T) {
	redacted := RedactSubmission(testSubmission())

	assert.Equal(t, "529.***.247-**", redacted["cpf"])
	assert.Equal(t, "********", redacted["cell"])
	assert.Equal(t, "Maria d* S****", redacted["name"])
	for _, v := range redacted {
		if s, ok := v.(string); ok {
			assert.NotContains(t, s, "52998224725")
			assert.NotContains(t, s, "529.982.247-25")
		}
	}
}

func TestProxyConfigFrom(t *testing.T) {
	cfg := &config.Config{
		UpstreamRegisterURL:   "https://example.com/registroSave",
		UpstreamEncoding:      config.EncodingMultipart,
		UpstreamDeliveryField: "deliveryMethod",
		UpstreamTimeout:       3 * time.Second,
		ResponseClassifiers:   []string{"html"},
		ReferralCode:          "1",
	}

	got := ProxyConfigFrom(cfg)

	assert.Equal(t, "https://example.com/registroSave", got.RegisterURL)
	assert.Equal(t, config.EncodingMultipart, got.Encoding)
	assert.Equal(t, "deliveryMethod", got.DeliveryField)
	assert.Equal(t, 3*time.Second, got.Timeout)
	assert.Equal(t, []string{"html"}, got.Classifiers)
}
