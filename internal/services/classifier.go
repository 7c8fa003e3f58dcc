package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// Messages returned to the form for classified upstream responses
const (
	MessageRegistrationSent = "Cadastro enviado com sucesso para a Federal Associados!"
	NoteCommission          = "A comissão será processada automaticamente pela Federal Associados."
	MessageUnexpectedHTML   = "A API retornou uma resposta inesperada. Por favor, verifique se o cadastro foi registrado no sistema da Federal Associados."
	MessageRetryGuidance    = "Não foi possível confirmar o cadastro na Federal Associados. Tente novamente em alguns instantes."
	MessageFormRejected     = "A Federal Associados recusou o cadastro e voltou para o formulário. Confira os dados e tente novamente."
)

// Classifier names accepted by NewClassifierChain
const (
	ClassifierRedirect = "redirect"
	ClassifierHTML     = "html"
	ClassifierJSON     = "json"
	ClassifierFallback = "fallback"
)

// DefaultClassifierOrder is the order used when none is configured
var DefaultClassifierOrder = []string{ClassifierRedirect, ClassifierHTML, ClassifierJSON, ClassifierFallback}

// maxMessageLength bounds upstream text echoed back in a result
const maxMessageLength = 500

// UpstreamResponse is what the registration endpoint answered
type UpstreamResponse struct {
	StatusCode int
	Location   string
	Body       []byte
}

// Classification is the normalized reading of an UpstreamResponse
type Classification struct {
	Success    bool
	Message    string
	Error      string
	Note       string
	BillingID  string
	Data       interface{}
	Classifier string
}

// ResponseClassifier reads one response shape. It returns false when the
// response is not of that shape so the next classifier can try.
type ResponseClassifier interface {
	Name() string
	Classify(resp UpstreamResponse) (Classification, bool)
}

// RedirectClassifier extracts the billing id from a 3xx Location header. A
// redirect back to FormURL is the upstream rejecting the post.
type RedirectClassifier struct {
	FormURL string
}

var (
	billingIDQuery    = regexp.MustCompile(`billing_id=(\d+)`)
	billingIDSegment  = regexp.MustCompile(`billing_id/(\d+)`)
	trailingNumericID = regexp.MustCompile(`/(\d+)/?$`)
)

func (RedirectClassifier) Name() string { return ClassifierRedirect }

func (r RedirectClassifier) Classify(resp UpstreamResponse) (Classification, bool) {
	if !isRedirect(resp) {
		return Classification{}, false
	}
	if isFormPage(resp.Location, r.FormURL) {
		return Classification{Success: false, Error: MessageFormRejected}, true
	}

	id := extractBillingID(resp.Location)
	if id == "" {
		return Classification{}, false
	}

	return Classification{
		Success:   true,
		Message:   MessageRegistrationSent,
		Note:      NoteCommission,
		BillingID: id,
	}, true
}

func isRedirect(resp UpstreamResponse) bool {
	return resp.StatusCode >= 300 && resp.StatusCode <= 399 && resp.Location != ""
}

// isFormPage reports whether location points at the registration form.
// Relative locations compare by path.
func isFormPage(location, formURL string) bool {
	if formURL == "" {
		return false
	}
	loc, err := url.Parse(location)
	if err != nil {
		return false
	}
	form, err := url.Parse(formURL)
	if err != nil {
		return false
	}

	formPath := strings.TrimRight(form.Path, "/")
	if formPath == "" || strings.TrimRight(loc.Path, "/") != formPath {
		return false
	}
	return loc.Host == "" || strings.EqualFold(loc.Host, form.Host)
}

// extractBillingID tries billing_id=N, billing_id/N and then a trailing
// numeric path segment
func extractBillingID(location string) string {
	for _, re := range []*regexp.Regexp{billingIDQuery, billingIDSegment} {
		if m := re.FindStringSubmatch(location); m != nil {
			return m[1]
		}
	}

	path := location
	if u, err := url.Parse(location); err == nil {
		path = u.Path
	}
	if m := trailingNumericID.FindStringSubmatch(path); m != nil {
		return m[1]
	}
	return ""
}

// HTMLClassifier reads HTML pages by looking for success wording
type HTMLClassifier struct{}

var successMarkers = []string{"sucesso", "registrado"}

func (HTMLClassifier) Name() string { return ClassifierHTML }

func (HTMLClassifier) Classify(resp UpstreamResponse) (Classification, bool) {
	body := strings.ToLower(string(resp.Body))
	if !strings.Contains(body, "<!doctype html") && !strings.Contains(body, "<html") {
		return Classification{}, false
	}

	success := resp.StatusCode == 200
	for _, marker := range successMarkers {
		if success {
			break
		}
		success = strings.Contains(body, marker)
	}

	if !success {
		return Classification{Success: false, Error: MessageUnexpectedHTML}, true
	}
	return Classification{
		Success: true,
		Message: MessageRegistrationSent,
		Note:    NoteCommission,
	}, true
}

// JSONClassifier accepts structured bodies on non-error statuses
type JSONClassifier struct{}

func (JSONClassifier) Name() string { return ClassifierJSON }

func (JSONClassifier) Classify(resp UpstreamResponse) (Classification, bool) {
	if resp.StatusCode >= 400 {
		return Classification{}, false
	}

	trimmed := bytes.TrimSpace(resp.Body)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return Classification{}, false
	}

	var data interface{}
	if err := json.Unmarshal(trimmed, &data); err != nil {
		return Classification{}, false
	}

	return Classification{
		Success: true,
		Message: MessageRegistrationSent,
		Data:    data,
	}, true
}

// FallbackClassifier decides on the status code alone: 2xx, or a redirect
// somewhere other than the form, is a success
type FallbackClassifier struct {
	policy  *bluemonday.Policy
	formURL string
}

// NewFallbackClassifier strips markup from echoed bodies
func NewFallbackClassifier(formURL string) FallbackClassifier {
	return FallbackClassifier{policy: bluemonday.StrictPolicy(), formURL: formURL}
}

func (FallbackClassifier) Name() string { return ClassifierFallback }

func (f FallbackClassifier) Classify(resp UpstreamResponse) (Classification, bool) {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
	case isRedirect(resp) && isFormPage(resp.Location, f.formURL):
		return Classification{Success: false, Error: MessageFormRejected}, true
	case isRedirect(resp):
	default:
		return Classification{Success: false, Error: MessageRetryGuidance}, true
	}

	message := f.sanitize(resp.Body)
	if message == "" {
		message = MessageRegistrationSent
	}
	return Classification{Success: true, Message: message}, true
}

func (f FallbackClassifier) sanitize(body []byte) string {
	policy := f.policy
	if policy == nil {
		policy = bluemonday.StrictPolicy()
	}
	text := strings.Join(strings.Fields(policy.Sanitize(string(body))), " ")
	if len(text) > maxMessageLength {
		// cut on a rune boundary
		cut := maxMessageLength
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}

// ClassifierChain runs classifiers in order until one decides
type ClassifierChain struct {
	classifiers []ResponseClassifier
}

// NewClassifierChain builds a chain from classifier names. An empty list
// selects DefaultClassifierOrder. formURL is the registration page the
// upstream redirects back to when it rejects a post.
func NewClassifierChain(names []string, formURL string) (*ClassifierChain, error) {
	if len(names) == 0 {
		names = DefaultClassifierOrder
	}

	chain := &ClassifierChain{}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if seen[name] {
			return nil, fmt.Errorf("duplicate response classifier %q", name)
		}
		seen[name] = true

		switch name {
		case ClassifierRedirect:
			chain.classifiers = append(chain.classifiers, RedirectClassifier{FormURL: formURL})
		case ClassifierHTML:
			chain.classifiers = append(chain.classifiers, HTMLClassifier{})
		case ClassifierJSON:
			chain.classifiers = append(chain.classifiers, JSONClassifier{})
		case ClassifierFallback:
			chain.classifiers = append(chain.classifiers, NewFallbackClassifier(formURL))
		default:
			return nil, fmt.Errorf("unknown response classifier %q", name)
		}
	}
	return chain, nil
}

// NewClassifierChainFrom builds a chain from ready classifiers
func NewClassifierChainFrom(classifiers ...ResponseClassifier) *ClassifierChain {
	return &ClassifierChain{classifiers: classifiers}
}

// Names returns the classifier names in evaluation order
func (c *ClassifierChain) Names() []string {
	names := make([]string, 0, len(c.classifiers))
	for _, cl := range c.classifiers {
		names = append(names, cl.Name())
	}
	return names
}

// Classify returns the first decision. A response nobody decides is a
// failure with retry guidance.
func (c *ClassifierChain) Classify(resp UpstreamResponse) Classification {
	for _, cl := range c.classifiers {
		if result, ok := cl.Classify(resp); ok {
			result.Classifier = cl.Name()
			return result
		}
	}
	return Classification{Success: false, Error: MessageRetryGuidance, Classifier: "none"}
}
