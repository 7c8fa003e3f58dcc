package models

// SubmissionResult is the normalized outcome of forwarding a submission upstream
type SubmissionResult struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message,omitempty"`
	Error       string      `json:"error,omitempty"`
	Note        string      `json:"note,omitempty"`
	WhatsAppURL string      `json:"whatsappUrl,omitempty"`
	BillingID   string      `json:"billing_id,omitempty"`
	Data        interface{} `json:"data,omitempty"`
}

// AddressLookup is the subset of a postal code lookup the form consumes
type AddressLookup struct {
	CEP      string `json:"cep"`
	Street   string `json:"street"`
	District string `json:"district"`
	City     string `json:"city"`
	State    string `json:"state"`
	Found    bool   `json:"found"`
}
