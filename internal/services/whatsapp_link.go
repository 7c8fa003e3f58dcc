package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/federal-associados/app-cadastro/internal/models"
	"github.com/federal-associados/app-cadastro/internal/utils"
)

// WhatsAppLinkBuilder builds the click-to-chat link offered after a
// successful registration
type WhatsAppLinkBuilder struct {
	baseURL      string
	sponsorPhone string
	sponsorName  string
	referralCode string
}

// NewWhatsAppLinkBuilder normalizes the sponsor phone to international
// digits. A phone that does not parse is kept as its raw digits.
func NewWhatsAppLinkBuilder(baseURL, sponsorPhone, sponsorName, referralCode string) *WhatsAppLinkBuilder {
	phone := utils.OnlyDigits(sponsorPhone)
	if phone != "" {
		if normalized, err := utils.WhatsAppNumber(sponsorPhone); err == nil {
			phone = normalized
		}
	}

	if baseURL == "" {
		baseURL = "https://wa.me"
	}

	return &WhatsAppLinkBuilder{
		baseURL:      strings.TrimRight(baseURL, "/"),
		sponsorPhone: phone,
		sponsorName:  sponsorName,
		referralCode: referralCode,
	}
}

// HasSponsorPhone reports whether links address the sponsor directly
func (b *WhatsAppLinkBuilder) HasSponsorPhone() bool {
	return b.sponsorPhone != ""
}

// Message renders the prefilled message for a submission
func (b *WhatsAppLinkBuilder) Message(sub models.Submission, billingID string) string {
	var lines []string
	lines = append(lines,
		"Olá! Acabei de fazer meu cadastro na Federal Associados.",
		"",
		"*Nome:* "+sub.Name,
		"*E-mail:* "+sub.Email,
		"*Celular:* "+displayCell(sub.Cell),
		fmt.Sprintf("*Cidade/UF:* %s/%s", sub.City, sub.State),
		"*Plano:* "+describePlan(sub.PlanID),
		"*Código de indicação:* "+b.referralCode,
	)
	if b.sponsorName != "" {
		lines = append(lines, "*Patrocinador:* "+b.sponsorName)
	}
	if billingID != "" {
		lines = append(lines, "*ID da cobrança:* "+billingID)
	}
	return strings.Join(lines, "\n")
}

// Build returns <base>/<sponsor phone>?text=<message>. Without a sponsor
// phone the link opens the contact picker.
func (b *WhatsAppLinkBuilder) Build(sub models.Submission, billingID string) string {
	text := strings.ReplaceAll(url.QueryEscape(b.Message(sub, billingID)), "+", "%20")

	link := b.baseURL + "/"
	if b.sponsorPhone != "" {
		link += b.sponsorPhone
	}
	return link + "?text=" + text
}

func describePlan(planID string) string {
	plan, err := models.FindPlan(planID)
	if err != nil {
		return planID
	}
	return fmt.Sprintf("%s - %s (%s)", plan.ID, plan.Name, plan.Operator)
}

func displayCell(cell string) string {
	if number, err := utils.WhatsAppNumber(cell); err == nil {
		return fmt.Sprintf("%s (+%s)", cell, number)
	}
	return cell
}
