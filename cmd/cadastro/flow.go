package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/federal-associados/app-cadastro/internal/models"
	"github.com/federal-associados/app-cadastro/internal/utils"
	"github.com/federal-associados/app-cadastro/internal/wizard"
)

// errNotSubmitted is returned when the user gives up after a failed submit
var errNotSubmitted = errors.New("cadastro não enviado")

var fieldLabels = map[string]string{
	wizard.FieldCPF:        "CPF",
	wizard.FieldBirth:      "Data de nascimento (AAAA-MM-DD)",
	wizard.FieldName:       "Nome completo",
	wizard.FieldEmail:      "E-mail",
	wizard.FieldPhone:      "Telefone fixo",
	wizard.FieldCell:       "Celular (WhatsApp)",
	wizard.FieldCEP:        "CEP",
	wizard.FieldStreet:     "Rua",
	wizard.FieldNumber:     "Número",
	wizard.FieldComplement: "Complemento",
	wizard.FieldDistrict:   "Bairro",
	wizard.FieldCity:       "Cidade",
	wizard.FieldState:      "UF",
	wizard.FieldCoupon:     "Cupom",
}

// flow drives one wizard.State through the terminal
type flow struct {
	prompt    prompter
	finder    wizard.AddressFinder
	submitter wizard.Submitter
	out       io.Writer
}

// run asks every step, submits from the last one and offers a retry after
// a failed submission
func (f *flow) run(ctx context.Context, state wizard.State) (wizard.State, error) {
	for {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		fmt.Fprintf(f.out, "\nPasso %d de %d\n", state.CurrentStep, state.TotalSteps())
		next, err := f.askStep(ctx, state)
		if err != nil {
			return state, err
		}
		state = next

		if !state.OnLastStep() {
			advanced, err := wizard.Advance(state)
			if err != nil {
				f.warn(err)
				continue
			}
			state = advanced
			continue
		}

		if err := wizard.ValidateStep(state.Layout, state.CurrentStep, state.Fields); err != nil {
			f.warn(err)
			continue
		}

		confirmed, err := f.prompt.Confirm("Enviar cadastro?", true)
		if err != nil {
			return state, err
		}
		if !confirmed {
			state = wizard.Retreat(state)
			continue
		}

		submitted, err := wizard.Submit(ctx, state, f.submitter)
		if err != nil {
			f.warn(err)
			var verr *wizard.ValidationError
			if errors.As(err, &verr) {
				for state.CurrentStep > verr.Step {
					state = wizard.Retreat(state)
				}
			}
			continue
		}
		state = submitted

		if state.Status == wizard.StatusSubmitted {
			f.printResult(state)
			return state, nil
		}

		fmt.Fprintln(f.out, state.LastError)
		retry, err := f.prompt.Confirm("Tentar novamente?", true)
		if err != nil {
			return state, err
		}
		if !retry {
			return state, errNotSubmitted
		}
	}
}

func (f *flow) askStep(ctx context.Context, state wizard.State) (wizard.State, error) {
	required := make(map[string]bool)
	for _, name := range wizard.RequiredFields(state.Layout, state.CurrentStep) {
		required[name] = true
	}

	switch state.CurrentKind() {
	case wizard.StepPlan:
		return f.askPlan(state, required)
	case wizard.StepPersonal:
		state, err := f.askFields(state, required, wizard.FieldCPF, wizard.FieldBirth, wizard.FieldName)
		if err == nil && !utils.ValidateCPF(state.Fields.CPF) {
			fmt.Fprintln(f.out, "Atenção: os dígitos verificadores do CPF não conferem.")
		}
		return state, err
	case wizard.StepContact:
		return f.askFields(state, required, wizard.FieldEmail, wizard.FieldPhone, wizard.FieldCell)
	case wizard.StepDelivery:
		return f.askDelivery(state)
	case wizard.StepAddress:
		return f.askAddress(ctx, state, required)
	}
	return state, fmt.Errorf("no prompts for step %d", state.CurrentStep)
}

func (f *flow) askPlan(state wizard.State, required map[string]bool) (wizard.State, error) {
	catalog := models.Plans()
	operators := make([]string, len(catalog))
	opDefault := 0
	for i, op := range catalog {
		operators[i] = string(op.Operator)
		if op.Operator == state.Fields.PlanOperator {
			opDefault = i
		}
	}
	opIdx, err := f.prompt.Select("Operadora", operators, opDefault)
	if err != nil {
		return state, err
	}

	plans := catalog[opIdx].Plans
	options := make([]string, len(plans))
	planDefault := 0
	for i, plan := range plans {
		options[i] = fmt.Sprintf("%s - %s (R$ %s)", plan.ID, plan.Name, plan.Price)
		if plan.ID == state.Fields.PlanID {
			planDefault = i
		}
	}
	planIdx, err := f.prompt.Select("Plano", options, planDefault)
	if err != nil {
		return state, err
	}
	if state, err = wizard.SetField(state, wizard.FieldPlanID, plans[planIdx].ID); err != nil {
		return state, err
	}

	if state, err = f.askOption(state, "Tipo de chip", wizard.FieldTypeChip, models.ChipTypes); err != nil {
		return state, err
	}
	return f.askFields(state, required, wizard.FieldCoupon)
}

func (f *flow) askDelivery(state wizard.State) (wizard.State, error) {
	return f.askOption(state, "Forma de envio", wizard.FieldDeliveryMethod, models.DeliveryMethods)
}

func (f *flow) askAddress(ctx context.Context, state wizard.State, required map[string]bool) (wizard.State, error) {
	previous := state.Fields.CEP
	state, err := f.askFields(state, required, wizard.FieldCEP)
	if err != nil {
		return state, err
	}
	if state.Fields.CEP != previous {
		before := state
		state = wizard.OnPostalCodeComplete(ctx, state, f.finder)
		if state.Fields == before.Fields && wizard.PostalCodeComplete(state) {
			fmt.Fprintln(f.out, "CEP não encontrado, preencha o endereço manualmente.")
		}
	}

	state, err = f.askFields(state, required,
		wizard.FieldStreet, wizard.FieldNumber, wizard.FieldComplement,
		wizard.FieldDistrict, wizard.FieldCity, wizard.FieldState)
	if err != nil {
		return state, err
	}

	if required[wizard.FieldDeliveryMethod] {
		return f.askDelivery(state)
	}
	return state, nil
}

// askOption selects one of options and stores its value
func (f *flow) askOption(state wizard.State, message, field string, options []models.Option) (wizard.State, error) {
	current := wizard.FieldValue(state.Fields, field)
	labels := make([]string, len(options))
	def := 0
	for i, opt := range options {
		labels[i] = opt.Label
		if opt.Value == current {
			def = i
		}
	}
	idx, err := f.prompt.Select(message, labels, def)
	if err != nil {
		return state, err
	}
	return wizard.SetField(state, field, options[idx].Value)
}

// askFields prompts each field with its current value as default
func (f *flow) askFields(state wizard.State, required map[string]bool, fields ...string) (wizard.State, error) {
	for _, field := range fields {
		label := fieldLabels[field]
		var validate func(string) error
		if required[field] {
			validate = requiredValidator(label)
		} else {
			label += " (opcional)"
		}
		if field == wizard.FieldState {
			validate = stateValidator
		}

		answer, err := f.prompt.Input(label, wizard.FieldValue(state.Fields, field), validate)
		if err != nil {
			return state, err
		}
		if state, err = wizard.SetField(state, field, answer); err != nil {
			return state, err
		}
	}
	return state, nil
}

func (f *flow) warn(err error) {
	var verr *wizard.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintf(f.out, "%s Faltando: %s\n", verr.Message, strings.Join(verr.Missing, ", "))
		return
	}
	fmt.Fprintf(f.out, "Erro: %v\n", err)
}

func (f *flow) printResult(state wizard.State) {
	result := state.Result
	if result == nil {
		return
	}
	fmt.Fprintln(f.out, "\n"+result.Message)
	if first := utils.ExtractFirstName(state.Fields.Name); first != "" {
		fmt.Fprintf(f.out, "Obrigado, %s!\n", first)
	}
	if result.Note != "" {
		fmt.Fprintln(f.out, result.Note)
	}
	if result.BillingID != "" {
		fmt.Fprintf(f.out, "ID da cobrança: %s\n", result.BillingID)
	}
	if result.WhatsAppURL != "" {
		fmt.Fprintf(f.out, "Fale com seu patrocinador: %s\n", result.WhatsAppURL)
	}
}

func requiredValidator(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s é obrigatório", label)
		}
		return nil
	}
}

func stateValidator(s string) error {
	if !models.IsValidState(strings.ToUpper(strings.TrimSpace(s))) {
		return fmt.Errorf("UF inválida: %q", s)
	}
	return nil
}
