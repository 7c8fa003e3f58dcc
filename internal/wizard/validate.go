package wizard

import (
	"fmt"
	"strings"

	"github.com/federal-associados/app-cadastro/internal/models"
)

// ValidationError reports the required fields missing from a step
type ValidationError struct {
	Step     int      `json:"step"`
	Category StepKind `json:"category"`
	Missing  []string `json:"missing"`
	Message  string   `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %d (%s) incomplete: missing %s", e.Step, e.Category, strings.Join(e.Missing, ", "))
}

type requirement struct {
	fields  []string
	message string
}

// requirements per step kind. The address step of the four-step layout also
// carries the delivery method, see requiredFields.
var requirements = map[StepKind]requirement{
	StepPlan: {
		fields:  []string{FieldPlanID},
		message: "Por favor, escolha um plano para continuar.",
	},
	StepPersonal: {
		fields:  []string{FieldCPF, FieldBirth, FieldName},
		message: "Por favor, preencha todos os campos obrigatórios.",
	},
	StepContact: {
		fields:  []string{FieldEmail, FieldPhone, FieldCell},
		message: "Por favor, preencha todos os campos de contato.",
	},
	StepDelivery: {
		fields:  []string{FieldDeliveryMethod},
		message: "Por favor, selecione a forma de envio.",
	},
	StepAddress: {
		fields:  []string{FieldCEP, FieldStreet, FieldCity, FieldState},
		message: "Por favor, preencha todos os campos de endereço.",
	},
}

const addressAndDeliveryMessage = "Por favor, preencha todos os campos de endereço e forma de envio."

func requiredFields(layout Layout, kind StepKind) requirement {
	req := requirements[kind]
	if kind == StepAddress && layout != LayoutFive {
		fields := append(append([]string(nil), req.fields...), FieldDeliveryMethod)
		return requirement{fields: fields, message: addressAndDeliveryMessage}
	}
	return req
}

// RequiredFields lists the fields a step needs before the wizard moves on
func RequiredFields(layout Layout, step int) []string {
	kind, ok := layout.StepAt(step)
	if !ok {
		return nil
	}
	return append([]string(nil), requiredFields(layout, kind).fields...)
}

// ValidateStep checks that every required field of the 1-based step is
// non-empty. Steps outside the layout have no requirements.
func ValidateStep(layout Layout, step int, sub models.Submission) error {
	kind, ok := layout.StepAt(step)
	if !ok {
		return nil
	}

	req := requiredFields(layout, kind)
	var missing []string
	for _, field := range req.fields {
		if strings.TrimSpace(FieldValue(sub, field)) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	return &ValidationError{
		Step:     step,
		Category: kind,
		Missing:  missing,
		Message:  req.message,
	}
}

// StepValid is the boolean form of ValidateStep
func StepValid(layout Layout, step int, sub models.Submission) bool {
	return ValidateStep(layout, step, sub) == nil
}

// validateAll returns the first failing step's error
func validateAll(layout Layout, sub models.Submission) error {
	for step := 1; step <= layout.TotalSteps(); step++ {
		if err := ValidateStep(layout, step, sub); err != nil {
			return err
		}
	}
	return nil
}
