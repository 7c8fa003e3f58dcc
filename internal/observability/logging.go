package observability

import (
	"github.com/federal-associados/app-cadastro/internal/logging"
	"github.com/federal-associados/app-cadastro/internal/utils"
)

// Logger returns the global safe logger instance
func Logger() *logging.SafeLogger {
	return logging.Logger
}

// MaskCPF masks a CPF number for logging. Formatted input is accepted.
func MaskCPF(cpf string) string {
	digits := utils.OnlyDigits(cpf)
	if len(digits) != 11 {
		return "***.***.***-**"
	}
	return digits[:3] + ".***" + "." + digits[6:9] + "-**"
}

var sensitiveFields = map[string]bool{
	"cpf":   true,
	"birth": true,
	"phone": true,
	"cell":  true,
}

// MaskSensitiveData returns a copy of data with personal identifiers masked
func MaskSensitiveData(data map[string]interface{}) map[string]interface{} {
	masked := make(map[string]interface{}, len(data))

	for k, v := range data {
		switch {
		case k == "cpf":
			s, _ := v.(string)
			masked[k] = MaskCPF(s)
		case k == "name":
			s, _ := v.(string)
			masked[k] = utils.MaskName(s)
		case sensitiveFields[k]:
			masked[k] = "********"
		default:
			masked[k] = v
		}
	}

	return masked
}
