package wizard

import (
	"strings"

	"github.com/federal-associados/app-cadastro/internal/utils"
)

// FormatField applies the input mask for masked fields. Non-digits are
// stripped, separators are inserted positionally and overflow digits are
// dropped. Unmasked fields are returned as given.
func FormatField(field, raw string) string {
	switch field {
	case FieldCPF:
		return groupDigits(truncate(utils.OnlyDigits(raw), 11), []int{3, 3, 3, 2}, []string{".", ".", "-"})
	case FieldPhone:
		return areaCode(truncate(utils.OnlyDigits(raw), 10), []int{4, 4})
	case FieldCell:
		return areaCode(truncate(utils.OnlyDigits(raw), 11), []int{5, 4})
	case FieldCEP:
		return groupDigits(truncate(utils.OnlyDigits(raw), 8), []int{5, 3}, []string{"-"})
	default:
		return raw
	}
}

func truncate(digits string, max int) string {
	if len(digits) > max {
		return digits[:max]
	}
	return digits
}

// areaCode renders "(DD) " ahead of the subscriber groups once a digit
// follows the area code.
func areaCode(digits string, sizes []int) string {
	if len(digits) <= 2 {
		return digits
	}
	return "(" + digits[:2] + ") " + groupDigits(digits[2:], sizes, []string{"-"})
}

// groupDigits splits digits into consecutive groups and joins the non-empty
// ones with the separator preceding each group.
func groupDigits(digits string, sizes []int, seps []string) string {
	var b strings.Builder
	rest := digits
	for i, size := range sizes {
		if rest == "" {
			break
		}
		if i > 0 {
			b.WriteString(seps[i-1])
		}
		n := size
		if n > len(rest) {
			n = len(rest)
		}
		b.WriteString(rest[:n])
		rest = rest[n:]
	}
	return b.String()
}
