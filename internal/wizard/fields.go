package wizard

import (
	"strings"

	"github.com/federal-associados/app-cadastro/internal/models"
)

// Field names accepted by SetField. They match the Submission JSON names.
const (
	FieldCPF            = "cpf"
	FieldBirth          = "birth"
	FieldName           = "name"
	FieldEmail          = "email"
	FieldPhone          = "phone"
	FieldCell           = "cell"
	FieldCEP            = "cep"
	FieldDistrict       = "district"
	FieldCity           = "city"
	FieldState          = "state"
	FieldStreet         = "street"
	FieldNumber         = "number"
	FieldComplement     = "complement"
	FieldTypeChip       = "typeChip"
	FieldDeliveryMethod = "deliveryMethod"
	FieldCoupon         = "coupon"
	FieldPlanID         = "planId"
	FieldPlanOperator   = "planOperator"
)

// setValue stores value into the named field. It reports false for unknown fields.
func setValue(sub *models.Submission, field, value string) bool {
	switch field {
	case FieldCPF:
		sub.CPF = value
	case FieldBirth:
		sub.Birth = value
	case FieldName:
		sub.Name = value
	case FieldEmail:
		sub.Email = value
	case FieldPhone:
		sub.Phone = value
	case FieldCell:
		sub.Cell = value
	case FieldCEP:
		sub.CEP = value
	case FieldDistrict:
		sub.District = value
	case FieldCity:
		sub.City = value
	case FieldState:
		sub.State = strings.ToUpper(value)
	case FieldStreet:
		sub.Street = value
	case FieldNumber:
		sub.Number = value
	case FieldComplement:
		sub.Complement = value
	case FieldTypeChip:
		sub.TypeChip = models.ChipType(value)
	case FieldDeliveryMethod:
		sub.DeliveryMethod = models.DeliveryMethod(value)
	case FieldCoupon:
		sub.Coupon = value
	case FieldPlanID:
		sub.PlanID = value
		// picking a plan also records its operator
		if plan, err := models.FindPlan(value); err == nil {
			sub.PlanOperator = plan.Operator
		}
	case FieldPlanOperator:
		sub.PlanOperator = models.Operator(value)
	default:
		return false
	}
	return true
}

// FieldValue reads the named field. Unknown fields read as empty.
func FieldValue(sub models.Submission, field string) string {
	switch field {
	case FieldCPF:
		return sub.CPF
	case FieldBirth:
		return sub.Birth
	case FieldName:
		return sub.Name
	case FieldEmail:
		return sub.Email
	case FieldPhone:
		return sub.Phone
	case FieldCell:
		return sub.Cell
	case FieldCEP:
		return sub.CEP
	case FieldDistrict:
		return sub.District
	case FieldCity:
		return sub.City
	case FieldState:
		return sub.State
	case FieldStreet:
		return sub.Street
	case FieldNumber:
		return sub.Number
	case FieldComplement:
		return sub.Complement
	case FieldTypeChip:
		return string(sub.TypeChip)
	case FieldDeliveryMethod:
		return string(sub.DeliveryMethod)
	case FieldCoupon:
		return sub.Coupon
	case FieldPlanID:
		return sub.PlanID
	case FieldPlanOperator:
		return string(sub.PlanOperator)
	}
	return ""
}
