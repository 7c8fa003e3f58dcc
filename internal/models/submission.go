package models

// ChipType is the SIM provisioning choice
type ChipType string

const (
	ChipPhysical ChipType = "fisico"
	ChipESim     ChipType = "eSim"
)

// DeliveryMethod is how the physical SIM reaches the subscriber
type DeliveryMethod string

const (
	DeliveryMail            DeliveryMethod = "carta"
	DeliveryPickupAtOffice  DeliveryMethod = "associacao"
	DeliveryPickupAffiliate DeliveryMethod = "associado"
)

// DeliveryMethods lists the selectable delivery methods with their labels, in display order
var DeliveryMethods = []Option{
	{Value: string(DeliveryMail), Label: "Via carta registrada"},
	{Value: string(DeliveryPickupAtOffice), Label: "Retirar na associação"},
	{Value: string(DeliveryPickupAffiliate), Label: "Com um associado"},
}

// ChipTypes lists the selectable chip types with their labels
var ChipTypes = []Option{
	{Value: string(ChipPhysical), Label: "Chip físico"},
	{Value: string(ChipESim), Label: "eSIM"},
}

// Option is a value/label pair rendered by clients
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Submission is the registration payload collected by the wizard.
// JSON names match the browser form so the same body can be posted to
// the registration endpoint directly.
type Submission struct {
	CPF            string         `json:"cpf"`
	Birth          string         `json:"birth"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	Cell           string         `json:"cell"`
	CEP            string         `json:"cep"`
	District       string         `json:"district"`
	City           string         `json:"city"`
	State          string         `json:"state"`
	Street         string         `json:"street"`
	Number         string         `json:"number"`
	Complement     string         `json:"complement"`
	TypeChip       ChipType       `json:"typeChip"`
	DeliveryMethod DeliveryMethod `json:"deliveryMethod"`
	Coupon         string         `json:"coupon"`
	PlanID         string         `json:"planId"`
	PlanOperator   Operator       `json:"planOperator"`
}

// NewSubmission returns an empty submission with the form defaults applied
func NewSubmission() Submission {
	return Submission{TypeChip: ChipPhysical}
}
