package models

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Operator is the mobile carrier a plan belongs to
type Operator string

const (
	OperatorVivo  Operator = "VIVO"
	OperatorTIM   Operator = "TIM"
	OperatorClaro Operator = "CLARO"
)

// Plan is one entry of the catalog
type Plan struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Price    string   `yaml:"price" json:"price"`
	Operator Operator `yaml:"-" json:"operator"`
}

// OperatorPlans groups the plans of one operator in display order
type OperatorPlans struct {
	Operator Operator `yaml:"code" json:"operator"`
	Plans    []Plan   `yaml:"plans" json:"plans"`
}

type catalogFile struct {
	Operators []OperatorPlans `yaml:"operators"`
}

//go:embed plans.yaml
var plansYAML []byte

var catalog = mustParseCatalog(plansYAML)

func mustParseCatalog(data []byte) []OperatorPlans {
	operators, err := parseCatalog(data)
	if err != nil {
		panic(err)
	}
	return operators
}

func parseCatalog(data []byte) ([]OperatorPlans, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse plan catalog: %w", err)
	}

	seen := make(map[string]Operator)
	for i := range file.Operators {
		op := &file.Operators[i]
		if op.Operator == "" {
			return nil, fmt.Errorf("plan catalog: operator %d has no code", i)
		}
		for j := range op.Plans {
			plan := &op.Plans[j]
			if plan.ID == "" {
				return nil, fmt.Errorf("plan catalog: %s plan %d has no id", op.Operator, j)
			}
			if other, dup := seen[plan.ID]; dup {
				return nil, fmt.Errorf("plan catalog: plan id %s listed under %s and %s", plan.ID, other, op.Operator)
			}
			seen[plan.ID] = op.Operator
			plan.Operator = op.Operator
		}
	}

	return file.Operators, nil
}

// Plans returns the catalog grouped by operator. Callers must not mutate it.
func Plans() []OperatorPlans {
	return catalog
}

// Operators returns the operator codes in display order
func Operators() []Operator {
	out := make([]Operator, 0, len(catalog))
	for _, op := range catalog {
		out = append(out, op.Operator)
	}
	return out
}

// FindPlan returns the plan with the given id
func FindPlan(id string) (Plan, error) {
	for _, op := range catalog {
		for _, plan := range op.Plans {
			if plan.ID == id {
				return plan, nil
			}
		}
	}
	return Plan{}, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
}
