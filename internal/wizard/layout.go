package wizard

import (
	"fmt"
	"strings"
)

// Layout selects how the form is split into steps
type Layout string

const (
	// LayoutFour folds the delivery method into the address step
	LayoutFour Layout = "four"
	// LayoutFive asks for the delivery method on its own step before the address
	LayoutFive Layout = "five"
)

// StepKind names the content of a wizard step
type StepKind string

const (
	StepPlan     StepKind = "plan"
	StepPersonal StepKind = "personal"
	StepContact  StepKind = "contact"
	StepDelivery StepKind = "delivery"
	StepAddress  StepKind = "address"
)

var layoutSteps = map[Layout][]StepKind{
	LayoutFour: {StepPlan, StepPersonal, StepContact, StepAddress},
	LayoutFive: {StepPlan, StepPersonal, StepContact, StepDelivery, StepAddress},
}

// ParseLayout parses a layout name. An empty name selects LayoutFour.
func ParseLayout(name string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(name))) {
	case "", LayoutFour:
		return LayoutFour, nil
	case LayoutFive:
		return LayoutFive, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
}

// Steps returns the ordered step kinds of the layout
func (l Layout) Steps() []StepKind {
	steps, ok := layoutSteps[l]
	if !ok {
		steps = layoutSteps[LayoutFour]
	}
	out := make([]StepKind, len(steps))
	copy(out, steps)
	return out
}

// TotalSteps returns the number of steps in the layout
func (l Layout) TotalSteps() int {
	return len(l.Steps())
}

// StepAt returns the kind of the 1-based step, or false when out of range
func (l Layout) StepAt(step int) (StepKind, bool) {
	steps := l.Steps()
	if step < 1 || step > len(steps) {
		return "", false
	}
	return steps[step-1], true
}
