package kernel

import (
	"errors"
	"strings"

	"marketplace/internal/pkg/errs"
)

// Address is a postal address as captured at checkout. It is stored with the
// order; validation against a postal service happens upstream.
type Address struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Validate checks the fields every carrier needs.
func (a Address) Validate(field string) error {
	var problems []error
	if strings.TrimSpace(a.Line1) == "" {
		problems = append(problems, errs.NewValueIsRequiredError(field+".line1"))
	}
	if strings.TrimSpace(a.City) == "" {
		problems = append(problems, errs.NewValueIsRequiredError(field+".city"))
	}
	if strings.TrimSpace(a.PostalCode) == "" {
		problems = append(problems, errs.NewValueIsRequiredError(field+".postalCode"))
	}
	if len(strings.TrimSpace(a.Country)) != 2 {
		problems = append(problems, errs.NewValueIsInvalidError(field+".country"))
	}
	return errors.Join(problems...)
}

func (a Address) IsZero() bool {
	return a == Address{}
}
