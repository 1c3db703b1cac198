package actor

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vestaclub/vesta/pkg/constants"
)

type CreateDTO struct {
	DisplayName   string `json:"display_name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Tier          string `json:"tier" validate:"required"`
	AdvisorID     string `json:"advisor_id" validate:"omitempty,uuid"`
	OfficeID      string `json:"office_id" validate:"omitempty,uuid"`
	DistributorID string `json:"distributor_id" validate:"omitempty,uuid"`
}

func (d *CreateDTO) Normalize() {
	d.DisplayName = strings.TrimSpace(d.DisplayName)
	d.Email = strings.TrimSpace(strings.ToLower(d.Email))
	d.Tier = strings.TrimSpace(strings.ToLower(d.Tier))
}

func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Normalize()

	errs := constants.Validate.Struct(d)
	if errs == nil {
		return map[string]string{}, true
	}

	out := make(map[string]string)
	for _, err := range errs.(validator.ValidationErrors) {
		out[err.Field()] = err.Tag()
	}
	return out, false
}
