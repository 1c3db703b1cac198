package investment

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vestaclub/vesta/pkg/constants"
)

// CreateDTO carries an investment submission. Amount travels as a string
// so presentation never rounds it through a float.
type CreateDTO struct {
	OwnerID          string `json:"owner_id" validate:"required,uuid"`
	Amount           string `json:"amount" validate:"required"`
	CommitmentPeriod int    `json:"commitment_period" validate:"required"`
	LiquidityClass   string `json:"liquidity_class" validate:"required"`
}

func (d *CreateDTO) Normalize() {
	d.OwnerID = strings.TrimSpace(d.OwnerID)
	d.Amount = strings.TrimSpace(d.Amount)
	d.LiquidityClass = strings.TrimSpace(strings.ToLower(d.LiquidityClass))
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
