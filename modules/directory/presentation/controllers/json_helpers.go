package controllers

import (
	"github.com/vestaclub/vesta/pkg/serrors"
)

func serviceErrorCode(err error) string {
	return serrors.CodeOf(err)
}
