package http

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	domainbilling "github.com/jhoicas/conjunto-api/internal/domain/billing"
)

var validate = validator.New()

// validationMessage mensaje en español para el primer campo inválido.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "datos inválidos"
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Month":
		return domainbilling.InvalidMonth().Message
	case "Year":
		if fe.Tag() == "required" {
			return "El año es obligatorio."
		}
		return "El año debe tener cuatro dígitos."
	}
	return fmt.Sprintf("El campo %s no es válido (%s).", fe.Field(), fe.Tag())
}
