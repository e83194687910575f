package resource

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/learnifyhq/learnify/core"
)

var (
	resourceTypeTag  = "resourcetype"
	resourceTypeText = "invalid resource type"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(resourceTypeTag, resourceTypeValidation)
	core.RegisterCustomTranslation(validate, translator, resourceTypeTag, resourceTypeText)
}

// resourceTypeValidation checks that the provided type is in AllTypes.
func resourceTypeValidation(fl validator.FieldLevel) bool {
	return IsValidType(fl.Field().String())
}
