package topology

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateAttrs checks the numeric struct tags on a Node or Link and reports
// the first violated field as ErrInvalidAttribute.
func validateAttrs(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s must be %s", ErrInvalidAttribute, strings.ToLower(fe.Field()), describeTag(fe))
	}
	return fmt.Errorf("%w: %v", ErrInvalidAttribute, err)
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return "at least " + fe.Param()
	case "gt":
		return "greater than " + fe.Param()
	default:
		return fe.Tag() + " " + fe.Param()
	}
}
