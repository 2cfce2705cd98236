package broker

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Request is the body of a connection-details call.
type Request struct {
	Provider        string `json:"provider" validate:"max=64"`
	CompanyID       string `json:"company_id" validate:"max=256"`
	RoomName        string `json:"room_name" validate:"max=128"`
	ParticipantName string `json:"participant_name" validate:"max=128"`
	Language        string `json:"language" validate:"omitempty,langtag"`
}

var langTagRegex = regexp.MustCompile(`^[A-Za-z]{2,8}(-[A-Za-z0-9]{1,8})*$`)

func isLangTag(fl validator.FieldLevel) bool {
	return langTagRegex.MatchString(fl.Field().String())
}

// newValidator returns a validator with the broker's custom rules.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("langtag", isLangTag)
	return v
}

// describeValidation turns validator errors into a single readable message.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", jsonName(fe.Field()), fe.Param()))
		case "langtag":
			parts = append(parts, fmt.Sprintf("%s must be a language tag such as \"en\" or \"en-US\"", jsonName(fe.Field())))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s validation", jsonName(fe.Field()), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

func jsonName(field string) string {
	switch field {
	case "CompanyID":
		return "company_id"
	case "RoomName":
		return "room_name"
	case "ParticipantName":
		return "participant_name"
	default:
		return strings.ToLower(field)
	}
}
