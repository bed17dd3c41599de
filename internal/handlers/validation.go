package handlers

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	msgUsernameLength = "Username must be between 20 and 60 characters"
	msgAddressLength  = "Address must be at most 400 characters"
	msgPasswordPolicy = "Password must be 8-16 chars with at least one uppercase letter and one special character"
	msgInvalidEmail   = "Invalid email format"
	msgInvalidRole    = "Invalid role"
)

// NewValidator returns a validator knowing the password_policy and
// basic_email tags and reporting fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("password_policy", func(fl validator.FieldLevel) bool {
		return ValidPassword(fl.Field().String())
	}); err != nil {
		log.Fatalf("Failed to register password_policy: %v", err)
	}
	if err := v.RegisterValidation("basic_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		log.Fatalf("Failed to register basic_email: %v", err)
	}
	return v
}

// ValidPassword reports whether password is 8-16 characters long with at
// least one uppercase letter and one character that is not a letter or digit.
func ValidPassword(password string) bool {
	n := utf8.RuneCountInString(password)
	if n < 8 || n > 16 {
		return false
	}
	var upper, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r > unicode.MaxASCII || !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9'):
			special = true
		}
	}
	return upper && special
}

// bindJSON parses the body into out and validates it. On failure it returns
// the 400 response body.
func bindJSON(c *fiber.Ctx, validate *validator.Validate, out interface{}) (fiber.Map, bool) {
	if err := c.BodyParser(out); err != nil {
		log.Debugf("Error parsing request body: %v", err)
		return fiber.Map{"msg": "Invalid request body", "err": err.Error()}, false
	}
	if err := validate.Struct(out); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return fiber.Map{"msg": "Validation failed", "err": err.Error()}, false
		}
		errorMessages := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fieldMessage(e)
		}
		return fiber.Map{
			"msg":    fieldMessage(validationErrors[0]),
			"errors": errorMessages,
		}, false
	}
	return nil, true
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "password_policy":
		return msgPasswordPolicy
	case "basic_email":
		return msgInvalidEmail
	case "oneof":
		if e.Field() == "role" {
			return msgInvalidRole
		}
	case "min", "max":
		switch e.Field() {
		case "username":
			return msgUsernameLength
		case "address":
			return msgAddressLength
		}
	}
	return fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
}
