package api

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// FieldError is one entry of the 400 {"errors":[...]} response body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Email":
		return "Invalid email"
	case "Password":
		return "Password must be at least 6 characters"
	case "Name":
		return "Name is required"
	case "Phone":
		return "Invalid phone number"
	case "Bio":
		return "Bio must be less than 500 characters"
	}
	return "Invalid value"
}

func fieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "Email":
		return "email"
	case "Password":
		return "password"
	case "Name":
		return "name"
	case "Phone":
		return "phone"
	case "Bio":
		return "bio"
	}
	return fe.Field()
}

// validationResponse maps validator errors to the 400 contract with a
// per-field error list.
func validationResponse(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": []FieldError{{Field: "body", Message: "Invalid input"}},
		})
	}

	fieldErrors := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fieldErrors = append(fieldErrors, FieldError{Field: fieldName(fe), Message: fieldMessage(fe)})
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": fieldErrors})
}

func badRequestBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"errors": []FieldError{{Field: "body", Message: "Cannot parse JSON"}},
	})
}
