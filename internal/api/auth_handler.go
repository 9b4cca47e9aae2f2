package api

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"account-service/internal/model"
	"account-service/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
	validate    *validator.Validate
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

type SignUpRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Name     string  `json:"name" validate:"required"`
	Phone    *string `json:"phone" validate:"omitempty,e164"`
	Bio      *string `json:"bio" validate:"omitempty,max=500"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserView is the public shape of a user in auth responses. The
// password hash is never part of any response.
type UserView struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Phone *string   `json:"phone"`
	Bio   *string   `json:"bio"`
}

func NewUserView(user *model.User) UserView {
	return UserView{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Phone: user.Phone,
		Bio:   user.Bio,
	}
}

func serverError(c *fiber.Ctx, err error) error {
	slog.ErrorContext(c.UserContext(), "request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
}

func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var request SignUpRequest

	if err := c.BodyParser(&request); err != nil {
		return badRequestBody(c)
	}

	request.Name = strings.TrimSpace(request.Name)

	if err := h.validate.Struct(&request); err != nil {
		return validationResponse(c, err)
	}

	signedToken, user, err := h.authService.SignUp(c.Context(), service.SignUpInput{
		Email:    request.Email,
		Password: request.Password,
		Name:     request.Name,
		Phone:    request.Phone,
		Bio:      request.Bio,
	})

	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email already registered"})
		}
		return serverError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": signedToken,
		"user":  NewUserView(user),
	})
}

func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var request SignInRequest

	if err := c.BodyParser(&request); err != nil {
		return badRequestBody(c)
	}

	if err := h.validate.Struct(&request); err != nil {
		return validationResponse(c, err)
	}

	signedToken, user, err := h.authService.SignIn(c.Context(), request.Email, request.Password)

	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
		}
		return serverError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"token": signedToken,
		"user":  NewUserView(user),
	})
}
