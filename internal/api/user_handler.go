package api

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"account-service/internal/model"
	"account-service/internal/service"
)

type UserHandler struct {
	userService service.UserService
	validate    *validator.Validate
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    validator.New(),
	}
}

type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone" validate:"omitempty,e164"`
	Bio   *string `json:"bio" validate:"omitempty,max=500"`
}

// ProfileView extends the public user shape with the creation time,
// which only profile reads expose.
type ProfileView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone"`
	Bio       *string   `json:"bio"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewProfileView(user *model.User) ProfileView {
	return ProfileView{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Phone:     user.Phone,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt,
	}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := UserIDFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthenticated"})
	}

	user, err := h.userService.GetProfile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return serverError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": NewProfileView(user)})
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := UserIDFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthenticated"})
	}

	var request UpdateProfileRequest

	if err := c.BodyParser(&request); err != nil {
		return badRequestBody(c)
	}

	if request.Name != nil {
		trimmed := strings.TrimSpace(*request.Name)
		if trimmed == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": []FieldError{{Field: "name", Message: "Name cannot be empty"}},
			})
		}
		request.Name = &trimmed
	}

	if err := h.validate.Struct(&request); err != nil {
		return validationResponse(c, err)
	}

	user, err := h.userService.UpdateProfile(c.Context(), userID, service.UpdateProfileInput{
		Name:  request.Name,
		Phone: request.Phone,
		Bio:   request.Bio,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return serverError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": NewProfileView(user)})
}
