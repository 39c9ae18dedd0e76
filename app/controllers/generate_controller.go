package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/fashionai/fashionai/internal/pkg/tryon"
	"github.com/fashionai/fashionai/internal/pkg/usercontext"
)

// HandleGenerateTryOn runs the virtual try-on flow: the garment image comes
// in as multipart upload, one credit is debited before inference.
func HandleGenerateTryOn(c *fiber.Ctx) error {
	ident := usercontext.Identity(c)

	fileHeader, err := c.FormFile("garment")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Garment image file is required"})
	}
	clothType := c.FormValue("cloth_type", "upper")

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Could not read garment image"})
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	image, err := deps.Generator.GenerateTryOn(c.UserContext(), ident, file, contentType, clothType)
	if err != nil {
		switch {
		case errors.Is(err, tryon.ErrInvalidClothType):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "cloth_type must be upper, lower or overall"})
		case errors.Is(err, tryon.ErrProfilePhotoRequired):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "profile_photo_required", "message": "Add a profile photo before generating"})
		case errors.Is(err, tryon.ErrInsufficientCredits):
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "insufficient_credits", "message": "Not enough credits"})
		default:
			log.Printf("generate: try-on failed for user %d: %v", ident.UserID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Generation failed"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(image)
}

// HandleListGenerations lists the user's generated images, newest first.
func HandleListGenerations(c *fiber.Ctx) error {
	ctx := usercontext.GetUserContext(c)

	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 20)

	images, err := deps.Generator.ListGenerations(ctx.UserID, offset, limit)
	if err != nil {
		log.Printf("generate: list failed for user %d: %v", ctx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not load images"})
	}
	return c.JSON(fiber.Map{"images": images})
}
