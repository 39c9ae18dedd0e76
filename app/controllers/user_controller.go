package controllers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fashionai/fashionai/internal/pkg/usercontext"
)

// HandleUploadProfilePhoto stores the user's reference photo in the object
// store and records its public URL. The generation flow refuses to run
// without it.
func HandleUploadProfilePhoto(c *fiber.Ctx) error {
	ctx := usercontext.GetUserContext(c)
	if ctx.IsMaster {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "The demo account profile is fixed"})
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Photo file is required"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Could not read photo"})
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	key := deps.Generator.ProfilePhotoKey(contentType, time.Now())
	url, err := deps.Generator.UploadProfilePhoto(c.UserContext(), key, file, contentType)
	if err != nil {
		log.Printf("profile: photo upload failed for user %d: %v", ctx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Upload failed"})
	}

	user, err := deps.Repos.User.GetByID(ctx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not load profile"})
	}
	user.ProfilePhotoURL = url
	if err := deps.Repos.User.Update(user); err != nil {
		log.Printf("profile: photo url save failed for user %d: %v", ctx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not save profile"})
	}

	return c.JSON(fiber.Map{"profile_photo_url": url})
}

// HandleGetProfile returns the authenticated user's account data.
func HandleGetProfile(c *fiber.Ctx) error {
	ctx := usercontext.GetUserContext(c)
	if ctx.IsMaster {
		return c.JSON(fiber.Map{"email": ctx.Email, "plan_type": string(ctx.Plan), "master": true})
	}

	user, err := deps.Repos.User.GetByID(ctx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not load profile"})
	}
	return c.JSON(user)
}
