package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/heartlinkapp/heartlink/internal/apperr"
	"github.com/heartlinkapp/heartlink/internal/media"
	"github.com/heartlinkapp/heartlink/internal/middleware"
	"github.com/heartlinkapp/heartlink/internal/service"
)

type UserHandler struct {
	profiles *service.ProfileService
	matches  *service.MatchService
	uploads  *media.Store
	log      *zap.SugaredLogger
	dev      bool
}

func NewUserHandler(profiles *service.ProfileService, matches *service.MatchService, uploads *media.Store, log *zap.SugaredLogger, dev bool) *UserHandler {
	return &UserHandler{profiles: profiles, matches: matches, uploads: uploads, log: log, dev: dev}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	hasProfile, profile, err := h.profiles.GetProfile(c.Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err, h.dev)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"hasProfile": hasProfile,
		"profile":    profile,
	})
}

// UpdateProfile accepts a multipart form; each field is optional and only
// supplied non-empty fields overwrite stored values.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	upd := service.ProfileUpdate{
		Name:         c.FormValue("name"),
		Gender:       c.FormValue("gender"),
		InterestedIn: c.FormValue("interestedIn"),
		Bio:          c.FormValue("bio"),
	}
	if v := c.FormValue("age"); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil || age <= 0 {
			return fail(c, apperr.Validation("Age must be a positive number"), h.dev)
		}
		upd.Age = age
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		if err := media.ValidateImageHeader(file); err != nil {
			return fail(c, apperr.Validation("Image must be a png or jpeg up to 5MB"), h.dev)
		}
		src, err := file.Open()
		if err != nil {
			return fail(c, apperr.Internal("open upload", err), h.dev)
		}
		defer src.Close()
		url, err := h.uploads.Save(src, file.Filename)
		if err != nil {
			return fail(c, apperr.Internal("store upload", err), h.dev)
		}
		upd.ImageURL = url
	}

	profile, err := h.profiles.UpdateProfile(c.Context(), middleware.UserID(c), upd)
	if err != nil {
		return fail(c, err, h.dev)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user":    profile,
	})
}

func (h *UserHandler) ListProfiles(c *fiber.Ctx) error {
	profiles, err := h.profiles.ListCandidates(c.Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err, h.dev)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"profiles": profiles,
	})
}

func (h *UserHandler) Like(c *fiber.Ctx) error {
	res, err := h.matches.Like(c.Context(), middleware.UserID(c), c.Params("profileId"))
	if err != nil {
		return fail(c, err, h.dev)
	}
	body := fiber.Map{
		"success": true,
		"message": "Profile liked successfully",
		"isMatch": res.IsMatch,
	}
	if res.IsMatch {
		body["message"] = "It's a match!"
		body["chatId"] = res.ChatID
	}
	return c.JSON(body)
}
