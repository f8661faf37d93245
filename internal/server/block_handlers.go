package server

import (
	"net/url"

	"circles/internal/models"
	"circles/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// parseEmail reads an email route parameter. On failure it writes a 400
// response and returns errResponseWritten.
func parseEmail(c *fiber.Ctx, param string) (string, error) {
	raw, err := url.PathUnescape(c.Params(param))
	if err == nil {
		var email string
		if email, err = validation.NormalizeEmail(raw); err == nil {
			return email, nil
		}
	}
	_ = models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid email"))
	return "", errResponseWritten
}

// BlockUser handles POST /api/blocks/:email
func (s *Server) BlockUser(c *fiber.Ctx) error {
	email, err := parseEmail(c, "email")
	if err != nil {
		return nil
	}
	ack, err := s.blockService.BlockUser(c.UserContext(), currentUserID(c), email)
	if err != nil {
		return respondError(c, err)
	}
	return respondAck(c, fiber.StatusOK, ack)
}

// UnblockUser handles DELETE /api/blocks/:email
func (s *Server) UnblockUser(c *fiber.Ctx) error {
	email, err := parseEmail(c, "email")
	if err != nil {
		return nil
	}
	ack, err := s.blockService.UnblockUser(c.UserContext(), currentUserID(c), email)
	if err != nil {
		return respondError(c, err)
	}
	return respondAck(c, fiber.StatusOK, ack)
}

// GetBlockedUsers handles GET /api/blocks
func (s *Server) GetBlockedUsers(c *fiber.Ctx) error {
	blocked, err := s.blockService.ListBlocked(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if blocked == nil {
		blocked = []string{}
	}
	return c.JSON(fiber.Map{"blocked_ids": blocked})
}
