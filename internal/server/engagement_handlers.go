package server

import (
	"circles/internal/models"
	"circles/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type targetRequest struct {
	TargetKind models.TargetKind `json:"target_kind"`
	TargetID   string            `json:"target_id"`
}

func (r targetRequest) target() (models.Target, error) {
	if !r.TargetKind.Valid() {
		return models.Target{}, models.NewValidationError("target_kind must be post or comment")
	}
	if _, err := uuid.Parse(r.TargetID); err != nil {
		return models.Target{}, models.NewValidationError("Invalid target ID")
	}
	return models.Target{Kind: r.TargetKind, ID: r.TargetID}, nil
}

// CreateComment handles POST /api/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		targetRequest
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	target, err := req.target()
	if err != nil {
		return respondError(c, err)
	}

	comment, err := s.contentService.AddComment(c.UserContext(), currentUserID(c), service.CreateCommentInput{
		Target:  target,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment handles PUT /api/comments/:commentId
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return nil
	}
	var req service.UpdateCommentInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.contentService.UpdateComment(c.UserContext(), currentUserID(c), commentID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// CreateReact handles POST /api/reacts
func (s *Server) CreateReact(c *fiber.Ctx) error {
	var req struct {
		targetRequest
		Type string `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	target, err := req.target()
	if err != nil {
		return respondError(c, err)
	}

	react, err := s.contentService.AddReact(c.UserContext(), currentUserID(c), target, req.Type)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(react)
}

// DeleteReact handles DELETE /api/reacts/:reactId
func (s *Server) DeleteReact(c *fiber.Ctx) error {
	reactID, err := parseID(c, "reactId")
	if err != nil {
		return nil
	}
	ack, err := s.contentService.DeleteReact(c.UserContext(), currentUserID(c), reactID)
	if err != nil {
		return respondError(c, err)
	}
	return respondAck(c, fiber.StatusOK, ack)
}
