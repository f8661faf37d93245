package server

import (
	"circles/internal/models"
	"circles/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req service.CreatePostInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.contentService.CreatePost(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:postId
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	var req service.UpdatePostInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.contentService.UpdatePost(c.UserContext(), currentUserID(c), postID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:postId
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	ack, err := s.contentService.DeletePost(c.UserContext(), currentUserID(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return respondAck(c, fiber.StatusOK, ack)
}

// GetFeed handles GET /api/posts/feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPaginationLimit)
	posts, err := s.feedService.ListFeed(c.UserContext(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetMyPosts handles GET /api/posts/mine
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPaginationLimit)
	posts, err := s.feedService.ListMyPosts(c.UserContext(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetUserPosts handles GET /api/users/:userId/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	ownerID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	page := parsePagination(c, defaultPaginationLimit)
	posts, err := s.feedService.ListUserPosts(c.UserContext(), currentUserID(c), ownerID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// HidePost handles POST /api/posts/:postId/hide
func (s *Server) HidePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	ack, err := s.visibilityService.HidePost(c.UserContext(), currentUserID(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return respondAck(c, fiber.StatusOK, ack)
}

// UnhidePost handles DELETE /api/posts/:postId/hide
func (s *Server) UnhidePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	ack, err := s.visibilityService.UnhidePost(c.UserContext(), currentUserID(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return respondAck(c, fiber.StatusOK, ack)
}

// GetHiddenPosts handles GET /api/posts/hidden
func (s *Server) GetHiddenPosts(c *fiber.Ctx) error {
	posts, err := s.visibilityService.ListHidden(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// SavePost handles POST /api/posts/:postId/save
func (s *Server) SavePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	ack, err := s.visibilityService.SavePost(c.UserContext(), currentUserID(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return respondAck(c, fiber.StatusOK, ack)
}

// UnsavePost handles DELETE /api/posts/:postId/save
func (s *Server) UnsavePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	ack, err := s.visibilityService.UnsavePost(c.UserContext(), currentUserID(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return respondAck(c, fiber.StatusOK, ack)
}

// GetSavedPosts handles GET /api/posts/saved
func (s *Server) GetSavedPosts(c *fiber.Ctx) error {
	posts, err := s.visibilityService.ListSaved(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// ArchivePost handles POST /api/posts/:postId/archive
func (s *Server) ArchivePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	ack, err := s.archiveService.ArchivePost(c.UserContext(), currentUserID(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return respondAck(c, fiber.StatusCreated, ack)
}

// RemoveFromArchive handles DELETE /api/posts/:postId/archive
func (s *Server) RemoveFromArchive(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	ack, err := s.archiveService.RemoveFromArchive(c.UserContext(), currentUserID(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return respondAck(c, fiber.StatusOK, ack)
}

// GetArchive handles GET /api/archive. Listing sweeps expired entries.
func (s *Server) GetArchive(c *fiber.Ctx) error {
	listing, err := s.archiveService.ListArchive(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	warnings := make([]string, 0, len(listing.Warnings))
	for _, w := range listing.Warnings {
		warnings = append(warnings, w.Code)
	}
	return c.JSON(fiber.Map{
		"entries":  listing.Entries,
		"expired":  listing.Expired,
		"warnings": warnings,
	})
}

// GetComments handles GET /api/posts/:postId/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	comments, err := s.contentService.ListComments(c.UserContext(), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}
