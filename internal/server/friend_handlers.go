package server

import (
	"github.com/gofiber/fiber/v2"
)

// SendFriendRequest handles POST /api/friends/requests/:userId
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	targetID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	ack, err := s.friendService.SendRequest(c.UserContext(), currentUserID(c), targetID)
	if err != nil {
		return respondError(c, err)
	}
	return respondAck(c, fiber.StatusCreated, ack)
}

// AcceptFriendRequest handles POST /api/friends/requests/:userId/accept
func (s *Server) AcceptFriendRequest(c *fiber.Ctx) error {
	requesterID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	ack, err := s.friendService.AcceptRequest(c.UserContext(), currentUserID(c), requesterID)
	if err != nil {
		return respondError(c, err)
	}
	return respondAck(c, fiber.StatusOK, ack)
}

// DeclineFriendRequest handles POST /api/friends/requests/:userId/decline
func (s *Server) DeclineFriendRequest(c *fiber.Ctx) error {
	requesterID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	ack, err := s.friendService.DeclineRequest(c.UserContext(), currentUserID(c), requesterID)
	if err != nil {
		return respondError(c, err)
	}
	return respondAck(c, fiber.StatusOK, ack)
}

// CancelFriendRequest handles DELETE /api/friends/requests/:userId
func (s *Server) CancelFriendRequest(c *fiber.Ctx) error {
	targetID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	ack, err := s.friendService.CancelRequest(c.UserContext(), currentUserID(c), targetID)
	if err != nil {
		return respondError(c, err)
	}
	return respondAck(c, fiber.StatusOK, ack)
}

// GetPendingRequests handles GET /api/friends/requests
func (s *Server) GetPendingRequests(c *fiber.Ctx) error {
	requests, err := s.friendService.ListIncoming(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(requests)
}

// GetSentRequests handles GET /api/friends/requests/sent
func (s *Server) GetSentRequests(c *fiber.Ctx) error {
	requests, err := s.friendService.ListSent(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(requests)
}

// GetFriends handles GET /api/friends
func (s *Server) GetFriends(c *fiber.Ctx) error {
	friends, err := s.friendService.ListFriends(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if friends == nil {
		friends = []string{}
	}
	return c.JSON(fiber.Map{"friend_ids": friends})
}

// RemoveFriend handles DELETE /api/friends/:userId
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	friendID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	ack, err := s.friendService.RemoveFriend(c.UserContext(), currentUserID(c), friendID)
	if err != nil {
		return respondError(c, err)
	}
	return respondAck(c, fiber.StatusOK, ack)
}
