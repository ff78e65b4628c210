package server

import (
	"net/http"

	"github.com/dwoolworth/inkwell/content"
	"github.com/gin-gonic/gin"
)

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.svc.Users.List(c.Request.Context())
	if err != nil {
		s.fail(c, err, "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) getUser(c *gin.Context) {
	user, err := s.svc.Users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, "Failed to fetch user")
		return
	}
	if user == nil {
		notFound(c, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) createUser(c *gin.Context) {
	var in content.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	id, err := s.svc.Users.Create(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) updateUser(c *gin.Context) {
	var patch content.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if err := s.svc.Users.Update(c.Request.Context(), c.Param("id"), patch); err != nil {
		s.fail(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) deleteUser(c *gin.Context) {
	if err := s.svc.Users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err, "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type inviteRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Server) inviteUser(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if err := s.svc.Accounts.Invite(c.Request.Context(), req.Email, req.Name); err != nil {
		s.fail(c, err, "Failed to send invitation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
