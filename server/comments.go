package server

import (
	"net/http"

	"github.com/dwoolworth/inkwell/auth"
	"github.com/dwoolworth/inkwell/content"
	"github.com/gin-gonic/gin"
)

func (s *Server) listComments(c *gin.Context) {
	thread, err := s.svc.Comments.ListByPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, "Failed to fetch comments")
		return
	}
	c.JSON(http.StatusOK, thread)
}

// createComment posts as the signed-in user regardless of any authorId in the
// body.
func (s *Server) createComment(c *gin.Context) {
	var in content.CommentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	p, _ := auth.PrincipalFrom(c.Request.Context())
	in.PostID = c.Param("id")
	in.AuthorID = p.UserID.Hex()

	id, err := s.svc.Comments.Create(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err, "Failed to create comment")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) updateComment(c *gin.Context) {
	var patch content.CommentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if err := s.svc.Comments.Update(c.Request.Context(), c.Param("id"), patch); err != nil {
		s.fail(c, err, "Failed to update comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) deleteComment(c *gin.Context) {
	if err := s.svc.Comments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err, "Failed to delete comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
