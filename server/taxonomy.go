package server

import (
	"net/http"

	"github.com/dwoolworth/inkwell/content"
	"github.com/gin-gonic/gin"
)

func (s *Server) listTerms(svc TermService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.List(c.Request.Context())
		if err != nil {
			s.fail(c, err, "Failed to fetch "+plural(svc))
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func (s *Server) getTerm(svc TermService) gin.HandlerFunc {
	return func(c *gin.Context) {
		term, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			s.fail(c, err, "Failed to fetch "+lower(svc))
			return
		}
		if term == nil {
			notFound(c, svc.Noun()+" not found")
			return
		}
		c.JSON(http.StatusOK, term)
	}
}

func (s *Server) createTerm(svc TermService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in content.TermInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		id, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			s.fail(c, err, "Failed to create "+lower(svc))
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

func (s *Server) updateTerm(svc TermService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in content.TermInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		if err := svc.Update(c.Request.Context(), c.Param("id"), in); err != nil {
			s.fail(c, err, "Failed to update "+lower(svc))
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func (s *Server) deleteTerm(svc TermService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			s.fail(c, err, "Failed to delete "+lower(svc))
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
