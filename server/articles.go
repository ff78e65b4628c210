package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dwoolworth/inkwell/content"
	"github.com/dwoolworth/inkwell/media"
	"github.com/gin-gonic/gin"
)

func (s *Server) listArticles(svc ArticleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.List(c.Request.Context())
		if err != nil {
			s.fail(c, err, "Failed to fetch "+plural(svc))
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func (s *Server) searchArticles(svc ArticleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.Query("page"))
		limit, _ := strconv.Atoi(c.Query("limit"))

		res, err := svc.Search(c.Request.Context(), c.Query("q"), page, limit)
		if err != nil {
			s.fail(c, err, "Failed to search "+plural(svc))
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func (s *Server) articleBySlug(svc ArticleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			s.fail(c, err, "Failed to fetch "+lower(svc))
			return
		}
		if view == nil {
			notFound(c, svc.Noun()+" not found")
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func (s *Server) getArticle(svc ArticleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.GetWithRelations(c.Request.Context(), c.Param("id"))
		if err != nil {
			s.fail(c, err, "Failed to fetch "+lower(svc))
			return
		}
		if view == nil {
			notFound(c, svc.Noun()+" not found")
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func (s *Server) byCategory(svc ArticleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.ListByCategoryName(c.Request.Context(), c.Param("name"))
		if err != nil {
			s.fail(c, err, "Failed to fetch "+plural(svc))
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func (s *Server) incrementArticle(inc func(ctx context.Context, id string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := inc(c.Request.Context(), c.Param("id")); err != nil {
			s.fail(c, err, "Failed to update counter")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// createArticle accepts either a JSON body or a multipart form with the
// article JSON in the "data" field and an optional "image" file.
func (s *Server) createArticle(svc ArticleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in content.ArticleInput
		var image *media.File

		if strings.HasPrefix(c.ContentType(), "multipart/") {
			if err := json.Unmarshal([]byte(c.PostForm("data")), &in); err != nil {
				badRequest(c, "Invalid data field")
				return
			}
			fh, err := c.FormFile("image")
			switch {
			case errors.Is(err, http.ErrMissingFile):
			case err != nil:
				badRequest(c, "Invalid image upload")
				return
			default:
				f, err := fh.Open()
				if err != nil {
					badRequest(c, "Invalid image upload")
					return
				}
				defer f.Close()
				image = &media.File{
					Name:        fh.Filename,
					ContentType: fh.Header.Get("Content-Type"),
					Size:        fh.Size,
					Body:        f,
				}
			}
		} else if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "Invalid request body")
			return
		}

		res, err := svc.Create(c.Request.Context(), in, image)
		if err != nil {
			s.fail(c, err, "Failed to create "+lower(svc))
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}

func (s *Server) updateArticle(svc ArticleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch content.ArticlePatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		if err := svc.Update(c.Request.Context(), c.Param("id"), patch); err != nil {
			s.fail(c, err, "Failed to update "+lower(svc))
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func (s *Server) deleteArticle(svc ArticleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			s.fail(c, err, "Failed to delete "+lower(svc))
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

type noun interface{ Noun() string }

func lower(n noun) string { return strings.ToLower(n.Noun()) }

func plural(n noun) string {
	if n.Noun() == "Category" {
		return "categories"
	}
	return lower(n) + "s"
}
