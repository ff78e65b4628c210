package server

import (
	"net/http"

	"github.com/dwoolworth/inkwell"
	"github.com/dwoolworth/inkwell/auth"
	"github.com/dwoolworth/inkwell/mail"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type resetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type acceptRequest struct {
	Token string `json:"token"`
	auth.SignUpInput
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	session, err := s.svc.Accounts.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(c, err, "Failed to sign in")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
		"role":      session.Principal.Role,
	})
}

func (s *Server) register(c *gin.Context) {
	var in auth.SignUpInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	id, err := s.svc.Accounts.Register(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err, "Failed to register")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) verifyEmail(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if err := s.svc.Accounts.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		s.fail(c, err, "Failed to verify email")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) forgotPassword(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if err := s.svc.Accounts.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		s.fail(c, err, "Failed to request password reset")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) resetPassword(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if err := s.svc.Accounts.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		s.fail(c, err, "Failed to reset password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) acceptInvitation(c *gin.Context) {
	var req acceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	id, err := s.svc.Accounts.AcceptInvitation(c.Request.Context(), req.Token, req.SignUpInput)
	if err != nil {
		s.fail(c, err, "Failed to accept invitation")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// adminGate lets the dashboard check whether the caller may enter.
func (s *Server) adminGate(c *gin.Context) {
	p, _ := auth.PrincipalFrom(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"email": p.Email, "role": p.Role, "admin": p.IsAdmin()})
}

func (s *Server) contact(c *gin.Context) {
	var form mail.ContactForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if err := inkwell.CheckInput(form); err != nil {
		s.fail(c, err, "Failed to send message")
		return
	}
	if s.svc.Contact == nil {
		s.fail(c, mail.ErrNotConfigured, "Failed to send message")
		return
	}
	if err := s.svc.Contact.SendContactForm(c.Request.Context(), form); err != nil {
		s.fail(c, err, "Failed to send message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
