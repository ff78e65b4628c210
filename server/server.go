// Package server exposes the blog over a JSON HTTP API built on gin.
package server

import (
	"context"
	"net/http"

	"github.com/dwoolworth/inkwell"
	"github.com/dwoolworth/inkwell/auth"
	"github.com/dwoolworth/inkwell/content"
	"github.com/dwoolworth/inkwell/mail"
	"github.com/dwoolworth/inkwell/media"
	"github.com/dwoolworth/inkwell/models"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// ArticleService is implemented by *content.Articles.
type ArticleService interface {
	Noun() string
	Create(ctx context.Context, in content.ArticleInput, image *media.File) (content.CreateResult, error)
	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetWithRelations(ctx context.Context, id string) (*models.ArticleView, error)
	GetBySlug(ctx context.Context, slug string) (*models.ArticleView, error)
	List(ctx context.Context) ([]models.Article, error)
	ListByCategoryName(ctx context.Context, name string) ([]models.ArticleView, error)
	Search(ctx context.Context, query string, page, limit int) (content.SearchResult, error)
	Update(ctx context.Context, id string, patch content.ArticlePatch) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	IncrementLikes(ctx context.Context, id string) error
}

// TermService is implemented by *content.Taxonomy.
type TermService interface {
	Noun() string
	Create(ctx context.Context, in content.TermInput) (bson.ObjectID, error)
	GetByID(ctx context.Context, id string) (*models.Term, error)
	List(ctx context.Context) ([]models.Term, error)
	Update(ctx context.Context, id string, in content.TermInput) error
	Delete(ctx context.Context, id string) error
}

// CommentService is implemented by *content.Comments.
type CommentService interface {
	Create(ctx context.Context, in content.CommentInput) (bson.ObjectID, error)
	ListByPost(ctx context.Context, postID string) ([]models.CommentView, error)
	Update(ctx context.Context, id string, patch content.CommentPatch) error
	Delete(ctx context.Context, id string) error
	IncrementLikes(ctx context.Context, id string) error
}

// UserService is implemented by *content.Users.
type UserService interface {
	Create(ctx context.Context, in content.UserInput) (bson.ObjectID, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id string, patch content.UserPatch) error
	Delete(ctx context.Context, id string) error
}

// AccountService is implemented by *auth.Service.
type AccountService interface {
	SignIn(ctx context.Context, email, password string) (auth.Session, error)
	Register(ctx context.Context, in auth.SignUpInput) (bson.ObjectID, error)
	VerifyEmail(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	Invite(ctx context.Context, email, name string) error
	AcceptInvitation(ctx context.Context, token string, in auth.SignUpInput) (bson.ObjectID, error)
}

// SessionVerifier is implemented by *auth.Signer.
type SessionVerifier interface {
	ParseSession(token string) (auth.Principal, error)
}

// RoleResolver loads the account behind a session. UserService satisfies it.
type RoleResolver interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// ContactService is implemented by *mail.Mailer.
type ContactService interface {
	SendContactForm(ctx context.Context, f mail.ContactForm) error
}

// Pinger reports database reachability. *inkwell.Store satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services are the collaborators behind the routes. Contact may be nil, in
// which case the contact endpoint reports that mail is not configured.
type Services struct {
	Posts        ArticleService
	Publications ArticleService
	Categories   TermService
	Tags         TermService
	Comments     CommentService
	Users        UserService
	Accounts     AccountService
	Sessions     SessionVerifier
	Contact      ContactService
	Health       Pinger
}

// Options configures New.
type Options struct {
	Logger   *zap.Logger
	Gatherer prometheus.Gatherer // served on /metrics when set
}

// Server holds the route handlers.
type Server struct {
	svc Services
	log *zap.Logger
}

// New builds the gin engine with every route registered.
func New(svc Services, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{svc: svc, log: log}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log), Authenticate(svc.Sessions, svc.Users))

	r.GET("/healthz", s.health)
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	s.articleRoutes(api.Group("/posts"), svc.Posts)
	s.articleRoutes(api.Group("/publications"), svc.Publications)

	api.GET("/categories", s.listTerms(svc.Categories))
	api.GET("/categories/:name/posts", s.byCategory(svc.Posts))
	api.GET("/categories/:name/publications", s.byCategory(svc.Publications))
	api.GET("/tags", s.listTerms(svc.Tags))
	api.POST("/contact", s.contact)

	a := api.Group("/auth")
	a.POST("/register", s.register)
	a.POST("/login", s.login)
	a.POST("/verify", s.verifyEmail)
	a.POST("/password/forgot", s.forgotPassword)
	a.POST("/password/reset", s.resetPassword)
	a.POST("/invitation/accept", s.acceptInvitation)

	admin := api.Group("/admin", RequireRole(models.RoleUser, models.RoleAdmin))
	admin.GET("", s.adminGate)

	manage := admin.Group("", RequireRole(models.RoleAdmin))
	s.articleAdminRoutes(manage.Group("/posts"), svc.Posts)
	s.articleAdminRoutes(manage.Group("/publications"), svc.Publications)
	s.termAdminRoutes(manage.Group("/categories"), svc.Categories)
	s.termAdminRoutes(manage.Group("/tags"), svc.Tags)
	manage.PATCH("/comments/:id", s.updateComment)
	manage.DELETE("/comments/:id", s.deleteComment)

	users := manage.Group("/users")
	users.GET("", s.listUsers)
	users.POST("", s.createUser)
	users.POST("/invite", s.inviteUser)
	users.GET("/:id", s.getUser)
	users.PATCH("/:id", s.updateUser)
	users.DELETE("/:id", s.deleteUser)

	return r
}

func (s *Server) articleRoutes(g *gin.RouterGroup, svc ArticleService) {
	g.GET("", s.listArticles(svc))
	g.GET("/search", s.searchArticles(svc))
	g.GET("/slug/:slug", s.articleBySlug(svc))
	g.GET("/:id", s.getArticle(svc))
	g.POST("/:id/views", s.incrementArticle(svc.IncrementViews))
	g.POST("/:id/likes", s.incrementArticle(svc.IncrementLikes))
	g.GET("/:id/comments", s.listComments)
	g.POST("/:id/comments", RequireRole(models.RoleUser, models.RoleAdmin), s.createComment)
}

func (s *Server) articleAdminRoutes(g *gin.RouterGroup, svc ArticleService) {
	g.POST("", s.createArticle(svc))
	g.PATCH("/:id", s.updateArticle(svc))
	g.DELETE("/:id", s.deleteArticle(svc))
}

func (s *Server) termAdminRoutes(g *gin.RouterGroup, svc TermService) {
	g.GET("", s.listTerms(svc))
	g.POST("", s.createTerm(svc))
	g.GET("/:id", s.getTerm(svc))
	g.PUT("/:id", s.updateTerm(svc))
	g.DELETE("/:id", s.deleteTerm(svc))
}

func (s *Server) health(c *gin.Context) {
	if s.svc.Health == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
		return
	}
	if err := s.svc.Health.Ping(c.Request.Context()); err != nil {
		s.log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

var _ Pinger = (*inkwell.Store)(nil)
