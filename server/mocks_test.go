package server

import (
	"context"

	"github.com/dwoolworth/inkwell/auth"
	"github.com/dwoolworth/inkwell/content"
	"github.com/dwoolworth/inkwell/mail"
	"github.com/dwoolworth/inkwell/media"
	"github.com/dwoolworth/inkwell/models"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type MockArticles struct {
	mock.Mock
	noun string
}

func (m *MockArticles) Noun() string { return m.noun }

func (m *MockArticles) Create(ctx context.Context, in content.ArticleInput, image *media.File) (content.CreateResult, error) {
	args := m.Called(ctx, in, image)
	return args.Get(0).(content.CreateResult), args.Error(1)
}

func (m *MockArticles) GetByID(ctx context.Context, id string) (*models.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *MockArticles) GetWithRelations(ctx context.Context, id string) (*models.ArticleView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ArticleView), args.Error(1)
}

func (m *MockArticles) GetBySlug(ctx context.Context, slug string) (*models.ArticleView, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ArticleView), args.Error(1)
}

func (m *MockArticles) List(ctx context.Context) ([]models.Article, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Article), args.Error(1)
}

func (m *MockArticles) ListByCategoryName(ctx context.Context, name string) ([]models.ArticleView, error) {
	args := m.Called(ctx, name)
	return args.Get(0).([]models.ArticleView), args.Error(1)
}

func (m *MockArticles) Search(ctx context.Context, query string, page, limit int) (content.SearchResult, error) {
	args := m.Called(ctx, query, page, limit)
	return args.Get(0).(content.SearchResult), args.Error(1)
}

func (m *MockArticles) Update(ctx context.Context, id string, patch content.ArticlePatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockArticles) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockArticles) IncrementViews(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockArticles) IncrementLikes(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockTerms struct {
	mock.Mock
	noun string
}

func (m *MockTerms) Noun() string { return m.noun }

func (m *MockTerms) Create(ctx context.Context, in content.TermInput) (bson.ObjectID, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(bson.ObjectID), args.Error(1)
}

func (m *MockTerms) GetByID(ctx context.Context, id string) (*models.Term, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Term), args.Error(1)
}

func (m *MockTerms) List(ctx context.Context) ([]models.Term, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Term), args.Error(1)
}

func (m *MockTerms) Update(ctx context.Context, id string, in content.TermInput) error {
	return m.Called(ctx, id, in).Error(0)
}

func (m *MockTerms) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockComments struct {
	mock.Mock
}

func (m *MockComments) Create(ctx context.Context, in content.CommentInput) (bson.ObjectID, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(bson.ObjectID), args.Error(1)
}

func (m *MockComments) ListByPost(ctx context.Context, postID string) ([]models.CommentView, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).([]models.CommentView), args.Error(1)
}

func (m *MockComments) Update(ctx context.Context, id string, patch content.CommentPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockComments) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockComments) IncrementLikes(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) Create(ctx context.Context, in content.UserInput) (bson.ObjectID, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(bson.ObjectID), args.Error(1)
}

func (m *MockUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsers) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUsers) Update(ctx context.Context, id string, patch content.UserPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockUsers) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(auth.Session), args.Error(1)
}

func (m *MockAccounts) Register(ctx context.Context, in auth.SignUpInput) (bson.ObjectID, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(bson.ObjectID), args.Error(1)
}

func (m *MockAccounts) VerifyEmail(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAccounts) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAccounts) ResetPassword(ctx context.Context, token, password string) error {
	return m.Called(ctx, token, password).Error(0)
}

func (m *MockAccounts) Invite(ctx context.Context, email, name string) error {
	return m.Called(ctx, email, name).Error(0)
}

func (m *MockAccounts) AcceptInvitation(ctx context.Context, token string, in auth.SignUpInput) (bson.ObjectID, error) {
	args := m.Called(ctx, token, in)
	return args.Get(0).(bson.ObjectID), args.Error(1)
}

type MockContact struct {
	mock.Mock
}

func (m *MockContact) SendContactForm(ctx context.Context, f mail.ContactForm) error {
	return m.Called(ctx, f).Error(0)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
