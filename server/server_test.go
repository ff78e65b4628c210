package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/dwoolworth/inkwell"
	"github.com/dwoolworth/inkwell/auth"
	"github.com/dwoolworth/inkwell/content"
	"github.com/dwoolworth/inkwell/mail"
	"github.com/dwoolworth/inkwell/media"
	"github.com/dwoolworth/inkwell/models"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type harness struct {
	router       *gin.Engine
	signer       *auth.Signer
	posts        *MockArticles
	publications *MockArticles
	categories   *MockTerms
	tags         *MockTerms
	comments     *MockComments
	users        *MockUsers
	accounts     *MockAccounts
	contact      *MockContact
	health       *MockPinger
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &harness{
		signer:       auth.NewSigner("test-secret", time.Hour, time.Hour),
		posts:        &MockArticles{noun: "Post"},
		publications: &MockArticles{noun: "Publication"},
		categories:   &MockTerms{noun: "Category"},
		tags:         &MockTerms{noun: "Tag"},
		comments:     new(MockComments),
		users:        new(MockUsers),
		accounts:     new(MockAccounts),
		contact:      new(MockContact),
		health:       new(MockPinger),
	}
	h.router = New(Services{
		Posts:        h.posts,
		Publications: h.publications,
		Categories:   h.categories,
		Tags:         h.tags,
		Comments:     h.comments,
		Users:        h.users,
		Accounts:     h.accounts,
		Sessions:     h.signer,
		Contact:      h.contact,
		Health:       h.health,
	}, Options{Gatherer: prometheus.NewRegistry()})
	return h
}

func (h *harness) token(t *testing.T, role models.Role) (string, bson.ObjectID) {
	t.Helper()
	id := bson.NewObjectID()
	s, err := h.signer.IssueSession(auth.Principal{UserID: id, Email: "someone@example.com", Role: role})
	require.NoError(t, err)
	h.users.On("GetByID", mock.Anything, id.Hex()).Return(&models.User{Email: "someone@example.com", Role: role}, nil)
	return s.Token, id
}

func (h *harness) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)
	return rr
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid id", &inkwell.Error{Kind: inkwell.KindInvalidID}, http.StatusBadRequest},
		{"validation", inkwell.NewError(inkwell.KindValidation, "title is required"), http.StatusBadRequest},
		{"upload", inkwell.NewError(inkwell.KindUpload, media.MsgTooLarge), http.StatusBadRequest},
		{"not found", inkwell.NotFound("Post not found"), http.StatusNotFound},
		{"conflict", inkwell.NewError(inkwell.KindConflict, "dup"), http.StatusConflict},
		{"unavailable", inkwell.Unavailable("posts"), http.StatusServiceUnavailable},
		{"credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"smtp", mail.ErrNotConfigured, http.StatusServiceUnavailable},
		{"foreign", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestGetPost(t *testing.T) {
	h := newHarness(t)
	id := bson.NewObjectID().Hex()

	view := &models.ArticleView{Article: models.Article{Title: "Hello", Slug: "hello"}}
	h.posts.On("GetWithRelations", mock.Anything, id).Return(view, nil)

	rr := h.do(http.MethodGet, "/api/posts/"+id, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var got models.ArticleView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "hello", got.Slug)
	h.posts.AssertExpectations(t)
}

func TestGetPost_Errors(t *testing.T) {
	h := newHarness(t)

	h.posts.On("GetWithRelations", mock.Anything, "bad").
		Return(nil, &inkwell.Error{Kind: inkwell.KindInvalidID, Message: `Invalid id "bad"`})
	missing := bson.NewObjectID().Hex()
	h.posts.On("GetWithRelations", mock.Anything, missing).Return(nil, nil)
	down := bson.NewObjectID().Hex()
	h.posts.On("GetWithRelations", mock.Anything, down).Return(nil, inkwell.Unavailable("posts"))

	rr := h.do(http.MethodGet, "/api/posts/bad", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = h.do(http.MethodGet, "/api/posts/"+missing, nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Post not found", errorBody(t, rr))

	rr = h.do(http.MethodGet, "/api/posts/"+down, nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "Failed to connect to posts collection", errorBody(t, rr))
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	h := newHarness(t)
	h.tags.On("List", mock.Anything).Return([]models.Term(nil), errors.New("socket closed"))

	rr := h.do(http.MethodGet, "/api/tags", nil, "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to fetch tags", errorBody(t, rr))
}

func TestSearchPublications(t *testing.T) {
	h := newHarness(t)
	res := content.SearchResult{
		Items:      []models.ArticleView{},
		Pagination: inkwell.NewPagination(2, 5, 7),
	}
	h.publications.On("Search", mock.Anything, "go", 2, 5).Return(res, nil)

	rr := h.do(http.MethodGet, "/api/publications/search?q=go&page=2&limit=5", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body, "posts")
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["currentPage"])
	assert.Equal(t, float64(7), pagination["totalPosts"])
	assert.Equal(t, false, pagination["hasNext"])
}

func TestCategoryPosts(t *testing.T) {
	h := newHarness(t)
	h.posts.On("ListByCategoryName", mock.Anything, "Tech").Return([]models.ArticleView{{}}, nil)

	rr := h.do(http.MethodGet, "/api/categories/Tech/posts", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	h.posts.AssertExpectations(t)
}

func TestIncrementViews(t *testing.T) {
	h := newHarness(t)
	id := bson.NewObjectID().Hex()
	h.posts.On("IncrementViews", mock.Anything, id).Return(nil)

	rr := h.do(http.MethodPost, "/api/posts/"+id+"/views", nil, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestCreateComment_RequiresSession(t *testing.T) {
	h := newHarness(t)
	postID := bson.NewObjectID().Hex()

	rr := h.do(http.MethodPost, "/api/posts/"+postID+"/comments", gin.H{"content": "hi"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	token, userID := h.token(t, models.RoleUser)
	h.comments.On("Create", mock.Anything, content.CommentInput{
		PostID:   postID,
		AuthorID: userID.Hex(),
		Content:  "hi",
	}).Return(bson.NewObjectID(), nil)

	rr = h.do(http.MethodPost, "/api/posts/"+postID+"/comments", gin.H{"content": "hi", "authorId": "spoofed"}, token)
	assert.Equal(t, http.StatusCreated, rr.Code)
	h.comments.AssertExpectations(t)
}

func TestAdminGate(t *testing.T) {
	h := newHarness(t)

	rr := h.do(http.MethodGet, "/api/admin", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = h.do(http.MethodGet, "/api/admin", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	user, _ := h.token(t, models.RoleUser)
	rr = h.do(http.MethodGet, "/api/admin", nil, user)
	assert.Equal(t, http.StatusOK, rr.Code)

	admin, _ := h.token(t, models.RoleAdmin)
	rr = h.do(http.MethodGet, "/api/admin", nil, admin)
	assert.Equal(t, http.StatusOK, rr.Code)

	guest, _ := h.token(t, models.Role("Guest"))
	rr = h.do(http.MethodGet, "/api/admin", nil, guest)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	h := newHarness(t)
	user, _ := h.token(t, models.RoleUser)

	rr := h.do(http.MethodDelete, "/api/admin/posts/"+bson.NewObjectID().Hex(), nil, user)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	h.posts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSessionRoleIsReloaded(t *testing.T) {
	h := newHarness(t)
	id := bson.NewObjectID()
	sess, err := h.signer.IssueSession(auth.Principal{UserID: id, Email: "former@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)
	h.users.On("GetByID", mock.Anything, id.Hex()).Return(&models.User{Email: "former@example.com", Role: models.RoleUser}, nil)

	rr := h.do(http.MethodDelete, "/api/admin/categories/abc", nil, sess.Token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	h.categories.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	rr = h.do(http.MethodGet, "/api/admin", nil, sess.Token)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSessionWithoutRoleDefaultsToUser(t *testing.T) {
	h := newHarness(t)
	id := bson.NewObjectID()
	sess, err := h.signer.IssueSession(auth.Principal{UserID: id, Role: models.RoleAdmin})
	require.NoError(t, err)
	h.users.On("GetByID", mock.Anything, id.Hex()).Return(&models.User{Email: "plain@example.com"}, nil)

	rr := h.do(http.MethodGet, "/api/admin/users", nil, sess.Token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestSessionForDeletedUser(t *testing.T) {
	h := newHarness(t)
	id := bson.NewObjectID()
	sess, err := h.signer.IssueSession(auth.Principal{UserID: id, Role: models.RoleAdmin})
	require.NoError(t, err)
	h.users.On("GetByID", mock.Anything, id.Hex()).Return(nil, nil)

	rr := h.do(http.MethodGet, "/api/admin", nil, sess.Token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Invalid or expired token", errorBody(t, rr))

	other := bson.NewObjectID()
	sess, err = h.signer.IssueSession(auth.Principal{UserID: other, Role: models.RoleAdmin})
	require.NoError(t, err)
	h.users.On("GetByID", mock.Anything, other.Hex()).Return(nil, inkwell.Unavailable("users"))

	rr = h.do(http.MethodGet, "/api/admin", nil, sess.Token)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestUpdatePost_NotFoundMessage(t *testing.T) {
	h := newHarness(t)
	admin, _ := h.token(t, models.RoleAdmin)
	id := bson.NewObjectID().Hex()
	title := "New"

	h.posts.On("Update", mock.Anything, id, content.ArticlePatch{Title: &title}).
		Return(inkwell.NotFound("Post not found or no changes made"))

	rr := h.do(http.MethodPatch, "/api/admin/posts/"+id, gin.H{"title": "New"}, admin)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Post not found or no changes made", errorBody(t, rr))
}

func TestCreatePost_Multipart(t *testing.T) {
	h := newHarness(t)
	admin, _ := h.token(t, models.RoleAdmin)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	data, _ := json.Marshal(gin.H{"title": "With image", "slug": "with-image", "status": "draft"})
	require.NoError(t, w.WriteField("data", string(data)))

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="cover.png"`)
	header.Set("Content-Type", "image/png")
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, w.Close())

	h.posts.On("Create", mock.Anything,
		mock.MatchedBy(func(in content.ArticleInput) bool { return in.Slug == "with-image" }),
		mock.MatchedBy(func(f *media.File) bool {
			return f != nil && f.Name == "cover.png" && f.ContentType == "image/png"
		}),
	).Return(content.CreateResult{ID: bson.NewObjectID(), Slug: "with-image"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/posts", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+admin)
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	h.posts.AssertExpectations(t)
}

func TestCreatePost_ValidationError(t *testing.T) {
	h := newHarness(t)
	admin, _ := h.token(t, models.RoleAdmin)

	h.posts.On("Create", mock.Anything, mock.Anything, (*media.File)(nil)).
		Return(content.CreateResult{}, inkwell.NewError(inkwell.KindValidation, "title is required"))

	rr := h.do(http.MethodPost, "/api/admin/posts", gin.H{}, admin)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "title is required", errorBody(t, rr))
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	h.accounts.On("SignIn", mock.Anything, "a@example.com", "wrong").
		Return(auth.Session{}, auth.ErrInvalidCredentials)
	h.accounts.On("SignIn", mock.Anything, "a@example.com", "right").
		Return(auth.Session{Token: "tok", Principal: auth.Principal{Role: models.RoleAdmin}}, nil)

	rr := h.do(http.MethodPost, "/api/auth/login", loginRequest{Email: "a@example.com", Password: "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Invalid email or password", errorBody(t, rr))

	rr = h.do(http.MethodPost, "/api/auth/login", loginRequest{Email: "a@example.com", Password: "right"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "tok", body["token"])
	assert.Equal(t, "Admin", body["role"])
}

func TestResetPassword_BadToken(t *testing.T) {
	h := newHarness(t)
	h.accounts.On("ResetPassword", mock.Anything, "expired", "newpass1").Return(auth.ErrInvalidToken)

	rr := h.do(http.MethodPost, "/api/auth/password/reset", resetRequest{Token: "expired", Password: "newpass1"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestContact(t *testing.T) {
	h := newHarness(t)
	form := mail.ContactForm{FirstName: "Ada", LastName: "L", Email: "ada@example.com", Message: "Hello"}
	h.contact.On("SendContactForm", mock.Anything, form).Return(nil)

	rr := h.do(http.MethodPost, "/api/contact", form, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = h.do(http.MethodPost, "/api/contact", mail.ContactForm{Email: "nope"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	h.contact.AssertNumberOfCalls(t, "SendContactForm", 1)
}

func TestContact_NotConfigured(t *testing.T) {
	h := newHarness(t)
	h.contact.On("SendContactForm", mock.Anything, mock.Anything).Return(mail.ErrNotConfigured)

	form := mail.ContactForm{FirstName: "Ada", LastName: "L", Email: "ada@example.com", Message: "Hello"}
	rr := h.do(http.MethodPost, "/api/contact", form, "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "SMTP configuration missing", errorBody(t, rr))
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)
	h.health.On("Ping", mock.Anything).Return(nil).Once()
	h.health.On("Ping", mock.Anything).Return(errors.New("no server")).Once()

	rr := h.do(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = h.do(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = h.do(http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAdminTermsAndUsers(t *testing.T) {
	h := newHarness(t)
	admin, _ := h.token(t, models.RoleAdmin)
	id := bson.NewObjectID()

	h.categories.On("Create", mock.Anything, content.TermInput{Name: "Tech", Slug: "tech"}).Return(id, nil)
	rr := h.do(http.MethodPost, "/api/admin/categories", content.TermInput{Name: "Tech", Slug: "tech"}, admin)
	assert.Equal(t, http.StatusCreated, rr.Code)

	h.tags.On("Delete", mock.Anything, id.Hex()).Return(inkwell.NotFound("Tag not found"))
	rr = h.do(http.MethodDelete, "/api/admin/tags/"+id.Hex(), nil, admin)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Tag not found", errorBody(t, rr))

	h.users.On("GetByID", mock.Anything, id.Hex()).Return(nil, nil)
	rr = h.do(http.MethodGet, "/api/admin/users/"+id.Hex(), nil, admin)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	h.accounts.On("Invite", mock.Anything, "new@example.com", "New").
		Return(inkwell.NewError(inkwell.KindConflict, "A user with this email already exists"))
	rr = h.do(http.MethodPost, "/api/admin/users/invite", inviteRequest{Email: "new@example.com", Name: "New"}, admin)
	assert.Equal(t, http.StatusConflict, rr.Code)
}
