package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaforge-be/internal/common"
	"ideaforge-be/internal/entities"
	"ideaforge-be/internal/middleware"
	"ideaforge-be/internal/models"
)

const (
	ownedID = "7a4f4c1e-2b7e-4e0a-9a65-2b1a4c1d9e01"
	otherID = "0c0a4f7e-9d1b-4f61-8a3c-5e3b2f7a6d02"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthService struct {
	registerErr error
	loginErr    error
	loggedOut   string
}

func (f *fakeAuthService) Register(_ context.Context, req *models.RegisterRequest) (*models.RegisterResponse, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.RegisterResponse{Message: "Registration successful! Please log in.", UserID: "u1", Email: req.Email.String()}, nil
}

func (f *fakeAuthService) Login(_ context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.AuthResponse{UserID: "u1", Email: req.Email.String(), Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeAuthService) Logout(_ context.Context, token string) error {
	f.loggedOut = token
	return nil
}

func (f *fakeAuthService) IsRevoked(context.Context, string) bool { return false }

type fakeIdeaService struct {
	generateErr error
	generated   *models.GenerateResponse
	gotNiche    string
	gotSearch   bool
	gotPage     int
}

func (f *fakeIdeaService) Generate(_ context.Context, _ string, niche string, webSearch bool) (*models.GenerateResponse, error) {
	f.gotNiche = niche
	f.gotSearch = webSearch
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	return f.generated, nil
}

func (f *fakeIdeaService) SaveIdeas(context.Context, string, string, []entities.Idea, bool) (*entities.BusinessIdea, error) {
	return nil, errors.New("not used")
}

func (f *fakeIdeaService) GetUserIdeas(context.Context, string, int) []*entities.BusinessIdea {
	return []*entities.BusinessIdea{}
}

func (f *fakeIdeaService) GetIdeaByID(_ context.Context, id string) (*entities.BusinessIdea, error) {
	switch id {
	case ownedID:
		return &entities.BusinessIdea{ID: ownedID, UserID: "u1", Niche: "pets"}, nil
	case otherID:
		return &entities.BusinessIdea{ID: otherID, UserID: "u2", Niche: "pets"}, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeIdeaService) GetOwnedIdea(ctx context.Context, userID, id string) (*entities.BusinessIdea, error) {
	b, err := f.GetIdeaByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, common.ErrForbidden
	}
	return b, nil
}

func (f *fakeIdeaService) History(_ context.Context, _ string, page int) *models.HistoryResponse {
	f.gotPage = page
	return &models.HistoryResponse{Ideas: []models.IdeaBatchResponse{}, Page: page, PerPage: 5, HasPrev: page > 1}
}

func (f *fakeIdeaService) Dashboard(_ context.Context, _, email string) *models.DashboardResponse {
	return &models.DashboardResponse{Email: email, DisplayName: "A", PreviousIdeas: []models.IdeaBatchResponse{}}
}

// asUser stands in for AuthMiddleware
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextEmail, "a@b.co")
		c.Next()
	}
}

func newRouter(auth *fakeAuthService, ideas *fakeIdeaService) *gin.Engine {
	r := gin.New()
	ac := NewAuthController(auth, false)
	ic := NewIdeaController(ideas)
	qc := NewQRCodeController(ideas, "https://app.example/")

	r.POST("/auth/register", ac.Register)
	r.POST("/auth/login", ac.Login)
	r.POST("/auth/logout", ac.Logout)

	p := r.Group("", asUser("u1"))
	p.GET("/dashboard", ic.Dashboard)
	p.POST("/ideas/generate", ic.Generate)
	p.GET("/ideas/history", ic.History)
	p.GET("/ideas/:id", ic.View)
	p.GET("/ideas/:id/qrcode", qc.GenerateQRCode)
	return r
}

func postForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["error"].(string)
	return msg
}

func TestRegister_ValidationMessages(t *testing.T) {
	r := newRouter(&fakeAuthService{}, &fakeIdeaService{})

	tests := []struct {
		form url.Values
		want string
	}{
		{url.Values{"password": {"secret1"}, "confirm_password": {"secret1"}}, "Email and password are required."},
		{url.Values{"email": {"nope"}, "password": {"secret1"}, "confirm_password": {"secret1"}}, "Please enter a valid email address."},
		{url.Values{"email": {"a@b.co"}, "password": {"123"}, "confirm_password": {"123"}}, "Password must be at least 6 characters long."},
		{url.Values{"email": {"a@b.co"}, "password": {"secret1"}, "confirm_password": {"secret2"}}, "Passwords do not match."},
	}
	for _, tt := range tests {
		w := postForm(r, "/auth/register", tt.form)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, tt.want, errorOf(t, w))
	}
}

func TestRegister_Success(t *testing.T) {
	r := newRouter(&fakeAuthService{}, &fakeIdeaService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"email":"a@b.co","password":"secret1","confirm_password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Registration successful")
}

func TestRegister_NormalizesEmailBeforeValidation(t *testing.T) {
	r := newRouter(&fakeAuthService{}, &fakeIdeaService{})

	w := postForm(r, "/auth/register", url.Values{
		"email": {" User@Example.com "}, "password": {"secret1"}, "confirm_password": {"secret1"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"email":"user@example.com"`)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"email":"  A@B.co ","password":"secret1","confirm_password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"a@b.co"`)
}

func TestRegister_Duplicate(t *testing.T) {
	r := newRouter(&fakeAuthService{registerErr: common.ErrAlreadyExists}, &fakeIdeaService{})

	w := postForm(r, "/auth/register", url.Values{"email": {"a@b.co"}, "password": {"secret1"}, "confirm_password": {"secret1"}})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "An account with this email already exists.", errorOf(t, w))
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	r := newRouter(&fakeAuthService{}, &fakeIdeaService{})

	w := postForm(r, "/auth/login", url.Values{"email": {"a@b.co"}, "password": {"secret1"}})
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	r := newRouter(&fakeAuthService{loginErr: common.ErrInvalidCredentials}, &fakeIdeaService{})

	w := postForm(r, "/auth/login", url.Values{"email": {"a@b.co"}, "password": {"bad"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password.", errorOf(t, w))
}

func TestLogout_ClearsCookieAndRevokes(t *testing.T) {
	auth := &fakeAuthService{}
	r := newRouter(auth, &fakeIdeaService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "tok"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok", auth.loggedOut)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestGenerate_NicheValidation(t *testing.T) {
	ideas := &fakeIdeaService{}
	r := newRouter(&fakeAuthService{}, ideas)

	w := postForm(r, "/ideas/generate", url.Values{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please enter a niche or industry.", errorOf(t, w))

	w = postForm(r, "/ideas/generate", url.Values{"niche": {"   "}})
	assert.Equal(t, "Please enter a niche or industry.", errorOf(t, w))

	w = postForm(r, "/ideas/generate", url.Values{"niche": {" ab "}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please enter a more specific niche (at least 3 characters).", errorOf(t, w))

	assert.Empty(t, ideas.gotNiche)
}

func TestGenerate_Success(t *testing.T) {
	ideas := &fakeIdeaService{generated: &models.GenerateResponse{Message: "ok", Niche: "pet care", Saved: true}}
	r := newRouter(&fakeAuthService{}, ideas)

	w := postForm(r, "/ideas/generate", url.Values{"niche": {"  pet care "}, "web_search": {"on"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pet care", ideas.gotNiche)
	assert.True(t, ideas.gotSearch)
}

func TestGenerate_JSONWithoutSearch(t *testing.T) {
	ideas := &fakeIdeaService{generated: &models.GenerateResponse{Message: "ok"}}
	r := newRouter(&fakeAuthService{}, ideas)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ideas/generate", strings.NewReader(`{"niche":"fintech"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, ideas.gotSearch)
}

func TestGenerate_Failure(t *testing.T) {
	ideas := &fakeIdeaService{generateErr: errors.New("Failed to generate ideas: boom")}
	r := newRouter(&fakeAuthService{}, ideas)

	w := postForm(r, "/ideas/generate", url.Values{"niche": {"fintech"}})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Failed to generate business ideas. Please try again.", errorOf(t, w))
}

func TestGenerate_Timeout(t *testing.T) {
	ideas := &fakeIdeaService{generateErr: context.DeadlineExceeded}
	r := newRouter(&fakeAuthService{}, ideas)

	w := postForm(r, "/ideas/generate", url.Values{"niche": {"fintech"}})
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestHistory_PageParam(t *testing.T) {
	ideas := &fakeIdeaService{}
	r := newRouter(&fakeAuthService{}, ideas)

	w := get(r, "/ideas/history?page=3")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, ideas.gotPage)

	get(r, "/ideas/history?page=abc")
	assert.Equal(t, 1, ideas.gotPage)
}

func TestDashboard(t *testing.T) {
	r := newRouter(&fakeAuthService{}, &fakeIdeaService{})

	w := get(r, "/dashboard")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"a@b.co"`)
}

func TestView(t *testing.T) {
	r := newRouter(&fakeAuthService{}, &fakeIdeaService{})

	assert.Equal(t, http.StatusOK, get(r, "/ideas/"+ownedID).Code)

	w := get(r, "/ideas/"+otherID)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You do not have permission to view this idea.", errorOf(t, w))

	w = get(r, "/ideas/5b1d3f0a-0000-4000-8000-000000000000")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get(r, "/ideas/not-a-uuid")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Business idea not found.", errorOf(t, w))
}

func TestGenerateQRCode(t *testing.T) {
	r := newRouter(&fakeAuthService{}, &fakeIdeaService{})

	w := get(r, "/ideas/"+ownedID+"/qrcode")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	// PNG signature
	assert.True(t, strings.HasPrefix(w.Body.String(), "\x89PNG"))

	assert.Equal(t, http.StatusForbidden, get(r, "/ideas/"+otherID+"/qrcode").Code)
}
