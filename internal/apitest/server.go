package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Iron-Ham/fintrack/internal/models"
)

// Request is one request received by the Server.
type Request struct {
	Method        string
	Path          string
	Query         string
	Authorization string
}

type failure struct {
	status int
	body   any
}

type account struct {
	owner int64
	models.Account
}

type category struct {
	owner int64
	models.Category
}

type transaction struct {
	owner int64
	models.Transaction
}

type user struct {
	models.User
	password string
}

// Server is a fake finance API.
type Server struct {
	srv    *httptest.Server
	engine *gin.Engine
	secret []byte

	mu           sync.Mutex
	epoch        int
	nextID       int64
	now          func() time.Time
	users        map[int64]*user
	refresh      map[string]int64
	accounts     []*account
	categories   []*category
	transactions []*transaction
	insights     *models.InsightsReport
	requests     []Request
	failures     map[string][]failure
}

// New starts a Server and registers its shutdown with t.Cleanup.
func New(t testing.TB) *Server {
	t.Helper()
	s := NewServer()
	t.Cleanup(s.Close)
	return s
}

// NewServer starts a Server. Callers must Close it.
func NewServer() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		secret:   []byte(uuid.NewString()),
		nextID:   1,
		now:      time.Now,
		users:    make(map[int64]*user),
		refresh:  make(map[string]int64),
		failures: make(map[string][]failure),
	}

	s.engine = gin.New()
	s.engine.Use(s.record(), s.inject())
	s.routes(s.engine.Group("/api"))

	s.srv = httptest.NewServer(s.engine)
	return s
}

// Close shuts the server down.
func (s *Server) Close() {
	s.srv.Close()
}

// URL returns the API base URL, e.g. "http://127.0.0.1:54321/api".
func (s *Server) URL() string {
	return s.srv.URL + "/api"
}

// Handler returns the gin engine for use without a listener.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes(api *gin.RouterGroup) {
	api.POST("/auth/register/", s.register)
	api.POST("/auth/login/", s.login)
	api.POST("/auth/token/refresh/", s.refreshToken)

	authed := api.Group("", s.authenticate())
	authed.POST("/auth/logout/", s.logout)
	authed.GET("/auth/profile/", s.profile)
	authed.PUT("/auth/profile/", s.updateProfile)
	authed.PUT("/auth/change-password/", s.changePassword)

	authed.GET("/categories/", s.listCategories)
	authed.POST("/categories/", s.createCategory)
	authed.PUT("/categories/:id/", s.updateCategory)
	authed.DELETE("/categories/:id/", s.deleteCategory)
	authed.GET("/categories/:id/transactions/", s.categoryTransactions)

	authed.GET("/accounts/", s.listAccounts)
	authed.POST("/accounts/", s.createAccount)
	authed.PUT("/accounts/:id/", s.updateAccount)
	authed.DELETE("/accounts/:id/", s.deleteAccount)
	authed.GET("/accounts/:id/transactions/", s.accountTransactions)
	authed.GET("/accounts/:id/balance/", s.accountBalance)

	authed.GET("/transactions/", s.listTransactions)
	authed.POST("/transactions/", s.createTransaction)
	authed.GET("/transactions/summary/", s.summary)
	authed.PUT("/transactions/:id/", s.updateTransaction)
	authed.DELETE("/transactions/:id/", s.deleteTransaction)

	authed.GET("/insights/ai/", s.getInsights)
}

// -----------------------------------------------------------------------------
// Middleware
// -----------------------------------------------------------------------------

func (s *Server) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        c.Request.Method,
			Path:          strings.TrimPrefix(c.Request.URL.Path, "/api"),
			Query:         c.Request.URL.RawQuery,
			Authorization: c.GetHeader("Authorization"),
		})
		s.mu.Unlock()
		c.Next()
	}
}

func (s *Server) inject() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := failureKey(c.Request.Method, strings.TrimPrefix(c.Request.URL.Path, "/api"))

		s.mu.Lock()
		queue := s.failures[key]
		var f *failure
		if len(queue) > 0 {
			f = &queue[0]
			s.failures[key] = queue[1:]
		}
		s.mu.Unlock()

		if f != nil {
			if f.body == nil {
				c.AbortWithStatus(f.status)
				return
			}
			c.AbortWithStatusJSON(f.status, f.body)
			return
		}
		c.Next()
	}
}

func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			return
		}

		userID, err := s.parseAccess(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Given token not valid for any token type",
				"code":   "token_not_valid",
			})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

func currentUser(c *gin.Context) int64 {
	return c.GetInt64("userID")
}

// -----------------------------------------------------------------------------
// Tokens
// -----------------------------------------------------------------------------

type accessClaims struct {
	Epoch int `json:"epoch"`
	jwt.RegisteredClaims
}

// issue mints a token pair for userID. Caller holds s.mu.
func (s *Server) issue(userID int64) models.Tokens {
	now := s.now()
	claims := accessClaims{
		Epoch: s.epoch,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
			ID:        uuid.NewString(),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(fmt.Sprintf("apitest: sign access token: %v", err))
	}

	refresh := uuid.NewString()
	s.refresh[refresh] = userID
	return models.Tokens{Access: access, Refresh: refresh}
}

func (s *Server) parseAccess(raw string) (int64, error) {
	var claims accessClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if claims.Epoch != s.epoch {
		return 0, fmt.Errorf("token expired")
	}

	var id int64
	if _, err := fmt.Sscan(claims.Subject, &id); err != nil {
		return 0, err
	}
	if _, ok := s.users[id]; !ok {
		return 0, fmt.Errorf("unknown user %d", id)
	}
	return id, nil
}

// -----------------------------------------------------------------------------
// Test controls
// -----------------------------------------------------------------------------

// AddUser registers a user with password and returns it with its ID set.
func (s *Server) AddUser(u models.User, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUser(u, password)
}

func (s *Server) addUser(u models.User, password string) models.User {
	if u.ID == 0 {
		u.ID = s.id()
	}
	if u.CreatedAt == "" {
		u.CreatedAt = s.stamp()
	}
	s.users[u.ID] = &user{User: u, password: password}
	return u
}

// IssueTokens mints a valid token pair for userID.
func (s *Server) IssueTokens(userID int64) models.Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issue(userID)
}

// ExpireAccessTokens invalidates every access token issued so far. Refresh
// tokens stay valid.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
}

// RevokeRefreshTokens invalidates every refresh token issued so far.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = make(map[string]int64)
}

// RefreshTokenValid reports whether refresh is still accepted.
func (s *Server) RefreshTokenValid(refresh string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.refresh[refresh]
	return ok
}

// FailNext makes the next request to method+path (path relative to the API
// root, e.g. "/accounts/") answer status with body. A nil body sends no body.
// Calls queue up.
func (s *Server) FailNext(method, path string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := failureKey(method, path)
	s.failures[key] = append(s.failures[key], failure{status: status, body: body})
}

// SetInsights sets the report returned by GET /insights/ai/.
func (s *Server) SetInsights(report models.InsightsReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insights = &report
}

// Requests returns a copy of every request received.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many requests matched method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// ResetRequests forgets recorded requests.
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

func failureKey(method, path string) string {
	return method + " " + path
}

// id returns the next identifier. Caller holds s.mu.
func (s *Server) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Server) stamp() string {
	return s.now().UTC().Format(time.RFC3339)
}
