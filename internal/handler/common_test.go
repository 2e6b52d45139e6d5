package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"event-reservation/config"
	"event-reservation/internal/auth"
	"event-reservation/internal/cache"
	"event-reservation/internal/handler"
	"event-reservation/internal/model"
	"event-reservation/internal/service/mocks"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	InvalidJSON = `{"invalid": json}`
)

// create JSON request body
func createJSONRequest(data interface{}) *bytes.Buffer {
	if s, ok := data.(string); ok {
		return bytes.NewBufferString(s)
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return bytes.NewBuffer([]byte(""))
	}
	return bytes.NewBuffer(jsonData)
}

// create HTTP request with JSON body
func createJSONHTTPRequest(method, url string, data interface{}) *http.Request {
	req, err := http.NewRequest(method, url, createJSONRequest(data))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}

type testEnv struct {
	router       *gin.Engine
	tokens       *auth.TokenManager
	auth         *mocks.AuthServiceMock
	events       *mocks.EventServiceMock
	reservations *mocks.ReservationServiceMock
	tickets      *mocks.TicketServiceMock
}

type envOption func(*handler.RouterDeps)

func withLimiter(l cache.RateLimiter) envOption {
	return func(d *handler.RouterDeps) { d.Limiter = l }
}

func withHealth(h handler.HealthCheck) envOption {
	return func(d *handler.RouterDeps) { d.Health = h }
}

func setupTestRouter(opts ...envOption) *testEnv {
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		tokens:       auth.NewTokenManager("test-secret-0123456789", time.Hour),
		auth:         mocks.NewAuthServiceMock(),
		events:       mocks.NewEventServiceMock(),
		reservations: mocks.NewReservationServiceMock(),
		tickets:      mocks.NewTicketServiceMock(),
	}
	deps := handler.RouterDeps{
		Server:       config.ServerConfig{Env: "test", CORSOrigin: "*", RequestTimeout: 5 * time.Second},
		Tokens:       env.tokens,
		Auth:         env.auth,
		Events:       env.events,
		Reservations: env.reservations,
		Tickets:      env.tickets,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	env.router = handler.NewRouter(deps)
	return env
}

// login 簽發指定角色的 token，回傳對應的 principal
func (e *testEnv) login(t *testing.T, role model.Role) (string, auth.Principal) {
	t.Helper()
	u := &model.User{ID: uuid.New(), Email: string(role) + "@example.com", Name: "Test", Role: role}
	token, _, err := e.tokens.Issue(u)
	require.NoError(t, err)
	return token, auth.PrincipalFor(u)
}

func withBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func decodeError(t *testing.T, body *bytes.Buffer) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.Unmarshal(body.Bytes(), &resp))
	return resp["error"]
}

// stubLimiter 固定回傳同一個結果
type stubLimiter struct {
	decision cache.Decision
	err      error
	subjects []string
}

func (s *stubLimiter) Allow(ctx context.Context, subject string) (cache.Decision, error) {
	s.subjects = append(s.subjects, subject)
	return s.decision, s.err
}
