package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	tokenMocks "github.com/veermshah/congruency/internal/token/mocks"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		rid := c.Locals(RequestIDLocalKey)
		return c.SendString(rid.(string))
	})

	t.Run("generates a new request id when absent", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("preserves the incoming request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()

	app.Use(RequestID())
	app.Use(LoggerWithWriter(&buf, time.UTC))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var logData map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logData))

	assert.NotEmpty(t, logData["request_id"])
	assert.Equal(t, "GET", logData["method"])
	assert.Equal(t, "/test", logData["path"])
	assert.Equal(t, float64(fiber.StatusAccepted), logData["status"])
	assert.NotNil(t, logData["latency"])
	assert.NotEmpty(t, logData["ts"])
}

func TestRequireUser(t *testing.T) {
	userID := uuid.New()

	newApp := func(tokens *tokenMocks.MockManager) *fiber.App {
		app := fiber.New()
		app.Use(RequireUser(tokens, "session"))
		app.Get("/contracts", func(c *fiber.Ctx) error {
			return c.SendString(c.Locals(UserIDLocalKey).(uuid.UUID).String())
		})
		return app
	}

	t.Run("valid session cookie passes through", func(t *testing.T) {
		tokens := new(tokenMocks.MockManager)
		tokens.On("Parse", "good-token").Return(userID, nil)
		app := newApp(tokens)

		req := httptest.NewRequest("GET", "/contracts", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "good-token"})
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, userID.String(), buf.String())
	})

	t.Run("bearer header is accepted when cookie is absent", func(t *testing.T) {
		tokens := new(tokenMocks.MockManager)
		tokens.On("Parse", "bearer-token").Return(userID, nil)
		app := newApp(tokens)

		req := httptest.NewRequest("GET", "/contracts", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer bearer-token")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("no session redirects to sign-in", func(t *testing.T) {
		tokens := new(tokenMocks.MockManager)
		app := newApp(tokens)

		req := httptest.NewRequest("GET", "/contracts", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, SignInPath, resp.Header.Get("Location"))
		tokens.AssertNotCalled(t, "Parse", mock.Anything)
	})

	t.Run("invalid token redirects to sign-in", func(t *testing.T) {
		tokens := new(tokenMocks.MockManager)
		tokens.On("Parse", "bad-token").Return(uuid.Nil, errors.New("signature invalid"))
		app := newApp(tokens)

		req := httptest.NewRequest("GET", "/contracts", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "bad-token"})
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, SignInPath, resp.Header.Get("Location"))
	})
}
