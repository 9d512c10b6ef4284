package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:    "integ-key",
		RedirectURL: "http://localhost:8080/esign/callback",
		Scopes:      []string{"signature"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://account-d.docusign.com/oauth/auth",
			TokenURL: "https://account-d.docusign.com/oauth/token",
		},
	}
}

func TestESignAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/esign/auth", ESignAuth(testOAuthConfig()))

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/esign/auth", nil))

	assert.Equal(t, http.StatusFound, resp.StatusCode)

	loc := resp.Header.Get("Location")
	assert.Contains(t, loc, "https://account-d.docusign.com/oauth/auth")
	assert.Contains(t, loc, "client_id=integ-key")
	assert.Contains(t, loc, "scope=signature")

	var stateCookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == esignStateCookie {
			stateCookie = ck
		}
	}
	require.NotNil(t, stateCookie)
	assert.Contains(t, loc, "state="+stateCookie.Value)
}

func TestESignCallback_StateMismatch(t *testing.T) {
	app := fiber.New()
	app.Get("/esign/callback", ESignCallback(testOAuthConfig()))

	req := httptest.NewRequest(http.MethodGet, "/esign/callback?code=abc&state=forged", nil)
	req.AddCookie(&http.Cookie{Name: esignStateCookie, Value: "expected"})
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var res errorPayload
	json.NewDecoder(resp.Body).Decode(&res)
	assert.Equal(t, "INVALID_STATE", res.Error.Code)
}

func TestESignCallback_MissingCode(t *testing.T) {
	app := fiber.New()
	app.Get("/esign/callback", ESignCallback(testOAuthConfig()))

	req := httptest.NewRequest(http.MethodGet, "/esign/callback?state=expected", nil)
	req.AddCookie(&http.Cookie{Name: esignStateCookie, Value: "expected"})
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var res errorPayload
	json.NewDecoder(resp.Body).Decode(&res)
	assert.Equal(t, "CODE_REQUIRED", res.Error.Code)
}
