package esign

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veermshah/congruency/internal/config"
	"github.com/veermshah/congruency/internal/model"
)

func testEnvelope() Envelope {
	return Envelope{
		Document:     []byte("%PDF-1.4 test"),
		DocumentName: "contract-A.pdf",
		Signer: Signer{
			Email:        "signer@example.com",
			Name:         "Signer Name",
			ClientUserID: "1000",
		},
		ReturnURL: "http://localhost:3000/signed",
	}
}

// withToken returns a provider pointed at the test server with a warm token
// cache, so requests skip the JWT grant.
func withToken(basePath string) *DocuSign {
	d := NewDocuSign(config.ESignConfig{
		BasePath:  basePath,
		AccountID: "acct-1",
	})
	d.accessToken = "test-token"
	d.tokenExpiry = time.Now().Add(time.Hour)
	return d
}

func TestMakeEnvelope(t *testing.T) {
	def := makeEnvelope(testEnvelope())

	assert.Equal(t, "sent", def.Status)
	require.Len(t, def.Documents, 1)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 test")), def.Documents[0].DocumentBase64)
	assert.Equal(t, "pdf", def.Documents[0].FileExtension)
	assert.Equal(t, "1", def.Documents[0].DocumentID)

	require.Len(t, def.Recipients.Signers, 1)
	signer := def.Recipients.Signers[0]
	assert.Equal(t, "signer@example.com", signer.Email)
	assert.Equal(t, "1000", signer.ClientUserID)
	require.Len(t, signer.Tabs.SignHereTabs, 1)
	assert.Equal(t, "/sn1/", signer.Tabs.SignHereTabs[0].AnchorString)
}

func TestCreateEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2.1/accounts/acct-1/envelopes", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var def envelopeDefinition
		require.NoError(t, json.NewDecoder(r.Body).Decode(&def))
		assert.Equal(t, "sent", def.Status)

		json.NewEncoder(w).Encode(map[string]string{"envelopeId": "env-123"})
	}))
	defer srv.Close()

	id, err := withToken(srv.URL).CreateEnvelope(context.Background(), testEnvelope())
	require.NoError(t, err)
	assert.Equal(t, "env-123", id)
}

func TestSigningURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2.1/accounts/acct-1/envelopes/env-123/views/recipient", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "none", req["authenticationMethod"])
		assert.Equal(t, "signer@example.com", req["email"])

		json.NewEncoder(w).Encode(map[string]string{"url": "https://sign.example.com/session"})
	}))
	defer srv.Close()

	u, err := withToken(srv.URL).SigningURL(context.Background(), "env-123", testEnvelope())
	require.NoError(t, err)
	assert.Equal(t, "https://sign.example.com/session", u)
}

func TestCreateEnvelope_RemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorCode":"INVALID_REQUEST_BODY"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := withToken(srv.URL).CreateEnvelope(context.Background(), testEnvelope())
	require.Error(t, err)
	assert.Equal(t, model.KindRemote, model.KindOf(err))
}

func TestOAuthConfig(t *testing.T) {
	cfg := OAuthConfig(config.ESignConfig{
		AuthServer:     "account-d.docusign.com",
		IntegrationKey: "integ-key",
		Secret:         "secret",
		RedirectURL:    "http://localhost:8080/esign/callback",
	})

	assert.Equal(t, "https://account-d.docusign.com/oauth/auth", cfg.Endpoint.AuthURL)
	assert.Equal(t, "https://account-d.docusign.com/oauth/token", cfg.Endpoint.TokenURL)

	u := cfg.AuthCodeURL("state-1")
	assert.Contains(t, u, "client_id=integ-key")
	assert.Contains(t, u, "scope=signature")
	assert.Contains(t, u, "state=state-1")
}
