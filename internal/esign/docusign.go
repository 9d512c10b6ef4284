package esign

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/veermshah/congruency/internal/config"
	"github.com/veermshah/congruency/internal/model"
)

// DocuSign implements Provider against the DocuSign eSignature REST API.
type DocuSign struct {
	basePath   string
	authServer string
	accountID  string
	integKey   string
	userID     string
	privateKey string
	hc         *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewDocuSign creates a provider using the JWT grant for service auth.
func NewDocuSign(cfg config.ESignConfig) *DocuSign {
	return &DocuSign{
		basePath:   cfg.BasePath,
		authServer: cfg.AuthServer,
		accountID:  cfg.AccountID,
		integKey:   cfg.IntegrationKey,
		userID:     cfg.UserID,
		privateKey: cfg.PrivateKeyPEM,
		hc:         &http.Client{Timeout: 30 * time.Second},
	}
}

var _ Provider = (*DocuSign)(nil)

type envelopeDocument struct {
	DocumentBase64 string `json:"documentBase64"`
	Name           string `json:"name"`
	FileExtension  string `json:"fileExtension"`
	DocumentID     string `json:"documentId"`
}

type signHereTab struct {
	AnchorString  string `json:"anchorString"`
	AnchorUnits   string `json:"anchorUnits"`
	AnchorXOffset string `json:"anchorXOffset"`
	AnchorYOffset string `json:"anchorYOffset"`
}

type envelopeSigner struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	ClientUserID string `json:"clientUserId"`
	RecipientID  string `json:"recipientId"`
	Tabs         struct {
		SignHereTabs []signHereTab `json:"signHereTabs"`
	} `json:"tabs"`
}

type envelopeDefinition struct {
	EmailSubject string             `json:"emailSubject"`
	Documents    []envelopeDocument `json:"documents"`
	Recipients   struct {
		Signers []envelopeSigner `json:"signers"`
	} `json:"recipients"`
	Status string `json:"status"`
}

// makeEnvelope builds the envelope definition with the document attached and
// a signature tab anchored at the /sn1/ marker.
func makeEnvelope(env Envelope) envelopeDefinition {
	def := envelopeDefinition{
		EmailSubject: "Please review and sign this document",
		Documents: []envelopeDocument{{
			DocumentBase64: base64.StdEncoding.EncodeToString(env.Document),
			Name:           env.DocumentName,
			FileExtension:  "pdf",
			DocumentID:     "1",
		}},
		Status: "sent",
	}
	signer := envelopeSigner{
		Email:        env.Signer.Email,
		Name:         env.Signer.Name,
		ClientUserID: env.Signer.ClientUserID,
		RecipientID:  "1",
	}
	signer.Tabs.SignHereTabs = []signHereTab{{
		AnchorString:  "/sn1/",
		AnchorUnits:   "pixels",
		AnchorXOffset: "20",
		AnchorYOffset: "10",
	}}
	def.Recipients.Signers = []envelopeSigner{signer}
	return def
}

// CreateEnvelope submits the envelope and returns its ID.
func (d *DocuSign) CreateEnvelope(ctx context.Context, env Envelope) (string, error) {
	var out struct {
		EnvelopeID string `json:"envelopeId"`
	}
	path := fmt.Sprintf("%s/v2.1/accounts/%s/envelopes", d.basePath, d.accountID)
	if err := d.post(ctx, path, makeEnvelope(env), &out); err != nil {
		return "", err
	}
	return out.EnvelopeID, nil
}

// SigningURL requests the embedded-signing recipient view for the envelope.
func (d *DocuSign) SigningURL(ctx context.Context, envelopeID string, env Envelope) (string, error) {
	req := map[string]string{
		"returnUrl":            env.ReturnURL,
		"authenticationMethod": "none",
		"email":                env.Signer.Email,
		"userName":             env.Signer.Name,
		"clientUserId":         env.Signer.ClientUserID,
		"pingFrequency":        "600",
	}
	var out struct {
		URL string `json:"url"`
	}
	path := fmt.Sprintf("%s/v2.1/accounts/%s/envelopes/%s/views/recipient", d.basePath, d.accountID, envelopeID)
	if err := d.post(ctx, path, req, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (d *DocuSign) post(ctx context.Context, url string, payload, out any) error {
	tok, err := d.token(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := d.hc.Do(req)
	if err != nil {
		return model.NewError(model.KindTransport, "esign request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.NewError(model.KindRemote, fmt.Sprintf("esign endpoint returned status %d", resp.StatusCode), nil)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// token returns a cached access token, refreshing it through the JWT grant
// when missing or about to expire.
func (d *DocuSign) token(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.accessToken != "" && time.Now().Before(d.tokenExpiry.Add(-time.Minute)) {
		return d.accessToken, nil
	}

	assertion, err := d.jwtAssertion()
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("grant_type", "urn:ietf:params:oauth:grant-type:jwt-bearer")
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("https://%s/oauth/token", d.authServer),
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.hc.Do(req)
	if err != nil {
		return "", model.NewError(model.KindTransport, "esign token request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", model.NewError(model.KindRemote, fmt.Sprintf("esign token endpoint returned status %d", resp.StatusCode), nil)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", err
	}

	d.accessToken = tok.AccessToken
	d.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return d.accessToken, nil
}

// jwtAssertion builds the RS256 assertion for the JWT grant.
func (d *DocuSign) jwtAssertion() (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(d.privateKey))
	if err != nil {
		return "", fmt.Errorf("parse esign private key: %w", err)
	}

	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":   d.integKey,
		"sub":   d.userID,
		"aud":   d.authServer,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
		"scope": "signature",
	})
	return t.SignedString(key)
}

// OAuthConfig builds the authorization-code configuration for the web
// consent flow, the alternative to the JWT grant.
func OAuthConfig(cfg config.ESignConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.IntegrationKey,
		ClientSecret: cfg.Secret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{"signature"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  fmt.Sprintf("https://%s/oauth/auth", cfg.AuthServer),
			TokenURL: fmt.Sprintf("https://%s/oauth/token", cfg.AuthServer),
		},
	}
}
