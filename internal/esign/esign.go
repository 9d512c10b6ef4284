package esign

import "context"

// Package esign wraps the e-signature vendor behind a narrow capability
// interface so the vendor can be swapped without touching the contract flows.

// Signer identifies the person asked to sign an envelope.
type Signer struct {
	Email        string
	Name         string
	ClientUserID string
}

// Envelope bundles one document with its signer for a signing request.
type Envelope struct {
	Document     []byte
	DocumentName string
	Signer       Signer
	ReturnURL    string
}

// Provider is the e-signature capability: construct envelope, submit it,
// obtain an embedded-signing redirect URL.
type Provider interface {
	CreateEnvelope(ctx context.Context, env Envelope) (string, error)
	SigningURL(ctx context.Context, envelopeID string, env Envelope) (string, error)
}
