package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/registrar/core"
)

const (
	authorizationHeader = "Authorization"
	requestIDHeader     = "X-Request-ID"
)

// CredentialSource hands out the credential cached for the current session, if any.
type CredentialSource interface {
	Credential() (Credential, bool)
}

// Gateway is the core.Transport every authenticated call goes through.
// It signs requests with the cached credential and makes exactly one attempt per call.
type Gateway struct {
	transport core.Transport
	creds     CredentialSource
	logger    core.Logger
}

var _ core.Transport = (*Gateway)(nil)

func NewGateway(transport core.Transport, creds CredentialSource, logger core.Logger) *Gateway {
	return &Gateway{
		transport: transport,
		creds:     creds,
		logger:    logger,
	}
}

// Do sends req with the Basic Authorization header rebuilt from the cached credential.
// Without one, req is sent unsigned: protected endpoints will then answer 401.
func (g *Gateway) Do(ctx context.Context, req core.Request) (*core.Response, error) {
	req = req.WithHeader(requestIDHeader, uuid.NewString())

	cred, ok := g.creds.Credential()
	if !ok {
		g.logger.Warn(
			"sending request without credentials",
			map[string]interface{}{"method": req.EffectiveMethod(), "path": req.Path},
		)
		return g.transport.Do(ctx, req)
	}
	return g.transport.Do(ctx, req.WithHeader(authorizationHeader, cred.AuthorizationHeader()))
}
