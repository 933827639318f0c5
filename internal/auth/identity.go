package auth

import "context"

// ExternalIdentity is the verified payload from the identity provider.
type ExternalIdentity struct {
	SubjectID   string
	Email       string
	DisplayName string
}

// IdentityVerifier verifies a provider-issued token. The provider's
// credential checks are its own; this service only trusts the result.
type IdentityVerifier interface {
	VerifyExternalIdentity(ctx context.Context, providerToken string) (*ExternalIdentity, error)
}
