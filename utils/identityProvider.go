package utils

import (
	"fmt"
	"net/http"

	"lms/config"

	"github.com/go-resty/resty/v2"
)

// ProviderIdentity is the identity returned by the external provider's
// verification endpoint.
type ProviderIdentity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// VerifyProviderToken exchanges an external provider token for the identity
// it represents. An invalid or expired token yields an error, not a partial
// identity.
func VerifyProviderToken(token string) (*ProviderIdentity, error) {
	if token == "" {
		return nil, fmt.Errorf("provider token is required")
	}

	client := resty.New()
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+token).
		SetResult(&ProviderIdentity{}).
		Get(config.AppConfig.IdentityProviderURL)
	if err != nil {
		return nil, fmt.Errorf("failed to reach identity provider: %v", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("identity provider rejected token: %d", resp.StatusCode())
	}

	identity := resp.Result().(*ProviderIdentity)
	if identity.ID == "" || identity.Email == "" {
		return nil, fmt.Errorf("identity provider returned an incomplete identity")
	}

	return identity, nil
}
