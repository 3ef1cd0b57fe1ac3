// Copyright (c) Supportstack. All rights reserved.

package azureopenai

import (
	"net/http"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

// tokenScope is the OAuth scope for Azure OpenAI requests.
const tokenScope = "https://cognitiveservices.azure.com/.default"

// refreshWindow is how long before expiry a cached token is refreshed.
const refreshWindow = 2 * time.Minute

// tokenTransport injects a bearer token from an Azure credential into every
// request, caching the token until it nears expiry.
type tokenTransport struct {
	base http.RoundTripper
	cred azcore.TokenCredential

	mu    sync.Mutex
	token azcore.AccessToken
}

func newTokenTransport(base http.RoundTripper, cred azcore.TokenCredential) *tokenTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &tokenTransport{base: base, cred: cred}
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok, err := t.accessToken(req)
	if err != nil {
		return nil, err
	}

	// Clone to avoid mutating the original request.
	cl := req.Clone(req.Context())
	cl.Header.Set("Authorization", "Bearer "+tok)
	return t.base.RoundTrip(cl)
}

func (t *tokenTransport) accessToken(req *http.Request) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token.Token != "" && time.Until(t.token.ExpiresOn) > refreshWindow {
		return t.token.Token, nil
	}

	tok, err := t.cred.GetToken(req.Context(), policy.TokenRequestOptions{
		Scopes: []string{tokenScope},
	})
	if err != nil {
		return "", err
	}
	t.token = tok
	return tok.Token, nil
}
