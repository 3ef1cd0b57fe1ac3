// Copyright (c) Supportstack. All rights reserved.

package azureopenai

import (
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/supportstack/support-agent/supportagent"
)

const defaultMaxIterations = 10

type clientConfig struct {
	endpoint      string
	apiKey        string
	model         string
	instructions  string
	credential    azcore.TokenCredential
	httpClient    *http.Client
	tools         *supportagent.Registry
	maxIterations int
	baseURL       string
}

// Option configures a [Client] via [New].
type Option func(*clientConfig)

// WithEndpoint sets the Azure OpenAI resource endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *clientConfig) { c.endpoint = endpoint }
}

// WithAPIKey authenticates with an api-key header.
func WithAPIKey(key string) Option {
	return func(c *clientConfig) { c.apiKey = key }
}

// WithCredential authenticates with an Azure token credential (for example
// [azidentity.DefaultAzureCredential]) instead of an api-key.
func WithCredential(cred azcore.TokenCredential) Option {
	return func(c *clientConfig) { c.credential = cred }
}

// WithModel sets the deployment (model) name.
func WithModel(model string) Option {
	return func(c *clientConfig) { c.model = model }
}

// WithInstructions sets the system prompt prepended to every request.
func WithInstructions(instructions string) Option {
	return func(c *clientConfig) { c.instructions = instructions }
}

// WithTools exposes the registry's tools to the model via function calling.
func WithTools(tools *supportagent.Registry) Option {
	return func(c *clientConfig) { c.tools = tools }
}

// WithMaxIterations bounds the function-calling loop. Default: 10.
func WithMaxIterations(n int) Option {
	return func(c *clientConfig) { c.maxIterations = n }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = hc }
}

// WithBaseURL points the client at a plain OpenAI-compatible endpoint
// instead of Azure (used by tests against a local fake).
func WithBaseURL(u string) Option {
	return func(c *clientConfig) { c.baseURL = u }
}
