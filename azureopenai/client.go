// Copyright (c) Supportstack. All rights reserved.

// Package azureopenai provides a [supportagent.Generator] backed by the
// Azure OpenAI chat-completions API, replacing the rule-based router with a
// real model. Tools from the agent's registry are exposed to the model via
// function calling.
//
//	cred, _ := azidentity.NewDefaultAzureCredential(nil)
//	gen, _ := azureopenai.New(
//	    azureopenai.WithEndpoint(cfg.AzureOpenAIEndpoint),
//	    azureopenai.WithCredential(cred),
//	    azureopenai.WithModel(cfg.AzureOpenAIDeployment),
//	    azureopenai.WithTools(registry),
//	)
//	agent := supportagent.NewAgent(gen, ...)
package azureopenai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"github.com/supportstack/support-agent/supportagent"
)

// Client implements [supportagent.Generator] against Azure OpenAI.
type Client struct {
	oa            *openai.Client
	model         string
	instructions  string
	tools         *supportagent.Registry
	maxIterations int
	logger        *slog.Logger
}

var _ supportagent.Generator = (*Client)(nil)

// New creates a [Client]. Either an endpoint with api-key or credential, or
// a base URL (OpenAI-compatible, used by tests) must be supplied.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{maxIterations: defaultMaxIterations}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.model == "" {
		return nil, errors.New("azureopenai: model (deployment) is required")
	}

	var oaCfg openai.ClientConfig
	tokenAuth := false
	switch {
	case cfg.baseURL != "":
		oaCfg = openai.DefaultConfig(cfg.apiKey)
		oaCfg.BaseURL = cfg.baseURL

	case cfg.endpoint == "":
		return nil, errors.New("azureopenai: endpoint is required")

	case cfg.apiKey != "":
		oaCfg = openai.DefaultAzureConfig(cfg.apiKey, cfg.endpoint)

	case cfg.credential != nil:
		oaCfg = openai.DefaultAzureConfig("", cfg.endpoint)
		oaCfg.APIType = openai.APITypeAzureAD
		hc := cfg.httpClient
		if hc == nil {
			hc = &http.Client{}
		}
		hc.Transport = newTokenTransport(hc.Transport, cfg.credential)
		oaCfg.HTTPClient = hc
		tokenAuth = true

	default:
		return nil, errors.New("azureopenai: an api-key or token credential is required")
	}

	// The token-auth branch already installed its transport.
	if cfg.httpClient != nil && !tokenAuth {
		oaCfg.HTTPClient = cfg.httpClient
	}

	return &Client{
		oa:            openai.NewClientWithConfig(oaCfg),
		model:         cfg.model,
		instructions:  cfg.instructions,
		tools:         cfg.tools,
		maxIterations: cfg.maxIterations,
		logger:        slog.Default(),
	}, nil
}

// Generate sends the fully-prepared conversation to the model and returns
// its text reply, resolving tool calls in between. Non-response (timeout or
// API failure) propagates as an error; there is no fallback reply.
func (c *Client) Generate(ctx context.Context, conv *supportagent.Conversation) (string, error) {
	messages := c.buildMessages(conv)
	tools := toolDefinitions(c.tools)

	for i := 0; i < c.maxIterations; i++ {
		req := openai.ChatCompletionRequest{
			Model:    c.model,
			Messages: messages,
		}
		if len(tools) > 0 {
			req.Tools = tools
			req.ToolChoice = "auto"
		}

		resp, err := c.oa.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", fmt.Errorf("%w: %w", supportagent.ErrGeneration, err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("%w: empty response", supportagent.ErrGeneration)
		}

		choice := resp.Choices[0].Message
		if len(choice.ToolCalls) == 0 {
			return choice.Content, nil
		}

		messages = append(messages, choice)
		results, err := c.invokeToolCalls(ctx, choice.ToolCalls)
		if err != nil {
			return "", err
		}
		messages = append(messages, results...)
	}

	return "", fmt.Errorf("%w: max tool iterations reached (%d)", supportagent.ErrGeneration, c.maxIterations)
}

// buildMessages maps the conversation history onto chat-completion
// messages, prepending the system instructions when set.
func (c *Client) buildMessages(conv *supportagent.Conversation) []openai.ChatCompletionMessage {
	var out []openai.ChatCompletionMessage
	if c.instructions != "" {
		out = append(out, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: c.instructions,
		})
	}
	for _, m := range conv.History() {
		out = append(out, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return out
}

// toolDefinitions converts registry tools into function definitions.
func toolDefinitions(reg *supportagent.Registry) []openai.Tool {
	if reg == nil {
		return nil
	}
	var out []openai.Tool
	for _, t := range reg.List() {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return out
}

// invokeToolCalls runs each requested tool and returns the tool-role result
// messages fed back to the model. An unknown tool or a failing invocation
// is reported to the model as an error result rather than aborting the run.
func (c *Client) invokeToolCalls(ctx context.Context, calls []openai.ToolCall) ([]openai.ChatCompletionMessage, error) {
	var out []openai.ChatCompletionMessage
	for _, call := range calls {
		name := call.Function.Name

		var content string
		var tool supportagent.Tool
		ok := false
		if c.tools != nil {
			tool, ok = c.tools.Get(name)
		}
		if !ok {
			c.logger.WarnContext(ctx, "unknown tool called", "tool", name)
			content = "error: unknown tool"
		} else {
			result, err := tool.Invoke(ctx, json.RawMessage(call.Function.Arguments))
			if err != nil {
				c.logger.WarnContext(ctx, "tool invocation error", "tool", name, "error", err)
				content = "error invoking tool"
			} else {
				b, err := json.Marshal(result)
				if err != nil {
					return nil, fmt.Errorf("%w: marshal tool result: %w", supportagent.ErrGeneration, err)
				}
				content = string(b)
			}
		}

		out = append(out, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    content,
			ToolCallID: call.ID,
		})
	}
	return out, nil
}
