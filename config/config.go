// Copyright (c) Supportstack. All rights reserved.

// Package config loads runtime configuration from the environment, with
// optional .env file support.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Generator backends selectable via SUPPORT_GENERATOR.
const (
	GeneratorRules = "rules"
	GeneratorAzure = "azure"
)

// Config holds all runtime settings.
type Config struct {
	Addr      string `env:"SUPPORT_ADDR" envDefault:":8080"`
	AgentName string `env:"SUPPORT_AGENT_NAME" envDefault:"SupportBot"`
	LogLevel  string `env:"SUPPORT_LOG_LEVEL" envDefault:"info"`

	// Generator selects the reply backend: "rules" (deterministic router)
	// or "azure" (Azure OpenAI).
	Generator string `env:"SUPPORT_GENERATOR" envDefault:"rules"`

	// KnowledgeBasePath optionally points at a YAML file of extra
	// knowledge-base topics merged over the builtin ones.
	KnowledgeBasePath string `env:"SUPPORT_KB_PATH"`

	// Azure OpenAI settings, required when Generator is "azure". With an
	// empty api-key, DefaultAzureCredential is used.
	AzureOpenAIEndpoint   string `env:"AZURE_OPENAI_ENDPOINT"`
	AzureOpenAIKey        string `env:"AZURE_OPENAI_API_KEY"`
	AzureOpenAIDeployment string `env:"AZURE_OPENAI_DEPLOYMENT" envDefault:"gpt-4o"`
}

// Load reads .env files (missing files are fine) and parses the
// environment.
func Load(envFiles ...string) (*Config, error) {
	// godotenv never overrides variables already set in the environment.
	_ = godotenv.Load(envFiles...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Generator != GeneratorRules && cfg.Generator != GeneratorAzure {
		return nil, fmt.Errorf("unknown generator %q", cfg.Generator)
	}
	if cfg.Generator == GeneratorAzure && cfg.AzureOpenAIEndpoint == "" {
		return nil, fmt.Errorf("AZURE_OPENAI_ENDPOINT is required with the azure generator")
	}
	return cfg, nil
}
