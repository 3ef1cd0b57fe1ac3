// Copyright (c) Supportstack. All rights reserved.

// Command supportagent runs the customer-support agent, either as an HTTP
// console (serve) or as an interactive terminal chat (chat).
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/spf13/cobra"

	"github.com/supportstack/support-agent/azureopenai"
	"github.com/supportstack/support-agent/config"
	"github.com/supportstack/support-agent/httpapi"
	"github.com/supportstack/support-agent/support"
	"github.com/supportstack/support-agent/supportagent"
)

const instructions = `You are an advanced AI customer support agent. Answer customer questions
using the knowledge base, create and track support tickets, access customer
information, and escalate complex issues to human agents. Always be polite
and professional, use the customer's name when available, provide clear
step-by-step instructions, and offer to create a ticket for unresolved
issues.`

var envFiles []string

func main() {
	root := &cobra.Command{
		Use:           "supportagent",
		Short:         "Customer-support chat agent",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "extra .env files to load")

	root.AddCommand(newServeCmd(), newChatCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP console",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			agent, err := buildAgent(cfg, logger)
			if err != nil {
				return err
			}
			logger.Info("starting http console", "addr", cfg.Addr)
			return httpapi.NewServer(agent, logger).Start(cfg.Addr)
		},
	}
}

func newChatCmd() *cobra.Command {
	var customerID, sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the agent on the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			agent, err := buildAgent(cfg, logger)
			if err != nil {
				return err
			}

			fmt.Println("Type a message, or /summary, /export, /quit.")

			var conv *supportagent.Conversation
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				switch {
				case line == "":
					continue
				case line == "/quit":
					return nil
				case line == "/summary":
					if conv == nil {
						fmt.Println("no conversation yet")
						continue
					}
					out, err := agent.ExportConversation(conv, supportagent.FormatJSON)
					if err != nil {
						return err
					}
					fmt.Println(out)
					continue
				case line == "/export":
					if conv == nil {
						fmt.Println("no conversation yet")
						continue
					}
					out, err := agent.ExportConversation(conv, supportagent.FormatText)
					if err != nil {
						return err
					}
					fmt.Println(out)
					continue
				}

				opts := []supportagent.ProcessOption{
					supportagent.WithSessionID(sessionID),
				}
				if conv != nil {
					opts = append(opts, supportagent.WithConversation(conv))
				}
				if customerID != "" {
					opts = append(opts, supportagent.WithCustomerID(customerID))
					customerID = "" // only attach on the first turn
				}

				resp, err := agent.ProcessMessage(cmd.Context(), line, opts...)
				if err != nil {
					fmt.Fprintln(os.Stderr, "error:", err)
					continue
				}
				conv = resp.Conversation
				fmt.Println(resp.Text())
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVar(&customerID, "customer", "", "customer id to attach to the conversation")
	cmd.Flags().StringVar(&sessionID, "session", "", "session id (generated when empty)")
	return cmd
}

func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return cfg, logger, nil
}

func buildAgent(cfg *config.Config, logger *slog.Logger) (*supportagent.Agent, error) {
	kb := support.NewKnowledgeBase()
	if cfg.KnowledgeBasePath != "" {
		loaded, err := support.LoadKnowledgeBase(cfg.KnowledgeBasePath)
		if err != nil {
			return nil, err
		}
		kb = loaded
	}

	tickets := support.NewTicketStore()
	customers := support.NewCustomerStore()
	tools := support.Tools(kb, tickets, customers)

	var gen supportagent.Generator
	switch cfg.Generator {
	case config.GeneratorAzure:
		opts := []azureopenai.Option{
			azureopenai.WithEndpoint(cfg.AzureOpenAIEndpoint),
			azureopenai.WithModel(cfg.AzureOpenAIDeployment),
			azureopenai.WithInstructions(instructions),
			azureopenai.WithTools(tools),
		}
		if cfg.AzureOpenAIKey != "" {
			opts = append(opts, azureopenai.WithAPIKey(cfg.AzureOpenAIKey))
		} else {
			cred, err := azidentity.NewDefaultAzureCredential(nil)
			if err != nil {
				return nil, fmt.Errorf("azure credential: %w", err)
			}
			opts = append(opts, azureopenai.WithCredential(cred))
		}
		client, err := azureopenai.New(opts...)
		if err != nil {
			return nil, err
		}
		gen = client
	default:
		gen = support.NewRouter(kb, tickets, customers)
	}

	collector := supportagent.NewCollector()
	return supportagent.NewAgent(gen,
		supportagent.WithName(cfg.AgentName),
		supportagent.WithInstructions(instructions),
		supportagent.WithTools(tools),
		supportagent.WithCustomerResolver(customers),
		supportagent.WithCollector(collector),
		supportagent.WithLogger(logger),
		supportagent.WithMiddleware(
			supportagent.LoggingMiddleware(logger, collector),
			supportagent.ValidationMiddleware(logger),
			supportagent.AnalyticsMiddleware(logger, collector),
		),
	), nil
}
