// Copyright (c) Supportstack. All rights reserved.

// Package httpapi exposes the support agent over HTTP. It owns the
// caller-side session map the core deliberately does not have: each session
// id maps to one conversation, and calls sharing a session serialize on a
// per-session mutex.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/supportstack/support-agent/supportagent"
)

// Server is the HTTP console around a [supportagent.Agent].
type Server struct {
	agent  *supportagent.Agent
	logger *slog.Logger
	echo   *echo.Echo

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu   sync.Mutex
	conv *supportagent.Conversation
}

// NewServer creates the HTTP console.
func NewServer(agent *supportagent.Agent, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		agent:    agent,
		logger:   logger,
		echo:     echo.New(),
		sessions: make(map[string]*session),
	}

	s.echo.HideBanner = true
	s.echo.Use(middleware.Recover())

	api := s.echo.Group("/api/v1")
	api.POST("/chat", s.handleChat)
	api.GET("/sessions/:id/summary", s.handleSummary)
	api.GET("/sessions/:id/export", s.handleExport)
	api.GET("/metrics", s.handleMetrics)

	return s
}

// Handler returns the server's root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.echo }

// Start listens on addr and blocks until the server stops.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

type chatRequest struct {
	SessionID  string `json:"session_id"`
	CustomerID string `json:"customer_id"`
	Message    string `json:"message"`
}

type chatResponse struct {
	SessionID string         `json:"session_id"`
	Reply     string         `json:"reply"`
	Turn      int            `json:"turn"`
	Metadata  map[string]any `json:"metadata"`
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	sess := s.session(req.SessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	opts := []supportagent.ProcessOption{
		supportagent.WithSessionID(req.SessionID),
	}
	if sess.conv != nil {
		opts = append(opts, supportagent.WithConversation(sess.conv))
	}
	if req.CustomerID != "" {
		opts = append(opts, supportagent.WithCustomerID(req.CustomerID))
	}

	resp, err := s.agent.ProcessMessage(c.Request().Context(), req.Message, opts...)
	if err != nil {
		return s.mapError(err)
	}

	// Register under the agent-assigned id when the caller sent none.
	sess.conv = resp.Conversation
	s.register(resp.Conversation.SessionID, sess)

	return c.JSON(http.StatusOK, chatResponse{
		SessionID: resp.Conversation.SessionID,
		Reply:     resp.Text(),
		Turn:      resp.Conversation.TurnNumber(),
		Metadata:  resp.Metadata,
	})
}

func (s *Server) handleSummary(c echo.Context) error {
	sess, ok := s.lookup(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown session")
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return c.JSON(http.StatusOK, s.agent.ConversationSummary(sess.conv))
}

func (s *Server) handleExport(c echo.Context) error {
	sess, ok := s.lookup(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown session")
	}

	format := c.QueryParam("format")
	if format == "" {
		format = supportagent.FormatJSON
	}

	sess.mu.Lock()
	out, err := s.agent.ExportConversation(sess.conv, format)
	sess.mu.Unlock()
	if err != nil {
		return s.mapError(err)
	}

	if format == supportagent.FormatJSON {
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, []byte(out))
	}
	return c.String(http.StatusOK, out)
}

func (s *Server) handleMetrics(c echo.Context) error {
	return c.JSON(http.StatusOK, s.agent.Collector().Snapshot())
}

// session returns the tracked session for id, creating one when absent. An
// empty id returns a fresh untracked session; it is registered after the
// agent assigns a session id.
func (s *Server) session(id string) *session {
	if id == "" {
		return &session{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{}
		s.sessions[id] = sess
	}
	return sess
}

func (s *Server) register(id string, sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
}

func (s *Server) lookup(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.conv == nil {
		return nil, false
	}
	return sess, true
}

func (s *Server) mapError(err error) error {
	switch {
	case errors.Is(err, supportagent.ErrValidation),
		errors.Is(err, supportagent.ErrUnsupportedFormat):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
