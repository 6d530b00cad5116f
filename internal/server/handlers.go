package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Darkripper214/js-visualizer-9000-server/internal/run"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/sandbox"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/session"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/stream"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/trace"
)

// TraceRequest is one program submission. The code must already carry the
// tracer instrumentation; the rewriting passes run upstream of this service.
type TraceRequest struct {
	Code string `json:"code" binding:"required"`
}

// TraceResponse is the buffered one-shot form of a session's output.
type TraceResponse struct {
	SessionID string        `json:"sessionId"`
	Status    string        `json:"status"`
	ExitCode  int           `json:"exitCode"`
	Events    []trace.Event `json:"events"`
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "js-visualizer-9000-server",
		"status":  "running",
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// traceOnce runs one session synchronously and returns the full ordered
// event log. The websocket endpoint is the streaming alternative.
func (s *Server) traceOnce(c *gin.Context) {
	var req TraceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	buf := stream.NewBuffer()
	sess, result := s.runSession(c.Request.Context(), req.Code, buf)

	c.JSON(http.StatusOK, TraceResponse{
		SessionID: string(sess.ID),
		Status:    result.Status.String(),
		ExitCode:  result.Status.ExitCode(),
		Events:    buf.Events(),
	})
}

// runSession executes one submission against the configured limits and
// records its metrics.
func (s *Server) runSession(ctx context.Context, code string, sink stream.Sink) (*session.Session, run.Result) {
	sess := session.New(s.config.Limits.Limits(), sandbox.DefaultCapabilities(), sink, s.logger)

	started := time.Now()
	result := sess.Run(ctx, code)
	s.metrics.ObserveSession(result.Status.String(), sess.State().EventCount(), time.Since(started))

	return sess, result
}
