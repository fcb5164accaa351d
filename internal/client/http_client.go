package client

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-admin/internal/config"
	"github.com/spec-kit/employee-admin/internal/observability"
	apperrors "github.com/spec-kit/employee-admin/pkg/util/errorutil"
)

const maxLoggedBody = 512

// HTTPClient talks to the backend through the fiber client agent.
type HTTPClient struct {
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewHTTPClient builds a client for the configured backend.
func NewHTTPClient(cfg config.BackendConfig, logger *zap.Logger, metrics *observability.Metrics) *HTTPClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout(),
		logger:  logger.Named("backend"),
		metrics: metrics,
	}
}

// Do implements ResourceClient.
func (c *HTTPClient) Do(ctx context.Context, req Request, out any) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "request aborted")
	}

	method := req.Method
	if method == "" {
		method = fiber.MethodGet
	}
	target := c.baseURL + req.URL
	if len(req.Params) > 0 {
		target += "?" + req.Params.Encode()
	}

	agent := fiber.AcquireAgent()
	agent.Request().Header.SetMethod(method)
	agent.Request().SetRequestURI(target)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if req.WithCredentials {
		if token, ok := TokenFromContext(ctx); ok {
			agent.Set(fiber.HeaderAuthorization, "Bearer "+token)
		}
	}
	if req.Body != nil {
		agent.JSON(req.Body)
	}
	if timeout := c.timeoutFor(ctx); timeout > 0 {
		agent.Timeout(timeout)
	}
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return errors.Wrapf(err, "invalid backend url %q", target)
	}

	start := time.Now()
	status, body, errs := agent.Bytes()
	elapsed := time.Since(start)
	c.metrics.RecordBackendCall(method, routeTemplate(req.URL), status, elapsed)

	if len(errs) > 0 {
		c.logger.Warn("backend call failed",
			zap.String("method", method),
			zap.String("path", req.URL),
			zap.Errors("errors", errs))
		return apperrors.NewUpstreamError("backend unreachable", errs[0])
	}

	c.logger.Debug("backend call",
		zap.String("method", method),
		zap.String("path", req.URL),
		zap.Int("status", status),
		zap.Duration("latency", elapsed))

	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		// The body stays in the log; callers only see the mapped error.
		c.logger.Warn("backend rejected request",
			zap.String("method", method),
			zap.String("path", req.URL),
			zap.Int("status", status),
			zap.String("body", excerpt(body, maxLoggedBody)))
		return apperrors.FromHTTPStatus(status, resourceName(req.URL))
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewUpstreamError("malformed backend response", errors.Wrapf(err, "decode %s %s", method, req.URL))
	}
	return nil
}

func (c *HTTPClient) timeoutFor(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if timeout == 0 || remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

// routeTemplate replaces numeric path segments with ":id" so metrics keys
// stay bounded.
func routeTemplate(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if _, err := strconv.ParseInt(seg, 10, 64); err == nil {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

// excerpt cuts body to at most max bytes without splitting a UTF-8 sequence.
func excerpt(body []byte, max int) string {
	if len(body) <= max {
		return string(body)
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut])
}

func resourceName(path string) string {
	trimmed := strings.Trim(path, "/")
	if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	if trimmed == "" {
		return "resource"
	}
	return strings.TrimSuffix(trimmed, "s")
}
