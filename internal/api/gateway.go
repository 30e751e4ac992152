package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"signal-desk/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	pathGetSignal       = "/api/get-signal"
	pathSubmitResult    = "/api/submit-result"
	pathDashboardData   = "/api/dashboard-data"
	pathUndoTrade       = "/api/undo-trade"
	pathNewSession      = "/api/new-session"
	pathDownloadExport  = "/api/download-cvc"
	pathSaveBulkPattern = "/api/save-bulk-pattern"
	pathOCRScreenshot   = "/api/ocr-screenshot"

	maxEnvelopeBytes int64 = 4 << 20 // 4MiB
)

// Gateway is the typed client for the prediction backend.
type Gateway struct {
	baseURL string
	client  *Client
	tracer  trace.Tracer
	logger  zerolog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

func WithTracer(tracer trace.Tracer) Option {
	return func(g *Gateway) { g.tracer = tracer }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(g *Gateway) { g.logger = logger }
}

func WithClient(c *Client) Option {
	return func(g *Gateway) { g.client = c }
}

// NewGateway builds a gateway for baseURL. A zero timeout never aborts a request.
func NewGateway(baseURL string, timeout time.Duration, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		tracer:  trace.NewNoopTracerProvider().Tracer("gateway"),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.client == nil {
		g.client = NewClient(WithTimeout(timeout))
	}
	return g
}

// BaseURL returns the backend root the gateway talks to.
func (g *Gateway) BaseURL() string { return g.baseURL }

// GetSignal requests a new prediction.
func (g *Gateway) GetSignal(ctx context.Context) (domain.SignalResult, error) {
	var resp signalResponse
	status, err := g.call(ctx, "get-signal", &RequestOptions{Method: http.MethodGet, URL: g.url(pathGetSignal)}, &resp, true)
	if err != nil {
		return nil, err
	}
	if status == statusWaiting {
		return domain.SignalWaiting{Message: resp.Message}, nil
	}
	return resp.toDomain(), nil
}

// SubmitResult records the actual outcome of the current round.
func (g *Gateway) SubmitResult(ctx context.Context, sub domain.Submission) (domain.Ack, error) {
	body := submitRequest{
		Result:     string(sub.Result),
		UserChoice: sub.UserChoice,
		BetAmount:  sub.BetAmount,
	}
	return g.mutate(ctx, "submit-result", pathSubmitResult, body)
}

// DashboardData fetches the authoritative dashboard snapshot.
func (g *Gateway) DashboardData(ctx context.Context) (domain.DashboardSnapshot, error) {
	var resp dashboardResponse
	if _, err := g.call(ctx, "dashboard-data", &RequestOptions{Method: http.MethodGet, URL: g.url(pathDashboardData)}, &resp, false); err != nil {
		return domain.DashboardSnapshot{}, err
	}
	return resp.toDomain(), nil
}

// UndoTrade deletes one logged trade.
func (g *Gateway) UndoTrade(ctx context.Context, tradeID string) (domain.Ack, error) {
	return g.mutate(ctx, "undo-trade", pathUndoTrade, undoRequest{TradeID: tradeID})
}

// NewSession archives the current session on the backend.
func (g *Gateway) NewSession(ctx context.Context) (domain.Ack, error) {
	return g.mutate(ctx, "new-session", pathNewSession, nil)
}

// SaveBulkPattern imports a batch of historical outcomes.
func (g *Gateway) SaveBulkPattern(ctx context.Context, pattern []domain.Outcome) (domain.Ack, error) {
	body := bulkPatternRequest{Pattern: make([]string, 0, len(pattern))}
	for _, o := range pattern {
		body.Pattern = append(body.Pattern, string(o))
	}
	return g.mutate(ctx, "save-bulk-pattern", pathSaveBulkPattern, body)
}

// OCRScreenshot uploads an image and returns the extracted outcome letters, newest first.
func (g *Gateway) OCRScreenshot(ctx context.Context, filename string, image io.Reader) ([]string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, &domain.TransportError{Op: "ocr-screenshot", Err: fmt.Errorf("create form file: %w", err)}
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, &domain.TransportError{Op: "ocr-screenshot", Err: fmt.Errorf("read image: %w", err)}
	}
	if err := mw.Close(); err != nil {
		return nil, &domain.TransportError{Op: "ocr-screenshot", Err: fmt.Errorf("close multipart: %w", err)}
	}

	var resp ocrResponse
	opts := &RequestOptions{
		Method:  http.MethodPost,
		URL:     g.url(pathOCRScreenshot),
		Headers: map[string]string{"Content-Type": mw.FormDataContentType()},
		Body:    buf.Bytes(),
	}
	if _, err := g.call(ctx, "ocr-screenshot", opts, &resp, false); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// DownloadExport streams the backend's CSV export into w.
func (g *Gateway) DownloadExport(ctx context.Context, w io.Writer) (int64, error) {
	const op = "download-cvc"
	ctx, span := g.tracer.Start(ctx, "gateway."+op)
	defer span.End()

	resp, err := g.client.SendRequest(ctx, &RequestOptions{
		Method:  http.MethodGet,
		URL:     g.url(pathDownloadExport),
		Headers: map[string]string{"X-Request-ID": uuid.NewString()},
	})
	if err != nil {
		return 0, g.fail(span, &domain.TransportError{Op: op, Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env envelope
		if json.NewDecoder(io.LimitReader(resp.Body, maxEnvelopeBytes)).Decode(&env) == nil && env.Status == statusError {
			return 0, g.fail(span, &domain.RejectedError{Op: op, Message: env.Message})
		}
		return 0, g.fail(span, &domain.TransportError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)})
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, g.fail(span, &domain.TransportError{Op: op, Err: fmt.Errorf("copy body: %w", err)})
	}
	span.SetAttributes(attribute.Int64("bytes", n))
	return n, nil
}

func (g *Gateway) mutate(ctx context.Context, op, path string, body interface{}) (domain.Ack, error) {
	var resp envelope
	opts := &RequestOptions{Method: http.MethodPost, URL: g.url(path), Body: body}
	if _, err := g.call(ctx, op, opts, &resp, false); err != nil {
		return domain.Ack{}, err
	}
	return domain.Ack{Message: resp.Message}, nil
}

// call performs one JSON round trip and classifies the status envelope.
func (g *Gateway) call(ctx context.Context, op string, opts *RequestOptions, dest statusCarrier, allowWaiting bool) (string, error) {
	ctx, span := g.tracer.Start(ctx, "gateway."+op)
	defer span.End()

	requestID := uuid.NewString()
	if opts.Headers == nil {
		opts.Headers = make(map[string]string, 1)
	}
	opts.Headers["X-Request-ID"] = requestID
	span.SetAttributes(attribute.String("request_id", requestID), attribute.String("http.url", opts.URL))

	resp, err := g.client.SendRequest(ctx, opts)
	if err != nil {
		return "", g.fail(span, &domain.TransportError{Op: op, Err: err})
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxEnvelopeBytes)).Decode(dest); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return "", g.fail(span, &domain.TransportError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)})
		}
		return "", g.fail(span, &domain.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)})
	}

	env := dest.header()
	switch env.Status {
	case statusSuccess:
		return env.Status, nil
	case statusWaiting:
		if allowWaiting {
			return env.Status, nil
		}
	case statusError:
		return "", g.fail(span, &domain.RejectedError{Op: op, Message: env.Message})
	}
	return "", g.fail(span, &domain.TransportError{Op: op, Err: fmt.Errorf("unexpected status %q", env.Status)})
}

func (g *Gateway) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	g.logger.Debug().Err(err).Msg("backend call failed")
	return err
}

func (g *Gateway) url(path string) string {
	return g.baseURL + path
}
