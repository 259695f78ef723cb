// Package ollama provides the model gateway adapter using Ollama.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
	"github.com/docshelf-labs/docshelf-cli/internal/core/ports/driven"
	"github.com/docshelf-labs/docshelf-cli/internal/logger"
)

// Ensure Gateway implements the interface.
var _ driven.ModelGateway = (*Gateway)(nil)

// Default configuration values. Request timeouts are minutes, not seconds:
// a cold local model can spend most of that loading weights.
const (
	DefaultBaseURL         = "http://127.0.0.1:11434"
	DefaultModel           = "gemma3:4b"
	DefaultRequestTimeout  = 3 * time.Minute
	DefaultMaxRetries      = 3
	DefaultStartupAttempts = 30
	DefaultStartupInterval = 2 * time.Second

	// backoffBase and backoffCap bound the retry delay curve.
	backoffBase = 2 * time.Second
	backoffCap  = 30 * time.Second

	// requestsPerSecond throttles successive generation calls so a batch
	// run does not starve an interactively used service.
	requestsPerSecond = 0.5
)

// Config holds configuration for the Ollama gateway.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://127.0.0.1:11434).
	BaseURL string

	// Model is the generative model to use (default: gemma3:4b).
	Model string

	// RequestTimeout bounds a single generation call (default: 3m).
	RequestTimeout time.Duration

	// MaxRetries is the number of attempts per generation call (default: 3).
	MaxRetries int

	// StartupAttempts bounds the health poll after starting the service
	// (default: 30).
	StartupAttempts int

	// StartupInterval is the pause between health polls (default: 2s).
	StartupInterval time.Duration

	// AutoStart controls whether an unreachable service is started with
	// "ollama serve". Disabled in tests.
	AutoStart bool
}

// Gateway provides lifecycle-managed access to a local Ollama service.
// Generate calls are serialised: the service is a shared, single-consumer
// resource.
type Gateway struct {
	client  *http.Client
	cfg     Config
	limiter *rate.Limiter

	mu   sync.Mutex
	proc *exec.Cmd // non-nil only when this gateway started the service
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"`
	Options *options `json:"options,omitempty"`
}

// options holds generation parameters.
type options struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature float64  `json:"temperature"`
	Stop        []string `json:"stop,omitempty"`
}

// generateResponse is the Ollama /api/generate response format.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// tagsResponse is the Ollama /api/tags response format.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// pullRequest is the Ollama /api/pull request format.
type pullRequest struct {
	Name   string `json:"name"`
	Stream bool   `json:"stream"`
}

// New creates a new Ollama gateway.
func New(cfg Config) *Gateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.StartupAttempts == 0 {
		cfg.StartupAttempts = DefaultStartupAttempts
	}
	if cfg.StartupInterval == 0 {
		cfg.StartupInterval = DefaultStartupInterval
	}

	return &Gateway{
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// ModelName returns the name of the model being used.
func (g *Gateway) ModelName() string {
	return g.cfg.Model
}

// EnsureAvailable makes the service reachable, starting it if needed.
//
// Startup protocol: a healthy instance already bound to the endpoint is
// reused; a bound but unresponsive listener is treated as stale and
// terminated before a fresh start; health is then polled a bounded number
// of times before the service is declared unavailable for this run. The
// run never fails solely because of "address in use" when a working
// service is reachable.
func (g *Gateway) EnsureAvailable(ctx context.Context) error {
	if err := g.ping(ctx); err == nil {
		logger.Debug("Reusing running model service at %s", g.cfg.BaseURL)
		return g.ensureModel(ctx)
	}

	if !g.cfg.AutoStart {
		return fmt.Errorf("%w: service unreachable at %s and auto-start disabled",
			domain.ErrModelUnavailable, g.cfg.BaseURL)
	}

	if g.portOccupied() {
		logger.Warn("Endpoint %s is bound but unresponsive; terminating stale service", g.cfg.BaseURL)
		g.terminateStale()
	}

	if err := g.start(); err != nil {
		return fmt.Errorf("%w: start service: %v", domain.ErrModelUnavailable, err)
	}

	for attempt := 0; attempt < g.cfg.StartupAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", domain.ErrModelUnavailable, ctx.Err())
		case <-time.After(g.cfg.StartupInterval):
		}
		if err := g.ping(ctx); err == nil {
			logger.Info("Model service up after %d poll(s)", attempt+1)
			return g.ensureModel(ctx)
		}
	}

	return fmt.Errorf("%w: service did not become healthy within %d attempts",
		domain.ErrModelUnavailable, g.cfg.StartupAttempts)
}

// Generate produces text completion from a prompt with bounded retries,
// exponential backoff and jitter. Calls are serialised.
func (g *Gateway) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}

	var lastErr error
	for attempt := 0; attempt < g.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(attempt)
			logger.Debug("Retrying model call in %s (attempt %d/%d)", delay, attempt+1, g.cfg.MaxRetries)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", domain.ErrModelUnavailable, ctx.Err())
			case <-time.After(delay):
			}
		}

		text, err := g.generateOnce(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		logger.Debug("Model call attempt %d failed: %v", attempt+1, err)
	}

	if isTimeout(lastErr) {
		return "", fmt.Errorf("%w: %v", domain.ErrModelTimeout, lastErr)
	}
	return "", fmt.Errorf("%w: %v", domain.ErrModelUnavailable, lastErr)
}

// Shutdown stops a service process this gateway started. A reused
// external instance is left running.
func (g *Gateway) Shutdown() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.proc == nil || g.proc.Process == nil {
		return nil
	}
	if err := g.proc.Process.Kill(); err != nil {
		return fmt.Errorf("stop model service: %w", err)
	}
	_ = g.proc.Wait()
	g.proc = nil
	return nil
}

// generateOnce performs a single /api/generate call with the per-request
// timeout.
func (g *Gateway) generateOnce(ctx context.Context, prompt string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, g.cfg.RequestTimeout)
	defer cancel()

	reqBody := generateRequest{
		Model:  g.cfg.Model,
		Prompt: prompt,
		Stream: false,
		Options: &options{
			NumPredict:  500,
			Temperature: 0.1,
			Stop:        []string{"```"},
		},
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		reqCtx,
		http.MethodPost,
		g.cfg.BaseURL+"/api/generate",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return "", fmt.Errorf("ollama error (status %d): failed to read response", resp.StatusCode)
		}
		return "", fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return strings.TrimSpace(genResp.Response), nil
}

// ping validates the service is reachable by checking the /api/tags
// endpoint. Lightweight: no inference runs.
func (g *Gateway) ping(ctx context.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, g.cfg.BaseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama: API returned status %d", resp.StatusCode)
	}
	return nil
}

// ensureModel checks that the configured model is present, pulling it when
// missing.
func (g *Gateway) ensureModel(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: list models: %v", domain.ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return fmt.Errorf("%w: decode model list: %v", domain.ErrModelUnavailable, err)
	}
	for _, m := range tags.Models {
		if m.Name == g.cfg.Model {
			return nil
		}
	}

	logger.Info("Model %s not found locally; pulling", g.cfg.Model)
	return g.pull(ctx)
}

// pull downloads the configured model. Pulls can take a long time, so the
// request honours only the caller's context, not the per-request timeout.
func (g *Gateway) pull(ctx context.Context) error {
	jsonBody, err := json.Marshal(pullRequest{Name: g.cfg.Model, Stream: false})
	if err != nil {
		return fmt.Errorf("%w: marshal pull request: %v", domain.ErrModelUnavailable, err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		g.cfg.BaseURL+"/api/pull",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // no timeout; bounded by ctx
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: pull model: %v", domain.ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: pull returned status %d", domain.ErrModelUnavailable, resp.StatusCode)
	}
	logger.Info("Pulled model %s", g.cfg.Model)
	return nil
}

// start launches "ollama serve" detached, with OLLAMA_HOST pointing at the
// configured endpoint.
func (g *Gateway) start() error {
	cmd := exec.Command("ollama", "serve")
	cmd.Env = append(os.Environ(), "OLLAMA_HOST="+g.hostPort())
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return err
	}
	g.proc = cmd
	logger.Info("Started model service (pid %d)", cmd.Process.Pid)
	return nil
}

// portOccupied reports whether something is listening on the configured
// endpoint, healthy or not.
func (g *Gateway) portOccupied() bool {
	conn, err := net.DialTimeout("tcp", g.hostPort(), time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// terminateStale best-effort kills an unresponsive service occupying the
// endpoint. Failure is tolerated; the subsequent start will surface any
// lingering bind conflict through the health poll.
func (g *Gateway) terminateStale() {
	if err := exec.Command("pkill", "-f", "ollama serve").Run(); err != nil {
		logger.Debug("pkill stale service: %v", err)
	}
	time.Sleep(2 * time.Second)
}

// hostPort extracts host:port from the configured base URL.
func (g *Gateway) hostPort() string {
	u, err := url.Parse(g.cfg.BaseURL)
	if err != nil || u.Host == "" {
		return "127.0.0.1:11434"
	}
	return u.Host
}

// backoffDelay computes the exponential backoff with jitter for the given
// attempt number (1-based for delays).
func backoffDelay(attempt int) time.Duration {
	delay := backoffBase << (attempt - 1)
	if delay > backoffCap {
		delay = backoffCap
	}
	jitter := time.Duration(rand.Int63n(int64(delay) / 2))
	return delay + jitter
}

// isTimeout reports whether the error chain ends in a deadline expiry.
func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
