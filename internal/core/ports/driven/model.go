package driven

import "context"

// ModelGateway mediates all access to the local generative-model service.
// The service is a shared, single-consumer resource: implementations must
// serialise Generate calls, and the orchestrator never issues them in
// parallel.
//
// Implementations may include:
//   - Ollama (local models)
//   - A stub for tests
type ModelGateway interface {
	// EnsureAvailable makes the service reachable, starting it if needed.
	// It reuses a healthy instance already bound to the endpoint, replaces
	// a stale one, and polls health with a bounded number of attempts.
	// Returns ErrModelUnavailable (wrapped) when the service cannot be
	// brought up within the bound.
	EnsureAvailable(ctx context.Context) error

	// Generate produces text completion from a prompt. Each call carries
	// a bounded per-request timeout and a small number of retries with
	// exponential backoff plus jitter. Exhausted retries return
	// ErrModelUnavailable or ErrModelTimeout (wrapped); callers convert
	// that into the heuristic fallback, never a fatal error.
	Generate(ctx context.Context, prompt string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Shutdown releases resources and stops any service process this
	// gateway started. A reused external instance is left running.
	Shutdown() error
}
