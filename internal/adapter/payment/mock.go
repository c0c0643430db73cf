package payment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/niksmo/choco-shop/internal/core/domain"
	"github.com/niksmo/choco-shop/internal/core/port"
)

var _ port.PaymentGateway = (*MockGateway)(nil)

// MockGateway is the in-process payment terminal used for demos
// and local development. Sessions live in memory and settle through
// [MockGateway.Settle].
type MockGateway struct {
	terminalURL string

	mu       sync.Mutex
	sessions map[string]domain.PaymentOutcome
}

// NewMockGateway returns a terminal whose session URLs are
// terminalURL followed by the session id.
func NewMockGateway(terminalURL string) *MockGateway {
	return &MockGateway{
		terminalURL: strings.TrimRight(terminalURL, "/") + "/",
		sessions:    make(map[string]domain.PaymentOutcome),
	}
}

func (g *MockGateway) CreateSession(
	ctx context.Context, o domain.Order,
) (domain.PaymentSession, error) {
	const op = "MockGateway.CreateSession"

	if err := ctx.Err(); err != nil {
		return domain.PaymentSession{}, fmt.Errorf("%s: %w", op, err)
	}

	id := "mock_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	g.mu.Lock()
	g.sessions[id] = ""
	g.mu.Unlock()

	slog.With("op", op).Info(
		"mock session opened", "orderID", o.ID, "sessionID", id,
	)
	return domain.PaymentSession{ID: id, URL: g.terminalURL + id}, nil
}

func (g *MockGateway) SessionOutcome(
	ctx context.Context, sessionID string,
) (domain.PaymentOutcome, error) {
	const op = "MockGateway.SessionOutcome"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	g.mu.Lock()
	outcome, ok := g.sessions[sessionID]
	g.mu.Unlock()

	if !ok {
		return "", fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	if outcome == "" {
		return "", fmt.Errorf("%s: %w", op, domain.ErrPaymentPending)
	}
	return outcome, nil
}

// Settle sets the outcome the shopper picked on the terminal page.
// A settled session keeps its first outcome.
func (g *MockGateway) Settle(sessionID string, outcome domain.PaymentOutcome) error {
	const op = "MockGateway.Settle"

	if !outcome.Valid() {
		err := domain.ValidationError{
			Field: "outcome", Reason: "must be succeeded or failed",
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	current, ok := g.sessions[sessionID]
	switch {
	case !ok:
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case current == "":
		g.sessions[sessionID] = outcome
		return nil
	case current != outcome:
		return fmt.Errorf("%s: session already settled: %w", op, domain.ErrConflict)
	}
	return nil
}
