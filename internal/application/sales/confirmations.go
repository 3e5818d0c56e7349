package sales

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Comisiones-api/internal/domain"
)

// pendingDelete intención de exclusión a la espera de confirmación.
type pendingDelete struct {
	saleID      string
	insuredName string
	expiresAt   time.Time
}

// confirmations registro de tokens de un solo uso para la exclusión en dos pasos.
type confirmations struct {
	mu      sync.Mutex
	ttl     time.Duration
	pending map[string]pendingDelete
}

func newConfirmations(ttl time.Duration) *confirmations {
	return &confirmations{ttl: ttl, pending: map[string]pendingDelete{}}
}

// issue registra la intención y devuelve el token.
func (c *confirmations) issue(saleID, insuredName string, now time.Time) (string, pendingDelete) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for tok, p := range c.pending {
		if !now.Before(p.expiresAt) {
			delete(c.pending, tok)
		}
	}
	tok := uuid.NewString()
	p := pendingDelete{saleID: saleID, insuredName: insuredName, expiresAt: now.Add(c.ttl)}
	c.pending[tok] = p
	return tok, p
}

// take consume el token. Un token usado o cancelado deja de existir.
func (c *confirmations) take(token string, now time.Time) (pendingDelete, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pending[token]
	if !ok {
		return pendingDelete{}, domain.ErrConfirmationNotFound
	}
	delete(c.pending, token)
	if !now.Before(p.expiresAt) {
		return pendingDelete{}, domain.ErrConfirmationExpired
	}
	return p, nil
}

// cancel descarta el token.
func (c *confirmations) cancel(token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.pending[token]; !ok {
		return domain.ErrConfirmationNotFound
	}
	delete(c.pending, token)
	return nil
}
