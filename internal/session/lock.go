package session

import "context"

// Token is the exclusive action token. User actions take it with TryAcquire
// and fail fast; wallet events wait for it with Acquire.
type Token struct {
	ch chan struct{}
}

func NewToken() *Token {
	return &Token{ch: make(chan struct{}, 1)}
}

func (t *Token) TryAcquire() bool {
	select {
	case t.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

func (t *Token) Acquire(ctx context.Context) error {
	select {
	case t.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Token) Release() {
	select {
	case <-t.ch:
	default:
		panic("session: release of unheld token")
	}
}

func (t *Token) Held() bool {
	return len(t.ch) == 1
}
