// Package closer закрывает ресурсы приложения при остановке в порядке, обратном регистрации.
package closer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

const defaultGrace = 2 * time.Second

// Func закрывает один ресурс.
type Func func(ctx context.Context) error

type Closer struct {
	mu     sync.Mutex
	funcs  []Func
	closed bool
	grace  time.Duration // сколько ждём ресурсы, не успевшие закрыться до отмены контекста
}

func NewCloser(grace time.Duration) *Closer {
	if grace <= 0 {
		grace = defaultGrace
	}

	return &Closer{grace: grace}
}

// Add регистрирует функцию закрытия. После Close регистрация игнорируется.
func (c *Closer) Add(f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.funcs = append(c.funcs, f)
}

// Close вызывает функции по одной в порядке LIFO. Повторный вызов ничего не делает.
// Если ctx отменяется раньше, оставшиеся функции запускаются параллельно
// с собственным таймаутом grace.
func (c *Closer) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	funcs := slices.Clone(c.funcs)
	c.mu.Unlock()

	var errs []error
	for i := len(funcs) - 1; i >= 0; i-- {
		done := make(chan error, 1)
		go func(f Func) { done <- f(ctx) }(funcs[i])

		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, err)
			}
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("shutdown interrupted with %d of %d resource(s) open: %w", i+1, len(funcs), ctx.Err()))
			errs = append(errs, c.force(funcs[:i+1])...)
			return errors.Join(errs...)
		}
	}

	return errors.Join(errs...)
}

func (c *Closer) force(funcs []Func) []error {
	ctx, cancel := context.WithTimeout(context.Background(), c.grace)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, f := range funcs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("forced: %w", err))
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return errs
}
