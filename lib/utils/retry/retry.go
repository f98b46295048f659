package retry

import (
	"context"
	"time"

	"github.com/googleapis/gax-go/v2"
)

// Policy параметры повторов: число попыток и экспоненциальная задержка между ними
type Policy struct {
	Attempts int
	Backoff  gax.Backoff
}

func NewPolicy(attempts int, initial, max time.Duration) Policy {
	if attempts < 1 {
		attempts = 1
	}
	return Policy{
		Attempts: attempts,
		Backoff: gax.Backoff{
			Initial:    initial,
			Max:        max,
			Multiplier: 2,
		},
	}
}

// Do выполняет fn, повторяя её пока isRetryable(err) и не исчерпаны попытки.
// Возвращает последнюю ошибку fn либо ошибку контекста, если он завершился во время паузы.
func Do(ctx context.Context, policy Policy, isRetryable func(error) bool, fn func(ctx context.Context) error) error {
	bo := policy.Backoff
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; ; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= attempts || !isRetryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(bo.Pause()):
		}
	}
}
