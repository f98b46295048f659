package helpers

import (
	"context"
	"strings"
)

func IsContextDone(ctx context.Context) bool {
	if ctx == nil {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return false
}

// NormalizeKey ключ для сравнения без учета регистра и лишних пробелов
func NormalizeKey(value string) string {
	return strings.ToLower(strings.Join(strings.Fields(value), " "))
}
