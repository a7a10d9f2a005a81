package main

import (
	"sync"

	"lazuli/internal/crash"
)

func lockedSession(next func(path string) *crash.Handler) func(path string) *crash.Handler {
	var mu sync.Mutex
	return func(path string) *crash.Handler {
		mu.Lock()
		defer mu.Unlock()
		return next(path)
	}
}
