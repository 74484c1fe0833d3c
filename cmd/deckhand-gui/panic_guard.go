package main

import (
	"fmt"

	"fyne.io/fyne/v2"

	"github.com/deckhandapp/deckhand/internal/logger"
)

func withPanicGuard(scope string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Recovered panic", "scope", scope, "panic", fmt.Sprint(r))
		}
	}()
	fn()
}

func safeGo(scope string, fn func()) {
	go func() {
		withPanicGuard(scope, fn)
	}()
}

func safeDo(scope string, fn func()) {
	withPanicGuard(scope+".dispatch", func() {
		fyne.Do(func() {
			withPanicGuard(scope, fn)
		})
	})
}
