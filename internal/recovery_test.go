package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSafeGo_RecoversPanic(t *testing.T) {
	done := make(chan struct{})
	safeGo("panicky", func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("goroutine did not finish")
	}
}

func TestSafeGo_RunsFunction(t *testing.T) {
	ran := make(chan bool, 1)
	safeGo("plain", func() { ran <- true })
	assert.True(t, <-ran)
}
