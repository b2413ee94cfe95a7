package server_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"pagebuilder/internal/server"
)

func TestHub_EmitWithoutClients(t *testing.T) {
	hub := server.NewHub(nil)
	assert.NotPanics(t, func() { hub.Emit(context.Background(), "page:changed", nil) })
	assert.Equal(t, 0, hub.Clients())
	hub.Close()
	hub.Close()
}
