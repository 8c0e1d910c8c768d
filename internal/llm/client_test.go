package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOllamaClientDefaults(t *testing.T) {
	c, err := NewOllamaClient(Config{})
	require.NoError(t, err)

	assert.Equal(t, "ollama/"+DefaultModel, c.ModelName())
	assert.Equal(t, DefaultHost, c.config.Host)
	assert.Equal(t, DefaultTimeout, c.timeout)
}

func TestOllamaClientUnreachable(t *testing.T) {
	c, err := NewOllamaClient(Config{Host: "http://127.0.0.1:1", Timeout: 1})
	require.NoError(t, err)

	assert.Error(t, c.Ping(context.Background()))
	_, err = c.Complete(context.Background(), "hello")
	assert.Error(t, err)
}
