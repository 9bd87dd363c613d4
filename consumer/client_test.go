package consumer

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noba/transaction-intake/config"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient(config.ConsumerDirectoryConfig{Url: "http://consumers.internal", TimeoutSec: 5})
	httpmock.ActivateNonDefault(c.client)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestGetActiveConsumer(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, "http://consumers.internal/v1/consumers/cons_123",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, Consumer{
			ID:     "cons_123",
			Tag:    "$jdoe",
			Status: StatusActive,
		}))

	got, err := c.GetActiveConsumer(context.Background(), "cons_123")
	require.NoError(t, err)
	assert.Equal(t, "cons_123", got.ID)
	assert.Equal(t, "$jdoe", got.Tag)
}

func TestGetActiveConsumer_NotFound(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, "http://consumers.internal/v1/consumers/missing",
		httpmock.NewStringResponder(http.StatusNotFound, "no such consumer"))

	_, err := c.GetActiveConsumer(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrConsumerNotFound)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestGetActiveConsumer_InactiveTreatedAsNotFound(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, "http://consumers.internal/v1/consumers/cons_locked",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, Consumer{
			ID:     "cons_locked",
			Status: "LOCKED",
		}))

	_, err := c.GetActiveConsumer(context.Background(), "cons_locked")
	assert.ErrorIs(t, err, ErrConsumerNotFound)
}

func TestGetActiveConsumer_TagEscaped(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, "http://consumers.internal/v1/consumers/$jdoe",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, Consumer{
			ID:     "cons_123",
			Tag:    "$jdoe",
			Status: StatusActive,
		}))

	got, err := c.GetActiveConsumer(context.Background(), "$jdoe")
	require.NoError(t, err)
	assert.Equal(t, "cons_123", got.ID)
}
