package push_test

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markmed/fleetman/pkg/logger"
	"github.com/markmed/fleetman/pkg/push"
)

func TestStreamConn(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	conn, err := push.NewStreamConn(rec, time.Second)
	require.NoError(t, err)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

	require.NoError(t, conn.WriteEvent([]byte(`{"id":"n1"}`)))
	require.NoError(t, conn.WriteComment("ping"))
	require.NoError(t, conn.WriteEvent([]byte("a\nb")))

	assert.Equal(t, "data: {\"id\":\"n1\"}\n\n: ping\n\ndata: a\ndata: b\n\n", rec.Body.String())
	assert.True(t, rec.Flushed)

	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close())
	assert.ErrorIs(t, conn.WriteEvent([]byte("late")), push.ErrConnectionClosed)

	select {
	case <-conn.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestHandler(t *testing.T) {
	t.Parallel()

	resolve := func(r *http.Request) (string, error) {
		id := r.Header.Get("X-Account-ID")
		if id == "" {
			return "", errors.New("missing account")
		}
		return id, nil
	}

	t.Run("rejects unresolved account", func(t *testing.T) {
		t.Parallel()
		reg := newRegistry(t)
		h := push.Handler(reg, resolve, push.WithHandlerLogger(logger.Discard()))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, push.Stats{}, reg.Stats())
	})

	t.Run("streams published events", func(t *testing.T) {
		t.Parallel()
		reg := newRegistry(t)
		srv := httptest.NewServer(push.Handler(reg, resolve,
			push.WithWriteTimeout(time.Second),
			push.WithHandlerLogger(logger.Discard()),
		))
		t.Cleanup(srv.Close)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
		require.NoError(t, err)
		req.Header.Set("X-Account-ID", "acc-7")

		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		require.Eventually(t, func() bool { return reg.Stats().TotalConnections == 1 }, time.Second, 5*time.Millisecond)

		assert.Equal(t, 1, reg.Publish(ctx, "acc-7", map[string]string{"messageKey": "hello"}))

		reader := bufio.NewReader(resp.Body)
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		assert.Equal(t, `data: {"messageKey":"hello"}`, strings.TrimSpace(line))

		cancel()
		assert.Eventually(t, func() bool { return reg.Stats().TotalConnections == 0 }, time.Second, 5*time.Millisecond)
	})
}

func TestHeaderResolver(t *testing.T) {
	t.Parallel()

	resolve := push.HeaderResolver("X-Account-ID")

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	_, err := resolve(req)
	assert.ErrorIs(t, err, push.ErrInvalidAccountID)

	req.Header.Set("X-Account-ID", "acc-1")
	id, err := resolve(req)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", id)
}
