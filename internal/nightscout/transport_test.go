package nightscout

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justmara/ns-sync/internal/logging"
)

func TestInvoke_RetriesOnceThenSucceeds(t *testing.T) {
	tr := &scriptedTransport{outcomes: []outcome{
		{err: errors.New("connection reset")},
		{resp: &Response{StatusCode: http.StatusOK, Body: []byte("[]")}},
	}}

	body, err := invoke(context.Background(), tr, logging.Nop(), &Request{Method: http.MethodGet}, retried)

	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))
	assert.Len(t, tr.calls, 2)
	assert.Equal(t, requestTimeout, tr.calls[0].Timeout)
	assert.False(t, tr.calls[0].AllowConstrained)
}

func TestInvoke_RetryBudgetExhausted(t *testing.T) {
	tr := &scriptedTransport{outcomes: []outcome{
		{resp: &Response{StatusCode: http.StatusBadGateway, Body: []byte("down")}},
	}}

	_, err := invoke(context.Background(), tr, logging.Nop(), &Request{Method: http.MethodGet}, retried)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
	assert.Equal(t, "down", string(se.Body))
	assert.ErrorIs(t, err, ErrProtocol)
	assert.Len(t, tr.calls, 2)
}

func TestInvoke_TransportFailureClassified(t *testing.T) {
	tr := &scriptedTransport{outcomes: []outcome{{err: context.DeadlineExceeded}}}

	_, err := invoke(context.Background(), tr, logging.Nop(), &Request{}, oneShot)

	assert.ErrorIs(t, err, ErrTransport)
	assert.Len(t, tr.calls, 1)
}

func TestInvoke_PlatformPolicy(t *testing.T) {
	tr := &scriptedTransport{outcomes: []outcome{{resp: &Response{StatusCode: http.StatusInternalServerError}}}}

	_, err := invoke(context.Background(), tr, logging.Nop(), &Request{}, platform)

	assert.ErrorIs(t, err, ErrProtocol)
	require.Len(t, tr.calls, 1)
	assert.Equal(t, platformTimeout, tr.calls[0].Timeout)
	assert.True(t, tr.calls[0].AllowConstrained)
}

func TestInvoke_StopsRetryingWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tr := &scriptedTransport{outcomes: []outcome{{err: context.Canceled}}}

	_, err := invoke(ctx, tr, logging.Nop(), &Request{}, retried)

	assert.ErrorIs(t, err, ErrTransport)
	assert.Len(t, tr.calls, 1)
}

func TestRestyTransport_TimeoutIsTransportError(t *testing.T) {
	remote := newFakeRemote(t)
	remote.router.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})

	tr := NewRestyTransport(nil)
	_, err := tr.Execute(context.Background(), &Request{
		Method:  http.MethodGet,
		URL:     remote.server.URL + "/slow",
		Timeout: 50 * time.Millisecond,
	})
	require.Error(t, err)
}

func TestRestyTransport_PassesHeadersAndBody(t *testing.T) {
	remote := newFakeRemote(t)
	remote.on(http.MethodPost, "/echo", reply{status: http.StatusCreated, body: `{"ok":true}`})

	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set(SecretHeader, "digest")
	resp, err := NewRestyTransport(nil).Execute(context.Background(), &Request{
		Method: http.MethodPost,
		URL:    remote.server.URL + "/echo?find[x][$eq]=1",
		Header: h,
		Body:   []byte(`{"a":1}`),
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))

	got := remote.recorded()
	require.Len(t, got, 1)
	assert.Equal(t, "find[x][$eq]=1", got[0].RawQuery)
	assert.Equal(t, "digest", got[0].Header.Get(SecretHeader))
	assert.Equal(t, "application/json", got[0].Header.Get("Content-Type"))
	assert.JSONEq(t, `{"a":1}`, string(got[0].Body))
}
