package nightscout

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/justmara/ns-sync/internal/logging"
)

const (
	requestTimeout = 60 * time.Second
	retryCount     = 1

	// platformTimeout bounds requests that otherwise leave timing to the
	// transport.
	platformTimeout = 60 * time.Second
)

// Request is a single HTTP exchange with the remote store.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte

	// Timeout bounds one attempt; zero leaves the transport default.
	Timeout time.Duration
	// AllowConstrained permits metered or low-data network paths.
	// Transports without such a notion ignore it.
	AllowConstrained bool
}

type Response struct {
	StatusCode int
	Body       []byte
}

// Transport executes a request. It returns an error only when no response
// was received; status codes are left to the caller.
type Transport interface {
	Execute(ctx context.Context, req *Request) (*Response, error)
}

// RestyTransport is the default Transport.
type RestyTransport struct {
	client *resty.Client
}

func NewRestyTransport(client *resty.Client) *RestyTransport {
	if client == nil {
		client = resty.New()
	}
	return &RestyTransport{client: client}
}

func (t *RestyTransport) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	r := t.client.R().SetContext(ctx)
	for name, values := range req.Header {
		for _, v := range values {
			r.Header.Add(name, v)
		}
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode(), Body: resp.Body()}, nil
}

// policy is the per-operation transport policy.
type policy struct {
	retries          int
	timeout          time.Duration
	allowConstrained bool
}

var (
	retried  = policy{retries: retryCount, timeout: requestTimeout}
	oneShot  = policy{retries: 0, timeout: requestTimeout}
	platform = policy{retries: 0, timeout: platformTimeout, allowConstrained: true}
)

// invoke runs req under p, retrying immediately on any failure until the
// retry budget is spent. It returns the body of the first 2xx response.
func invoke(ctx context.Context, t Transport, log logging.Logger, req *Request, p policy) ([]byte, error) {
	req.Timeout = p.timeout
	req.AllowConstrained = p.allowConstrained
	log = log.With("request_id", uuid.NewString(), "method", req.Method, "url", req.URL)

	var lastErr error
	for attempt := 0; attempt <= p.retries; attempt++ {
		if attempt > 0 {
			log.Debug(ctx, "retrying request", "attempt", attempt+1, "err", lastErr)
		}
		resp, err := t.Execute(ctx, req)
		switch {
		case err != nil:
			lastErr = fmt.Errorf("%w: %v", ErrTransport, err)
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			lastErr = &StatusError{StatusCode: resp.StatusCode, Body: resp.Body}
		default:
			log.Debug(ctx, "request succeeded", "status", resp.StatusCode, "attempt", attempt+1)
			return resp.Body, nil
		}
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}
