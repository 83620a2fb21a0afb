package spoadmin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"github.com/spokit/go-spoadmin/internal/api"
)

// errInProgress drives the retry loop while the server still reports an
// incomplete operation.
var errInProgress = errors.New("spoadmin: operation still in progress")

// OperationService refreshes and waits on long-running operation handles.
//
//go:generate mockery --name=OperationService --output=mocks --outpkg=mocks --filename=operation_service.go
type OperationService interface {
	// Refresh re-fetches the handle's fields from the server, mutating op
	// in place. IsComplete only ever changes through this call.
	Refresh(ctx context.Context, op *Operation, opts ...RequestOption) error

	// Wait blocks until the server reports the operation complete. Between
	// polls it sleeps for the handle's server-suggested interval.
	// Connection-closed-class refresh failures are logged and retried; any
	// other error aborts the wait. The wait is bounded by ctx and by
	// WithMaxPolls; exhaustion surfaces as *TimeoutError.
	Wait(ctx context.Context, op *Operation, opts ...WaitOption) error
}

// operationService implements OperationService.
type operationService struct {
	transport *api.Transport
	log       logrus.FieldLogger
}

func newOperationService(transport *api.Transport, log logrus.FieldLogger) *operationService {
	return &operationService{transport: transport, log: log}
}

// Refresh re-fetches the operation handle from the server.
func (s *operationService) Refresh(ctx context.Context, op *Operation, opts ...RequestOption) error {
	if op == nil || op.ID == "" {
		return &ValidationError{
			APIError: APIError{Message: "operation ID cannot be empty"},
		}
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var result Operation
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodGet,
		Path:    fmt.Sprintf("/_admin/operations/%s", url.PathEscape(op.ID)),
		Headers: reqCfg.headers,
	}, &result)

	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusNotFound {
		return &NotFoundError{
			APIError:     APIError{StatusCode: http.StatusNotFound, Message: "operation not found"},
			ResourceType: "operation",
			ResourceURL:  op.ID,
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return parseError(resp.StatusCode, resp.Body, resp.Headers)
	}

	*op = result
	return nil
}

// Wait polls the operation until the server reports completion.
func (s *operationService) Wait(ctx context.Context, op *Operation, opts ...WaitOption) error {
	if op == nil || op.ID == "" {
		return &ValidationError{
			APIError: APIError{Message: "operation ID cannot be empty"},
		}
	}

	// Completion is server-sourced; a handle that already reports complete
	// costs no round-trips.
	if op.IsComplete {
		return nil
	}

	cfg := &waitConfig{}
	cfg.apply(opts...)

	start := time.Now()
	polls := 0

	var pacer backoff.BackOff = &operationPacer{op: op}
	if cfg.maxPolls > 0 {
		pacer = backoff.WithMaxRetries(pacer, uint64(cfg.maxPolls))
	}
	pacer = backoff.WithContext(pacer, ctx)

	err := backoff.Retry(func() error {
		polls++
		if err := s.Refresh(ctx, op); err != nil {
			if IsConnectionClosed(err) {
				// The remote session is routinely torn down once the
				// provisioning side effect lands; keep polling.
				s.log.WithError(err).
					WithField("operation", op.ID).
					Warn("connection closed while polling operation, retrying")
				return errInProgress
			}
			return backoff.Permanent(err)
		}
		if !op.IsComplete {
			return errInProgress
		}
		return nil
	}, pacer)

	if err == nil {
		return nil
	}

	if errors.Is(err, errInProgress) || errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{
			OperationID: op.ID,
			Polls:       polls,
			Elapsed:     time.Since(start),
			Err:         err,
		}
	}

	return err
}

// operationPacer paces the retry loop with the interval the server reports
// on the handle. The server owns the cadence; the client never substitutes
// its own.
type operationPacer struct {
	op *Operation
}

func (p *operationPacer) NextBackOff() time.Duration {
	return p.op.Interval()
}

func (p *operationPacer) Reset() {}
