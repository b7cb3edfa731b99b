package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/thejerf/suture/v4"
)

func newSupervisor(logger *slog.Logger) *suture.Supervisor {
	return suture.New("winsnap", suture.Spec{
		EventHook: eventHook(logger),
	})
}

func eventHook(logger *slog.Logger) suture.EventHook {
	return func(ei suture.Event) {
		switch e := ei.(type) {
		case suture.EventStopTimeout:
			logger.Info("service failed to terminate in a timely manner", "supervisor", e.SupervisorName, "service", e.ServiceName)
		case suture.EventServicePanic:
			logger.Warn("caught a service panic", "service", e.ServiceName, "panic", e.PanicMsg)
			logger.Debug(e.Stacktrace)
		case suture.EventServiceTerminate:
			logger.Error("service failed", "error", e.Err, "supervisor", e.SupervisorName, "service", e.ServiceName)
		case suture.EventBackoff:
			logger.Debug("too many service failures, entering backoff", "supervisor", e.SupervisorName)
		case suture.EventResume:
			logger.Debug("exiting backoff state", "supervisor", e.SupervisorName)
		default:
			b, _ := json.Marshal(e)
			logger.Warn("unknown supervisor event", "type", int(e.Type()), "event", string(b))
		}
	}
}

// service is a named suture.Service.
type service interface {
	String() string
	suture.Service
}

type serviceFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func newServiceFunc(name string, fn func(ctx context.Context) error) serviceFunc {
	return serviceFunc{name: name, fn: fn}
}

func (s serviceFunc) String() string { return s.name }

func (s serviceFunc) Serve(ctx context.Context) error { return s.fn(ctx) }

func add(sup *suture.Supervisor, svc service) suture.ServiceToken {
	return sup.Add(sanitized{service: svc})
}

type sanitized struct {
	service
}

func (s sanitized) Serve(ctx context.Context) error {
	return sanitizeError(ctx, s.service.Serve(ctx))
}

// sanitizeError keeps a service's own context errors from being read as a
// supervisor shutdown: suture stops restarting a service that returns one.
func sanitizeError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var errs []error
	if errors.Is(err, suture.ErrDoNotRestart) {
		errs = append(errs, suture.ErrDoNotRestart)
	}
	if errors.Is(err, suture.ErrTerminateSupervisorTree) {
		errs = append(errs, suture.ErrTerminateSupervisorTree)
	}
	errs = append(errs, errors.New(err.Error()))
	return errors.Join(errs...)
}
