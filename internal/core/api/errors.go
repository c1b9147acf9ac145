package api

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/solatis/displayrules/internal/types"
)

// statusFromError maps page context load failures to gRPC status.
// Unknown queried objects map to NOT_FOUND.
// Context timeouts map to DEADLINE_EXCEEDED, cancellation to CANCELED.
// Remaining catalog errors map to UNAVAILABLE.
func statusFromError(err error) error {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Unavailable, err.Error())
	}
}
