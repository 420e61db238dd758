package hashsvc

import (
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"xdao.co/epcis/canon"
	"xdao.co/epcis/storage"
)

// toStatus maps library errors to gRPC status. Canonicalization errors keep
// their rule id as a message prefix so clients can tell them apart.
func toStatus(err error) *status.Status {
	if st, ok := status.FromError(err); ok {
		return st
	}
	var ce *canon.Error
	switch {
	case errors.As(err, &ce):
		if ce.Kind == canon.KindInternal {
			return status.New(codes.Internal, err.Error())
		}
		return status.New(codes.InvalidArgument, ce.RuleID+": "+err.Error())
	case storage.IsNotFound(err):
		return status.New(codes.NotFound, storage.ErrNotFound.Error())
	case errors.Is(err, storage.ErrInvalidCID):
		return status.New(codes.InvalidArgument, err.Error())
	case errors.Is(err, storage.ErrCIDMismatch), errors.Is(err, storage.ErrImmutable):
		return status.New(codes.DataLoss, err.Error())
	default:
		return status.New(codes.Internal, err.Error())
	}
}

// fromRPC turns a status error from the service back into the sentinel the
// server started from, where one exists.
func fromRPC(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.NotFound:
		return storage.ErrNotFound
	case codes.DataLoss:
		if strings.Contains(st.Message(), storage.ErrImmutable.Error()) {
			return storage.ErrImmutable
		}
		return storage.ErrCIDMismatch
	default:
		return err
	}
}

// RuleID returns the canonicalization rule id carried by an InvalidArgument
// error from the service, or "".
func RuleID(err error) string {
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.InvalidArgument {
		return ""
	}
	id, _, found := strings.Cut(st.Message(), ": ")
	if !found || !strings.HasPrefix(id, "EPCIS-") {
		return ""
	}
	return id
}
