package handler

import (
	"google.golang.org/grpc/status"

	"github.com/dtroode/quidalert-auth/internal/apperrors"
)

func handleError(err error) error {
	return status.Error(apperrors.GRPCCode(err), apperrors.Resolve(apperrors.FlowSession, err).Message)
}
