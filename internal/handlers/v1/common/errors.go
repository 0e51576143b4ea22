// Package common holds the pieces every v1 handler shares: error mapping,
// bearer token parsing and the ledger response models.
package common

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/wallet-server/internal/apperr"
	"github.com/carson-networks/wallet-server/internal/logging"
)

const internalErrorMessage = "internal error"

// ToHumaError maps an operation failure to its problem response. Causes of
// unexpected failures go to the request log, never to the client.
func ToHumaError(ctx context.Context, err error) error {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = &apperr.Error{Kind: apperr.KindUnexpected, Message: internalErrorMessage, Err: err}
	}

	switch appErr.Kind {
	case apperr.KindValidation:
		details := make([]error, len(appErr.Violations))
		for i, v := range appErr.Violations {
			details[i] = &huma.ErrorDetail{Location: "body." + v.Field, Message: v.Reason}
		}
		return huma.NewError(http.StatusBadRequest, appErr.Message, details...)
	case apperr.KindUnauthorized:
		return huma.NewError(http.StatusUnauthorized, appErr.Message)
	case apperr.KindNotFound:
		return huma.NewError(http.StatusNotFound, appErr.Message)
	case apperr.KindConflict:
		return huma.NewError(http.StatusConflict, appErr.Message)
	default:
		if appErr.Err != nil {
			logging.GetLogData(ctx).AddData("error", appErr.Err.Error())
		}
		return huma.NewError(http.StatusInternalServerError, internalErrorMessage)
	}
}
