package errors

import (
	"context"
	"errors"
	"net/http"

	"github.com/dl-alexandre/chspool/internal/clickhouse"
	"github.com/dl-alexandre/chspool/internal/logging"
	"github.com/dl-alexandre/chspool/internal/utils"
)

// ClassifyQueryError converts a failed metadata query into an AppError
func ClassifyQueryError(err error, logger logging.Logger) error {
	if err == nil {
		return nil
	}

	var statusErr *clickhouse.StatusError
	if errors.As(err, &statusErr) {
		return classifyStatus(statusErr, logger)
	}

	var reqErr *clickhouse.RequestError
	if errors.As(err, &reqErr) {
		code := utils.ErrCodeNetworkError
		action := "check that the ClickHouse HTTP interface is reachable at --url"
		switch {
		case errors.Is(err, clickhouse.ErrInvalidURL):
			code = utils.ErrCodeInvalidArgument
			action = "pass an absolute http:// or https:// URL to --url"
		case errors.Is(err, context.Canceled):
			code = utils.ErrCodeCancelled
			action = ""
		case errors.Is(err, context.DeadlineExceeded) || reqErr.Timeout():
			code = utils.ErrCodeTimeout
			action = "the server did not answer in time; check its load or network path"
		}
		retryable := code == utils.ErrCodeNetworkError || code == utils.ErrCodeTimeout

		logger.Error("Query request failed",
			logging.F("errorCode", code),
			logging.F("error", reqErr.Err.Error()),
			logging.F("queryId", reqErr.QueryID),
		)
		builder := utils.NewCLIError(code, err.Error()).
			WithRetryable(retryable).
			WithContext("queryId", reqErr.QueryID)
		if action != "" {
			builder.WithContext("suggestedAction", action)
		}
		return utils.WrapAppError(builder.Build(), err)
	}

	logger.Error("Unclassified query error", logging.F("error", err.Error()))
	return utils.WrapAppError(utils.NewCLIError(utils.ErrCodeUnknown, err.Error()).Build(), err)
}

func classifyStatus(statusErr *clickhouse.StatusError, logger logging.Logger) error {
	var code string
	var retryable bool

	switch statusErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		code = utils.ErrCodeAuthFailed
	case http.StatusBadRequest, http.StatusNotFound:
		code = utils.ErrCodeQueryRejected
	case http.StatusTooManyRequests:
		code = utils.ErrCodeServerError
		retryable = true
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		code = utils.ErrCodeServerError
		retryable = true
	default:
		code = utils.ErrCodeUnexpectedStatus
		retryable = statusErr.StatusCode >= 500
	}

	logger.Error("Query rejected by server",
		logging.F("httpStatus", statusErr.StatusCode),
		logging.F("errorCode", code),
		logging.F("retryable", retryable),
		logging.F("queryId", statusErr.QueryID),
		logging.F("serverMessage", statusErr.Body),
	)

	builder := utils.NewCLIError(code, statusErr.Error()).
		WithHTTPStatus(statusErr.StatusCode).
		WithRetryable(retryable).
		WithContext("queryId", statusErr.QueryID)

	if statusErr.Body != "" {
		builder.WithContext("serverMessage", statusErr.Body)
	}

	switch code {
	case utils.ErrCodeAuthFailed:
		builder.WithContext("suggestedAction", "check --config or --keyring-user credentials")
	case utils.ErrCodeQueryRejected:
		builder.WithContext("suggestedAction", "verify --url points at the ClickHouse HTTP interface")
	}

	return utils.WrapAppError(builder.Build(), statusErr)
}
