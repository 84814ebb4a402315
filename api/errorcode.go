package api

import "github.com/bitmark-inc/wayfarer-api/store"

var (
	errorMessageMap = map[int64]string{
		999:  "internal server error",
		1000: "invalid signature",
		1001: "invalid authorization format",
		1002: "difference between the request time and the current time is too large",
		1003: "invalid token",

		1010: "invalid parameters",
		1011: "cannot parse request",

		1100: store.ErrInvalidAlertType.Error(),
		1101: store.ErrInvalidAlertSeverity.Error(),

		1200: store.ErrNoBaselineSnapshot.Error(),
		1201: "baseline analysis failed",

		1300: "scenario check failed",
	}

	errorInternalServer             = errorJSON(999)
	errorInvalidSignature           = errorJSON(1000)
	errorInvalidAuthorizationFormat = errorJSON(1001)
	errorRequestTimeTooSkewed       = errorJSON(1002)
	errorInvalidToken               = errorJSON(1003)

	errorInvalidParameters  = errorJSON(1010)
	errorCannotParseRequest = errorJSON(1011)

	errorInvalidAlertType     = errorJSON(1100)
	errorInvalidAlertSeverity = errorJSON(1101)

	errorNoBaselineSnapshot = errorJSON(1200)
	errorBaselineAnalysis   = errorJSON(1201)

	errorScenarioCheck = errorJSON(1300)
)

type ErrorResponse struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

// errorJSON converts an error code to a standardized error object
func errorJSON(code int64) ErrorResponse {
	var message string
	if msg, ok := errorMessageMap[code]; ok {
		message = msg
	} else {
		message = "unknown"
	}

	return ErrorResponse{
		Code:    code,
		Message: message,
	}
}
