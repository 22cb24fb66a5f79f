package contexthelpers

import (
	"context"
)

// OperatorID returns the id of the operator solving puzzles in this request or an empty string.
func OperatorID(ctx context.Context) string {
	operatorID, ok := ctx.Value(operatorIDContextKey).(string)
	if !ok {
		return ""
	}

	return operatorID
}

func CurrentPath(ctx context.Context) string {
	currentPath, ok := ctx.Value(currentPathContextKey).(string)
	if !ok {
		return ""
	}

	return currentPath
}

func CSRFToken(ctx context.Context) string {
	csrfToken, ok := ctx.Value(csrfTokenContextKey).(string)
	if !ok {
		return ""
	}

	return csrfToken
}

func CSPNonce(ctx context.Context) string {
	cspNonce, ok := ctx.Value(cspNonceContextKey).(string)
	if !ok {
		return ""
	}

	return cspNonce
}
