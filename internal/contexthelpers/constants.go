package contexthelpers

type contextKey string

const operatorIDContextKey = contextKey("operatorID")
const currentPathContextKey = contextKey("currentPath")
const csrfTokenContextKey = contextKey("csrfToken")
const cspNonceContextKey = contextKey("cspNonce")
