package common

import "strings"

// SecurityScheme is the OpenAPI security scheme name of bearer tokens.
const SecurityScheme = "bearer"

// BearerSecurity marks an operation as requiring a bearer token.
var BearerSecurity = []map[string][]string{{SecurityScheme: {}}}

// BearerToken extracts the token from an Authorization header value. Any
// other scheme yields an empty token, which never authenticates.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
