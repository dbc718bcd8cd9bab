package readmecat

import "strings"

// Placeholder is one parsed {{service:param}} token.
type Placeholder struct {
	// Token is the literal text between the braces, unparsed.
	Token string

	// Service selects the provider, e.g. "github".
	Service string

	// Param is everything after the first colon. Its shape is owned by the
	// provider; the github provider splits it further on commas.
	Param string
}

// ParsePlaceholder splits a token into its service and parameter halves at
// the first colon. Later colons belong to the parameter. A token without a
// colon parses as a bare service name with an empty parameter, which no
// provider accepts, so it degrades down the unknown-service path instead of
// being rejected up front.
func ParsePlaceholder(token string) Placeholder {
	service, param, _ := strings.Cut(token, ":")
	return Placeholder{
		Token:   token,
		Service: service,
		Param:   param,
	}
}
