package client

import "net/http"

// Authenticator applies credentials to outgoing requests.
type Authenticator interface {
	Apply(req *http.Request)
}

// NoAuth sends requests without credentials.
type NoAuth struct{}

func (NoAuth) Apply(*http.Request) {}

// BearerAuth sends the token in the Authorization header.
type BearerAuth struct {
	Token string
}

func (a BearerAuth) Apply(req *http.Request) {
	if a.Token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+a.Token)
}

// HeaderAuth sends the token verbatim in a custom header.
type HeaderAuth struct {
	Header string
	Token  string
}

func (a HeaderAuth) Apply(req *http.Request) {
	if a.Header == "" || a.Token == "" {
		return
	}
	req.Header.Set(a.Header, a.Token)
}

// AuthFor picks bearer authentication when a token is set.
func AuthFor(token string) Authenticator {
	if token == "" {
		return NoAuth{}
	}
	return BearerAuth{Token: token}
}
