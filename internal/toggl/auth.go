package toggl

import (
	"encoding/base64"
	"net/http"

	"golang.org/x/oauth2"
)

// apiTokenPassword is the fixed password Toggl expects when the API token is
// sent as the Basic auth username.
const apiTokenPassword = "api_token"

// BasicToken encodes an API token as a static Basic credential. The token is
// not validated locally; a bad token shows up as a 403 on the first call.
func BasicToken(apiToken string) *oauth2.Token {
	creds := base64.StdEncoding.EncodeToString([]byte(apiToken + ":" + apiTokenPassword))
	return &oauth2.Token{
		AccessToken: creds,
		TokenType:   "Basic",
	}
}

// Session is the authenticated HTTP client for one run. Close releases its
// pooled connections and must be called on every exit path.
type Session struct {
	*http.Client
	base *http.Transport
}

// NewSession builds the run's HTTP client. No timeout is configured: a hung
// call blocks until the caller's context is cancelled.
func NewSession(apiToken string) *Session {
	base := http.DefaultTransport.(*http.Transport).Clone()
	return &Session{
		Client: &http.Client{
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(BasicToken(apiToken)),
				Base:   base,
			},
		},
		base: base,
	}
}

// Close drops idle keep-alive connections.
func (s *Session) Close() {
	s.base.CloseIdleConnections()
}
