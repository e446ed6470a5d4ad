package oauth

import (
	"encoding/json"
	"errors"
	"net/url"

	"github.com/markbates/goth"
	"golang.org/x/oauth2"
)

// fakeProvider is an OAuth2-style provider that accepts code "good".
type fakeProvider struct {
	name string
	user goth.User
}

type fakeSession struct {
	AuthURL string `json:"auth_url"`
	Code    string `json:"code"`
}

func (s *fakeSession) GetAuthURL() (string, error) { return s.AuthURL, nil }

func (s *fakeSession) Marshal() string {
	raw, _ := json.Marshal(s)
	return string(raw)
}

func (s *fakeSession) Authorize(_ goth.Provider, params goth.Params) (string, error) {
	if params.Get("code") != "good" {
		return "", errors.New("bad code")
	}
	s.Code = params.Get("code")
	return "access-token", nil
}

func (p *fakeProvider) Name() string        { return p.name }
func (p *fakeProvider) SetName(name string) { p.name = name }
func (p *fakeProvider) Debug(bool)          {}

func (p *fakeProvider) BeginAuth(state string) (goth.Session, error) {
	return &fakeSession{AuthURL: "https://provider.test/auth?state=" + url.QueryEscape(state)}, nil
}

func (p *fakeProvider) UnmarshalSession(data string) (goth.Session, error) {
	s := &fakeSession{}
	err := json.Unmarshal([]byte(data), s)
	return s, err
}

func (p *fakeProvider) FetchUser(sess goth.Session) (goth.User, error) {
	if sess.(*fakeSession).Code == "" {
		return goth.User{}, errors.New("not authorized")
	}
	u := p.user
	u.Provider = p.name
	return u, nil
}

func (p *fakeProvider) RefreshToken(string) (*oauth2.Token, error) { return nil, errors.New("unsupported") }
func (p *fakeProvider) RefreshTokenAvailable() bool                { return false }
