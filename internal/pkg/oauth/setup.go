// Package oauth builds the social login providers and drives the
// provider round trip without goth's global registry.
package oauth

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/markbates/goth"
	"github.com/markbates/goth/providers/facebook"
	"github.com/markbates/goth/providers/google"
	"github.com/markbates/goth/providers/twitter"

	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/auth"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/env"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/shortener"
)

var ErrUnknownProvider = errors.New("unknown provider")

// Credentials for a single provider. Providers without a key are not registered.
type Credentials struct {
	Key    string
	Secret string
}

type Config struct {
	// BaseURL is the public origin the callbacks are served from
	BaseURL  string
	Facebook Credentials
	Twitter  Credentials
	Google   Credentials
}

// ConfigFromEnv reads PUBLIC_DOMAIN and the *_KEY/*_SECRET pairs.
func ConfigFromEnv() Config {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	if base == "" {
		base = "http://localhost:" + env.GetEnv("APP_PORT", "8080")
	}
	return Config{
		BaseURL:  base,
		Facebook: Credentials{env.GetEnv("FACEBOOK_KEY", ""), env.GetEnv("FACEBOOK_SECRET", "")},
		Twitter:  Credentials{env.GetEnv("TWITTER_KEY", ""), env.GetEnv("TWITTER_SECRET", "")},
		Google:   Credentials{env.GetEnv("GOOGLE_KEY", ""), env.GetEnv("GOOGLE_SECRET", "")},
	}
}

// CallbackURL returns the redirect target registered with the provider.
func CallbackURL(base, provider string) string {
	return fmt.Sprintf("%s/api/v1/users/auth/%s/callback", strings.TrimRight(base, "/"), provider)
}

// Providers is an injected provider registry.
type Providers struct {
	byName map[string]goth.Provider
}

// NewProviders builds the configured providers.
func NewProviders(cfg Config) *Providers {
	p := &Providers{byName: map[string]goth.Provider{}}

	if cfg.Facebook.Key != "" {
		p.Register(facebook.New(cfg.Facebook.Key, cfg.Facebook.Secret, CallbackURL(cfg.BaseURL, "facebook"), "email", "public_profile"))
	}
	if cfg.Twitter.Key != "" {
		p.Register(twitter.New(cfg.Twitter.Key, cfg.Twitter.Secret, CallbackURL(cfg.BaseURL, "twitter")))
	}
	if cfg.Google.Key != "" {
		p.Register(google.New(cfg.Google.Key, cfg.Google.Secret, CallbackURL(cfg.BaseURL, "google"), "email", "profile"))
	}

	if len(p.byName) == 0 {
		log.Warn("[OAuth] no social login providers configured")
	}
	return p
}

func (p *Providers) Register(provider goth.Provider) {
	p.byName[provider.Name()] = provider
}

func (p *Providers) Get(name string) (goth.Provider, error) {
	provider, ok := p.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return provider, nil
}

func (p *Providers) Names() []string {
	names := make([]string, 0, len(p.byName))
	for name := range p.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Begin starts the provider flow. The returned session must be kept until the callback.
func Begin(provider goth.Provider) (authURL, marshalled string, err error) {
	state, err := shortener.GenerateSecureSlug(32)
	if err != nil {
		return "", "", err
	}
	sess, err := provider.BeginAuth(state)
	if err != nil {
		return "", "", fmt.Errorf("begin auth: %w", err)
	}
	authURL, err = sess.GetAuthURL()
	if err != nil {
		return "", "", fmt.Errorf("auth url: %w", err)
	}
	return authURL, sess.Marshal(), nil
}

// Complete validates the callback against the stored session and fetches the user.
func Complete(provider goth.Provider, marshalled string, params url.Values) (goth.User, error) {
	sess, err := provider.UnmarshalSession(marshalled)
	if err != nil {
		return goth.User{}, fmt.Errorf("restore session: %w", err)
	}
	if err := validateState(sess, params.Get("state")); err != nil {
		return goth.User{}, err
	}
	if _, err := sess.Authorize(provider, params); err != nil {
		return goth.User{}, fmt.Errorf("authorize: %w", err)
	}
	return provider.FetchUser(sess)
}

// validateState only applies to providers that put a state into their auth URL (OAuth2).
func validateState(sess goth.Session, got string) error {
	rawAuthURL, err := sess.GetAuthURL()
	if err != nil {
		return err
	}
	authURL, err := url.Parse(rawAuthURL)
	if err != nil {
		return err
	}
	if want := authURL.Query().Get("state"); want != "" && want != got {
		return errors.New("state token mismatch")
	}
	return nil
}

// ToProfile maps a provider user onto the account service's profile.
func ToProfile(u goth.User) auth.SocialProfile {
	first, last := u.FirstName, u.LastName
	if first == "" && last == "" && u.Name != "" {
		parts := strings.SplitN(u.Name, " ", 2)
		first = parts[0]
		if len(parts) == 2 {
			last = parts[1]
		}
	}
	return auth.SocialProfile{
		Provider:  u.Provider,
		ID:        u.UserID,
		Email:     u.Email,
		FirstName: first,
		LastName:  last,
		NickName:  u.NickName,
		AvatarURL: u.AvatarURL,
	}
}
