package controllers

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/apperror"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/auth"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/oauth"
	appsession "github.com/ManuelReschke/AuthorsHaven/internal/pkg/session"
)

const oauthSessionKeyPrefix = "oauth_"

type OAuthController struct {
	providers *oauth.Providers
	auth      *auth.Service
	sessions  *session.Store
}

func NewOAuthController(providers *oauth.Providers, svc *auth.Service, sessions *session.Store) *OAuthController {
	return &OAuthController{providers: providers, auth: svc, sessions: sessions}
}

// HandleBegin redirects to the provider's consent page.
func (oc *OAuthController) HandleBegin(c *fiber.Ctx) error {
	name := c.Params("provider")
	provider, err := oc.providers.Get(name)
	if err != nil {
		return respondError(c, apperror.NewNotFoundError("Unknown provider"))
	}

	authURL, marshalled, err := oauth.Begin(provider)
	if err != nil {
		return respondError(c, apperror.NewInternalError("An error occurred", err))
	}
	if err := appsession.SetSessionValue(oc.sessions, c, oauthSessionKeyPrefix+name, marshalled); err != nil {
		return respondError(c, apperror.NewInternalError("An error occurred", err))
	}
	return c.Redirect(authURL, fiber.StatusTemporaryRedirect)
}

// HandleCallback finishes the provider flow and logs the user in, creating the account on first use.
func (oc *OAuthController) HandleCallback(c *fiber.Ctx) error {
	name := c.Params("provider")
	provider, err := oc.providers.Get(name)
	if err != nil {
		return respondError(c, apperror.NewNotFoundError("Unknown provider"))
	}

	key := oauthSessionKeyPrefix + name
	marshalled := appsession.GetSessionValue(oc.sessions, c, key)
	if marshalled == "" {
		return respondError(c, apperror.NewBadRequestError("OAuth session not found", errors.New("missing session")))
	}
	if err := appsession.DeleteSessionValue(oc.sessions, c, key); err != nil {
		log.Warnf("[OAuth] failed to clear session for %s: %v", name, err)
	}

	params := url.Values{}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		params.Add(string(k), string(v))
	})

	user, err := oauth.Complete(provider, marshalled, params)
	if err != nil {
		return respondError(c, apperror.NewBadRequestError("OAuth failed", err))
	}

	sess, created, err := oc.auth.SocialLogin(c.UserContext(), oauth.ToProfile(user))
	if err != nil {
		return respondError(c, err)
	}
	if created {
		return respond(c, fiber.StatusCreated,
			"You have successfully registered however you would need to check your mail to verify your account",
			fiber.Map{"token": sess.Token})
	}
	return respond(c, fiber.StatusOK, "You have successfully logged in", sess)
}
