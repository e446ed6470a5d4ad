package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/articles"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/usercontext"
)

type ArticleController struct {
	articles *articles.Service
}

func NewArticleController(svc *articles.Service) *ArticleController {
	return &ArticleController{articles: svc}
}

type rateRequest struct {
	Rating int `json:"rating"`
}

// HandleCreate stores a draft article for the caller.
func (ac *ArticleController) HandleCreate(c *fiber.Ctx) error {
	var in articles.CreateInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}

	article, err := ac.articles.Create(c.UserContext(), usercontext.GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "your article has been created successfully", article)
}

func (ac *ArticleController) HandleGet(c *fiber.Ctx) error {
	article, err := ac.articles.Get(c.UserContext(), c.Params("articleId"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Article successfully retrieved", article)
}

func (ac *ArticleController) HandleRate(c *fiber.Ctx) error {
	var in rateRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}

	rated, err := ac.articles.Rate(c.UserContext(), c.Params("articleId"), usercontext.GetUserID(c), in.Rating)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Your rating has been recorded", rated)
}

func (ac *ArticleController) HandleLike(c *fiber.Ctx) error {
	likes, err := ac.articles.Like(c.UserContext(), usercontext.GetUserID(c), c.Params("articleId"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Article has been liked", fiber.Map{"userData": likes})
}

func (ac *ArticleController) HandleUnlike(c *fiber.Ctx) error {
	likes, err := ac.articles.Unlike(c.UserContext(), usercontext.GetUserID(c), c.Params("articleId"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "unlike article successful", fiber.Map{"userData": likes})
}
