package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/comments"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/usercontext"
)

type CommentController struct {
	comments *comments.Service
}

func NewCommentController(svc *comments.Service) *CommentController {
	return &CommentController{comments: svc}
}

func (cc *CommentController) HandleCreate(c *fiber.Ctx) error {
	var in comments.Input
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}

	comment, err := cc.comments.Create(c.UserContext(), c.Params("articleId"), usercontext.GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "Comment has been created", comment)
}

// HandleReply adds a threaded comment below commentId.
func (cc *CommentController) HandleReply(c *fiber.Ctx) error {
	var in comments.Input
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}

	reply, err := cc.comments.Reply(c.UserContext(), c.Params("articleId"), c.Params("commentId"), usercontext.GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "Reply has been created", reply)
}
