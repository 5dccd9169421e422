package controller

import (
	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IStudyNotesController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
}

type studyNotesController struct {
	studyNotesService service.IStudyNotesService
}

func NewStudyNotesController(studyNotesService service.IStudyNotesService) IStudyNotesController {
	return &studyNotesController{
		studyNotesService: studyNotesService,
	}
}

func (c *studyNotesController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/study-notes/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("generate", c.Generate)
}

func (c *studyNotesController) Generate(ctx *fiber.Ctx) error {
	if _, err := serverutils.UserIdFromContext(ctx); err != nil {
		return err
	}

	var req dto.GenerateStudyNotesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.studyNotesService.Generate(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate study notes", res))
}
