package controller

import (
	"io"

	"notehub-be/internal/dto"
	"notehub-be/internal/pkg/apperror"
	"notehub-be/internal/pkg/serverutils"
	"notehub-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Index(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Share(ctx *fiber.Ctx) error
	ShowShared(ctx *fiber.Ctx) error
	DeleteAttachment(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
	authGuard   fiber.Handler
}

func NewNoteController(noteService service.INoteService, authGuard fiber.Handler) INoteController {
	return &noteController{
		noteService: noteService,
		authGuard:   authGuard,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes")
	// Shared-note access is public and must sit before the auth guard
	h.Get("/share/:shareId", c.ShowShared)
	h.Use(c.authGuard)
	h.Post("", c.Create)
	h.Get("", c.Index)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	h.Post(":id/share", c.Share)
	h.Delete(":id/attachments/:attachmentId", c.DeleteAttachment)
}

func callerId(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

// noteIdParam parses the :id path segment; a malformed id behaves like a
// missing note, matching the original API's cast-error handling.
func noteIdParam(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.NotFound("Note not found")
	}
	return id, nil
}

// readUploadedFiles decodes the files[] part of a multipart request. A
// non-multipart body simply carries no files.
func readUploadedFiles(ctx *fiber.Ctx) ([]*dto.UploadedFile, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, nil
	}

	headers := form.File["files"]
	files := make([]*dto.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, apperror.Validation("could not read uploaded file " + fh.Filename)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, apperror.Validation("could not read uploaded file " + fh.Filename)
		}
		files = append(files, &dto.UploadedFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	userId := callerId(ctx)

	var req dto.CreateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	files, err := readUploadedFiles(ctx)
	if err != nil {
		return err
	}

	res, err := c.noteService.Create(ctx.Context(), userId, &req, files)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create note", res))
}

func (c *noteController) Index(ctx *fiber.Ctx) error {
	userId := callerId(ctx)

	filter := dto.ListNotesFilter{
		Search: ctx.Query("search"),
		Tag:    ctx.Query("tag"),
	}

	res, err := c.noteService.List(ctx.Context(), userId, filter)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessListResponse(len(res), res))
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	userId := callerId(ctx)

	id, err := noteIdParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.noteService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show note", res))
}

func (c *noteController) Update(ctx *fiber.Ctx) error {
	userId := callerId(ctx)

	id, err := noteIdParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	files, err := readUploadedFiles(ctx)
	if err != nil {
		return err
	}

	res, err := c.noteService.Update(ctx.Context(), userId, &req, files)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update note", res))
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	userId := callerId(ctx)

	id, err := noteIdParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.noteService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete note", struct{}{}))
}

func (c *noteController) Share(ctx *fiber.Ctx) error {
	userId := callerId(ctx)

	id, err := noteIdParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.noteService.Share(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessShareResponse(res.ShareLink, res.Note))
}

func (c *noteController) ShowShared(ctx *fiber.Ctx) error {
	shareId := ctx.Params("shareId")

	res, err := c.noteService.ShowShared(ctx.Context(), shareId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show shared note", res))
}

func (c *noteController) DeleteAttachment(ctx *fiber.Ctx) error {
	userId := callerId(ctx)

	noteId, err := noteIdParam(ctx, "id")
	if err != nil {
		return err
	}

	attachmentId, err := uuid.Parse(ctx.Params("attachmentId"))
	if err != nil {
		return apperror.NotFound("Attachment not found")
	}

	res, err := c.noteService.DeleteAttachment(ctx.Context(), userId, noteId, attachmentId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete attachment", res))
}
