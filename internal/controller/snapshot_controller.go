package controller

import (
	"errors"
	"io"
	"strings"

	"mondichat-be/internal/dto"
	"mondichat-be/internal/pkg/serverutils"
	"mondichat-be/internal/service"
	"mondichat-be/pkg/reconciler"

	"github.com/gofiber/fiber/v2"
)

type ISnapshotController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	AssignRoute(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type snapshotController struct {
	service service.ISnapshotService
}

func NewSnapshotController(service service.ISnapshotService) ISnapshotController {
	return &snapshotController{service: service}
}

func (c *snapshotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/snapshot/v1")
	h.Post("/upload", c.Upload)
	h.Get("/status", c.Status)
	h.Put("/routes/:user_id", c.AssignRoute)
}

// Upload accepts a multipart "file" field or the raw file as request body.
// The optional "filename" query parameter selects the decoder for raw bodies.
func (c *snapshotController) Upload(ctx *fiber.Ctx) error {
	layout, err := reconciler.ParseLayout(ctx.Query("layout"))
	if err != nil {
		return uploadError(ctx, err)
	}

	filename, data, err := readUpload(ctx)
	if err != nil {
		return uploadError(ctx, err)
	}

	res, err := c.service.Upload(ctx.UserContext(), filename, data, layout)
	if err != nil {
		var malformed *reconciler.MalformedUploadError
		if errors.As(err, &malformed) {
			return uploadError(ctx, err)
		}
		return err
	}

	return ctx.JSON(res)
}

func readUpload(ctx *fiber.Ctx) (string, []byte, error) {
	if strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			return "", nil, &reconciler.MalformedUploadError{Reason: "missing file field"}
		}
		f, err := fileHeader.Open()
		if err != nil {
			return "", nil, err
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return "", nil, err
		}
		return fileHeader.Filename, data, nil
	}

	body := ctx.Body()
	if len(body) == 0 {
		return "", nil, &reconciler.MalformedUploadError{Reason: "empty body"}
	}
	// Body() is only valid during the handler; copy it.
	data := make([]byte, len(body))
	copy(data, body)
	return ctx.Query("filename", "upload.csv"), data, nil
}

func uploadError(ctx *fiber.Ctx, err error) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(dto.UploadErrorResponse{Error: err.Error()})
}

func (c *snapshotController) AssignRoute(ctx *fiber.Ctx) error {
	var req dto.AssignRouteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	req.UserId = ctx.Params("user_id")
	req.RouteCode = strings.TrimSpace(req.RouteCode)

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AssignRoute(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Route assigned", res))
}

func (c *snapshotController) Status(ctx *fiber.Ctx) error {
	res, err := c.service.Status(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Snapshot status", res))
}
