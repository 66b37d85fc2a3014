package handlers

import (
	"errors"
	"log/slog"
	"time"

	"fileshare-api/internal/requests"
	"fileshare-api/internal/responses"
	"fileshare-api/internal/services"
	"fileshare-api/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/kerimovok/go-pkg-utils/httpx"
)

// DownloadPathPrefix is the route prefix under which files are downloaded by id
const DownloadPathPrefix = "/api/download/"

// DownloadURL returns the download link for a file id
func DownloadURL(id string) string {
	return DownloadPathPrefix + id
}

// FileHandler handles file-related HTTP requests
type FileHandler struct {
	fileService *services.FileService
	logger      *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService *services.FileService, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		logger:      logger.With(slog.String("component", "file_handler")),
	}
}

// UploadFile handles file upload requests
func (h *FileHandler) UploadFile(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		response := httpx.BadRequest("No file provided", err)
		return httpx.SendResponse(c, response)
	}

	files := form.File["file"]
	if len(files) == 0 {
		response := httpx.BadRequest("No file provided", services.ErrNoFile)
		return httpx.SendResponse(c, response)
	}
	if len(files) > 1 {
		response := httpx.BadRequest("Only one file per upload is allowed", services.ErrMultipleFiles)
		return httpx.SendResponse(c, response)
	}
	file := files[0]

	src, err := file.Open()
	if err != nil {
		h.logger.Error("failed to open multipart file", slog.String("error", err.Error()))
		response := httpx.InternalServerError("Failed to process file upload", err)
		return httpx.SendResponse(c, response)
	}
	defer src.Close()

	record, err := h.fileService.Upload(c.UserContext(), services.UploadInput{
		Reader:           src,
		Name:             file.Filename,
		DeclaredSize:     file.Size,
		DeclaredMimeType: file.Header.Get(fiber.HeaderContentType),
	})
	if err != nil {
		return h.sendError(c, err, "Internal server error during file upload")
	}

	return c.Status(fiber.StatusOK).JSON(responses.NewUploadResponse(record))
}

// GetFileInfo returns file metadata
func (h *FileHandler) GetFileInfo(c *fiber.Ctx) error {
	record, err := h.fileService.GetFile(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.sendError(c, err, "Failed to fetch file")
	}

	return c.JSON(responses.NewFileInfoResponse(record))
}

// DownloadFile streams the file contents as an attachment
func (h *FileHandler) DownloadFile(c *fiber.Ctx) error {
	download, err := h.fileService.OpenDownload(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.sendError(c, err, "Failed to download file")
	}

	record := download.Record
	c.Set(fiber.HeaderContentDisposition, utils.ContentDisposition(record.Name))
	c.Set(fiber.HeaderContentType, record.MimeType)
	if record.Checksum != "" {
		c.Set(fiber.HeaderETag, `"`+record.Checksum+`"`)
	}

	// fasthttp closes the file once the body has been written
	return c.SendStream(download.File, int(download.Size))
}

// VerifyPin resolves a PIN to its file
func (h *FileHandler) VerifyPin(c *fiber.Ctx) error {
	var input requests.VerifyPinRequest
	if err := c.BodyParser(&input); err != nil {
		response := httpx.BadRequest("Invalid request body", err)
		return httpx.SendResponse(c, response)
	}

	record, err := h.fileService.VerifyPin(c.UserContext(), input.Pin)
	if err != nil {
		return h.sendError(c, err, "Internal server error")
	}

	return c.JSON(responses.NewVerifyPinResponse(record, DownloadURL(record.ID)))
}

// sendError maps service errors to HTTP responses
func (h *FileHandler) sendError(c *fiber.Ctx, err error, internalMessage string) error {
	switch {
	case errors.Is(err, services.ErrFileNotFound), errors.Is(err, services.ErrBlobMissing):
		return httpx.SendResponse(c, httpx.NotFound(err.Error()))

	case errors.Is(err, services.ErrInvalidPin),
		errors.Is(err, services.ErrNoFile),
		errors.Is(err, services.ErrMultipleFiles),
		errors.Is(err, services.ErrBlockedFileType),
		errors.Is(err, services.ErrMimeTypeNotAllowed):
		return httpx.SendResponse(c, httpx.BadRequest(err.Error(), err))

	case errors.Is(err, services.ErrFileTooLarge):
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, err.Error())

	default:
		return httpx.SendResponse(c, httpx.InternalServerError(internalMessage, err))
	}
}

// ErrorHandler renders errors that escape handlers (body limit, unknown routes, rate limits)
// in the same envelope as handler errors
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if !errors.As(err, &fiberErr) {
		return httpx.SendResponse(c, httpx.InternalServerError("Internal server error", err))
	}

	return httpx.SendResponse(c, httpx.Response{
		Success:   false,
		Message:   fiberErr.Message,
		Status:    fiberErr.Code,
		Timestamp: time.Now(),
	})
}
