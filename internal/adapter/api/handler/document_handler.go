package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"lexvault/internal/domain/repository"
	"lexvault/internal/usecase"
	"lexvault/pkg/errors"
	"lexvault/pkg/logger"
	"lexvault/pkg/response"
	"lexvault/pkg/utils"
)

type DocumentHandler struct {
	documentUseCase *usecase.DocumentUseCase
}

func NewDocumentHandler(documentUseCase *usecase.DocumentUseCase) *DocumentHandler {
	return &DocumentHandler{
		documentUseCase: documentUseCase,
	}
}

func getUserIDFromContext(c echo.Context) string {
	if uid, ok := c.Get("uid").(string); ok {
		return uid
	}
	return ""
}

func (h *DocumentHandler) Upload(c echo.Context) error {
	logger.Debug("Starting document upload handler")

	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	file, err := c.FormFile("file")
	if err != nil {
		logger.Error("Error getting file from form: %v", err)
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	src, err := file.Open()
	if err != nil {
		logger.Error("Error opening file: %v", err)
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		logger.Error("Error reading file: %v", err)
		return response.Error(c, errors.Internal("Unable to read file", err))
	}

	opts := usecase.UploadOptions{
		UploaderID:   userID,
		CaseID:       c.FormValue("case_id"),
		ClientID:     c.FormValue("client_id"),
		Category:     c.FormValue("category"),
		Description:  c.FormValue("description"),
		ScanForVirus: formBool(c, "scan", true),
		Encrypt:      formBool(c, "encrypt", false),
		Confidential: formBool(c, "confidential", false),
	}

	if tagsJSON := c.FormValue("tags"); tagsJSON != "" {
		var tags []string
		if err := json.Unmarshal([]byte(tagsJSON), &tags); err != nil {
			return response.Error(c, errors.Validation("Invalid tags format, expected a JSON array of strings", err))
		}
		opts.Tags = tags
	}

	contentType := file.Header.Get("Content-Type")

	result, err := h.documentUseCase.UploadDocument(c.Request().Context(), data, file.Filename, contentType, opts)
	if err != nil {
		if result != nil && result.ScanResult != nil {
			return response.ErrorWithDetails(c, err, result.ScanResult)
		}
		return response.Error(c, err)
	}

	return response.Created(c, result)
}

type presignRequest struct {
	Filename    string   `json:"filename" validate:"required"`
	ContentType string   `json:"content_type" validate:"required"`
	CaseID      string   `json:"case_id"`
	ClientID    string   `json:"client_id"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func (h *DocumentHandler) Presign(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	var req presignRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.documentUseCase.GetPresignedUploadURL(c.Request().Context(), req.Filename, req.ContentType, usecase.UploadOptions{
		UploaderID:  userID,
		CaseID:      req.CaseID,
		ClientID:    req.ClientID,
		Category:    req.Category,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, result)
}

func (h *DocumentHandler) Confirm(c echo.Context) error {
	userID := getUserIDFromContext(c)
	documentID := c.Param("id")
	if documentID == "" {
		return response.Error(c, errors.BadRequest("Document ID is required", nil))
	}

	result, err := h.documentUseCase.ConfirmUpload(c.Request().Context(), userID, documentID)
	if err != nil {
		if result != nil {
			return response.ErrorWithDetails(c, err, result)
		}
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *DocumentHandler) List(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	pagination := utils.GetPaginationParams(c)
	filter := repository.DocumentFilter{
		CaseID:   c.QueryParam("case_id"),
		ClientID: c.QueryParam("client_id"),
	}

	docs, total, err := h.documentUseCase.ListDocuments(c.Request().Context(), userID, filter, pagination.PageSize, pagination.Offset)
	if err != nil {
		logger.Error("Failed to list documents: %v", err)
		return response.Error(c, err)
	}

	return response.Paginated(c, docs, total, pagination.Page, pagination.PageSize)
}

func (h *DocumentHandler) Get(c echo.Context) error {
	userID := getUserIDFromContext(c)
	documentID := c.Param("id")
	if documentID == "" {
		return response.Error(c, errors.BadRequest("Document ID is required", nil))
	}

	doc, err := h.documentUseCase.GetDocument(c.Request().Context(), userID, documentID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, doc)
}

func (h *DocumentHandler) Download(c echo.Context) error {
	userID := getUserIDFromContext(c)
	documentID := c.Param("id")
	if documentID == "" {
		return response.Error(c, errors.BadRequest("Document ID is required", nil))
	}

	inline, _ := strconv.ParseBool(c.QueryParam("inline"))

	result, err := h.documentUseCase.GetDownloadURL(c.Request().Context(), userID, documentID, inline)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

type updateRequest struct {
	Description  *string  `json:"description"`
	Category     *string  `json:"category"`
	Tags         []string `json:"tags"`
	CaseID       *string  `json:"case_id"`
	ClientID     *string  `json:"client_id"`
	Confidential *bool    `json:"confidential"`
}

func (h *DocumentHandler) Update(c echo.Context) error {
	userID := getUserIDFromContext(c)
	documentID := c.Param("id")
	if documentID == "" {
		return response.Error(c, errors.BadRequest("Document ID is required", nil))
	}

	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	doc, err := h.documentUseCase.UpdateMetadata(c.Request().Context(), userID, documentID, usecase.MetadataUpdate{
		Description:  req.Description,
		Category:     req.Category,
		Tags:         req.Tags,
		CaseID:       req.CaseID,
		ClientID:     req.ClientID,
		Confidential: req.Confidential,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, doc)
}

func (h *DocumentHandler) Delete(c echo.Context) error {
	userID := getUserIDFromContext(c)
	documentID := c.Param("id")
	if documentID == "" {
		return response.Error(c, errors.BadRequest("Document ID is required", nil))
	}

	hard, _ := strconv.ParseBool(c.QueryParam("hard"))

	if err := h.documentUseCase.DeleteDocument(c.Request().Context(), userID, documentID, hard); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Document deleted successfully",
	})
}

// Decrypt accepts an encrypted blob and returns the plaintext. Restricted
// to admins at the router; intended for recovery and audit workflows.
func (h *DocumentHandler) Decrypt(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	encrypted, err := io.ReadAll(src)
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}

	plaintext, err := h.documentUseCase.DecryptFile(encrypted, c.FormValue("secret"))
	if err != nil {
		return response.Error(c, err)
	}

	return c.Blob(http.StatusOK, "application/octet-stream", plaintext)
}

func formBool(c echo.Context, name string, defaultValue bool) bool {
	raw := c.FormValue(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
