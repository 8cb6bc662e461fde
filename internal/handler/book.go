package handler

import (
	"net/http"

	"github.com/aman-churiwal/book-manager/internal/models"
	"github.com/aman-churiwal/book-manager/internal/service"
	"github.com/aman-churiwal/book-manager/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookHandler struct {
	service *service.BookService
}

func NewBookHandler(service *service.BookService) *BookHandler {
	return &BookHandler{service: service}
}

func (h *BookHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	books, err := h.service.List(ctx)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	if books == nil {
		books = []models.Book{}
	}

	c.JSON(http.StatusOK, books)
}

func (h *BookHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Book not found")
		return
	}

	ctx := c.Request.Context()
	book, err := h.service.Get(ctx, id)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	if book == nil {
		respondError(c, http.StatusNotFound, "Book not found")
		return
	}

	c.JSON(http.StatusOK, book)
}

func (h *BookHandler) Create(c *gin.Context) {
	payload, err := validation.Decode(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Request body is not valid JSON")
		return
	}

	in, errs := validation.Validate(validation.Create, payload)
	if errs != nil {
		respondValidationError(c, errs)
		return
	}

	ctx := c.Request.Context()
	book, err := h.service.Create(ctx, in)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, book)
}

func (h *BookHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Book not found")
		return
	}

	payload, err := validation.Decode(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Request body is not valid JSON")
		return
	}

	in, errs := validation.Validate(validation.Update, payload)
	if errs != nil {
		respondValidationError(c, errs)
		return
	}

	ctx := c.Request.Context()
	book, err := h.service.Update(ctx, id, in)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	if book == nil {
		respondError(c, http.StatusNotFound, "Book not found")
		return
	}

	c.JSON(http.StatusOK, book)
}

func (h *BookHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Book not found")
		return
	}

	ctx := c.Request.Context()
	deleted, err := h.service.Delete(ctx, id)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	if !deleted {
		respondError(c, http.StatusNotFound, "Book not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// BulkCreate persists a batch of books as a unit: every element is
// validated first and any failure rejects the whole batch.
func (h *BookHandler) BulkCreate(c *gin.Context) {
	payload, err := validation.Decode(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Request body is not valid JSON")
		return
	}

	rawBooks, ok := payload["books"].([]any)
	if !ok || len(rawBooks) == 0 {
		errs := validation.NewErrorSet()
		errs.Add("books", "must be a non-empty array")
		respondValidationError(c, errs)
		return
	}

	inputs := make([]*validation.BookInput, 0, len(rawBooks))
	var indexErrors []gin.H

	for idx, raw := range rawBooks {
		element, ok := raw.(map[string]any)
		if !ok {
			errs := validation.NewErrorSet()
			errs.Add("books", "element must be an object")
			indexErrors = append(indexErrors, gin.H{"index": idx, "details": errs})
			continue
		}

		in, errs := validation.Validate(validation.Create, element)
		if errs != nil {
			indexErrors = append(indexErrors, gin.H{"index": idx, "details": errs})
			continue
		}

		inputs = append(inputs, in)
	}

	if len(indexErrors) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Validation failed",
			"errors": indexErrors,
		})
		return
	}

	ctx := c.Request.Context()
	books, err := h.service.BulkCreate(ctx, inputs)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, books)
}

func (h *BookHandler) BulkDelete(c *gin.Context) {
	payload, err := validation.Decode(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Request body is not valid JSON")
		return
	}

	rawIDs, ok := payload["ids"].([]any)
	if !ok || len(rawIDs) == 0 {
		errs := validation.NewErrorSet()
		errs.Add("ids", "must be a non-empty array of book ids")
		respondValidationError(c, errs)
		return
	}

	ids := make([]uuid.UUID, 0, len(rawIDs))
	errs := validation.NewErrorSet()

	for _, raw := range rawIDs {
		s, ok := raw.(string)
		if !ok {
			errs.Add("ids", "must contain only string ids")
			continue
		}

		id, err := uuid.Parse(s)
		if err != nil {
			errs.Add("ids", "contains an invalid id: "+s)
			continue
		}

		ids = append(ids, id)
	}

	if !errs.Empty() {
		respondValidationError(c, errs)
		return
	}

	ctx := c.Request.Context()
	deleted, err := h.service.BulkDelete(ctx, ids)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
