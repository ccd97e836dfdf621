package routes

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/docquery/factgraph/internal/db"
	"github.com/docquery/factgraph/internal/queue"
	"github.com/docquery/factgraph/internal/server/middleware"
	"github.com/docquery/factgraph/internal/storage"
	"github.com/docquery/factgraph/pkg/logger"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// CreateDocumentHandler accepts a document's plain text, parks it in S3 and
// queues it for ingestion. The response returns immediately with the pending
// document; ingestion progress is visible through the document status.
func CreateDocumentHandler(c echo.Context) error {
	type createDocumentBody struct {
		Name string `json:"name" validate:"required"`
		Text string `json:"text" validate:"required"`
	}

	type createDocumentResponse struct {
		Message  string       `json:"message"`
		Document *db.Document `json:"document,omitempty"`
	}

	data := new(createDocumentBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createDocumentResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createDocumentResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	fileID, err := gonanoid.New()
	if err != nil {
		logger.Error("Failed to generate file key", "err", err)
		return c.JSON(http.StatusInternalServerError, createDocumentResponse{
			Message: "Internal server error",
		})
	}

	fileKey, err := storage.PutDocumentText(ctx, app.S3, fileID, strings.NewReader(data.Text))
	if err != nil {
		logger.Error("Failed to upload document text", "err", err)
		return c.JSON(http.StatusInternalServerError, createDocumentResponse{
			Message: "Internal server error",
		})
	}

	q := db.New(app.DBConn)
	doc, err := q.CreateDocument(ctx, data.Name, fileKey)
	if err != nil {
		logger.Error("Failed to create document", "err", err)
		if cleanupErr := storage.DeleteFile(ctx, app.S3, fileKey); cleanupErr != nil {
			logger.Warn("Failed to delete parked document text", "file_key", fileKey, "err", cleanupErr)
		}
		return c.JSON(http.StatusInternalServerError, createDocumentResponse{
			Message: "Internal server error",
		})
	}

	msg := queue.IngestDocumentMsg{
		DocumentID: doc.PublicID,
		FileKey:    fileKey,
		Name:       doc.Name,
	}
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		logger.Error("Failed to marshal ingest message", "err", err)
		return c.JSON(http.StatusInternalServerError, createDocumentResponse{
			Message: "Internal server error",
		})
	}
	if err := queue.PublishFIFO(app.Queue, queue.IngestQueue, msgBytes); err != nil {
		logger.Error("Failed to publish ingest message", "document_id", doc.PublicID, "err", err)
		return c.JSON(http.StatusInternalServerError, createDocumentResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusAccepted, createDocumentResponse{
		Message:  "Document queued for ingestion",
		Document: doc,
	})
}
