package routes

import (
	"errors"
	"net/http"

	"github.com/docquery/factgraph/internal/db"
	"github.com/docquery/factgraph/internal/server/middleware"
	"github.com/docquery/factgraph/internal/storage"
	"github.com/docquery/factgraph/pkg/logger"
	storepgx "github.com/docquery/factgraph/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// DeleteDocumentHandler removes a document, its extracted triples and its
// parked text.
func DeleteDocumentHandler(c echo.Context) error {
	type deleteDocumentResponse struct {
		Message string `json:"message"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	q := db.New(app.DBConn)
	doc, err := q.GetDocument(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrDocumentNotFound) {
			return c.JSON(http.StatusNotFound, deleteDocumentResponse{
				Message: "Document not found",
			})
		}
		logger.Error("Failed to get document", "err", err)
		return c.JSON(http.StatusInternalServerError, deleteDocumentResponse{
			Message: "Internal server error",
		})
	}

	tripleStore := storepgx.NewTripleStore(app.DBConn)
	if err := tripleStore.DeleteDocument(ctx, doc.PublicID); err != nil {
		logger.Error("Failed to delete document triples", "document_id", doc.PublicID, "err", err)
		return c.JSON(http.StatusInternalServerError, deleteDocumentResponse{
			Message: "Internal server error",
		})
	}

	if err := storage.DeleteFile(ctx, app.S3, doc.FileKey); err != nil {
		logger.Warn("Failed to delete parked document text", "document_id", doc.PublicID, "file_key", doc.FileKey, "err", err)
	}

	if err := q.DeleteDocument(ctx, doc.PublicID); err != nil {
		logger.Error("Failed to delete document", "document_id", doc.PublicID, "err", err)
		return c.JSON(http.StatusInternalServerError, deleteDocumentResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, deleteDocumentResponse{
		Message: "Document deleted",
	})
}
