package routes

import (
	"errors"
	"net/http"

	"github.com/docquery/factgraph/internal/db"
	"github.com/docquery/factgraph/internal/server/middleware"
	"github.com/docquery/factgraph/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GetDocumentsHandler lists all documents with their ingestion status.
func GetDocumentsHandler(c echo.Context) error {
	type getDocumentsResponse struct {
		Message   string        `json:"message"`
		Documents []db.Document `json:"documents,omitempty"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	q := db.New(app.DBConn)
	docs, err := q.ListDocuments(ctx)
	if err != nil {
		logger.Error("Failed to list documents", "err", err)
		return c.JSON(http.StatusInternalServerError, getDocumentsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getDocumentsResponse{
		Message:   "OK",
		Documents: docs,
	})
}

// GetDocumentHandler returns one document by its public ID.
func GetDocumentHandler(c echo.Context) error {
	type getDocumentResponse struct {
		Message  string       `json:"message"`
		Document *db.Document `json:"document,omitempty"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	q := db.New(app.DBConn)
	doc, err := q.GetDocument(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrDocumentNotFound) {
			return c.JSON(http.StatusNotFound, getDocumentResponse{
				Message: "Document not found",
			})
		}
		logger.Error("Failed to get document", "err", err)
		return c.JSON(http.StatusInternalServerError, getDocumentResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getDocumentResponse{
		Message:  "OK",
		Document: doc,
	})
}
