package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/docquery/factgraph/internal/db"
	"github.com/docquery/factgraph/internal/server/middleware"
	"github.com/docquery/factgraph/pkg/logger"
	storepgx "github.com/docquery/factgraph/pkg/store/pgx"
	"github.com/docquery/factgraph/pkg/triple"

	"github.com/labstack/echo/v4"
)

// GetDocumentTriplesHandler returns a slice of a document's fact graph for
// exploration, in extraction order.
func GetDocumentTriplesHandler(c echo.Context) error {
	type getTriplesResponse struct {
		Message string          `json:"message"`
		Total   int64           `json:"total,omitempty"`
		Triples []triple.Triple `json:"triples,omitempty"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	q := db.New(app.DBConn)
	doc, err := q.GetDocument(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrDocumentNotFound) {
			return c.JSON(http.StatusNotFound, getTriplesResponse{
				Message: "Document not found",
			})
		}
		logger.Error("Failed to get document", "err", err)
		return c.JSON(http.StatusInternalServerError, getTriplesResponse{
			Message: "Internal server error",
		})
	}

	limit := 100
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	scope := triple.NewScope(doc.PublicID)
	tripleStore := storepgx.NewTripleStore(app.DBConn)

	total, err := tripleStore.CountTriples(ctx, scope)
	if err != nil {
		logger.Error("Failed to count triples", "document_id", doc.PublicID, "err", err)
		return c.JSON(http.StatusInternalServerError, getTriplesResponse{
			Message: "Internal server error",
		})
	}

	triples, err := tripleStore.SampleTriples(ctx, scope, limit)
	if err != nil {
		logger.Error("Failed to sample triples", "document_id", doc.PublicID, "err", err)
		return c.JSON(http.StatusInternalServerError, getTriplesResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getTriplesResponse{
		Message: "OK",
		Total:   total,
		Triples: triples,
	})
}
