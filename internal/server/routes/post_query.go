package routes

import (
	"net/http"

	"github.com/docquery/factgraph/internal/server/middleware"
	"github.com/docquery/factgraph/pkg/logger"
	"github.com/docquery/factgraph/pkg/retrieval"
	"github.com/docquery/factgraph/pkg/triple"

	"github.com/labstack/echo/v4"
)

// QueryHandler retrieves the facts relevant to a query within the selected
// documents. An empty fact list with no_matching_facts set means the graph
// genuinely holds nothing for the query; it is never the product of
// over-aggressive filtering.
func QueryHandler(c echo.Context) error {
	type queryBody struct {
		Query       string   `json:"query" validate:"required"`
		DocumentIDs []string `json:"document_ids"`
	}

	type queryResponse struct {
		Message         string          `json:"message"`
		Facts           []triple.Triple `json:"facts"`
		NoMatchingFacts bool            `json:"no_matching_facts"`
	}

	data := new(queryBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, queryResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, queryResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	scope := triple.NewScope(data.DocumentIDs...)
	facts, err := app.Retriever.Retrieve(ctx, data.Query, scope)
	if err != nil {
		if retrieval.IsStoreError(err) {
			logger.Error("Graph store unavailable", "err", err)
			return c.JSON(http.StatusServiceUnavailable, queryResponse{
				Message: "Fact graph unavailable, try again",
			})
		}
		logger.Error("Retrieval failed", "err", err)
		return c.JSON(http.StatusInternalServerError, queryResponse{
			Message: "Internal server error",
		})
	}

	if facts == nil {
		facts = []triple.Triple{}
	}

	return c.JSON(http.StatusOK, queryResponse{
		Message:         "OK",
		Facts:           facts,
		NoMatchingFacts: len(facts) == 0,
	})
}
