package controllers

import (
	"net/http"

	"github.com/suvai/freshmart-backend/api/responses"
	"github.com/suvai/freshmart-backend/api/validators"
	"github.com/suvai/freshmart-backend/internal/catalog"
	"github.com/suvai/freshmart-backend/pkg/enums"
	"github.com/suvai/freshmart-backend/pkg/logger"
)

const maxSearchLength = 200

// ProductsList serves the filtered, sorted storefront catalog view.
func ProductsList(products catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := catalog.Query{
			Search:   validators.SanitizeString(r.URL.Query().Get("search"), maxSearchLength),
			Category: validators.SanitizeString(r.URL.Query().Get("category"), 50),
			Sort:     enums.SortKey(validators.SanitizeString(r.URL.Query().Get("sort"), 50)),
		}

		view, err := products.Filter(query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}
