package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/suvai/freshmart-backend/api/middleware"
	"github.com/suvai/freshmart-backend/api/responses"
	chatsvc "github.com/suvai/freshmart-backend/internal/chat"
	"github.com/suvai/freshmart-backend/internal/locator"
	pkgerrors "github.com/suvai/freshmart-backend/pkg/errors"
	"github.com/suvai/freshmart-backend/pkg/logger"
)

// StoresNearby lists all stores ranked by distance from the session's
// location, placeholder distances when none is set.
func StoresNearby(svc locator.Service, chat chatsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || chat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store locator unavailable"))
			return
		}

		info, err := chat.Session(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"location": info.Location,
			"stores":   svc.Nearby(info.Location),
		})
	}
}

// StoresDirections builds a routing URL from the session's location to the
// store.
func StoresDirections(svc locator.Service, chat chatsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || chat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store locator unavailable"))
			return
		}

		storeID, err := strconv.Atoi(chi.URLParam(r, "storeId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id"))
			return
		}

		info, err := chat.Session(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		url, err := svc.DirectionsURL(info.Location, storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, _ := svc.ByID(storeID)
		responses.WriteSuccess(w, map[string]any{
			"store":          store,
			"directions_url": url,
		})
	}
}
