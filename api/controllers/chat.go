package controllers

import (
	"net/http"

	"github.com/suvai/freshmart-backend/api/middleware"
	"github.com/suvai/freshmart-backend/api/responses"
	"github.com/suvai/freshmart-backend/api/validators"
	chatsvc "github.com/suvai/freshmart-backend/internal/chat"
	"github.com/suvai/freshmart-backend/pkg/enums"
	pkgerrors "github.com/suvai/freshmart-backend/pkg/errors"
	"github.com/suvai/freshmart-backend/pkg/geo"
	"github.com/suvai/freshmart-backend/pkg/logger"
)

// ChatSession returns (and on first contact creates) the client's chat
// session, including welcome messages.
func ChatSession(svc chatsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		info, err := svc.Session(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, info)
	}
}

type sendMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

// ChatSendMessage processes one user message through the chat pipeline.
func ChatSendMessage(svc chatsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		var payload sendMessageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reply, err := svc.SendMessage(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.Message)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, reply)
	}
}

type locationReportRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	ErrorCode string   `json:"error_code"`
}

// ChatLocation records either a client position or a geolocation failure.
func ChatLocation(svc chatsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		var payload locationReportRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clientID := middleware.SessionIDFromContext(r.Context())

		if payload.ErrorCode != "" {
			code, err := enums.ParseGeolocationError(payload.ErrorCode)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid error code"))
				return
			}
			reply, err := svc.ReportLocationFailure(r.Context(), clientID, code)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, reply)
			return
		}

		if payload.Latitude == nil || payload.Longitude == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "either coordinates or an error code is required"))
			return
		}

		reply, err := svc.SetLocation(r.Context(), clientID, geo.Point{
			Latitude:  *payload.Latitude,
			Longitude: *payload.Longitude,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, reply)
	}
}
