package controllers

import (
	"net/http"

	"github.com/MaxKocheshkov/API-service-for-retail/api/responses"
	"github.com/MaxKocheshkov/API-service-for-retail/api/validators"
	"github.com/MaxKocheshkov/API-service-for-retail/internal/users"
	pkgerrors "github.com/MaxKocheshkov/API-service-for-retail/pkg/errors"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/logger"
)

// AccountInfo returns the authenticated user's profile.
func AccountInfo(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

type updateProfileRequest struct {
	UserName *string `json:"user_name" validate:"omitempty,min=1,max=255"`
	Company  *string `json:"company" validate:"omitempty,max=255"`
	Position *string `json:"position" validate:"omitempty,max=255"`
}

// AccountUpdate applies partial profile changes.
func AccountUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProfileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.UpdateProfile(r.Context(), userID, users.UpdateProfileDTO{
			UserName: body.UserName,
			Company:  body.Company,
			Position: body.Position,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}
