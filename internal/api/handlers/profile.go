package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/foodcourt-labs/order-platform/internal/api/middleware"
	apperrors "github.com/foodcourt-labs/order-platform/internal/errors"
	"github.com/foodcourt-labs/order-platform/internal/models"
	repository "github.com/foodcourt-labs/order-platform/internal/repositories"
	"github.com/foodcourt-labs/order-platform/internal/utils"
	"github.com/foodcourt-labs/order-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type ProfileHandler struct {
	profileRepo repository.ProfileRepository
	validator   *validator.Validate
}

func NewProfileHandler(profileRepo repository.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{profileRepo: profileRepo, validator: validator.New()}
}

// SavePushToken registers the caller's device token; a refresh overwrites the
// previous one, each profile holds at most one.
func (h *ProfileHandler) SavePushToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.SavePushTokenRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		if err := h.profileRepo.SavePushToken(r.Context(), claims.UserID, req.Token); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				logger.Warn("Push token refused, profile does not exist")
				response.Error(w, apperrors.NotFoundError("Profile not found").WithError(err))
				return
			}

			logger.Error("Failed to save push token", slog.Any("error", err))
			response.Error(w, apperrors.DatabaseError("Failed to save push token").WithError(err))
			return
		}

		logger.Info("Push token saved")
		response.Success(w, http.StatusOK, map[string]bool{"saved": true})
	}
}
