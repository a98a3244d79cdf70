package handlers_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foodcourt-labs/order-platform/internal/api/handlers"
	appErrors "github.com/foodcourt-labs/order-platform/internal/errors"
	"github.com/foodcourt-labs/order-platform/internal/testutils"
	"github.com/foodcourt-labs/order-platform/internal/utils/response"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProfileHandlerSavePushToken(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockProfiles := new(mockProfileRepository)
		handler := handlers.NewProfileHandler(mockProfiles)
		userID := uuid.New()

		body := []byte(`{"token": "ExponentPushToken[abc123]"}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPut, "/api/v1/profiles/push-token", bytes.NewReader(body), userID, nil)
		recorder := httptest.NewRecorder()

		mockProfiles.On("SavePushToken", mock.Anything, userID, "ExponentPushToken[abc123]").Return(nil).Once()

		// Act
		handler.SavePushToken()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		mockProfiles.AssertExpectations(t)
	})

	t.Run("Failure - Missing Token", func(t *testing.T) {
		// Arrange
		mockProfiles := new(mockProfileRepository)
		handler := handlers.NewProfileHandler(mockProfiles)

		body := []byte(`{}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPut, "/api/v1/profiles/push-token", bytes.NewReader(body), uuid.New(), nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.SavePushToken()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockProfiles.AssertNotCalled(t, "SavePushToken", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Unknown Profile", func(t *testing.T) {
		// Arrange
		mockProfiles := new(mockProfileRepository)
		handler := handlers.NewProfileHandler(mockProfiles)
		userID := uuid.New()

		body := []byte(`{"token": "ExponentPushToken[abc123]"}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPut, "/api/v1/profiles/push-token", bytes.NewReader(body), userID, nil)
		recorder := httptest.NewRecorder()

		mockProfiles.On("SavePushToken", mock.Anything, userID, "ExponentPushToken[abc123]").
			Return(sql.ErrNoRows).Once()

		// Act
		handler.SavePushToken()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, appErrors.ErrCodeNotFound, resp.Error.Code)
		mockProfiles.AssertExpectations(t)
	})

	t.Run("Failure - Repository Error", func(t *testing.T) {
		// Arrange
		mockProfiles := new(mockProfileRepository)
		handler := handlers.NewProfileHandler(mockProfiles)
		userID := uuid.New()

		body := []byte(`{"token": "ExponentPushToken[abc123]"}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPut, "/api/v1/profiles/push-token", bytes.NewReader(body), userID, nil)
		recorder := httptest.NewRecorder()

		mockProfiles.On("SavePushToken", mock.Anything, userID, "ExponentPushToken[abc123]").
			Return(errors.New("connection refused")).Once()

		// Act
		handler.SavePushToken()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, appErrors.ErrCodeDatabaseError, resp.Error.Code)
		mockProfiles.AssertExpectations(t)
	})

	t.Run("Failure - Unauthorized", func(t *testing.T) {
		// Arrange
		mockProfiles := new(mockProfileRepository)
		handler := handlers.NewProfileHandler(mockProfiles)

		body := []byte(`{"token": "ExponentPushToken[abc123]"}`)
		req := testutils.CreateTestRequestWithoutContext(http.MethodPut, "/api/v1/profiles/push-token", bytes.NewReader(body), nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.SavePushToken()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		mockProfiles.AssertNotCalled(t, "SavePushToken", mock.Anything, mock.Anything, mock.Anything)
	})
}
