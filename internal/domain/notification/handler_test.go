package notification

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(store Store, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	h := NewHandler(newTestService(store))
	RegisterRoutes(r.Group("/api/v1"), h)
	return r
}

func TestHandler_GetNotifications(t *testing.T) {
	store := new(MockStore)
	ref := ReferenceTypeFridgeItem
	refID := int64(5)
	store.On("FindByUser", mock.Anything, int64(1), false, 20, 0).
		Return([]Notification{{
			ID:            3,
			UserID:        1,
			Title:         "🟡 Sữa tươi sắp hết hạn",
			Message:       "m",
			Type:          TypeFridgeExpiry,
			ReferenceType: &ref,
			ReferenceID:   &refID,
			CreatedAt:     time.Now(),
		}}, int64(1), nil)

	r := setupTestRouter(store, 1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool         `json:"success"`
		Data    ListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(1), body.Data.Total)
	require.Len(t, body.Data.Notifications, 1)
	assert.Contains(t, body.Data.Notifications[0].Title, "sắp hết hạn")
}

func TestHandler_GetNotifications_UnreadOnlyAndPaging(t *testing.T) {
	store := new(MockStore)
	store.On("FindByUser", mock.Anything, int64(1), true, 5, 10).
		Return([]Notification{}, int64(0), nil)

	r := setupTestRouter(store, 1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications?unread_only=true&limit=5&offset=10", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}

func TestHandler_GetNotifications_Unauthenticated(t *testing.T) {
	r := setupTestRouter(new(MockStore), 0)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_GetCount(t *testing.T) {
	store := new(MockStore)
	store.On("CountByUser", mock.Anything, int64(1)).Return(int64(4), int64(2), nil)

	r := setupTestRouter(store, 1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/count", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool          `json:"success"`
		Data    CountResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(4), body.Data.Total)
	assert.Equal(t, int64(2), body.Data.Unread)
}

func TestHandler_MarkAsRead(t *testing.T) {
	store := new(MockStore)
	store.On("MarkReadByIDs", mock.Anything, int64(1), []int64{3, 4}, mock.Anything).
		Return(int64(2), nil)

	r := setupTestRouter(store, 1)
	w := httptest.NewRecorder()
	payload, _ := json.Marshal(MarkAsReadRequest{NotificationIDs: []int64{3, 4}})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/mark-read", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data MarkedResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.Data.Marked)
}

func TestHandler_MarkAsRead_EmptyIDsRejected(t *testing.T) {
	r := setupTestRouter(new(MockStore), 1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/mark-read", bytes.NewReader([]byte(`{"notification_ids":[]}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_MarkAllAsRead(t *testing.T) {
	store := new(MockStore)
	store.On("MarkAllRead", mock.Anything, int64(1), mock.Anything).Return(int64(3), nil)

	r := setupTestRouter(store, 1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/mark-all-read", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_DeleteNotification_NotFound(t *testing.T) {
	store := new(MockStore)
	store.On("DeleteByIDAndUser", mock.Anything, int64(99), int64(1)).Return(int64(0), nil)

	r := setupTestRouter(store, 1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/notifications/99", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_DeleteNotification_InvalidID(t *testing.T) {
	r := setupTestRouter(new(MockStore), 1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/notifications/abc", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_DeleteNotification_OK(t *testing.T) {
	store := new(MockStore)
	store.On("DeleteByIDAndUser", mock.Anything, int64(7), int64(1)).Return(int64(1), nil)

	r := setupTestRouter(store, 1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/notifications/7", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
