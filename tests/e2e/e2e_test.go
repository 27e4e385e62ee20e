package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"smartgrocery/internal/database"
	"smartgrocery/internal/domain"
	"smartgrocery/internal/domain/notification"
	"smartgrocery/internal/middleware"
	jwtsvc "smartgrocery/internal/pkg/jwt"
	"smartgrocery/internal/push"
	"smartgrocery/internal/repository"
	"smartgrocery/internal/scheduler"
)

type E2ETestSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwtsvc.Service

	family *domain.Family
	lan    *domain.User
	minh   *domain.User
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	db, err := database.Connect(fmt.Sprintf("file:e2e_%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err, "Failed to connect to test database")

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Family{},
		&domain.FamilyMember{},
		&domain.FridgeItem{},
		&notification.Notification{},
	))

	zlog := zap.NewNop()

	memberRepo := repository.NewFamilyMemberRepository(db)
	fridgeRepo := repository.NewFridgeItemRepository(db)
	notifRepo := notification.NewRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)

	notifService := notification.NewService(notifRepo, zlog)
	notifHandler := notification.NewHandler(notifService)

	dispatcher := push.NewMulti(zlog)
	sched := scheduler.New(fridgeRepo, memberRepo, notifService, dispatcher, zlog)
	schedHandler := scheduler.NewHandler(sched)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	protected := v1.Group("/")
	protected.Use(middleware.Auth(jwtService))
	{
		notification.RegisterRoutes(protected, notifHandler)
		scheduler.RegisterRoutes(protected, schedHandler)
	}

	suite := &E2ETestSuite{
		router:     r,
		db:         db,
		jwtService: jwtService,
	}
	suite.seed(t)
	return suite
}

// seed creates one family of two members and fridge items spread around
// the expiry thresholds.
func (s *E2ETestSuite) seed(t *testing.T) {
	s.lan = &domain.User{Username: "lan", Email: "lan@example.com", PasswordHash: "x", FullName: "Nguyễn Thị Lan"}
	s.minh = &domain.User{Username: "minh", Email: "minh@example.com", PasswordHash: "x", FullName: "Nguyễn Văn Minh"}
	require.NoError(t, s.db.Create(s.lan).Error)
	require.NoError(t, s.db.Create(s.minh).Error)

	s.family = &domain.Family{Name: "Gia đình Nguyễn", InviteCode: "GDN123", CreatedBy: s.lan.ID}
	require.NoError(t, s.db.Create(s.family).Error)

	require.NoError(t, s.db.Create(&domain.FamilyMember{
		FamilyID: s.family.ID, UserID: s.lan.ID, Role: domain.FamilyRoleLeader,
	}).Error)
	require.NoError(t, s.db.Create(&domain.FamilyMember{
		FamilyID: s.family.ID, UserID: s.minh.ID, Role: domain.FamilyRoleMember,
	}).Error)

	day := func(offset int) *time.Time {
		now := time.Now().UTC()
		d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
		return &d
	}

	items := []domain.FridgeItem{
		{FamilyID: s.family.ID, ProductName: "Sữa tươi", Quantity: 2, ExpirationDate: day(1), Status: domain.FridgeItemActive, AddedBy: s.lan.ID},
		{FamilyID: s.family.ID, ProductName: "Thịt bò", Quantity: 1, ExpirationDate: day(2), Status: domain.FridgeItemActive, AddedBy: s.lan.ID},
		{FamilyID: s.family.ID, ProductName: "Đậu hũ", Quantity: 3, ExpirationDate: day(-1), Status: domain.FridgeItemActive, AddedBy: s.minh.ID},
		{FamilyID: s.family.ID, ProductName: "Trứng gà", Quantity: 10, ExpirationDate: day(14), Status: domain.FridgeItemActive, AddedBy: s.lan.ID},
	}
	for i := range items {
		require.NoError(t, s.db.Create(&items[i]).Error)
	}
}

func (s *E2ETestSuite) token(t *testing.T, u *domain.User) string {
	token, err := s.jwtService.GenerateToken(u.ID, string(u.Role))
	require.NoError(t, err)
	return token
}

func (s *E2ETestSuite) request(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, TestResponse) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp TestResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestE2E_RequiresAuthentication(t *testing.T) {
	suite := setupTestSuite(t)

	w, resp := suite.request(t, http.MethodGet, "/api/v1/notifications", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestE2E_ExpiryScanFansOutToFamily(t *testing.T) {
	suite := setupTestSuite(t)
	lanToken := suite.token(t, suite.lan)
	minhToken := suite.token(t, suite.minh)

	w, _ := suite.request(t, http.MethodPost, "/api/v1/notifications/jobs/check-expiring", lanToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// two items inside the 3-day window, both members notified
	for _, token := range []string{lanToken, minhToken} {
		w, resp := suite.request(t, http.MethodGet, "/api/v1/notifications", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)
		assert.Equal(t, float64(2), resp.Data["total"])

		raw, err := json.Marshal(resp.Data["notifications"])
		require.NoError(t, err)
		var items []notification.NotificationResponse
		require.NoError(t, json.Unmarshal(raw, &items))
		require.Len(t, items, 2)
		for _, n := range items {
			assert.Contains(t, n.Title, "sắp hết hạn")
			assert.Equal(t, string(notification.TypeFridgeExpiry), n.Type)
			assert.False(t, n.IsRead)
		}
	}
}

func TestE2E_SecondScanIsSuppressed(t *testing.T) {
	suite := setupTestSuite(t)
	token := suite.token(t, suite.lan)

	w, _ := suite.request(t, http.MethodPost, "/api/v1/notifications/jobs/check-expiring", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = suite.request(t, http.MethodPost, "/api/v1/notifications/jobs/check-expiring", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, resp := suite.request(t, http.MethodGet, "/api/v1/notifications/count", token, nil)
	assert.Equal(t, float64(2), resp.Data["total"], "rerun inside the dedup window must not duplicate")
}

func TestE2E_ExpiredScanFlipsStatus(t *testing.T) {
	suite := setupTestSuite(t)
	token := suite.token(t, suite.lan)

	w, _ := suite.request(t, http.MethodPost, "/api/v1/notifications/jobs/check-expired", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var item domain.FridgeItem
	require.NoError(t, suite.db.Where("product_name = ?", "Đậu hũ").First(&item).Error)
	assert.Equal(t, domain.FridgeItemExpired, item.Status)

	_, resp := suite.request(t, http.MethodGet, "/api/v1/notifications", token, nil)
	raw, err := json.Marshal(resp.Data["notifications"])
	require.NoError(t, err)
	var items []notification.NotificationResponse
	require.NoError(t, json.Unmarshal(raw, &items))
	require.Len(t, items, 1)
	assert.Contains(t, items[0].Title, "đã hết hạn")
}

func TestE2E_ReadLifecycle(t *testing.T) {
	suite := setupTestSuite(t)
	lanToken := suite.token(t, suite.lan)
	minhToken := suite.token(t, suite.minh)

	w, _ := suite.request(t, http.MethodPost, "/api/v1/notifications/jobs/check-expiring", lanToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, resp := suite.request(t, http.MethodGet, "/api/v1/notifications", lanToken, nil)
	raw, err := json.Marshal(resp.Data["notifications"])
	require.NoError(t, err)
	var items []notification.NotificationResponse
	require.NoError(t, json.Unmarshal(raw, &items))
	require.Len(t, items, 2)

	// mark one read
	w, resp = suite.request(t, http.MethodPost, "/api/v1/notifications/mark-read", lanToken,
		notification.MarkAsReadRequest{NotificationIDs: []int64{items[0].ID}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), resp.Data["marked"])

	_, resp = suite.request(t, http.MethodGet, "/api/v1/notifications/count", lanToken, nil)
	assert.Equal(t, float64(2), resp.Data["total"])
	assert.Equal(t, float64(1), resp.Data["unread"])

	// unread filter hides the read one
	_, resp = suite.request(t, http.MethodGet, "/api/v1/notifications?unread_only=true", lanToken, nil)
	assert.Equal(t, float64(1), resp.Data["total"])

	// mark-all, then the second call changes nothing
	w, resp = suite.request(t, http.MethodPost, "/api/v1/notifications/mark-all-read", lanToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), resp.Data["marked"])
	_, resp = suite.request(t, http.MethodPost, "/api/v1/notifications/mark-all-read", lanToken, nil)
	assert.Equal(t, float64(0), resp.Data["marked"])

	// minh's copies are untouched
	_, resp = suite.request(t, http.MethodGet, "/api/v1/notifications/count", minhToken, nil)
	assert.Equal(t, float64(2), resp.Data["unread"])
}

func TestE2E_DeleteIsOwnerScoped(t *testing.T) {
	suite := setupTestSuite(t)
	lanToken := suite.token(t, suite.lan)
	minhToken := suite.token(t, suite.minh)

	w, _ := suite.request(t, http.MethodPost, "/api/v1/notifications/jobs/check-critical", lanToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, resp := suite.request(t, http.MethodGet, "/api/v1/notifications", lanToken, nil)
	raw, err := json.Marshal(resp.Data["notifications"])
	require.NoError(t, err)
	var items []notification.NotificationResponse
	require.NoError(t, json.Unmarshal(raw, &items))
	require.Len(t, items, 1, "critical scan covers only the 1-day window")

	// minh cannot delete lan's notification
	w, resp = suite.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/notifications/%d", items[0].ID), minhToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)

	w, _ = suite.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/notifications/%d", items[0].ID), lanToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	_, resp = suite.request(t, http.MethodGet, "/api/v1/notifications/count", lanToken, nil)
	assert.Equal(t, float64(0), resp.Data["total"])
}
