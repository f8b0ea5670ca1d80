package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"MaintLens/internal/modules/notification/application/service"
	"MaintLens/internal/modules/notification/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepository struct {
	notifs map[string]*entity.UnifiedNotification
	items  []entity.NotificationListItem
}

func (m *memoryRepository) FetchUnified(ctx context.Context, id string, language string) (*entity.UnifiedNotification, bool, error) {
	n, ok := m.notifs[id]
	if !ok {
		return nil, false, nil
	}
	cp := *n
	cp.Language = language
	return &cp, true, nil
}

func (m *memoryRepository) List(ctx context.Context, q entity.ListQuery) (*entity.NotificationPage, error) {
	page := &entity.NotificationPage{Items: m.items, Total: int64(len(m.items))}
	if q.Paginate {
		page.Page, page.PageSize = entity.NormalizePage(q.Page, q.PageSize)
		page.TotalPages = entity.TotalPages(page.Total, page.PageSize)
	}
	return page, nil
}

func (m *memoryRepository) Ping(ctx context.Context) error { return nil }

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	repo := &memoryRepository{
		notifs: map[string]*entity.UnifiedNotification{
			"000010000001": {
				NotificationId: "000010000001",
				ShortText:      "Pumpe undicht",
				LongText:       entity.PlaceholderText,
				Items:          []entity.DamageItemView{},
			},
		},
		items: []entity.NotificationListItem{{NotificationId: "000010000002"}, {NotificationId: "000010000001"}},
	}
	h := NewNotificationHandler(service.NewNotificationService(repo, "en"))

	r := gin.New()
	r.GET("/notifications", h.ListNotifications)
	r.GET("/notifications/:id", h.GetNotification)
	return r
}

func get(t *testing.T, r *gin.Engine, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestGetNotificationHandler(t *testing.T) {
	r := newRouter()

	w, env := get(t, r, "/notifications/000010000001?language=de")
	require.Equal(t, http.StatusOK, w.Code)
	var n entity.UnifiedNotification
	require.NoError(t, json.Unmarshal(env.Data, &n))
	assert.Equal(t, "000010000001", n.NotificationId)
	assert.Equal(t, "de", n.Language)
	assert.Equal(t, entity.PlaceholderText, n.LongText)
}

func TestGetNotificationHandlerErrors(t *testing.T) {
	r := newRouter()

	cases := []struct {
		target string
		status int
	}{
		{"/notifications/000099999999", http.StatusNotFound},
		{"/notifications/abc$123", http.StatusBadRequest},
		{"/notifications/123456789012345678901", http.StatusBadRequest},
		{"/notifications/000010000001?language=fr", http.StatusBadRequest},
	}
	for _, tc := range cases {
		w, env := get(t, r, tc.target)
		assert.Equal(t, tc.status, w.Code, tc.target)
		assert.Equal(t, tc.status, env.Code, tc.target)
	}
}

func TestListNotificationsHandler(t *testing.T) {
	r := newRouter()

	w, env := get(t, r, "/notifications")
	require.Equal(t, http.StatusOK, w.Code)
	var items []entity.NotificationListItem
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 2)

	w, env = get(t, r, "/notifications?paginate=true&page=0&page_size=500")
	require.Equal(t, http.StatusOK, w.Code)
	var page entity.NotificationPage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, entity.MaxPageSize, page.PageSize)
	assert.Equal(t, 1, page.TotalPages)

	w, env = get(t, r, "/notifications?paginate=true")
	require.Equal(t, http.StatusOK, w.Code)
	page = entity.NotificationPage{}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, entity.DefaultPageSize, page.PageSize)

	w, env = get(t, r, "/notifications?paginate=true&page_size=0")
	require.Equal(t, http.StatusOK, w.Code)
	page = entity.NotificationPage{}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 1, page.PageSize)

	w, _ = get(t, r, "/notifications?page=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
