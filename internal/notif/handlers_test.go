package notif

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"labtrack/internal/common"
	"labtrack/internal/dbmongo"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestRouter(t *testing.T) (*mux.Router, *MockNotificationRepository, *MockActivityRepository, *MockUserDirectory) {
	t.Helper()
	repo := new(MockNotificationRepository)
	activities := new(MockActivityRepository)
	users := new(MockUserDirectory)
	manager := NewActivityManager(1, 10)
	t.Cleanup(manager.Shutdown)

	service := NewNotificationService(repo, users, manager)
	generator := NewGenerator(repo, activities)
	handler := NewHandler(service, generator)

	router := mux.NewRouter()
	handler.Register(router)
	return router, repo, activities, users
}

func TestHandler_List(t *testing.T) {
	router, repo, _, _ := newTestRouter(t)

	stored := []*dbmongo.Notification{
		{ID: primitive.NewObjectID(), Title: "n1", Recipient: "u1"},
	}
	isRead := false
	repo.On("ByRecipient", mock.Anything, "u1", dbmongo.ListFilter{
		IsRead: &isRead,
		Type:   common.TypeWarning,
		Limit:  10,
		Skip:   10,
	}).Return(stored, int64(11), nil)
	repo.On("UnreadCount", mock.Anything, "u1").Return(int64(7), nil)

	req := httptest.NewRequest("GET", "/notifications/user/u1?page=2&limit=10&isRead=false&type=warning", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body ListResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Notifications, 1)
	assert.Equal(t, int64(2), body.TotalPages)
	assert.Equal(t, 2, body.CurrentPage)
	assert.Equal(t, int64(11), body.Total)
	assert.Equal(t, int64(7), body.UnreadCount)
}

func TestHandler_List_EmptyIsValidResponse(t *testing.T) {
	router, repo, _, _ := newTestRouter(t)

	repo.On("ByRecipient", mock.Anything, "ghost", mock.Anything).
		Return([]*dbmongo.Notification{}, int64(0), nil)
	repo.On("UnreadCount", mock.Anything, "ghost").Return(int64(0), nil)

	req := httptest.NewRequest("GET", "/notifications/user/ghost", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// An unknown user is an empty page, never a 404.
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"notifications":[]`)
}

func TestHandler_UnreadCount(t *testing.T) {
	router, repo, _, _ := newTestRouter(t)

	repo.On("UnreadCount", mock.Anything, "u1").Return(int64(3), nil)

	req := httptest.NewRequest("GET", "/notifications/user/u1/unread-count", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"unreadCount": 3}`, rec.Body.String())
}

func TestHandler_Get_NotFound(t *testing.T) {
	router, repo, _, _ := newTestRouter(t)

	repo.On("ByID", mock.Anything, "652f1a0000000000000000aa").Return(nil, common.ErrNotFound)

	req := httptest.NewRequest("GET", "/notifications/652f1a0000000000000000aa", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestHandler_Create(t *testing.T) {
	router, repo, _, users := newTestRouter(t)

	repo.On("Insert", mock.Anything, mock.AnythingOfType("*dbmongo.Notification")).Run(func(args mock.Arguments) {
		n := args.Get(1).(*dbmongo.Notification)
		n.ID = primitive.NewObjectID()
		n.ApplyDefaults()
		n.CreatedAt = time.Now()
		n.UpdatedAt = n.CreatedAt
	}).Return(nil)
	users.On("DisplayByIDs", mock.Anything, []string{"u2"}).
		Return(map[string]common.UserDisplay{}, nil)

	payload := `{"title":"Sample ready","message":"Sequencing batch finished","recipient":"u2"}`
	req := httptest.NewRequest("POST", "/notifications", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var body NotificationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Sample ready", body.Title)
	assert.Equal(t, common.TypeInfo, body.Type)
	require.NotNil(t, body.Recipient)
	assert.Equal(t, "u2", body.Recipient.ID)
}

func TestHandler_Create_InvalidBody(t *testing.T) {
	router, repo, _, _ := newTestRouter(t)

	req := httptest.NewRequest("POST", "/notifications", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestHandler_Create_ValidationError(t *testing.T) {
	router, repo, _, _ := newTestRouter(t)

	repo.On("Insert", mock.Anything, mock.Anything).
		Return(common.NewValidationError("title", "is required"))

	req := httptest.NewRequest("POST", "/notifications", bytes.NewBufferString(`{"recipient":"u2"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title")
}

func TestHandler_BulkSend(t *testing.T) {
	router, repo, _, _ := newTestRouter(t)

	repo.On("InsertMany", mock.Anything, mock.AnythingOfType("[]*dbmongo.Notification")).Run(func(args mock.Arguments) {
		for _, n := range args.Get(1).([]*dbmongo.Notification) {
			n.ID = primitive.NewObjectID()
			n.ApplyDefaults()
		}
	}).Return(nil)

	payload := `{"recipients":["a","b"],"title":"Announcement","message":"New freezer rules"}`
	req := httptest.NewRequest("POST", "/notifications/bulk", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, "Sent 2 notifications", body["message"])
}

func TestHandler_MarkRead(t *testing.T) {
	router, repo, _, users := newTestRouter(t)

	readAt := time.Now()
	stored := &dbmongo.Notification{
		ID:        primitive.NewObjectID(),
		Title:     "T",
		Recipient: "u1",
		IsRead:    true,
		ReadAt:    &readAt,
	}
	repo.On("MarkRead", mock.Anything, stored.ID.Hex()).Return(stored, nil)
	users.On("DisplayByIDs", mock.Anything, []string{"u1"}).
		Return(map[string]common.UserDisplay{}, nil)

	req := httptest.NewRequest("PATCH", "/notifications/"+stored.ID.Hex()+"/read", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isRead":true`)
}

func TestHandler_MarkAllRead(t *testing.T) {
	router, repo, _, _ := newTestRouter(t)

	repo.On("MarkAllRead", mock.Anything, "u1").Return(int64(9), nil)

	req := httptest.NewRequest("PATCH", "/notifications/user/u1/read-all", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"All notifications marked as read","modified":9}`, rec.Body.String())
}

func TestHandler_Update(t *testing.T) {
	router, repo, _, users := newTestRouter(t)

	stored := &dbmongo.Notification{
		ID:        primitive.NewObjectID(),
		Title:     "Renamed",
		Recipient: "u1",
	}
	repo.On("UpdateByID", mock.Anything, stored.ID.Hex(), map[string]interface{}{
		"title": "Renamed",
	}).Return(stored, nil)
	users.On("DisplayByIDs", mock.Anything, []string{"u1"}).
		Return(map[string]common.UserDisplay{}, nil)

	req := httptest.NewRequest("PUT", "/notifications/"+stored.ID.Hex(), bytes.NewBufferString(`{"title":"Renamed"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Renamed")
}

func TestHandler_Delete(t *testing.T) {
	router, repo, _, _ := newTestRouter(t)

	stored := &dbmongo.Notification{ID: primitive.NewObjectID(), Title: "T", Recipient: "u1"}
	repo.On("Delete", mock.Anything, stored.ID.Hex()).Return(stored, nil)

	req := httptest.NewRequest("DELETE", "/notifications/"+stored.ID.Hex(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Notification deleted"}`, rec.Body.String())
}

func TestHandler_DeleteAll(t *testing.T) {
	router, repo, _, _ := newTestRouter(t)

	repo.On("DeleteAllForRecipient", mock.Anything, "u1").Return(int64(12), nil)

	req := httptest.NewRequest("DELETE", "/notifications/user/u1/all", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"All notifications deleted","deleted":12}`, rec.Body.String())
}

func TestHandler_Generate(t *testing.T) {
	router, repo, activities, _ := newTestRouter(t)

	activity := &dbmongo.Activity{
		ID:          primitive.NewObjectID(),
		Type:        "user_login",
		Description: "Logged in",
		User:        "u3",
	}
	activities.On("Since", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]*dbmongo.Activity{activity}, nil)
	repo.On("ExistsForActivity", mock.Anything, activity.ID.Hex()).Return(false, nil)
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*dbmongo.Notification")).Run(func(args mock.Arguments) {
		args.Get(1).(*dbmongo.Notification).ID = primitive.NewObjectID()
	}).Return(nil)

	req := httptest.NewRequest("POST", "/notifications/generate-from-activities", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body GenerateResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Notifications, 1)
	assert.Equal(t, "Login Activity", body.Notifications[0].Title)
}

func TestHandler_Stats(t *testing.T) {
	router, repo, _, users := newTestRouter(t)

	repo.On("ByRecipient", mock.Anything, "u1", dbmongo.ListFilter{Limit: 1}).
		Return([]*dbmongo.Notification{}, int64(2), nil)
	repo.On("UnreadCount", mock.Anything, "u1").Return(int64(1), nil)
	repo.On("TypeCounts", mock.Anything, "u1").Return([]dbmongo.GroupCount{{Value: "info", Count: 2}}, nil)
	repo.On("CategoryCounts", mock.Anything, "u1").Return([]dbmongo.GroupCount{{Value: "general", Count: 2}}, nil)
	repo.On("Recent", mock.Anything, "u1", 5).Return([]*dbmongo.Notification{}, nil)
	users.On("DisplayByIDs", mock.Anything, []string{}).Return(map[string]common.UserDisplay{}, nil)

	req := httptest.NewRequest("GET", "/notifications/user/u1/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.TotalNotifications)
	assert.Equal(t, int64(1), body.UnreadNotifications)
	assert.Equal(t, int64(1), body.ReadNotifications)
}
