package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

var notificationCols = []string{"id", "user_id", "booking_id", "title", "message", "type", "is_read", "created_at"}

func notificationRouter(t *testing.T, userID uint) (*gin.Engine, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	h := NewNotificationHandler(db)

	r := gin.New()
	r.Use(asUser(userID, models.RoleCustomer))
	r.GET("/notifications", h.List)
	r.PUT("/notifications/mark-all-read", h.MarkAllRead)
	r.PUT("/notifications/:id/read", h.MarkRead)
	r.DELETE("/notifications/:id", h.Delete)
	return r, mock
}

func expectNotification(mock sqlmock.Sqlmock, id, userID uint, read bool) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "notifications" WHERE "notifications"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows(notificationCols).
			AddRow(id, userID, 42, "Booking #42 confirmed", "See you on court!", models.NotificationSuccess, read, time.Now()))
}

func TestNotificationList_UnreadOnly(t *testing.T) {
	r, mock := notificationRouter(t, 3)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "notifications" WHERE user_id = $1 AND is_read = $2`)).
		WithArgs(3, false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "notifications" WHERE user_id = $1 AND is_read = $2`)).
		WithArgs(3, false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "notifications" WHERE user_id = $1 AND is_read = $2 ORDER BY created_at DESC, id DESC`)).
		WillReturnRows(sqlmock.NewRows(notificationCols).
			AddRow(7, 3, 42, "Booking #42 confirmed", "See you on court!", models.NotificationSuccess, false, time.Now()))

	w := send(r, http.MethodGet, "/notifications?unreadOnly=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}

	var body struct {
		Notifications []models.Notification `json:"notifications"`
		UnreadCount   int64                 `json:"unreadCount"`
		TotalItems    int64                 `json:"totalItems"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Notifications) != 1 || body.UnreadCount != 1 || body.TotalItems != 1 {
		t.Fatalf("unexpected body %s", w.Body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestNotificationMarkRead(t *testing.T) {
	r, mock := notificationRouter(t, 3)

	expectNotification(mock, 7, 3, false)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "notifications" SET "is_read"=$1 WHERE "id" = $2`)).
		WithArgs(true, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := send(r, http.MethodPut, "/notifications/7/read", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}

	var n models.Notification
	if err := json.Unmarshal(w.Body.Bytes(), &n); err != nil || !n.IsRead {
		t.Fatalf("notification not marked read: %s", w.Body)
	}
}

func TestNotificationMarkRead_OtherUsersForbidden(t *testing.T) {
	r, mock := notificationRouter(t, 3)
	expectNotification(mock, 7, 9, false)

	w := send(r, http.MethodPut, "/notifications/7/read", nil)
	if w.Code != http.StatusForbidden || errorCode(t, w) != "forbidden" {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
}

func TestNotificationMarkAllRead(t *testing.T) {
	r, mock := notificationRouter(t, 3)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "notifications" SET "is_read"=$1 WHERE user_id = $2 AND is_read = $3`)).
		WithArgs(true, 3, false).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	w := send(r, http.MethodPut, "/notifications/mark-all-read", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}

	var body struct {
		Updated int64 `json:"updated"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Updated != 4 {
		t.Fatalf("unexpected body %s", w.Body)
	}
}

func TestNotificationDelete_NotFound(t *testing.T) {
	r, mock := notificationRouter(t, 3)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "notifications" WHERE "notifications"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows(notificationCols))

	w := send(r, http.MethodDelete, "/notifications/99", nil)
	if w.Code != http.StatusNotFound || errorCode(t, w) != "notification_not_found" {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
}

func TestNotificationDelete(t *testing.T) {
	r, mock := notificationRouter(t, 3)

	expectNotification(mock, 7, 3, true)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "notifications" WHERE "notifications"."id" = $1`)).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := send(r, http.MethodDelete, "/notifications/7", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
