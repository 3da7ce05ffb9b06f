package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"evento-notification/internal/model"
	"evento-notification/internal/notification"
	"evento-notification/pkg/log"
	"evento-notification/pkg/paginator"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUseCase struct {
	notification.UseCase
	mock.Mock
}

func (m *mockUseCase) ListNotifications(ctx context.Context, input notification.ListNotificationsInput) (notification.ListNotificationsOutput, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(notification.ListNotificationsOutput), args.Error(1)
}

func (m *mockUseCase) MarkRead(ctx context.Context, id string, read bool) (model.Notification, error) {
	args := m.Called(ctx, id, read)
	return args.Get(0).(model.Notification), args.Error(1)
}

func (m *mockUseCase) Decide(ctx context.Context, userID string, t model.NotificationType) (model.DeliveryDecision, error) {
	args := m.Called(ctx, userID, t)
	return args.Get(0).(model.DeliveryDecision), args.Error(1)
}

func (m *mockUseCase) UpdatePreferences(ctx context.Context, input notification.UpdatePreferencesInput) ([]model.NotificationPreference, error) {
	args := m.Called(ctx, input)
	prefs, _ := args.Get(0).([]model.NotificationPreference)
	return prefs, args.Error(1)
}

func newRouter(uc notification.UseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(log.NewNop(), uc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	ErrorCode int             `json:"error_code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

func TestUpdatePreferences(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       string
		mockInput  *notification.UpdatePreferencesInput
		mockErr    error
		wantStatus int
		wantFields []string
	}{
		{
			name:   "known keys only",
			method: http.MethodPut,
			body:   `{"newsletter":{"inApp":false,"email":true,"push":false},"event_update":{"inApp":true},"birthday":"yes"}`,
			mockInput: &notification.UpdatePreferencesInput{
				UserID: "U1",
				Preferences: map[model.NotificationType]model.DeliveryDecision{
					model.NotificationTypeNewsletter: {Email: true},
				},
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "post alias",
			method: http.MethodPost,
			body:   `{"event_change":{"inApp":true,"email":false,"push":true}}`,
			mockInput: &notification.UpdatePreferencesInput{
				UserID: "U1",
				Preferences: map[model.NotificationType]model.DeliveryDecision{
					model.NotificationTypeEventChange: {InApp: true, Push: true},
				},
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "nothing to update",
			method: http.MethodPut,
			body:   `{"unknown":{"inApp":true}}`,
			mockInput: &notification.UpdatePreferencesInput{
				UserID:      "U1",
				Preferences: map[model.NotificationType]model.DeliveryDecision{},
			},
			mockErr:    notification.ErrNoPreferences,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "known key with non-object value",
			method:     http.MethodPut,
			body:       `{"newsletter":{"email":true},"join_event":"yes","event_change":null}`,
			wantStatus: http.StatusBadRequest,
			wantFields: []string{"event_change", "join_event"},
		},
		{
			name:       "known key with non-boolean flag",
			method:     http.MethodPut,
			body:       `{"newsletter":{"inApp":"yes"}}`,
			wantStatus: http.StatusBadRequest,
			wantFields: []string{"newsletter"},
		},
		{
			name:       "malformed body",
			method:     http.MethodPut,
			body:       `[1,2`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			if tt.mockInput != nil {
				uc.On("UpdatePreferences", mock.Anything, *tt.mockInput).
					Return([]model.NotificationPreference{}, tt.mockErr)
			}

			w := do(newRouter(uc), tt.method, "/api/v1/settings/U1/notifications", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			uc.AssertExpectations(t)
			if len(tt.wantFields) > 0 {
				var body struct {
					Errors []struct {
						Code  int    `json:"code"`
						Field string `json:"field"`
					} `json:"errors"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				var fields []string
				for _, e := range body.Errors {
					assert.Equal(t, errCodeInvalidPreference, e.Code)
					fields = append(fields, e.Field)
				}
				assert.Equal(t, tt.wantFields, fields)
			}
		})
	}
}

func TestGetPreference(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Decide", mock.Anything, "U1", model.NotificationTypeJoinEvent).
		Return(model.DefaultDeliveryDecision(), nil)
	r := newRouter(uc)

	w := do(r, http.MethodGet, "/api/v1/settings/U1/notifications/join_event", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got preferenceResp
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
	assert.Equal(t, preferenceResp{UserID: "U1", Type: "JOIN_EVENT", InApp: true}, got)

	w = do(r, http.MethodGet, "/api/v1/settings/U1/notifications/birthday", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertExpectations(t)
}

func TestListNotifications(t *testing.T) {
	created := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	n2 := model.Notification{ID: "n2", UserID: "U1", Type: model.NotificationTypeEventChange, Message: "Your event has been updated", CreatedAt: created.Add(time.Minute)}
	n1 := model.Notification{ID: "n1", UserID: "U1", Type: model.NotificationTypeEventRegistration, Message: "You have successfully created a new event", CreatedAt: created}

	tests := []struct {
		name       string
		path       string
		setup      func(uc *mockUseCase)
		wantStatus int
		wantIDs    []string
		wantMeta   paginator.PaginatorResponse
	}{
		{
			name: "first page",
			path: "/api/v1/users/U1/notifications",
			setup: func(uc *mockUseCase) {
				uc.On("ListNotifications", mock.Anything, notification.ListNotificationsInput{UserID: "U1"}).
					Return(notification.ListNotificationsOutput{
						Notifications: []model.Notification{n2, n1},
						Paginator:     paginator.Paginator{Total: 2, Count: 2, PerPage: 20, CurrentPage: 1},
					}, nil)
			},
			wantStatus: http.StatusOK,
			wantIDs:    []string{"n2", "n1"},
			wantMeta:   paginator.PaginatorResponse{Total: 2, Count: 2, PerPage: 20, CurrentPage: 1, TotalPages: 1},
		},
		{
			name: "query forwarded",
			path: "/api/v1/users/U1/notifications?page=2&limit=1",
			setup: func(uc *mockUseCase) {
				uc.On("ListNotifications", mock.Anything, notification.ListNotificationsInput{
					UserID: "U1",
					Query:  paginator.PaginateQuery{Page: 2, Limit: 1},
				}).Return(notification.ListNotificationsOutput{
					Notifications: []model.Notification{n1},
					Paginator:     paginator.Paginator{Total: 2, Count: 1, PerPage: 1, CurrentPage: 2},
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantIDs:    []string{"n1"},
			wantMeta:   paginator.PaginatorResponse{Total: 2, Count: 1, PerPage: 1, CurrentPage: 2, TotalPages: 2, HasPrev: true},
		},
		{
			name: "empty history",
			path: "/api/v1/users/U2/notifications",
			setup: func(uc *mockUseCase) {
				uc.On("ListNotifications", mock.Anything, notification.ListNotificationsInput{UserID: "U2"}).
					Return(notification.ListNotificationsOutput{
						Notifications: []model.Notification{},
						Paginator:     paginator.Paginator{PerPage: 20, CurrentPage: 1},
					}, nil)
			},
			wantStatus: http.StatusOK,
			wantIDs:    []string{},
			wantMeta:   paginator.PaginatorResponse{PerPage: 20, CurrentPage: 1},
		},
		{
			name:       "bad page",
			path:       "/api/v1/users/U2/notifications?page=abc",
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "store failure",
			path: "/api/v1/users/U1/notifications",
			setup: func(uc *mockUseCase) {
				uc.On("ListNotifications", mock.Anything, notification.ListNotificationsInput{UserID: "U1"}).
					Return(notification.ListNotificationsOutput{}, assert.AnError)
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			if tt.setup != nil {
				tt.setup(uc)
			}

			w := do(newRouter(uc), http.MethodGet, tt.path, "")
			require.Equal(t, tt.wantStatus, w.Code)
			uc.AssertExpectations(t)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var got listNotificationsResp
			require.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
			ids := []string{}
			for _, it := range got.Items {
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantMeta, got.Meta)
		})
	}
}

func TestMarkRead(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		body       string
		setup      func(uc *mockUseCase)
		wantStatus int
	}{
		{
			name: "ok",
			id:   "n1",
			body: `{"read":true}`,
			setup: func(uc *mockUseCase) {
				uc.On("MarkRead", mock.Anything, "n1", true).Return(model.Notification{ID: "n1", Read: true}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "not found",
			id:   "missing",
			body: `{"read":false}`,
			setup: func(uc *mockUseCase) {
				uc.On("MarkRead", mock.Anything, "missing", false).Return(model.Notification{}, notification.ErrNotificationNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "missing read flag",
			id:         "n1",
			body:       `{}`,
			setup:      func(*mockUseCase) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			tt.setup(uc)

			w := do(newRouter(uc), http.MethodPatch, "/api/v1/notifications/"+tt.id+"/read", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			uc.AssertExpectations(t)
		})
	}
}
