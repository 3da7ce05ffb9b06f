package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"evento-notification/internal/model"
	"evento-notification/internal/notification/repository"
)

type memRepo struct {
	mu            sync.Mutex
	seq           int
	base          time.Time
	notifications []model.Notification
	prefs         map[string]model.NotificationPreference

	createErr error
	listErr   error
	prefErr   error
}

func newMemRepo() *memRepo {
	return &memRepo{
		base:  time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
		prefs: map[string]model.NotificationPreference{},
	}
}

func prefKey(userID string, t model.NotificationType) string {
	return userID + "/" + string(t)
}

func (r *memRepo) CreateNotification(_ context.Context, opts repository.CreateNotificationOptions) (model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return model.Notification{}, r.createErr
	}
	r.seq++
	n := model.Notification{
		ID:        fmt.Sprintf("n%03d", r.seq),
		UserID:    opts.UserID,
		Type:      opts.Type,
		Message:   opts.Message,
		CreatedAt: r.base.Add(time.Duration(r.seq) * time.Second),
	}
	r.notifications = append(r.notifications, n)
	return n, nil
}

func (r *memRepo) ListNotifications(_ context.Context, opts repository.ListNotificationsOptions) ([]model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []model.Notification
	for _, n := range r.notifications {
		if n.UserID == opts.UserID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if opts.Offset > 0 {
		out = out[min(opts.Offset, len(out)):]
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (r *memRepo) CountNotifications(_ context.Context, opts repository.CountNotificationsOptions) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return 0, r.listErr
	}
	total := 0
	for _, n := range r.notifications {
		if n.UserID == opts.UserID {
			total++
		}
	}
	return total, nil
}

func (r *memRepo) UpdateRead(_ context.Context, opts repository.UpdateReadOptions) (model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].ID == opts.ID {
			r.notifications[i].Read = opts.Read
			return r.notifications[i], nil
		}
	}
	return model.Notification{}, repository.ErrNotFound
}

func (r *memRepo) GetPreference(_ context.Context, opts repository.GetPreferenceOptions) (model.NotificationPreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.prefErr != nil {
		return model.NotificationPreference{}, r.prefErr
	}
	p, ok := r.prefs[prefKey(opts.UserID, opts.Type)]
	if !ok {
		return model.NotificationPreference{}, repository.ErrNotFound
	}
	return p, nil
}

func (r *memRepo) UpsertPreference(_ context.Context, opts repository.UpsertPreferenceOptions) (model.NotificationPreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.prefErr != nil {
		return model.NotificationPreference{}, r.prefErr
	}
	key := prefKey(opts.UserID, opts.Type)
	p, ok := r.prefs[key]
	if !ok {
		p = model.NotificationPreference{ID: "p-" + key, UserID: opts.UserID, Type: opts.Type}
	}
	p.InApp, p.Email, p.Push = opts.Decision.InApp, opts.Decision.Email, opts.Decision.Push
	r.prefs[key] = p
	return p, nil
}

type sent struct {
	target  string
	event   string
	payload any
}

type recordingBroadcaster struct {
	mu         sync.Mutex
	room       []sent
	direct     []sent
	emitErr    error
	repoAtSend *memRepo
	persisted  []int
}

func (b *recordingBroadcaster) Broadcast(_ context.Context, userID, event string, payload any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.repoAtSend != nil {
		b.repoAtSend.mu.Lock()
		b.persisted = append(b.persisted, len(b.repoAtSend.notifications))
		b.repoAtSend.mu.Unlock()
	}
	b.room = append(b.room, sent{target: userID, event: event, payload: payload})
	return nil
}

func (b *recordingBroadcaster) EmitToConnection(_ context.Context, connID, event string, payload any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.emitErr != nil {
		return b.emitErr
	}
	b.direct = append(b.direct, sent{target: connID, event: event, payload: payload})
	return nil
}

var errStore = errors.New("store unavailable")
