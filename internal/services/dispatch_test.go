package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/models"
)

type recordedRun struct {
	reminderID uint
	lastRunAt  time.Time
	nextRunAt  time.Time
}

type fakeReminderStore struct {
	reminders  []models.Reminder
	recorded   []recordedRun
	findErr    error
	recordErr  error
	recordFail map[uint]bool
}

func (s *fakeReminderStore) FindDue(_ context.Context, now time.Time, debounce time.Duration) ([]models.Reminder, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	var due []models.Reminder
	for _, r := range s.reminders {
		if !r.Active {
			continue
		}
		if r.NextRunAt.After(now) {
			continue
		}
		if r.LastRunAt != nil && !r.LastRunAt.Before(now.Add(-debounce)) {
			continue
		}
		due = append(due, r)
	}
	return due, nil
}

func (s *fakeReminderStore) RecordRun(_ context.Context, reminderID uint, lastRunAt, nextRunAt time.Time) error {
	if s.recordErr != nil {
		return s.recordErr
	}
	if s.recordFail[reminderID] {
		return errors.New("record failed")
	}
	s.recorded = append(s.recorded, recordedRun{reminderID, lastRunAt, nextRunAt})
	return nil
}

type fakeNotificationStore struct {
	created   []models.Notification
	createErr error
}

func (s *fakeNotificationStore) Create(_ context.Context, n *models.Notification) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, *n)
	return nil
}

type fakeSubscriptionStore struct {
	subs    map[string][]models.PushSubscription
	deleted []uint
	findErr error
}

func (s *fakeSubscriptionStore) FindByUser(_ context.Context, userID string) ([]models.PushSubscription, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.subs[userID], nil
}

func (s *fakeSubscriptionStore) Delete(_ context.Context, subscriptionID uint) error {
	s.deleted = append(s.deleted, subscriptionID)
	return nil
}

type fakeUserDirectory struct {
	emails map[string]string
}

func (d *fakeUserDirectory) EmailFor(_ context.Context, userID string) (string, error) {
	return d.emails[userID], nil
}

type emailCall struct {
	userID, to, subject string
}

type fakeEmailSender struct {
	calls   []emailCall
	outcome ChannelOutcome
	err     error
	failFor map[string]bool
}

func (s *fakeEmailSender) Send(_ context.Context, userID, to, subject, _ string) (ChannelOutcome, error) {
	s.calls = append(s.calls, emailCall{userID, to, subject})
	if s.failFor[userID] {
		return OutcomeFailed, errors.New("email failed")
	}
	if s.err != nil {
		return s.outcome, s.err
	}
	return s.outcome, nil
}

type fakePushSender struct {
	configured bool
	sendErrs   map[uint]error
	sent       []uint
}

func (s *fakePushSender) Configured() bool { return s.configured }

func (s *fakePushSender) Send(_ context.Context, sub models.PushSubscription, _ []byte) error {
	if err := s.sendErrs[sub.ID]; err != nil {
		return err
	}
	s.sent = append(s.sent, sub.ID)
	return nil
}

type dispatchFixture struct {
	reminders     *fakeReminderStore
	notifications *fakeNotificationStore
	subscriptions *fakeSubscriptionStore
	users         *fakeUserDirectory
	email         *fakeEmailSender
	push          *fakePushSender
	dispatcher    *Dispatcher
}

func newDispatchFixture() *dispatchFixture {
	f := &dispatchFixture{
		reminders:     &fakeReminderStore{},
		notifications: &fakeNotificationStore{},
		subscriptions: &fakeSubscriptionStore{subs: map[string][]models.PushSubscription{}},
		users:         &fakeUserDirectory{emails: map[string]string{}},
		email:         &fakeEmailSender{outcome: OutcomeSent},
		push:          &fakePushSender{configured: true},
	}
	f.dispatcher = NewDispatcher(f.reminders, f.notifications, f.subscriptions, f.users, f.email, f.push)
	return f
}

func TestDispatchDailyReminder(t *testing.T) {
	f := newDispatchFixture()
	f.users.emails["user-1"] = "user@example.com"
	f.reminders.reminders = []models.Reminder{{
		ID:        1,
		UserID:    "user-1",
		Title:     "Pay rent",
		Message:   "Rent is due",
		Cadence:   models.CadenceDaily,
		NextRunAt: mustTime(t, "2024-06-01T09:00:00Z"),
		Email:     true,
		InApp:     true,
		Active:    true,
	}}

	now := mustTime(t, "2024-06-01T10:00:00Z")
	summary, err := f.dispatcher.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Processed != 1 || summary.Errors != 0 {
		t.Errorf("summary = processed %d errors %d, want 1 and 0", summary.Processed, summary.Errors)
	}
	if summary.Notifications.InApp != 1 || summary.Notifications.Email != 1 || summary.Notifications.WebPush != 0 {
		t.Errorf("counts = %+v, want in_app 1, email 1, web_push 0", summary.Notifications)
	}

	if len(f.notifications.created) != 1 {
		t.Fatalf("created %d notifications, want 1", len(f.notifications.created))
	}
	n := f.notifications.created[0]
	if n.UserID != "user-1" || n.Title != "Pay rent" || n.Body != "Rent is due" {
		t.Errorf("notification = %+v", n)
	}

	if len(f.email.calls) != 1 {
		t.Fatalf("sent %d emails, want 1", len(f.email.calls))
	}
	if f.email.calls[0].to != "user@example.com" {
		t.Errorf("email sent to %s", f.email.calls[0].to)
	}

	if len(f.reminders.recorded) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(f.reminders.recorded))
	}
	run := f.reminders.recorded[0]
	if !run.lastRunAt.Equal(now) {
		t.Errorf("lastRunAt = %s, want %s", run.lastRunAt, now)
	}
	// Next run steps from the scheduled time, not the processing time.
	wantNext := mustTime(t, "2024-06-02T09:00:00Z")
	if !run.nextRunAt.Equal(wantNext) {
		t.Errorf("nextRunAt = %s, want %s", run.nextRunAt, wantNext)
	}
}

func TestDispatchSelection(t *testing.T) {
	now := mustTime(t, "2024-06-01T10:00:00Z")
	recent := now.Add(-2 * time.Minute)
	old := now.Add(-time.Hour)

	f := newDispatchFixture()
	f.reminders.reminders = []models.Reminder{
		{ID: 1, UserID: "u", Cadence: models.CadenceDaily, NextRunAt: now.Add(-time.Minute), Active: false},
		{ID: 2, UserID: "u", Cadence: models.CadenceDaily, NextRunAt: now.Add(time.Minute), Active: true},
		{ID: 3, UserID: "u", Cadence: models.CadenceDaily, NextRunAt: now.Add(-time.Minute), Active: true, LastRunAt: &recent},
		{ID: 4, UserID: "u", Cadence: models.CadenceDaily, NextRunAt: now.Add(-time.Minute), Active: true, LastRunAt: &old},
		{ID: 5, UserID: "u", Cadence: models.CadenceDaily, NextRunAt: now, Active: true},
	}

	summary, err := f.dispatcher.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Processed != 2 {
		t.Fatalf("processed %d reminders, want 2", summary.Processed)
	}
	got := map[uint]bool{}
	for _, run := range f.reminders.recorded {
		got[run.reminderID] = true
	}
	if !got[4] || !got[5] {
		t.Errorf("recorded runs for %v, want reminders 4 and 5", got)
	}
}

func TestDispatchAllChannelsDisabledStillAdvances(t *testing.T) {
	f := newDispatchFixture()
	f.reminders.reminders = []models.Reminder{{
		ID:        7,
		UserID:    "user-1",
		Cadence:   models.CadenceWeekly,
		NextRunAt: mustTime(t, "2024-06-01T09:00:00Z"),
		Active:    true,
	}}

	summary, err := f.dispatcher.Run(context.Background(), mustTime(t, "2024-06-01T09:30:00Z"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Processed != 1 {
		t.Errorf("processed = %d, want 1", summary.Processed)
	}
	if summary.Notifications != (ChannelCounts{}) {
		t.Errorf("counts = %+v, want all zero", summary.Notifications)
	}
	if len(f.reminders.recorded) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(f.reminders.recorded))
	}
	wantNext := mustTime(t, "2024-06-08T09:00:00Z")
	if !f.reminders.recorded[0].nextRunAt.Equal(wantNext) {
		t.Errorf("nextRunAt = %s, want %s", f.reminders.recorded[0].nextRunAt, wantNext)
	}
}

func TestDispatchChannelFailureIsolation(t *testing.T) {
	f := newDispatchFixture()
	f.notifications.createErr = errors.New("db down")
	f.email.failFor = map[string]bool{"user-1": true}
	f.users.emails["user-1"] = "a@example.com"
	f.users.emails["user-2"] = "b@example.com"
	f.reminders.reminders = []models.Reminder{
		{ID: 1, UserID: "user-1", Cadence: models.CadenceDaily, NextRunAt: mustTime(t, "2024-06-01T09:00:00Z"), Email: true, InApp: true, Active: true},
		{ID: 2, UserID: "user-2", Cadence: models.CadenceDaily, NextRunAt: mustTime(t, "2024-06-01T09:00:00Z"), Email: true, InApp: true, Active: true},
	}

	summary, err := f.dispatcher.Run(context.Background(), mustTime(t, "2024-06-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Channel failures never block the schedule or the other reminder.
	if summary.Processed != 2 || summary.Errors != 0 {
		t.Errorf("summary = processed %d errors %d, want 2 and 0", summary.Processed, summary.Errors)
	}
	if len(f.reminders.recorded) != 2 {
		t.Errorf("recorded %d runs, want 2", len(f.reminders.recorded))
	}
	if len(f.email.calls) != 2 {
		t.Errorf("attempted %d emails, want 2", len(f.email.calls))
	}
	if summary.Notifications.Email != 1 {
		t.Errorf("email count = %d, want 1", summary.Notifications.Email)
	}
	if summary.Notifications.InApp != 0 {
		t.Errorf("in_app count = %d, want 0", summary.Notifications.InApp)
	}
}

func TestDispatchGoneSubscriptionDeleted(t *testing.T) {
	f := newDispatchFixture()
	f.subscriptions.subs["user-1"] = []models.PushSubscription{
		{ID: 10, UserID: "user-1", Endpoint: "https://push.example/alive"},
		{ID: 11, UserID: "user-1", Endpoint: "https://push.example/gone"},
	}
	f.push.sendErrs = map[uint]error{11: ErrSubscriptionGone}
	f.reminders.reminders = []models.Reminder{{
		ID:        3,
		UserID:    "user-1",
		Cadence:   models.CadenceMonthly,
		NextRunAt: mustTime(t, "2024-06-01T09:00:00Z"),
		InApp:     true,
		WebPush:   true,
		Active:    true,
	}}

	summary, err := f.dispatcher.Run(context.Background(), mustTime(t, "2024-06-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Notifications.WebPush != 1 {
		t.Errorf("web_push count = %d, want 1", summary.Notifications.WebPush)
	}
	if len(f.subscriptions.deleted) != 1 || f.subscriptions.deleted[0] != 11 {
		t.Errorf("deleted subscriptions %v, want [11]", f.subscriptions.deleted)
	}
	if summary.Processed != 1 {
		t.Errorf("processed = %d, want 1", summary.Processed)
	}
	if len(f.reminders.recorded) != 1 {
		t.Errorf("recorded %d runs, want 1", len(f.reminders.recorded))
	}
}

func TestDispatchPushUnconfiguredSkips(t *testing.T) {
	f := newDispatchFixture()
	f.push.configured = false
	f.subscriptions.subs["user-1"] = []models.PushSubscription{{ID: 10, UserID: "user-1"}}
	f.reminders.reminders = []models.Reminder{{
		ID:        4,
		UserID:    "user-1",
		Cadence:   models.CadenceDaily,
		NextRunAt: mustTime(t, "2024-06-01T09:00:00Z"),
		WebPush:   true,
		Active:    true,
	}}

	summary, err := f.dispatcher.Run(context.Background(), mustTime(t, "2024-06-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(f.push.sent) != 0 {
		t.Errorf("push attempted %v, want none", f.push.sent)
	}
	if summary.Processed != 1 {
		t.Errorf("processed = %d, want 1", summary.Processed)
	}
}

func TestDispatchNoEmailAddressSkips(t *testing.T) {
	f := newDispatchFixture()
	f.reminders.reminders = []models.Reminder{{
		ID:        5,
		UserID:    "user-1",
		Cadence:   models.CadenceDaily,
		NextRunAt: mustTime(t, "2024-06-01T09:00:00Z"),
		Email:     true,
		Active:    true,
	}}

	summary, err := f.dispatcher.Run(context.Background(), mustTime(t, "2024-06-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(f.email.calls) != 0 {
		t.Errorf("email attempted %v, want none", f.email.calls)
	}
	if summary.Notifications.Email != 0 {
		t.Errorf("email count = %d, want 0", summary.Notifications.Email)
	}
	if summary.Processed != 1 {
		t.Errorf("processed = %d, want 1", summary.Processed)
	}
}

func TestDispatchRecordFailureCountsError(t *testing.T) {
	f := newDispatchFixture()
	f.reminders.recordFail = map[uint]bool{6: true}
	f.reminders.reminders = []models.Reminder{
		{ID: 6, UserID: "user-1", Cadence: models.CadenceDaily, NextRunAt: mustTime(t, "2024-06-01T09:00:00Z"), InApp: true, Active: true},
		{ID: 8, UserID: "user-1", Cadence: models.CadenceDaily, NextRunAt: mustTime(t, "2024-06-01T09:00:00Z"), InApp: true, Active: true},
	}

	summary, err := f.dispatcher.Run(context.Background(), mustTime(t, "2024-06-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Processed != 1 || summary.Errors != 1 {
		t.Errorf("summary = processed %d errors %d, want 1 and 1", summary.Processed, summary.Errors)
	}
	// The in-app notification still went out before the record failed.
	if summary.Notifications.InApp != 2 {
		t.Errorf("in_app count = %d, want 2", summary.Notifications.InApp)
	}
}

func TestDispatchFindDueErrorAborts(t *testing.T) {
	f := newDispatchFixture()
	f.reminders.findErr = errors.New("db down")

	summary, err := f.dispatcher.Run(context.Background(), mustTime(t, "2024-06-01T10:00:00Z"))
	if err == nil {
		t.Fatal("Run succeeded, want error")
	}
	if summary != nil {
		t.Errorf("summary = %+v, want nil", summary)
	}
}

func TestDispatchEmptyDueSet(t *testing.T) {
	f := newDispatchFixture()

	summary, err := f.dispatcher.Run(context.Background(), mustTime(t, "2024-06-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Processed != 0 || summary.Errors != 0 {
		t.Errorf("summary = %+v, want empty", summary)
	}
	if summary.RunID == "" {
		t.Error("summary has no run ID")
	}
}
