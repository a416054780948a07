package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foraginglink/backend/internal/config"
	"github.com/foraginglink/backend/internal/database/dbtest"
	"github.com/foraginglink/backend/internal/models"
)

type sentMessage struct {
	To   string
	Body string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (n *recordingNotifier) Send(_ context.Context, to, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{To: to, Body: body})
	return nil
}

func (n *recordingNotifier) Sent() []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMessage(nil), n.sent...)
}

type fixture struct {
	svcs     *Services
	db       *gorm.DB
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := dbtest.New(t)
	cfg := &config.Config{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		CacheTTL:  time.Minute,
		ImageBase: "https://images.example.com/",
	}
	notifier := &recordingNotifier{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{svcs: New(db, cfg, notifier, log), db: db, notifier: notifier}
}

func (f *fixture) user(t *testing.T, username string) Viewer {
	t.Helper()

	resp, err := f.svcs.Auth.Register(t.Context(), models.RegisterRequest{
		Username:  username,
		Email:     username + "@example.com",
		Password1: "correct-horse",
		Password2: "correct-horse",
	})
	require.NoError(t, err)
	return Viewer{UserID: resp.User.ID}
}

func (f *fixture) staff(t *testing.T, username string) Viewer {
	t.Helper()

	v := f.user(t, username)
	require.NoError(t, f.svcs.Auth.SetStaff(t.Context(), username, true))
	v.IsStaff = true
	return v
}

func (f *fixture) post(t *testing.T, owner Viewer, name string) *PostView {
	t.Helper()

	post, err := f.svcs.Posts.Create(t.Context(), owner, models.PostRequest{
		MainPlantName:      name,
		MainPlantMonth:     4,
		HistoryAndFolklore: "Used in *spring* tonics.",
	})
	require.NoError(t, err)
	return post
}

func (f *fixture) course(t *testing.T, title string, in time.Duration) *CourseView {
	t.Helper()

	course, err := f.svcs.Courses.Create(t.Context(), models.CourseRequest{
		Season:      models.SeasonSpring,
		Title:       title,
		Date:        time.Now().UTC().Add(in).Format(dateLayout),
		Description: "A morning walk.",
		Location:    "Hackney Marshes",
	})
	require.NoError(t, err)
	return course
}

func registrationRequest(courseID int) models.RegistrationRequest {
	return models.RegistrationRequest{
		CourseID: courseID,
		Email:    "rowan@example.com",
		Phone:    "07700 900123",
	}
}

func (f *fixture) count(t *testing.T, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}
