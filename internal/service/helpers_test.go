package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/cache"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/config"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/events"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/repository/memory"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/storage"
)

// fakeClock advances by one second on every call so ordering by time is
// deterministic.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) handler(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordedEvents) ofType(t events.EventType) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	clock      *fakeClock
	accounts   *memory.AccountRepository
	profiles   *memory.ProfileRepository
	reports    *memory.ReportRepository
	history    *memory.ReportHistoryRepository
	media      *memory.MediaRepository
	recorded   *recordedEvents
	dispatcher events.Dispatcher

	Auth      *AuthService
	Reports   *ReportService
	Users     *UserService
	Media     *MediaService
	Detection *DetectionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		clock:      newFakeClock(),
		accounts:   memory.NewAccountRepository(),
		profiles:   memory.NewProfileRepository(),
		history:    memory.NewReportHistoryRepository(),
		media:      memory.NewMediaRepository(),
		recorded:   &recordedEvents{},
		dispatcher: events.NewInMemoryDispatcher(),
	}
	f.reports = memory.NewReportRepository(f.profiles, f.history)
	for _, et := range []events.EventType{events.EventReportSubmitted, events.EventReportStatusChanged, events.EventUserRoleChanged} {
		f.dispatcher.Subscribe(et, f.recorded.handler)
	}

	store, err := storage.NewLocalStore(t.TempDir(), "/media")
	require.NoError(t, err)

	f.Auth = NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		BcryptCost:            bcrypt.MinCost,
		MinPasswordLength:     8,
	}, AuthDependencies{
		AccountRepo: f.accounts,
		ProfileRepo: f.profiles,
		Registrar:   memory.NewUserRegistrar(f.accounts, f.profiles),
		Now:         f.clock.Now,
	})
	f.Reports = NewReportService(ReportDependencies{
		ReportRepo:  f.reports,
		HistoryRepo: f.history,
		MediaRepo:   f.media,
		Dispatcher:  f.dispatcher,
		Now:         f.clock.Now,
	})
	f.Users = NewUserService(UserDependencies{
		ProfileRepo: f.profiles,
		AccountRepo: f.accounts,
		Dispatcher:  f.dispatcher,
		Now:         f.clock.Now,
	})
	f.Media = NewMediaService(MediaDependencies{
		MediaRepo: f.media,
		Store:     store,
		MaxBytes:  1024,
		Now:       f.clock.Now,
	})
	f.Detection = NewDetectionService(DetectionDependencies{
		MediaRepo: f.media,
		Cache:     cache.NewMemoryCache(time.Minute),
	})
	return f
}

func (f *fixture) register(t *testing.T, name string, admin bool) *domain.Actor {
	t.Helper()
	ctx := context.Background()
	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"
	session, err := f.Auth.Register(ctx, email, "password123", name)
	require.NoError(t, err)
	if admin {
		require.NoError(t, f.profiles.SetAdmin(ctx, session.User.ID, true))
	}
	return &domain.Actor{UserID: session.User.ID, IsAdmin: admin}
}

func (f *fixture) upload(t *testing.T, actor *domain.Actor) *domain.MediaFile {
	t.Helper()
	media, err := f.Media.Upload(context.Background(), actor, UploadInput{
		Kind:        domain.MediaKindImage,
		FileName:    "road.jpg",
		ContentType: "image/jpeg",
		Size:        4,
		Body:        strings.NewReader("jpeg"),
	})
	require.NoError(t, err)
	return media
}

func (f *fixture) submit(t *testing.T, actor *domain.Actor, location string) *domain.Report {
	t.Helper()
	media := f.upload(t, actor)
	report, err := f.Reports.Submit(context.Background(), actor, SubmitReportInput{
		FileID:     media.ID,
		Location:   location,
		Detections: domain.Detections{Potholes: 3, Cracks: 2, SeverityScore: 7.2},
	})
	require.NoError(t, err)
	return report
}

func strPtr(s string) *string { return &s }

func statusPtr(s domain.ReportStatus) *domain.ReportStatus { return &s }
