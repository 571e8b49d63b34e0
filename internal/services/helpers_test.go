package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/GabeHenrique/ong-connect-api/internal/auth"
	"github.com/GabeHenrique/ong-connect-api/internal/database"
	"github.com/GabeHenrique/ong-connect-api/internal/logger"
	"github.com/GabeHenrique/ong-connect-api/internal/mail"
	"github.com/GabeHenrique/ong-connect-api/internal/models"
	"github.com/GabeHenrique/ong-connect-api/internal/repository"
	"github.com/GabeHenrique/ong-connect-api/internal/storage"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testFrontendURL = "http://localhost:3001"

type fakeStorage struct {
	mu        sync.Mutex
	uploaded  []string
	deleted   []string
	uploadErr error
	deleteErr error
}

func (f *fakeStorage) Upload(ctx context.Context, file storage.File) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	if file.Body != nil {
		if _, err := io.Copy(io.Discard, file.Body); err != nil {
			return "", err
		}
	}
	url := "https://ong-connect.s3.sa-east-1.amazonaws.com/" + file.Name
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

func (f *fakeStorage) Delete(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, url)
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type testEnv struct {
	db         *gorm.DB
	tokens     *auth.TokenManager
	storage    *fakeStorage
	mailer     *fakeMailer
	auth       *AuthService
	events     *EventService
	enrollment *EnrollmentService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))

	tokens, err := auth.NewTokenManager("access-secret", "reset-secret", time.Hour, time.Hour)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	env := &testEnv{
		db:      db,
		tokens:  tokens,
		storage: &fakeStorage{},
		mailer:  &fakeMailer{},
	}
	env.auth = NewAuthService(userRepo, tokens, env.mailer, testFrontendURL, logger.Discard())
	env.events = NewEventService(eventRepo, userRepo, env.storage)
	env.enrollment = NewEnrollmentService(eventRepo, userRepo, enrollmentRepo)
	return env
}

func createUser(t *testing.T, db *gorm.DB, email, password string, role models.UserRole) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		Name:         strings.Split(email, "@")[0],
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createEvent(t *testing.T, db *gorm.DB, creatorID uint64, name string, vagas int) *models.Event {
	t.Helper()
	event := &models.Event{
		Name:        name,
		Description: "Mutirão " + name,
		Location:    "Recife",
		Date:        time.Date(2026, 11, 20, 9, 0, 0, 0, time.UTC),
		Image:       "https://ong-connect.s3.sa-east-1.amazonaws.com/100-" + name + ".jpg",
		Vagas:       vagas,
		CreatorID:   creatorID,
	}
	require.NoError(t, db.Omit("Creator", "Volunteers", "Applications").Create(event).Error)
	return event
}

func imageFile(name string) *storage.File {
	return &storage.File{
		Name:        name,
		ContentType: "image/png",
		Size:        4,
		Body:        strings.NewReader("\x89PNG"),
	}
}

var errBoom = errors.New("boom")

// staleUserRepo serves reads taken before a concurrent writer committed:
// FindByID keeps returning the first snapshot and FindByEmail can be made
// to miss.
type staleUserRepo struct {
	repository.UserRepository

	mu          sync.Mutex
	snapshots   map[uint64]models.User
	missByEmail bool
}

func newStaleUserRepo(db *gorm.DB) *staleUserRepo {
	return &staleUserRepo{
		UserRepository: repository.NewUserRepository(db),
		snapshots:      make(map[uint64]models.User),
	}
}

func (r *staleUserRepo) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.snapshots[id]; ok {
		return &user, nil
	}
	user, err := r.UserRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.snapshots[id] = *user
	return user, nil
}

func (r *staleUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if r.missByEmail {
		return nil, gorm.ErrRecordNotFound
	}
	return r.UserRepository.FindByEmail(ctx, email)
}
