package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GabeHenrique/ong-connect-api/internal/auth"
	"github.com/GabeHenrique/ong-connect-api/internal/constants"
	"github.com/GabeHenrique/ong-connect-api/internal/database"
	"github.com/GabeHenrique/ong-connect-api/internal/logger"
	"github.com/GabeHenrique/ong-connect-api/internal/mail"
	"github.com/GabeHenrique/ong-connect-api/internal/middleware"
	"github.com/GabeHenrique/ong-connect-api/internal/models"
	"github.com/GabeHenrique/ong-connect-api/internal/repository"
	"github.com/GabeHenrique/ong-connect-api/internal/services"
	"github.com/GabeHenrique/ong-connect-api/internal/storage"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeStorage struct {
	deleted []string
}

func (f *fakeStorage) Upload(ctx context.Context, file storage.File) (string, error) {
	if _, err := io.Copy(io.Discard, file.Body); err != nil {
		return "", err
	}
	return "https://ong-connect.s3.sa-east-1.amazonaws.com/" + storage.ObjectKey(time.Now(), file.Name), nil
}

func (f *fakeStorage) Delete(ctx context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

type fakeMailer struct {
	sent []mail.Message
}

func (f *fakeMailer) Send(ctx context.Context, msg mail.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

type handlerTestEnv struct {
	db           *gorm.DB
	tokens       *auth.TokenManager
	storage      *fakeStorage
	mailer       *fakeMailer
	authHandler  *AuthHandler
	eventHandler *EventHandler
	eventService *services.EventService
}

func setupHandlerTestEnv(t *testing.T) *handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	env := &handlerTestEnv{
		db:      db,
		tokens:  tokens,
		storage: &fakeStorage{},
		mailer:  &fakeMailer{},
	}

	authService := services.NewAuthService(userRepo, tokens, env.mailer, "http://localhost:3001", logger.Discard())
	env.eventService = services.NewEventService(eventRepo, userRepo, env.storage)
	enrollmentService := services.NewEnrollmentService(eventRepo, userRepo, enrollmentRepo)

	env.authHandler = NewAuthHandler(authService)
	env.eventHandler = NewEventHandler(env.eventService, enrollmentService, 1)
	return env
}

func (env *handlerTestEnv) router() *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	return r
}

// eventRouter mounts the event routes with the same guards as the server.
func (env *handlerTestEnv) eventRouter() *gin.Engine {
	r := env.router()
	requireAuth := middleware.RequireAuth(env.tokens)
	loadEvent := middleware.LoadEvent(env.eventService)

	r.GET("/events", env.eventHandler.ListEvents)
	r.GET("/events/:id", env.eventHandler.GetEvent)
	r.POST("/events", requireAuth, middleware.Authorize(middleware.ActionCreateEvent, nil), env.eventHandler.CreateEvent)
	r.PUT("/events/:id", requireAuth, loadEvent, middleware.Authorize(middleware.ActionModifyEvent, middleware.EventOwner), env.eventHandler.UpdateEvent)
	r.DELETE("/events/:id", requireAuth, loadEvent, middleware.Authorize(middleware.ActionModifyEvent, middleware.EventOwner), env.eventHandler.DeleteEvent)
	r.POST("/events/:id/toggle-attendance/:userEmail", requireAuth, loadEvent, middleware.Authorize(middleware.ActionEnroll, middleware.EventSubject("userEmail")), env.eventHandler.ToggleAttendance)
	r.POST("/events/:id/apply", requireAuth, loadEvent, env.eventHandler.ApplyForEvent)
	r.GET("/events/user/:email", requireAuth, env.eventHandler.ListUserEvents)
	r.GET("/events/:id/applications", requireAuth, loadEvent, middleware.Authorize(middleware.ActionViewApplications, middleware.EventOwner), env.eventHandler.ListApplications)
	return r
}

func (env *handlerTestEnv) createUser(t *testing.T, email string, role models.UserRole) (*models.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{Email: email, Name: email, PasswordHash: string(hash), Role: role}
	require.NoError(t, env.db.Create(user).Error)

	token, err := env.tokens.Issue(user.ID, user.Email, string(user.Role))
	require.NoError(t, err)
	return user, token
}

func (env *handlerTestEnv) createEvent(t *testing.T, creatorID uint64, name string) *models.Event {
	t.Helper()
	event := &models.Event{
		Name:      name,
		Location:  "Olinda",
		Date:      time.Date(2026, 11, 15, 9, 0, 0, 0, time.UTC),
		Image:     "https://ong-connect.s3.sa-east-1.amazonaws.com/1-" + name + ".jpg",
		Vagas:     10,
		CreatorID: creatorID,
	}
	require.NoError(t, env.db.Omit("Creator", "Volunteers", "Applications").Create(event).Error)
	return event
}

func jsonRequest(t *testing.T, method, target string, payload interface{}, token string) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, fileName string, token string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile(constants.EventImageField, fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte("\xff\xd8\xff\xe0 fake jpeg"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
