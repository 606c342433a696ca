package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-scheduler/internal/constants"
	"github.com/yukikurage/task-scheduler/internal/database"
	"github.com/yukikurage/task-scheduler/internal/dto"
	apierrors "github.com/yukikurage/task-scheduler/internal/errors"
	"github.com/yukikurage/task-scheduler/internal/repository"
	"github.com/yukikurage/task-scheduler/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// HandlerTestSuite drives the full router against an in-memory SQLite database
type HandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	router  *gin.Engine
	pingErr error
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

// SetupTest runs before each test
func (suite *HandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        database.Now,
		TranslateError: true,
	})
	suite.Require().NoError(err)

	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.Require().NoError(database.Migrate(suite.db, database.DefaultSchema, log))

	gin.SetMode(gin.TestMode)

	suite.pingErr = nil
	suite.router = NewRouter(Dependencies{
		Users:     services.NewUserService(repository.NewUserRepository(suite.db), bcrypt.MinCost),
		Resources: services.NewResourceService(repository.NewResourceRepository(suite.db)),
		Tasks:     services.NewTaskService(repository.NewTaskRepository(suite.db)),
		Ping: func(ctx context.Context) error {
			if suite.pingErr != nil {
				return suite.pingErr
			}
			return database.Ping(ctx, suite.db)
		},
		AllowedOrigins: []string{"http://localhost:3000"},
		Logger:         log,
	})
}

// TearDownTest runs after each test
func (suite *HandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *HandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder, out any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func (suite *HandlerTestSuite) createUser(email string) dto.UserDTO {
	w := suite.do(http.MethodPost, "/api/users", map[string]any{
		"email":    email,
		"password": "password123",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var user dto.UserDTO
	suite.decode(w, &user)
	return user
}

func (suite *HandlerTestSuite) createResource(name, typ string) dto.ResourceDTO {
	w := suite.do(http.MethodPost, "/api/resources", map[string]any{"name": name, "type": typ})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resource dto.ResourceDTO
	suite.decode(w, &resource)
	return resource
}

func (suite *HandlerTestSuite) createTask(title string, creatorID uint64) dto.TaskDTO {
	w := suite.do(http.MethodPost, "/api/tasks", map[string]any{
		"title":      title,
		"start_time": "2024-01-01T09:00:00Z",
		"end_time":   "2024-01-01T10:00:00Z",
		"created_by": creatorID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var task dto.TaskDTO
	suite.decode(w, &task)
	return task
}

// TestHealth_OK tests the health endpoint with a reachable database
func (suite *HandlerTestSuite) TestHealth_OK() {
	w := suite.do(http.MethodGet, "/health", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.NotEmpty(suite.T(), w.Header().Get(constants.HeaderRequestID))
}

// TestHealth_Unavailable tests the health endpoint when the database is down
func (suite *HandlerTestSuite) TestHealth_Unavailable() {
	suite.pingErr = errors.New("connection refused")

	w := suite.do(http.MethodGet, "/health", nil)

	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
	var body apierrors.APIError
	suite.decode(w, &body)
	assert.Equal(suite.T(), apierrors.ErrCodeServiceUnavailable, body.Code)
	assert.Equal(suite.T(), w.Header().Get(constants.HeaderRequestID), body.RequestID)
}

// TestRequestID_IsEchoed tests that a caller supplied request ID is reused
func (suite *HandlerTestSuite) TestRequestID_IsEchoed() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(constants.HeaderRequestID, "abc-123")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), "abc-123", w.Header().Get(constants.HeaderRequestID))
}

// TestCreateUser_Success tests user creation without leaking the hash
func (suite *HandlerTestSuite) TestCreateUser_Success() {
	w := suite.do(http.MethodPost, "/api/users", map[string]any{
		"email":    "A@X.com",
		"password": "password123",
		"role":     "manager",
	})

	assert.Equal(suite.T(), http.StatusCreated, w.Code)
	assert.NotContains(suite.T(), w.Body.String(), "password")

	var user dto.UserDTO
	suite.decode(w, &user)
	assert.Equal(suite.T(), "a@x.com", user.Email)
	assert.Equal(suite.T(), "manager", string(user.Role))
	assert.True(suite.T(), user.IsActive)
}

// TestCreateUser_ValidationDetails tests that field errors are reported
func (suite *HandlerTestSuite) TestCreateUser_ValidationDetails() {
	w := suite.do(http.MethodPost, "/api/users", map[string]any{"email": "bad", "password": "password123"})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	var body struct {
		Code    string                `json:"code"`
		Details []repository.FieldError `json:"details"`
	}
	suite.decode(w, &body)
	assert.Equal(suite.T(), apierrors.ErrCodeInvalidInput, body.Code)
	suite.Require().Len(body.Details, 1)
	assert.Equal(suite.T(), "email", body.Details[0].Field)
}

// TestCreateUser_MultibytePasswordTooLong tests that bcrypt's byte limit is a 400
func (suite *HandlerTestSuite) TestCreateUser_MultibytePasswordTooLong() {
	w := suite.do(http.MethodPost, "/api/users", map[string]any{
		"email":    "mb@x.com",
		"password": strings.Repeat("é", 40),
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	var body struct {
		Code    string                  `json:"code"`
		Details []repository.FieldError `json:"details"`
	}
	suite.decode(w, &body)
	assert.Equal(suite.T(), apierrors.ErrCodeInvalidInput, body.Code)
	suite.Require().Len(body.Details, 1)
	assert.Equal(suite.T(), "password", body.Details[0].Field)
}

// TestCreateUser_InvalidBody tests malformed JSON
func (suite *HandlerTestSuite) TestCreateUser_InvalidBody() {
	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateUser_DuplicateEmail tests the conflict response
func (suite *HandlerTestSuite) TestCreateUser_DuplicateEmail() {
	suite.createUser("dup@x.com")

	w := suite.do(http.MethodPost, "/api/users", map[string]any{"email": "dup@x.com", "password": "password123"})

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	var body apierrors.APIError
	suite.decode(w, &body)
	assert.Equal(suite.T(), repository.ErrEmailTaken.Error(), body.Message)
}

// TestGetUser_NotFound tests the loader's 404
func (suite *HandlerTestSuite) TestGetUser_NotFound() {
	w := suite.do(http.MethodGet, "/api/users/42", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w = suite.do(http.MethodGet, "/api/users/abc", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestUpdateUser_Success tests a partial user update
func (suite *HandlerTestSuite) TestUpdateUser_Success() {
	user := suite.createUser("u@x.com")

	w := suite.do(http.MethodPatch, fmt.Sprintf("/api/users/%d", user.ID), map[string]any{
		"role":      "admin",
		"is_active": false,
	})

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var updated dto.UserDTO
	suite.decode(w, &updated)
	assert.Equal(suite.T(), "admin", string(updated.Role))
	assert.False(suite.T(), updated.IsActive)
	assert.Equal(suite.T(), "u@x.com", updated.Email)
}

// TestListUsers_Filters tests role and is_active filtering with pagination metadata
func (suite *HandlerTestSuite) TestListUsers_Filters() {
	suite.createUser("one@x.com")
	suite.createUser("two@x.com")

	w := suite.do(http.MethodGet, "/api/users?is_active=true&limit=1", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var list dto.UserListResponse
	suite.decode(w, &list)
	assert.Len(suite.T(), list.Users, 1)
	suite.Require().NotNil(list.Pagination)
	assert.Equal(suite.T(), int64(2), list.Pagination.Total)
	assert.Equal(suite.T(), 1, list.Pagination.Limit)

	w = suite.do(http.MethodGet, "/api/users?role=root", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/users?is_active=maybe", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestDeleteUser_ClearsCreator tests that created tasks survive their creator
func (suite *HandlerTestSuite) TestDeleteUser_ClearsCreator() {
	user := suite.createUser("gone@x.com")
	task := suite.createTask("Orphan", user.ID)

	w := suite.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", user.ID), nil)
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var stored dto.TaskDTO
	suite.decode(w, &stored)
	assert.Nil(suite.T(), stored.CreatedBy)
	assert.Nil(suite.T(), stored.Creator)
}

// TestCreateTask_UnknownCreator tests the 422 for a missing reference
func (suite *HandlerTestSuite) TestCreateTask_UnknownCreator() {
	w := suite.do(http.MethodPost, "/api/tasks", map[string]any{
		"title":      "Ghost",
		"start_time": "2024-01-01T09:00:00Z",
		"end_time":   "2024-01-01T10:00:00Z",
		"created_by": 999,
	})

	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)
	var body apierrors.APIError
	suite.decode(w, &body)
	assert.Equal(suite.T(), apierrors.ErrCodeInvalidReference, body.Code)
}

// TestTaskRoundTrip tests that a created task reads back unchanged
func (suite *HandlerTestSuite) TestTaskRoundTrip() {
	user := suite.createUser("a@x.com")
	created := suite.createTask("Standup", user.ID)

	w := suite.do(http.MethodGet, fmt.Sprintf("/api/tasks/%d", created.ID), nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var read dto.TaskDTO
	suite.decode(w, &read)
	assert.Equal(suite.T(), created.ID, read.ID)
	assert.Equal(suite.T(), "Standup", read.Title)
	assert.True(suite.T(), created.StartTime.Equal(read.StartTime))
	assert.True(suite.T(), created.EndTime.Equal(read.EndTime))
	assert.True(suite.T(), created.CreatedAt.Equal(read.CreatedAt))
	assert.True(suite.T(), time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC).Equal(read.StartTime))
	suite.Require().NotNil(read.Creator)
	assert.Equal(suite.T(), "a@x.com", read.Creator.Email)
}

// TestUpdateTask_Success tests a partial task update
func (suite *HandlerTestSuite) TestUpdateTask_Success() {
	user := suite.createUser("a@x.com")
	task := suite.createTask("Old", user.ID)

	w := suite.do(http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), map[string]any{
		"title":    "New",
		"end_time": "2024-01-01T11:00:00Z",
	})

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var updated dto.TaskDTO
	suite.decode(w, &updated)
	assert.Equal(suite.T(), "New", updated.Title)
	assert.True(suite.T(), time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC).Equal(updated.EndTime))
}

// TestListTasks_Window tests time window filtering
func (suite *HandlerTestSuite) TestListTasks_Window() {
	user := suite.createUser("a@x.com")
	suite.createTask("Standup", user.ID)

	w := suite.do(http.MethodGet, "/api/tasks?from=2024-01-01T09:30:00Z&to=2024-01-01T12:00:00Z", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var list dto.TaskListResponse
	suite.decode(w, &list)
	assert.Len(suite.T(), list.Tasks, 1)

	w = suite.do(http.MethodGet, "/api/tasks?from=2024-01-02T00:00:00Z", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	suite.decode(w, &list)
	assert.Empty(suite.T(), list.Tasks)

	w = suite.do(http.MethodGet, "/api/tasks?from=yesterday", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/tasks?from=2024-01-02T00:00:00Z&to=2024-01-01T00:00:00Z", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestProjectorScenario walks the assign and traverse flow end to end
func (suite *HandlerTestSuite) TestProjectorScenario() {
	user := suite.createUser("a@x.com")
	projector := suite.createResource("Projector", "equipment")
	task := suite.createTask("Standup", user.ID)

	w := suite.do(http.MethodPost, fmt.Sprintf("/api/tasks/%d/resources", task.ID), map[string]any{
		"ids": []uint64{projector.ID},
	})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var resources dto.ResourceListResponse
	suite.decode(w, &resources)
	suite.Require().Len(resources.Resources, 1)
	assert.Equal(suite.T(), projector.ID, resources.Resources[0].ID)
	assert.Nil(suite.T(), resources.Pagination)

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/resources/%d/tasks", projector.ID), nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var tasks dto.TaskListResponse
	suite.decode(w, &tasks)
	suite.Require().Len(tasks.Tasks, 1)
	assert.Equal(suite.T(), task.ID, tasks.Tasks[0].ID)
}

// TestAssignUsers_Flow tests assigning, re-assigning and unassigning users
func (suite *HandlerTestSuite) TestAssignUsers_Flow() {
	creator := suite.createUser("c@x.com")
	member := suite.createUser("m@x.com")
	task := suite.createTask("Sync", creator.ID)
	url := fmt.Sprintf("/api/tasks/%d/users", task.ID)

	w := suite.do(http.MethodPost, url, map[string]any{"ids": []uint64{member.ID}})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	// Assigning again is a no-op.
	w = suite.do(http.MethodPost, url, map[string]any{"ids": []uint64{member.ID}})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var users dto.UserListResponse
	suite.decode(w, &users)
	assert.Len(suite.T(), users.Users, 1)

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/users/%d/tasks", member.ID), nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var assigned dto.TaskListResponse
	suite.decode(w, &assigned)
	assert.Len(suite.T(), assigned.Tasks, 1)

	w = suite.do(http.MethodPost, url, map[string]any{"ids": []uint64{999}})
	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)

	w = suite.do(http.MethodPost, url, map[string]any{"ids": []uint64{}})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodDelete, fmt.Sprintf("%s/%d", url, member.ID), nil)
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	// Removing an absent assignment still succeeds.
	w = suite.do(http.MethodDelete, fmt.Sprintf("%s/%d", url, member.ID), nil)
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	w = suite.do(http.MethodDelete, url+"/zero", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, url, nil)
	suite.decode(w, &users)
	assert.Empty(suite.T(), users.Users)
}

// TestResource_DeactivateAndDelete tests soft and hard deletion of a resource
func (suite *HandlerTestSuite) TestResource_DeactivateAndDelete() {
	user := suite.createUser("a@x.com")
	room := suite.createResource("Room A", "room")
	task := suite.createTask("Meeting", user.ID)

	w := suite.do(http.MethodPost, fmt.Sprintf("/api/tasks/%d/resources", task.ID), map[string]any{"ids": []uint64{room.ID}})
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPost, fmt.Sprintf("/api/resources/%d/deactivate", room.ID), nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var deactivated dto.ResourceDTO
	suite.decode(w, &deactivated)
	assert.False(suite.T(), deactivated.IsActive)

	w = suite.do(http.MethodGet, "/api/resources?is_active=false&type=room", nil)
	var list dto.ResourceListResponse
	suite.decode(w, &list)
	assert.Len(suite.T(), list.Resources, 1)

	w = suite.do(http.MethodDelete, fmt.Sprintf("/api/resources/%d", room.ID), nil)
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/tasks/%d/resources", task.ID), nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	suite.decode(w, &list)
	assert.Empty(suite.T(), list.Resources)

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/resources/%d", room.ID), nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestDeleteTask_RemovesAssignments tests task deletion
func (suite *HandlerTestSuite) TestDeleteTask_RemovesAssignments() {
	user := suite.createUser("a@x.com")
	task := suite.createTask("Temp", user.ID)

	w := suite.do(http.MethodPost, fmt.Sprintf("/api/tasks/%d/users", task.ID), map[string]any{"ids": []uint64{user.ID}})
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), nil)
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/users/%d/tasks", user.ID), nil)
	var tasks dto.TaskListResponse
	suite.decode(w, &tasks)
	assert.Empty(suite.T(), tasks.Tasks)

	w = suite.do(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}
