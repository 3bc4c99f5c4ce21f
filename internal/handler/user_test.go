package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/user-auth-service/internal/config"
	"github.com/iliyamo/user-auth-service/internal/handler"
	"github.com/iliyamo/user-auth-service/internal/model"
	"github.com/iliyamo/user-auth-service/internal/router"
	"github.com/iliyamo/user-auth-service/internal/utils"
)

// newUserServer seeds the store with an admin, two active members and one
// deactivated member, and returns bearer tokens for the admin and a member.
func newUserServer(t *testing.T) (e *echo.Echo, store *fakeStore, adminTok, memberTok string) {
	t.Helper()
	store = newFakeStore()

	seed := []*model.User{
		{Email: "admin@x.com", Username: "root", FirstName: "Ada", LastName: "Admin", IsActive: true, IsAdmin: true},
		{Email: "a@x.com", Username: "alice", FirstName: "Alice", LastName: "Liddell", IsActive: true},
		{Email: "b@x.com", Username: "bob", FirstName: "Bob", LastName: "Builder", IsActive: true},
		{Email: "c@x.com", Username: "carol", FirstName: "Carol", LastName: "Closed", IsActive: false},
	}
	for _, u := range seed {
		_, err := store.Create(context.Background(), u)
		require.NoError(t, err)
	}

	e = echo.New()
	router.RegisterUsers(e, handler.NewUserHandler(store), store, testSecret, config.CacheConfig{}, nil)

	var err error
	adminTok, err = utils.NewToken(testSecret, utils.TokenKindAccess, 1, "root", "admin@x.com", time.Hour)
	require.NoError(t, err)
	memberTok, err = utils.NewToken(testSecret, utils.TokenKindAccess, 2, "alice", "a@x.com", time.Hour)
	require.NoError(t, err)
	return e, store, adminTok, memberTok
}

func TestUsers_AdminOnly(t *testing.T) {
	e, _, _, memberTok := newUserServer(t)

	rec := doJSON(e, http.MethodGet, "/v1/users", "", memberTok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "forbidden")

	rec = doJSON(e, http.MethodGet, "/v1/users", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUsers_List(t *testing.T) {
	e, _, adminTok, _ := newUserServer(t)

	rec := doJSON(e, http.MethodGet, "/v1/users?page=1&size=2", "", adminTok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Users      []model.User   `json:"users"`
		Pagination utils.PageInfo `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Users, 2)
	assert.Equal(t, 4, resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNext)
	assert.False(t, resp.Pagination.HasPrev)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestUsers_ListActiveOnly(t *testing.T) {
	e, _, adminTok, _ := newUserServer(t)

	rec := doJSON(e, http.MethodGet, "/v1/users?active_only=true", "", adminTok)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Users      []model.User   `json:"users"`
		Pagination utils.PageInfo `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Pagination.Total)
	for _, u := range resp.Users {
		assert.True(t, u.IsActive)
	}
}

func TestUsers_Search(t *testing.T) {
	e, _, adminTok, _ := newUserServer(t)

	rec := doJSON(e, http.MethodGet, "/v1/users/search", "", adminTok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodGet, "/v1/users/search?q=liddell", "", adminTok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice")
	assert.NotContains(t, rec.Body.String(), "bob")

	// deactivated users are excluded from search results
	rec = doJSON(e, http.MethodGet, "/v1/users/search?q=carol", "", adminTok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "carol")
}

func TestUsers_Get(t *testing.T) {
	e, _, adminTok, _ := newUserServer(t)

	rec := doJSON(e, http.MethodGet, "/v1/users/2", "", adminTok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)

	rec = doJSON(e, http.MethodGet, "/v1/users/999", "", adminTok)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodGet, "/v1/users/abc", "", adminTok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUsers_UpdatePartial(t *testing.T) {
	e, store, adminTok, _ := newUserServer(t)

	rec := doJSON(e, http.MethodPut, "/v1/users/2", `{"first_name":"Alicia","is_admin":true}`, adminTok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	u, err := store.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", u.FirstName)
	assert.True(t, u.IsAdmin)
	// untouched fields keep their values
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "Liddell", u.LastName)
}

func TestUsers_UpdateDuplicateEmail(t *testing.T) {
	e, _, adminTok, _ := newUserServer(t)

	rec := doJSON(e, http.MethodPut, "/v1/users/2", `{"email":"b@x.com"}`, adminTok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email already registered")
}

func TestUsers_UpdateValidation(t *testing.T) {
	e, _, adminTok, _ := newUserServer(t)

	rec := doJSON(e, http.MethodPut, "/v1/users/2", `{"email":"not-an-email"}`, adminTok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation failed")
}

func TestUsers_DeleteIsSoft(t *testing.T) {
	e, store, adminTok, _ := newUserServer(t)

	rec := doJSON(e, http.MethodDelete, "/v1/users/2", "", adminTok)
	require.Equal(t, http.StatusOK, rec.Code)

	u, err := store.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, u.IsActive)

	// the record survives, so registering the same email must still fail
	_, err = store.Create(context.Background(), &model.User{Email: "a@x.com", Username: "someone"})
	assert.Error(t, err)

	rec = doJSON(e, http.MethodDelete, "/v1/users/999", "", adminTok)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUsers_DeactivatedAdminLosesAccess(t *testing.T) {
	e, store, adminTok, _ := newUserServer(t)

	require.NoError(t, store.Deactivate(context.Background(), 1))

	rec := doJSON(e, http.MethodGet, "/v1/users", "", adminTok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
