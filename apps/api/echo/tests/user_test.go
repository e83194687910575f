package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnifyhq/learnify/core/user"
)

func Test_home(t *testing.T) {
	env := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Learnify API!", rec.Body.String())
}

func Test_userApi_create(t *testing.T) {
	env := setup(t)

	// ok
	body := marshallObj(t, user.NewUser{UID: "fb-1", Name: "Jane Doe", Email: "Jane@Test.cd"})
	req, rec := newRequest(http.MethodPost, "/v1/users", body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeMap(t, rec)
	assert.NotEmpty(t, resp["id"])
	assert.Equal(t, "jane@test.cd", resp["email"]) // lowered
	assert.Equal(t, user.RoleStudent, resp["role"])

	// duplicate uid
	body = marshallObj(t, user.NewUser{UID: "fb-1", Name: "Impostor", Email: "other@test.cd"})
	req, rec = newRequest(http.MethodPost, "/v1/users", body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, user.ErrUserExists.Error(), decodeMap(t, rec)["error"])

	// invalid payload
	body = marshallObj(t, user.NewUser{UID: "fb-2", Name: "No Email", Email: "not-an-email"})
	req, rec = newRequest(http.MethodPost, "/v1/users", body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeMap(t, rec), "email")
}

func Test_userApi_retrieveRole(t *testing.T) {
	env := setup(t)
	env.createUser(t, "fb-1", "Jane Doe", "jane@test.cd", "")

	req, rec := newRequest(http.MethodGet, "/v1/users/fb-1/role")
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.RoleStudent, decodeMap(t, rec)["role"])

	req, rec = newRequest(http.MethodGet, "/v1/users/ghost/role")
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_userApi_searchAndQuery(t *testing.T) {
	env := setup(t)
	env.createUser(t, "fb-1", "Jane Doe", "jane@test.cd", "")
	env.createUser(t, "fb-2", "John Punk", "john@test.cd", "")

	req, rec := newRequest(http.MethodGet, "/v1/users")
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 2)

	req, rec = newRequest(http.MethodGet, "/v1/users/search?term=punk")
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decodeList(t, rec)
	require.Len(t, users, 1)
	assert.Equal(t, "fb-2", users[0]["uid"])

	// blank term short-circuits to an empty list
	req, rec = newRequest(http.MethodGet, "/v1/users/search?term=")
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 0)
}

func Test_userApi_adminEndpoints(t *testing.T) {
	env := setup(t)
	student := env.createUser(t, "stu-1", "Jane Doe", "jane@test.cd", "")
	admin := env.createUser(t, "adm-1", "Root", "root@test.cd", user.RoleAdmin)

	body := marshallObj(t, user.TeacherPromotion{Email: "jane@test.cd"})

	// no token
	req, rec := newRequest(http.MethodPut, "/v1/users/make-teacher", body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, errMissingToken.Error, decodeMap(t, rec)["error"])

	// student token
	req, rec = newAuthRequest(http.MethodPut, "/v1/users/make-teacher", getToken(t, student), body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// admin token
	req, rec = newAuthRequest(http.MethodPut, "/v1/users/make-teacher", getToken(t, admin), body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user promoted to teacher", decodeMap(t, rec)["success"])

	// promotion is visible on the public role route
	req, rec = newRequest(http.MethodGet, "/v1/users/stu-1/role")
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.RoleTeacher, decodeMap(t, rec)["role"])

	// repeating the promotion changes nothing
	req, rec = newAuthRequest(http.MethodPut, "/v1/users/make-teacher", getToken(t, admin), body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// dynamic role update
	body = marshallObj(t, user.RoleUpdate{Role: user.RoleStudent})
	req, rec = newAuthRequest(http.MethodPut, "/v1/users/"+student.ID+"/update-role", getToken(t, admin), body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req, rec = newRequest(http.MethodGet, "/v1/users/stu-1/role")
	env.server.ServeHTTP(rec, req)
	assert.Equal(t, user.RoleStudent, decodeMap(t, rec)["role"])
}
