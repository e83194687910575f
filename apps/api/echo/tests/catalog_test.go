package tests

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnifyhq/learnify/core/catalog"
	"github.com/learnifyhq/learnify/core/user"
)

func Test_catalogApi_teacherRequestLifecycle(t *testing.T) {
	env := setup(t)
	applicant := env.createUser(t, "inst-1", "Jane Doe", "jane@test.cd", "")
	admin := env.createUser(t, "adm-1", "Root", "root@test.cd", user.RoleAdmin)

	body := marshallObj(t, catalog.NewTeacherRequest{
		Name:            "Jane Doe",
		InstructorEmail: "Jane@Test.cd",
		Category:        "Programming",
		Experience:      "5 years",
	})
	req, rec := newRequest(http.MethodPost, "/v1/teacher-requests", body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeMap(t, rec)
	reqID, _ := resp["id"].(string)
	require.NotEmpty(t, reqID)
	assert.Equal(t, catalog.StatusPending, resp["status"])
	assert.Equal(t, "jane@test.cd", resp["instructor_email"])

	// deciding requires an admin token
	req, rec = newRequest(http.MethodPut, "/v1/teacher-requests/"+reqID+"/approve")
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req, rec = newAuthRequest(http.MethodPut, "/v1/teacher-requests/"+reqID+"/approve", getToken(t, applicant))
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req, rec = newAuthRequest(http.MethodPut, "/v1/teacher-requests/"+reqID+"/approve", getToken(t, admin))
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "teacher request approved", decodeMap(t, rec)["success"])

	// approval promoted the applicant
	req, rec = newRequest(http.MethodGet, "/v1/users/inst-1/role")
	env.server.ServeHTTP(rec, req)
	assert.Equal(t, user.RoleTeacher, decodeMap(t, rec)["role"])

	// the request is terminal now
	req, rec = newAuthRequest(http.MethodPut, "/v1/teacher-requests/"+reqID+"/reject", getToken(t, admin))
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, catalog.ErrNotFound.Error(), decodeMap(t, rec)["error"])
}

func Test_catalogApi_classLifecycle(t *testing.T) {
	env := setup(t)
	instructor := env.createUser(t, "inst-1", "Jane Doe", "jane@test.cd", user.RoleTeacher)
	admin := env.createUser(t, "adm-1", "Root", "root@test.cd", user.RoleAdmin)

	body := marshallObj(t, catalog.NewClassOffering{
		InstructorName:  "Jane Doe",
		InstructorEmail: "jane@test.cd",
		Title:           "Go for Grownups",
		Price:           50,
	})
	req, rec := newRequest(http.MethodPost, "/v1/classes", body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeMap(t, rec)
	classID, _ := resp["id"].(string)
	require.NotEmpty(t, classID)
	assert.Equal(t, catalog.StatusPending, resp["status"])

	// not approved yet, so a status filter hides it
	req, rec = newRequest(http.MethodGet, "/v1/classes?status=approved")
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeMap(t, rec)["classes"], 0)

	req, rec = newAuthRequest(http.MethodGet, "/v1/classes/all", getToken(t, admin))
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 1)

	req, rec = newAuthRequest(http.MethodPut, "/v1/classes/"+classID+"/approve", getToken(t, admin))
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req, rec = newRequest(http.MethodGet, "/v1/classes?status=approved")
	env.server.ServeHTTP(rec, req)
	assert.Len(t, decodeMap(t, rec)["classes"], 1)

	// update, as the instructor
	update := marshallObj(t, map[string]string{"description": "A pragmatic tour."})
	req, rec = newAuthRequest(http.MethodPut, "/v1/classes/"+classID, getToken(t, instructor), update)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req, rec = newRequest(http.MethodGet, "/v1/classes/"+classID)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A pragmatic tour.", decodeMap(t, rec)["description"])

	// no-change update reads as not found
	req, rec = newAuthRequest(http.MethodPut, "/v1/classes/"+classID, getToken(t, instructor), update)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// delete, then the class is gone
	req, rec = newAuthRequest(http.MethodDelete, "/v1/classes/"+classID, getToken(t, instructor))
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req, rec = newRequest(http.MethodGet, "/v1/classes/"+classID)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_catalogApi_classPagination(t *testing.T) {
	env := setup(t)
	admin := env.createUser(t, "adm-1", "Root", "root@test.cd", user.RoleAdmin)
	adminToken := getToken(t, admin)

	for i := 0; i < 5; i++ {
		body := marshallObj(t, catalog.NewClassOffering{
			InstructorName:  "Jane Doe",
			InstructorEmail: "jane@test.cd",
			Title:           fmt.Sprintf("Course %d", i),
		})
		req, rec := newRequest(http.MethodPost, "/v1/classes", body)
		env.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
		classID, _ := decodeMap(t, rec)["id"].(string)
		req, rec = newAuthRequest(http.MethodPut, "/v1/classes/"+classID+"/approve", adminToken)
		env.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	req, rec := newRequest(http.MethodGet, "/v1/classes?page=2&limit=2")
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeMap(t, rec)
	assert.Len(t, resp["classes"], 2)
	assert.EqualValues(t, 3, resp["total_pages"])
	assert.EqualValues(t, 2, resp["current_page"])

	// filter by instructor email
	req, rec = newRequest(http.MethodGet, "/v1/classes?instructorEmail=ghost@test.cd")
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeMap(t, rec)["classes"], 0)
}
