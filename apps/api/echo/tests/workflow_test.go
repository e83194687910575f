package tests

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnifyhq/learnify/core/assignment"
	"github.com/learnifyhq/learnify/core/catalog"
	"github.com/learnifyhq/learnify/core/enrollment"
	"github.com/learnifyhq/learnify/core/evaluation"
	"github.com/learnifyhq/learnify/core/resource"
	"github.com/learnifyhq/learnify/core/user"
)

// createApprovedClass submits a class through the API and approves it with
// the given admin token.
func createApprovedClass(t *testing.T, env *env, adminToken, title string) string {
	body := marshallObj(t, catalog.NewClassOffering{
		InstructorName:  "Jane Doe",
		InstructorEmail: "jane@test.cd",
		Title:           title,
		Price:           25,
	})
	req, rec := newRequest(http.MethodPost, "/v1/classes", body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	classID, _ := decodeMap(t, rec)["id"].(string)
	require.NotEmpty(t, classID)

	req, rec = newAuthRequest(http.MethodPut, "/v1/classes/"+classID+"/approve", adminToken)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return classID
}

func Test_enrollmentApi_flow(t *testing.T) {
	env := setup(t)
	student := env.createUser(t, "stu-1", "John Punk", "john@test.cd", "")
	admin := env.createUser(t, "adm-1", "Root", "root@test.cd", user.RoleAdmin)
	classID := createApprovedClass(t, env, getToken(t, admin), "Go for Grownups")
	token := getToken(t, student)

	body := marshallObj(t, enrollment.NewEnrollment{ClassID: classID})

	// enrolling needs a token
	req, rec := newRequest(http.MethodPost, "/v1/enroll", body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req, rec = newAuthRequest(http.MethodPost, "/v1/enroll", token, body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeMap(t, rec)
	assert.Equal(t, classID, resp["class_id"])
	assert.Equal(t, "stu-1", resp["user_id"])
	assert.EqualValues(t, 0, resp["progress"])

	// enrolling twice conflicts
	req, rec = newAuthRequest(http.MethodPost, "/v1/enroll", token, body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, enrollment.ErrAlreadyEnrolled.Error(), decodeMap(t, rec)["error"])

	// the enrollment shows up on the class
	req, rec = newRequest(http.MethodGet, "/v1/classes/"+classID)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decodeMap(t, rec)["total_enrollment"])

	// progress round-trips through the enrolled listing
	body = marshallObj(t, enrollment.ProgressUpdate{Progress: 42.5})
	req, rec = newAuthRequest(http.MethodPut, "/v1/classes/"+classID+"/progress", token, body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req, rec = newRequest(http.MethodGet, "/v1/enrolled-classes/stu-1")
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	courses := decodeList(t, rec)
	require.Len(t, courses, 1)
	assert.EqualValues(t, 42.5, courses[0]["progress"])

	// progress on a class the user never joined
	req, rec = newAuthRequest(http.MethodPut, "/v1/classes/ghost/progress", token, body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_enrollmentApi_payments(t *testing.T) {
	env := setup(t)
	student := env.createUser(t, "stu-1", "John Punk", "john@test.cd", "")
	admin := env.createUser(t, "adm-1", "Root", "root@test.cd", user.RoleAdmin)
	classID := createApprovedClass(t, env, getToken(t, admin), "Go for Grownups")
	token := getToken(t, student)

	// card number fails the shape check
	body := marshallObj(t, enrollment.NewPayment{
		ClassID:    classID,
		Amount:     25,
		CardNumber: "41111",
		ExpiryDate: "12/27",
		CVV:        "123",
	})
	req, rec := newAuthRequest(http.MethodPost, "/v1/payments", token, body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeMap(t, rec), "card_number")

	// unknown class
	body = marshallObj(t, enrollment.NewPayment{
		ClassID:    "ghost",
		Amount:     25,
		CardNumber: "4111111111111111",
		ExpiryDate: "12/27",
		CVV:        "123",
	})
	req, rec = newAuthRequest(http.MethodPost, "/v1/payments", token, body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// ok
	body = marshallObj(t, enrollment.NewPayment{
		ClassID:    classID,
		Amount:     25,
		CardNumber: "4111111111111111",
		ExpiryDate: "12/27",
		CVV:        "123",
	})
	req, rec = newAuthRequest(http.MethodPost, "/v1/payments", token, body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeMap(t, rec)
	assert.Equal(t, enrollment.PaymentStatusCompleted, resp["status"])
	txnID, _ := resp["transaction_id"].(string)
	assert.True(t, strings.HasPrefix(txnID, "TXN-"), "transaction_id = %q", txnID)
}

func Test_assignmentApi_flow(t *testing.T) {
	env := setup(t)
	student := env.createUser(t, "stu-1", "John Punk", "john@test.cd", "")
	teacher := env.createUser(t, "inst-1", "Jane Doe", "jane@test.cd", user.RoleTeacher)
	admin := env.createUser(t, "adm-1", "Root", "root@test.cd", user.RoleAdmin)
	classID := createApprovedClass(t, env, getToken(t, admin), "Go for Grownups")
	studentToken := getToken(t, student)
	teacherToken := getToken(t, teacher)

	deadline := time.Now().Add(7 * 24 * time.Hour).UTC()
	body := marshallObj(t, assignment.NewAssignment{Title: "Build a CLI", Deadline: deadline})

	// students cannot create assignments
	req, rec := newAuthRequest(http.MethodPost, "/v1/classes/"+classID+"/assignments", studentToken, body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req, rec = newAuthRequest(http.MethodPost, "/v1/classes/"+classID+"/assignments", teacherToken, body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeMap(t, rec)
	asgID, _ := resp["id"].(string)
	require.NotEmpty(t, asgID)
	assert.EqualValues(t, assignment.DefaultMaxPoints, resp["max_points"])

	// listing carries the per-assignment submission count
	req, rec = newRequest(http.MethodGet, "/v1/classes/"+classID+"/assignments")
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decodeList(t, rec)
	require.Len(t, listed, 1)
	assert.EqualValues(t, 0, listed[0]["submission_count"])

	// submit
	body = marshallObj(t, assignment.NewSubmission{SubmissionText: "v1"})
	req, rec = newAuthRequest(http.MethodPost, "/v1/assignments/"+asgID+"/submit", studentToken, body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	sub := decodeMap(t, rec)
	subID, _ := sub["id"].(string)
	require.NotEmpty(t, subID)
	assert.Equal(t, assignment.StatusSubmitted, sub["status"])

	// resubmitting replaces in place, same submission id
	body = marshallObj(t, assignment.NewSubmission{SubmissionText: "v2"})
	req, rec = newAuthRequest(http.MethodPost, "/v1/assignments/"+asgID+"/submit", studentToken, body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	sub = decodeMap(t, rec)
	assert.Equal(t, subID, sub["id"])
	assert.Equal(t, "v2", sub["submission_text"])

	// grade
	body = marshallObj(t, assignment.GradeInput{Grade: 92.5, Feedback: "nice"})
	req, rec = newAuthRequest(http.MethodPut, "/v1/submissions/"+subID+"/grade", teacherToken, body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// the submission view joins in the student's profile
	req, rec = newRequest(http.MethodGet, "/v1/assignments/"+asgID+"/submissions")
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	views := decodeList(t, rec)
	require.Len(t, views, 1)
	assert.Equal(t, "John Punk", views[0]["student_name"])
	assert.Equal(t, assignment.StatusGraded, views[0]["status"])
	assert.EqualValues(t, 92.5, views[0]["grade"])

	// the student view joins in assignment and class context
	req, rec = newRequest(http.MethodGet, "/v1/students/stu-1/submissions")
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	views = decodeList(t, rec)
	require.Len(t, views, 1)
	assert.Equal(t, "Build a CLI", views[0]["assignment_title"])
	assert.Equal(t, "Go for Grownups", views[0]["class_name"])

	// grading an unknown submission
	body = marshallObj(t, assignment.GradeInput{Grade: 50})
	req, rec = newAuthRequest(http.MethodPut, "/v1/submissions/ghost/grade", teacherToken, body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// delete cascades to submissions
	req, rec = newAuthRequest(http.MethodDelete, "/v1/assignments/"+asgID, teacherToken)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req, rec = newRequest(http.MethodGet, "/v1/assignments/"+asgID+"/submissions")
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 0)
}

func Test_evaluationApi_flow(t *testing.T) {
	env := setup(t)
	student := env.createUser(t, "stu-1", "John Punk", "john@test.cd", "")
	admin := env.createUser(t, "adm-1", "Root", "root@test.cd", user.RoleAdmin)
	classID := createApprovedClass(t, env, getToken(t, admin), "Go for Grownups")
	token := getToken(t, student)

	body := marshallObj(t, evaluation.NewEvaluation{Name: "John Punk", Rating: 4, Description: "solid"})
	req, rec := newAuthRequest(http.MethodPost, "/v1/classes/"+classID+"/evaluate", token, body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	// one review per user per class
	req, rec = newAuthRequest(http.MethodPost, "/v1/classes/"+classID+"/evaluate", token, body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, evaluation.ErrAlreadyReviewed.Error(), decodeMap(t, rec)["error"])

	// the class aggregate reflects the review
	req, rec = newRequest(http.MethodGet, "/v1/classes/"+classID)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	class := decodeMap(t, rec)
	assert.EqualValues(t, 4, class["average_rating"])
	assert.EqualValues(t, 1, class["total_reviews"])

	// reviews feed carries class context
	req, rec = newRequest(http.MethodGet, "/v1/reviews")
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	reviews := decodeList(t, rec)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Go for Grownups", reviews[0]["class_name"])

	// a rating outside [1,5] is rejected
	body = marshallObj(t, evaluation.NewEvaluation{Name: "John Punk", Rating: 6})
	req, rec = newAuthRequest(http.MethodPost, "/v1/classes/"+classID+"/evaluate", token, body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_resourceApi_flow(t *testing.T) {
	env := setup(t)
	teacher := env.createUser(t, "inst-1", "Jane Doe", "jane@test.cd", user.RoleTeacher)
	admin := env.createUser(t, "adm-1", "Root", "root@test.cd", user.RoleAdmin)
	classID := createApprovedClass(t, env, getToken(t, admin), "Go for Grownups")
	token := getToken(t, teacher)

	body := marshallObj(t, resource.NewResource{Title: "Slides", URL: "https://example.com/slides.pdf"})
	req, rec := newAuthRequest(http.MethodPost, "/v1/classes/"+classID+"/resources", token, body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeMap(t, rec)
	resID, _ := resp["id"].(string)
	require.NotEmpty(t, resID)
	assert.Equal(t, resource.TypeLink, resp["type"]) // defaulted

	// an unknown type is rejected
	body = marshallObj(t, resource.NewResource{Title: "Torrent", Type: "torrent", URL: "https://example.com/x"})
	req, rec = newAuthRequest(http.MethodPost, "/v1/classes/"+classID+"/resources", token, body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req, rec = newRequest(http.MethodGet, "/v1/classes/"+classID+"/resources")
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeList(t, rec), 1)

	req, rec = newAuthRequest(http.MethodDelete, "/v1/resources/"+resID, token)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req, rec = newAuthRequest(http.MethodDelete, "/v1/resources/"+resID, token)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
