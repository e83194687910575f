package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	echoapi "github.com/learnifyhq/learnify/apps/api/echo"
	"github.com/learnifyhq/learnify/core"
	"github.com/learnifyhq/learnify/core/assignment"
	"github.com/learnifyhq/learnify/core/catalog"
	"github.com/learnifyhq/learnify/core/enrollment"
	"github.com/learnifyhq/learnify/core/evaluation"
	"github.com/learnifyhq/learnify/core/resource"
	"github.com/learnifyhq/learnify/core/user"
	emailsvc "github.com/learnifyhq/learnify/services/email"
	logsvc "github.com/learnifyhq/learnify/services/logger"
	dummydb "github.com/learnifyhq/learnify/storage/database/dummy"
)

var conf = &core.Config{
	TestMode:         true,
	AppName:          "Learnify",
	SecretKey:        "secret",
	DefaultFromEmail: mail.Address{Name: "Learnify", Address: "noreply@localhost"},
}

type env struct {
	server echoapi.Server
	usrSvc *user.Service
}

func setup(t *testing.T) *env {
	db, err := dummydb.Open()
	require.NoError(t, err)

	logger := logsvc.NewStdLogger(log.New(io.Discard, "", 0))
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	usrSvc := user.NewService(dummydb.NewUserRepository(db))
	catSvc := catalog.NewService(dummydb.NewCatalogRepository(db), usrSvc, mailSvc, logger)
	enrSvc := enrollment.NewService(dummydb.NewEnrollmentRepository(db), logger)
	asgSvc := assignment.NewService(dummydb.NewAssignmentRepository(db), logger)
	evalSvc := evaluation.NewService(dummydb.NewEvaluationRepository(db))
	resSvc := resource.NewService(dummydb.NewResourceRepository(db))

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	resource.InitValidators(validate, translator)

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			UserSvc:    usrSvc,
			CatalogSvc: catSvc,
			EnrollSvc:  enrSvc,
			AsgSvc:     asgSvc,
			EvalSvc:    evalSvc,
			ResSvc:     resSvc,
			Validate:   validate,
			Translator: translator,
		},
	)
	return &env{server: server, usrSvc: usrSvc}
}

// createUser registers a user and optionally forces a role.
func (e *env) createUser(t *testing.T, uid, name, email, role string) user.User {
	ctx := context.Background()
	usr, err := e.usrSvc.Register(ctx, user.NewUser{UID: uid, Name: name, Email: email})
	require.NoError(t, err)
	if role != "" && role != user.RoleStudent {
		require.NoError(t, e.usrSvc.SetRole(ctx, usr.ID, role))
		usr.Role = role
	}
	return usr
}

type httpErr struct {
	Error string `json:"error"`
}

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := &echoapi.Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   usr.UID,
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
		UID:   usr.UID,
		Name:  usr.Name,
		Email: usr.Email,
	}
	token, err := echoapi.GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var m map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decodeMap() failed: %v (body: %s)", err, rec.Body.String())
	}
	return m
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	var l []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &l); err != nil {
		t.Fatalf("decodeList() failed: %v (body: %s)", err, rec.Body.String())
	}
	return l
}
