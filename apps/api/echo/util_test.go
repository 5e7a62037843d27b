package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/darslyhq/darsly/apps/api/echo"
	"github.com/darslyhq/darsly/core"
	"github.com/darslyhq/darsly/core/course"
	"github.com/darslyhq/darsly/core/progression"
	"github.com/darslyhq/darsly/core/quiz"
	"github.com/darslyhq/darsly/core/user"
	"github.com/darslyhq/darsly/core/waitlist"
	emailsvc "github.com/darslyhq/darsly/services/email"
	dummydb "github.com/darslyhq/darsly/storage/database/dummy"
	testutil "github.com/darslyhq/darsly/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	server       echoapi.Server
	userRepo     user.Repository
	seeder       testutil.CatalogSeeder
	waitlistRepo waitlist.Repository
	addXP        func(id string, delta int)
}

func setup(t *testing.T) testApp {
	t.Helper()
	conf := testutil.Config()

	db, err := dummydb.Open()
	require.NoError(t, err)

	userRepo := dummydb.NewUserRepository(db)
	courseRepo := dummydb.NewCourseRepository(db)
	quizRepo := dummydb.NewQuizRepository(db)
	waitlistRepo := dummydb.NewWaitlistRepository(db)

	logger := testutil.NopLogger{}
	mailSvc := emailsvc.NewConsoleServiceMock()
	resolver := progression.NewResolver()
	progSvc := progression.NewService(userRepo, resolver)
	usrSvc := user.NewService(userRepo, mailSvc, conf, resolver.Resolve)
	courseSvc := course.NewService(courseRepo)
	quizSvc := quiz.NewService(quizRepo, courseRepo, progSvc, logger)
	waitlistSvc := waitlist.NewService(waitlistRepo, mailSvc, conf)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:        conf,
		Logger:      logger,
		UserSvc:     usrSvc,
		CourseSvc:   courseSvc,
		QuizSvc:     quizSvc,
		ProgSvc:     progSvc,
		WaitlistSvc: waitlistSvc,
		Validate:    validate,
		Translator:  translator,
	})
	return testApp{
		server:       server,
		userRepo:     userRepo,
		seeder:       courseRepo,
		waitlistRepo: waitlistRepo,
		addXP:        userRepo.AddUserXP,
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

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
	t.Helper()
	claims := echoapi.GetUserClaims(usr)
	token, err := echoapi.GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	t.Helper()
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
