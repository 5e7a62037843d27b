package echoapi_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/darslyhq/darsly/apps/api/echo"
	"github.com/darslyhq/darsly/core/course"
	testutil "github.com/darslyhq/darsly/tests"
)

func Test_courseApi_query(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, app.userRepo, "Sara", "sara@test.ir", "", 0, nil, true)
	c1 := testutil.CreateCourse(t, app.seeder, "Go Basics")
	c2 := testutil.CreateCourse(t, app.seeder, "Advanced Go")
	token := getToken(t, usr)

	req, rec := newAuthRequest(http.MethodGet, "/v1/courses", token)
	app.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var courses []course.Course
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &courses))
	require.Len(t, courses, 2)
	assert.ElementsMatch(t, []string{c1.ID, c2.ID}, []string{courses[0].ID, courses[1].ID})

	// auth required
	req, rec = newRequest(http.MethodGet, "/v1/courses")
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_courseApi_retrieve(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, app.userRepo, "Sara", "sara@test.ir", "", 0, nil, true)
	c := testutil.CreateCourse(t, app.seeder, "Go Basics")
	token := getToken(t, usr)

	tests := []httpTest{
		{name: "OK", path: "/v1/courses/" + c.ID, token: token, wantCode: http.StatusOK, wantData: marchallObj(t, c)},
		{
			name: "Unknown course", path: "/v1/courses/nope", token: token, wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_courseApi_lessonsHideCorrectAnswers(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, app.userRepo, "Sara", "sara@test.ir", "", 0, nil, true)
	c := testutil.CreateCourse(t, app.seeder, "Go Basics")
	lesson := testutil.CreateLesson(t, app.seeder, c.ID, 90, testutil.Question("what is 2+2?", 1, "3", "4"))
	token := getToken(t, usr)

	for _, path := range []string{"/v1/courses/" + c.ID + "/lessons", "/v1/lessons/" + lesson.ID} {
		req, rec := newAuthRequest(http.MethodGet, path, token)
		app.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "what is 2+2?")
		assert.False(t, strings.Contains(rec.Body.String(), `"correct"`),
			"%s: correct answer index must not be serialized", path)
	}
}

func Test_courseApi_queryLessons(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, app.userRepo, "Sara", "sara@test.ir", "", 0, nil, true)
	c := testutil.CreateCourse(t, app.seeder, "Go Basics")
	l2 := app.seeder.CreateLesson(course.Lesson{CourseID: c.ID, Title: "Second", OrderIndex: 2})
	l1 := app.seeder.CreateLesson(course.Lesson{CourseID: c.ID, Title: "First", OrderIndex: 1})
	token := getToken(t, usr)

	req, rec := newAuthRequest(http.MethodGet, "/v1/courses/"+c.ID+"/lessons", token)
	app.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var lessons []echoapi.LessonResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lessons))
	require.Len(t, lessons, 2)
	assert.Equal(t, []string{l1.ID, l2.ID}, []string{lessons[0].ID, lessons[1].ID})

	// unknown course
	req, rec = newAuthRequest(http.MethodGet, "/v1/courses/nope/lessons", token)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
