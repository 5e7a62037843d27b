package echoapi_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darslyhq/darsly/core/quiz"
	testutil "github.com/darslyhq/darsly/tests"
)

func submitBody(lessonID string, questionIndex, answerIndex int) []byte {
	return []byte(fmt.Sprintf(
		`{"lesson_id": %q, "question_index": %d, "answer_index": %d}`,
		lessonID, questionIndex, answerIndex,
	))
}

func Test_quizApi_verifyAnswer(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, app.userRepo, "Sara", "sara@test.ir", "", 0, nil, true)
	c := testutil.CreateCourse(t, app.seeder, "Go Basics")
	lesson := testutil.CreateLesson(t, app.seeder, c.ID, 90,
		testutil.Question("q1", 1, "a", "b"),
		testutil.Question("q2", 0, "a", "b"),
		testutil.Question("q3", 2, "a", "b", "c"),
	)
	token := getToken(t, usr)

	post := func(tt httpTest) *quiz.Result {
		t.Helper()
		req, rec := newAuthRequest(http.MethodPost, "/v1/quiz/verify-answer", tt.token, tt.body)
		app.server.ServeHTTP(rec, req)
		if rec.Code != tt.wantCode {
			t.Fatalf("%s: failed! code = %v; wantCode %v; body %s", tt.name, rec.Code, tt.wantCode, rec.Body.String())
		}
		if tt.wantCode != http.StatusOK {
			return nil
		}
		var res quiz.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		return &res
	}

	// auth required
	post(httpTest{name: "Auth required", body: submitBody(lesson.ID, 0, 1), wantCode: http.StatusUnauthorized})

	// unknown lesson
	post(httpTest{name: "Unknown lesson", token: token, body: submitBody("nope", 0, 1), wantCode: http.StatusNotFound})

	// missing fields
	post(httpTest{name: "Missing fields", token: token, body: []byte(`{}`), wantCode: http.StatusBadRequest})

	// out-of-range question index
	post(httpTest{name: "Bad question index", token: token, body: submitBody(lesson.ID, 9, 1), wantCode: http.StatusBadRequest})

	// wrong answer
	res := post(httpTest{name: "Wrong answer", token: token, body: submitBody(lesson.ID, 0, 0), wantCode: http.StatusOK})
	assert.False(t, res.Correct)
	assert.Zero(t, res.XPAwarded)

	// correct answer awards a third of the lesson reward
	res = post(httpTest{name: "Correct answer", token: token, body: submitBody(lesson.ID, 0, 1), wantCode: http.StatusOK})
	assert.True(t, res.Correct)
	assert.Equal(t, 30, res.XPAwarded)
	assert.False(t, res.LeveledUp)

	// resubmitting awards nothing more
	res = post(httpTest{name: "Duplicate answer", token: token, body: submitBody(lesson.ID, 0, 1), wantCode: http.StatusOK})
	assert.True(t, res.Correct)
	assert.Zero(t, res.XPAwarded)
}

func Test_quizApi_verifyAnswer_levelUp(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, app.userRepo, "Omid", "omid@test.ir", "", 90, nil, true)
	c := testutil.CreateCourse(t, app.seeder, "Go Basics")
	lesson := testutil.CreateLesson(t, app.seeder, c.ID, 20, testutil.Question("q1", 0, "a", "b"))

	req, rec := newAuthRequest(http.MethodPost, "/v1/quiz/verify-answer", getToken(t, usr), submitBody(lesson.ID, 0, 0))
	app.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res quiz.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Correct)
	assert.Equal(t, 20, res.XPAwarded)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 2, res.NewLevel)
	assert.Equal(t, "ابزارشناس", res.NewRankTitle)
}

func Test_quizApi_queryProgress(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, app.userRepo, "Sara", "sara@test.ir", "", 0, nil, true)
	c := testutil.CreateCourse(t, app.seeder, "Go Basics")
	lesson := testutil.CreateLesson(t, app.seeder, c.ID, 50, testutil.Question("q1", 0, "a", "b"))
	token := getToken(t, usr)

	// empty while nothing is completed
	req, rec := newAuthRequest(http.MethodGet, "/v1/progress", token)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	// complete the single-question lesson
	req, rec = newAuthRequest(http.MethodPost, "/v1/quiz/verify-answer", token, submitBody(lesson.ID, 0, 0))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	req, rec = newAuthRequest(http.MethodGet, "/v1/progress", token)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var progress []quiz.Progress
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &progress))
	require.Len(t, progress, 1)
	assert.Equal(t, lesson.ID, progress[0].LessonID)
	assert.True(t, progress[0].Completed)
}
