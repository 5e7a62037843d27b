package quiz_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darslyhq/darsly/core"
	"github.com/darslyhq/darsly/core/course"
	"github.com/darslyhq/darsly/core/progression"
	"github.com/darslyhq/darsly/core/quiz"
	"github.com/darslyhq/darsly/core/user"
	dummydb "github.com/darslyhq/darsly/storage/database/dummy"
	testutil "github.com/darslyhq/darsly/tests"
)

type testDeps struct {
	svc        *quiz.Service
	userRepo   user.Repository
	courseRepo course.Repository
	seeder     testutil.CatalogSeeder
}

func setup(t *testing.T) testDeps {
	t.Helper()
	testutil.Config()

	db, err := dummydb.Open()
	require.NoError(t, err)

	userRepo := dummydb.NewUserRepository(db)
	courseRepo := dummydb.NewCourseRepository(db)
	progSvc := progression.NewService(userRepo, progression.NewResolver())
	svc := quiz.NewService(dummydb.NewQuizRepository(db), courseRepo, progSvc, testutil.NopLogger{})
	return testDeps{svc: svc, userRepo: userRepo, courseRepo: courseRepo, seeder: courseRepo}
}

func (d testDeps) userXP(t *testing.T, id string) int {
	t.Helper()
	usr, err := d.userRepo.GetUserByID(context.Background(), id)
	require.NoError(t, err)
	return usr.XP
}

func TestService_VerifyAnswer(t *testing.T) {
	d := setup(t)
	ctx := context.Background()

	usr := testutil.CreateUser(t, d.userRepo, "Sara", "sara@test.ir", "", 0, nil, true)
	c := testutil.CreateCourse(t, d.seeder, "Go Basics")
	lesson := testutil.CreateLesson(t, d.seeder, c.ID, 90,
		testutil.Question("q1", 1, "a", "b"),
		testutil.Question("q2", 0, "a", "b"),
		testutil.Question("q3", 2, "a", "b", "c"),
	)

	// wrong answer: no mutation
	res, err := d.svc.VerifyAnswer(ctx, usr, lesson.ID, 0, 0)
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Zero(t, res.XPAwarded)
	assert.Equal(t, 0, d.userXP(t, usr.ID))

	// correct answer: floor(90/3) XP
	res, err = d.svc.VerifyAnswer(ctx, usr, lesson.ID, 0, 1)
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, 30, res.XPAwarded)
	assert.False(t, res.LeveledUp)
	assert.Equal(t, 30, d.userXP(t, usr.ID))

	// resubmitting the same question awards nothing more
	res, err = d.svc.VerifyAnswer(ctx, usr, lesson.ID, 0, 1)
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Zero(t, res.XPAwarded)
	assert.Equal(t, 30, d.userXP(t, usr.ID))

	// no completion yet
	progress, err := d.svc.ProgressFor(ctx, usr)
	require.NoError(t, err)
	assert.Empty(t, progress)

	// answering the remaining questions completes the lesson
	_, err = d.svc.VerifyAnswer(ctx, usr, lesson.ID, 1, 0)
	require.NoError(t, err)
	_, err = d.svc.VerifyAnswer(ctx, usr, lesson.ID, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 90, d.userXP(t, usr.ID))

	progress, err = d.svc.ProgressFor(ctx, usr)
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Equal(t, lesson.ID, progress[0].LessonID)
	assert.True(t, progress[0].Completed)
	assert.False(t, progress[0].CompletedAt.IsZero())
}

func TestService_VerifyAnswer_levelUp(t *testing.T) {
	d := setup(t)
	ctx := context.Background()

	usr := testutil.CreateUser(t, d.userRepo, "Omid", "omid@test.ir", "", 0, nil, true)
	c := testutil.CreateCourse(t, d.seeder, "Advanced Go")
	lesson := testutil.CreateLesson(t, d.seeder, c.ID, 300, testutil.Question("q1", 0, "a", "b"))

	res, err := d.svc.VerifyAnswer(ctx, usr, lesson.ID, 0, 0)
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, 300, res.XPAwarded)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 3, res.NewLevel)
	assert.Equal(t, "مهارت‌جوی حرفه‌ای", res.NewRankTitle)

	got, err := d.userRepo.GetUserByID(ctx, usr.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Level)
}

func TestService_VerifyAnswer_badIndex(t *testing.T) {
	d := setup(t)
	ctx := context.Background()

	usr := testutil.CreateUser(t, d.userRepo, "Sara", "sara@test.ir", "", 0, nil, true)
	c := testutil.CreateCourse(t, d.seeder, "Go Basics")
	lesson := testutil.CreateLesson(t, d.seeder, c.ID, 50, testutil.Question("q1", 0, "a", "b"))
	noQuiz := testutil.CreateLesson(t, d.seeder, c.ID, 50)

	for _, idx := range []int{-1, 1, 42} {
		_, err := d.svc.VerifyAnswer(ctx, usr, lesson.ID, idx, 0)
		var vErr *core.ValidationError
		require.True(t, errors.As(err, &vErr), "question_index %d: want validation error, got %v", idx, err)
	}

	// a lesson without questions rejects any index
	_, err := d.svc.VerifyAnswer(ctx, usr, noQuiz.ID, 0, 0)
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))

	assert.Equal(t, 0, d.userXP(t, usr.ID))
}

func TestService_VerifyAnswer_lessonNotFound(t *testing.T) {
	d := setup(t)

	usr := testutil.CreateUser(t, d.userRepo, "Sara", "sara@test.ir", "", 0, nil, true)
	_, err := d.svc.VerifyAnswer(context.Background(), usr, "nope", 0, 0)
	assert.Equal(t, course.ErrLessonNotFound, errors.Cause(err))
}
