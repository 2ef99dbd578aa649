package repository

import (
	"errors"
	"testing"
	"time"

	"playful_math_backend/internal/model"
	"playful_math_backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "h", PasswordSalt: "s", Role: model.Student, Level: 1}
	require.NoError(t, NewUserRepository(db).Create(user))
	return user
}

func createProblem(t *testing.T, db *gorm.DB, grade int, source string) *model.Problem {
	t.Helper()
	p := &model.Problem{Grade: grade, Type: model.ProblemAddition, Question: "What is 1 + 1?", Answer: "2", Explanation: "1 + 1 = 2", Difficulty: 2, Source: source}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	db := openDB(t)
	createUser(t, db, "ada")

	err := NewUserRepository(db).Create(&model.User{Username: "ada", PasswordHash: "h", PasswordSalt: "s"})
	assert.True(t, IsDuplicate(err), "got %v", err)
}

func TestUserRepository_AddScoreRecomputesLevel(t *testing.T) {
	db := openDB(t)
	user := createUser(t, db, "ada")
	repo := NewUserRepository(db)

	updated, err := repo.AddScore(user.ID, 90)
	require.NoError(t, err)
	assert.Equal(t, 90, updated.Score)
	assert.Equal(t, 1, updated.Level)

	updated, err = repo.AddScore(user.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, 110, updated.Score)
	assert.Equal(t, 2, updated.Level)

	_, err = repo.AddScore(9999, 10)
	assert.True(t, IsNotFound(err))
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := openDB(t)
	user := createUser(t, db, "ada")
	problem := createProblem(t, db, 3, model.SourceBank)

	_, err := NewProgressRepository(db).RecordAttempt(user.ID, problem.ID, true, 10)
	require.NoError(t, err)

	repo := NewUserRepository(db)
	require.NoError(t, repo.Delete(user.ID))

	_, err = repo.FindByID(user.ID)
	assert.True(t, IsNotFound(err))

	rows, err := NewProgressRepository(db).FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	assert.True(t, IsNotFound(repo.Delete(user.ID)))
}

func questionSet() []model.SecurityQuestion {
	return []model.SecurityQuestion{
		{Position: 1, Question: "q1", AnswerHash: "h1", AnswerSalt: "s1"},
		{Position: 2, Question: "q2", AnswerHash: "h2", AnswerSalt: "s2"},
		{Position: 3, Question: "q3", AnswerHash: "h3", AnswerSalt: "s3"},
	}
}

func TestUserRepository_UpdateProfileWithQuestions(t *testing.T) {
	db := openDB(t)
	user := createUser(t, db, "ada")
	repo := NewUserRepository(db)
	questions := NewSecurityQuestionRepository(db)

	require.NoError(t, repo.UpdateProfile(user.ID, "Ada", 4, questionSet()))
	stored, err := questions.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 3)

	// nil 表示保留已有问题
	require.NoError(t, repo.UpdateProfile(user.ID, "Ada L", 5, nil))
	count, err := questions.CountByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestUserRepository_UpdateProfileRollsBackOnQuestionFailure(t *testing.T) {
	db := openDB(t)
	user := createUser(t, db, "ada")
	repo := NewUserRepository(db)
	require.NoError(t, repo.UpdateProfile(user.ID, "Ada", 3, questionSet()))

	errWrite := errors.New("security question write failed")
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("fail_security_questions", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "security_questions" {
			tx.AddError(errWrite)
		}
	}))

	err := repo.UpdateProfile(user.ID, "Changed", 5, questionSet())
	require.ErrorIs(t, err, errWrite)

	reloaded, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", reloaded.Name)
	assert.Equal(t, 3, reloaded.Grade)

	count, err := NewSecurityQuestionRepository(db).CountByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count, "old questions survive the failed replace")
}

func TestProgressRepository_UpsertAndStickyCompletion(t *testing.T) {
	db := openDB(t)
	user := createUser(t, db, "ada")
	problem := createProblem(t, db, 3, model.SourceBank)
	repo := NewProgressRepository(db)

	res, err := repo.RecordAttempt(user.ID, problem.ID, false, 20)
	require.NoError(t, err)
	assert.False(t, res.FirstCompletion)
	assert.Equal(t, 1, res.Progress.Attempts)
	assert.False(t, res.Progress.Completed)
	require.NotNil(t, res.Progress.LastAttempt)

	res, err = repo.RecordAttempt(user.ID, problem.ID, true, 20)
	require.NoError(t, err)
	assert.True(t, res.FirstCompletion)
	require.NotNil(t, res.User)
	assert.Equal(t, 20, res.User.Score)

	res, err = repo.RecordAttempt(user.ID, problem.ID, false, 20)
	require.NoError(t, err)
	assert.False(t, res.FirstCompletion)
	assert.True(t, res.Progress.Completed, "completion must stay set")
	assert.Equal(t, 3, res.Progress.Attempts)

	res, err = repo.RecordAttempt(user.ID, problem.ID, true, 20)
	require.NoError(t, err)
	assert.False(t, res.FirstCompletion)

	rows, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	stored, err := NewUserRepository(db).FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, stored.Score)
}

func TestProgressRepository_Summary(t *testing.T) {
	db := openDB(t)
	user := createUser(t, db, "ada")
	a := createProblem(t, db, 3, model.SourceBank)
	b := createProblem(t, db, 3, model.SourceBank)
	repo := NewProgressRepository(db)

	_, err := repo.RecordAttempt(user.ID, a.ID, true, 10)
	require.NoError(t, err)
	_, err = repo.RecordAttempt(user.ID, b.ID, false, 10)
	require.NoError(t, err)
	_, err = repo.RecordAttempt(user.ID, b.ID, false, 10)
	require.NoError(t, err)

	summary, err := repo.Summary(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalProblems)
	assert.Equal(t, int64(1), summary.CompletedProblems)
	assert.Equal(t, int64(3), summary.TotalAttempts)
	assert.Equal(t, int64(1), summary.CompletedByCategory[string(model.ProblemAddition)])
}

func TestProblemRepository_ReplaceBankKeepsPuzzleProblems(t *testing.T) {
	db := openDB(t)
	repo := NewProblemRepository(db)
	createProblem(t, db, 3, model.SourceBank)
	puzzleProblem := createProblem(t, db, 4, model.SourceDailyPuzzle)

	fresh := []model.Problem{
		{Grade: 5, Type: model.ProblemDivision, Question: "q", Answer: "1", Explanation: "e", Difficulty: 1, Source: model.SourceBank},
	}
	require.NoError(t, repo.ReplaceBank(fresh))

	count, err := repo.CountBank()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var kept model.Problem
	require.NoError(t, db.First(&kept, puzzleProblem.ID).Error)

	_, err = repo.FindBankProblem(puzzleProblem.ID)
	assert.True(t, IsNotFound(err), "puzzle problems are not served as bank problems")

	bankProblem, err := repo.FindBankProblem(fresh[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "q", bankProblem.Question)

	grade3, err := repo.FindByGrade(3, "")
	require.NoError(t, err)
	assert.Empty(t, grade3)

	grade4, err := repo.FindByGrade(4, "")
	require.NoError(t, err)
	assert.Empty(t, grade4, "puzzle problems are not part of the bank")
}

func TestAchievementRepository_UniquePerType(t *testing.T) {
	db := openDB(t)
	user := createUser(t, db, "ada")
	repo := NewAchievementRepository(db)

	first := &model.Achievement{UserID: user.ID, Type: model.AchievementFirstProblem, Title: "First", EarnedAt: time.Now()}
	require.NoError(t, repo.Create(first))

	dup := &model.Achievement{UserID: user.ID, Type: model.AchievementFirstProblem, Title: "First", EarnedAt: time.Now()}
	assert.True(t, IsDuplicate(repo.Create(dup)))

	updated, err := repo.UpdateProgress(first.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Progress)

	_, err = repo.UpdateProgress(9999, 1)
	assert.True(t, IsNotFound(err))
}

func TestDailyPuzzleRepository_SolveOnce(t *testing.T) {
	db := openDB(t)
	user := createUser(t, db, "ada")
	repo := NewDailyPuzzleRepository(db)

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	puzzle, err := repo.CreateWithProblem(
		&model.DailyPuzzle{Date: day, Title: "Pi Day", Points: 15},
		&model.Problem{Grade: 4, Type: model.ProblemWordProblems, Question: "q", Answer: "42", Explanation: "e", Difficulty: 1},
	)
	require.NoError(t, err)
	assert.NotZero(t, puzzle.ProblemID)

	again, err := repo.CreateWithProblem(
		&model.DailyPuzzle{Date: day, Title: "Other", Points: 15},
		&model.Problem{Grade: 4, Type: model.ProblemWordProblems, Question: "q2", Answer: "1", Explanation: "e", Difficulty: 1},
	)
	require.NoError(t, err)
	assert.Equal(t, puzzle.ID, again.ID)

	found, err := repo.FindByDate(day)
	require.NoError(t, err)
	assert.Equal(t, "42", found.Problem.Answer)

	res, err := repo.RecordAttempt(user.ID, puzzle.ID, false, 15)
	require.NoError(t, err)
	assert.False(t, res.FirstSolve)

	res, err = repo.RecordAttempt(user.ID, puzzle.ID, true, 15)
	require.NoError(t, err)
	assert.True(t, res.FirstSolve)
	assert.Equal(t, 15, res.User.Score)

	res, err = repo.RecordAttempt(user.ID, puzzle.ID, true, 15)
	require.NoError(t, err)
	assert.False(t, res.FirstSolve)
	assert.Equal(t, 3, res.Attempt.Attempts)

	solved, err := repo.CountSolved(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), solved)

	stored, err := NewUserRepository(db).FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, stored.Score)
}
