package service

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"playful_math_backend/internal/model"
	"playful_math_backend/internal/problemgen"
	"playful_math_backend/internal/repository"
	"playful_math_backend/internal/util"
	"playful_math_backend/pkg/logger"
	"playful_math_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// DailyPuzzleView 对外展示的谜题，不含答案
type DailyPuzzleView struct {
	ID               uint             `json:"id"`
	Date             string           `json:"date"`
	Title            string           `json:"title"`
	Scenario         string           `json:"scenario"`
	RealWorldContext string           `json:"realWorldContext"`
	Category         string           `json:"category"`
	Points           int              `json:"points"`
	Grade            int              `json:"grade"`
	Question         string           `json:"question"`
	Hint             string           `json:"hint,omitempty"`
	Difficulty       int              `json:"difficulty"`
	SkillLevel       model.SkillLevel `json:"skillLevel,omitempty"`
	Steps            int              `json:"requiredSteps"`
}

type PuzzleStatus struct {
	PuzzleID  uint `json:"puzzleId"`
	Attempted bool `json:"attempted"`
	Solved    bool `json:"solved"`
	Attempts  int  `json:"attempts"`
}

type SolveResult struct {
	Correct         bool                `json:"correct"`
	AlreadySolved   bool                `json:"alreadySolved"`
	PointsAwarded   int                 `json:"pointsAwarded"`
	Attempts        int                 `json:"attempts"`
	Score           int                 `json:"score"`
	Level           int                 `json:"level"`
	Explanation     string              `json:"explanation,omitempty"`
	NewAchievements []model.Achievement `json:"newAchievements"`
}

type DailyPuzzleService struct {
	Puzzles      DailyPuzzleStore
	Users        UserStore
	Generator    *problemgen.Generator
	Achievements *AchievementService

	// Now 可在测试中替换
	Now func() time.Time

	points atomic.Int64
	grade  atomic.Int64
	mu     sync.Mutex
}

func NewDailyPuzzleService(puzzles DailyPuzzleStore, users UserStore, generator *problemgen.Generator, achievements *AchievementService, points, grade int) *DailyPuzzleService {
	s := &DailyPuzzleService{
		Puzzles:      puzzles,
		Users:        users,
		Generator:    generator,
		Achievements: achievements,
		Now:          time.Now,
	}
	s.SetReward(points, grade)
	return s
}

// SetReward 更新之后生成的谜题的积分和年级，配置热更新时调用
func (s *DailyPuzzleService) SetReward(points, grade int) {
	if points > 0 {
		s.points.Store(int64(points))
	}
	if model.IsValidGrade(grade) {
		s.grade.Store(int64(grade))
	}
}

func (s *DailyPuzzleService) Points() int {
	return int(s.points.Load())
}

func (s *DailyPuzzleService) today() time.Time {
	now := s.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// EnsureToday 今天的谜题不存在时生成一个
func (s *DailyPuzzleService) EnsureToday() (*model.DailyPuzzle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := s.today()
	puzzle, err := s.Puzzles.FindByDate(day)
	if err == nil {
		return puzzle, nil
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}

	grade := int(s.grade.Load())
	problem, scenario, err := s.Generator.WordProblem(grade)
	if err != nil {
		return nil, err
	}

	puzzle, err = s.Puzzles.CreateWithProblem(&model.DailyPuzzle{
		Date:             day,
		Title:            scenario.Title,
		Scenario:         problem.Question,
		RealWorldContext: scenario.Context,
		Category:         scenario.Category,
		Points:           s.Points(),
	}, &problem)
	if err != nil {
		return nil, fmt.Errorf("create daily puzzle: %w", err)
	}

	logger.Log.Info("Daily puzzle created",
		zap.String("date", day.Format(util.DateFormat)),
		zap.String("title", puzzle.Title),
		zap.Int("points", puzzle.Points))
	return puzzle, nil
}

func (s *DailyPuzzleService) Today() (*DailyPuzzleView, error) {
	puzzle, err := s.EnsureToday()
	if err != nil {
		return nil, err
	}
	return toPuzzleView(puzzle), nil
}

func toPuzzleView(p *model.DailyPuzzle) *DailyPuzzleView {
	return &DailyPuzzleView{
		ID:               p.ID,
		Date:             p.Date.UTC().Format(util.DateFormat),
		Title:            p.Title,
		Scenario:         p.Scenario,
		RealWorldContext: p.RealWorldContext,
		Category:         p.Category,
		Points:           p.Points,
		Grade:            p.Problem.Grade,
		Question:         p.Problem.Question,
		Hint:             p.Problem.Hint,
		Difficulty:       p.Problem.Difficulty,
		SkillLevel:       p.Problem.SkillLevel,
		Steps:            p.Problem.RequiredSteps,
	}
}

// Solve 记录对今日谜题的作答；只有首次答对发放奖励，之后的作答只计次数
func (s *DailyPuzzleService) Solve(userID uint, answer string) (*SolveResult, error) {
	puzzle, err := s.EnsureToday()
	if err != nil {
		return nil, err
	}

	correct := problemgen.CheckAnswer(answer, &puzzle.Problem)
	attempt, err := s.Puzzles.RecordAttempt(userID, puzzle.ID, correct, puzzle.Points)
	if err != nil {
		return nil, fmt.Errorf("record puzzle attempt: %w", err)
	}

	result := &SolveResult{
		Correct:         correct,
		AlreadySolved:   attempt.Attempt.Solved && !attempt.FirstSolve,
		Attempts:        attempt.Attempt.Attempts,
		NewAchievements: []model.Achievement{},
	}
	if correct {
		result.Explanation = puzzle.Problem.Explanation
	}

	user := attempt.User
	if attempt.FirstSolve {
		result.PointsAwarded = puzzle.Points
		monitoring.PuzzlesSolved.Inc()
		awarded, err := s.Achievements.CheckAchievements(userID)
		if err != nil {
			logger.Log.Warn("Achievement check failed", zap.Uint("user_id", userID), zap.Error(err))
		}
		result.NewAchievements = append(result.NewAchievements, awarded...)
	}
	if user == nil {
		if user, err = s.Users.FindByID(userID); err != nil {
			return nil, err
		}
	}
	result.Score = user.Score
	result.Level = user.Level
	return result, nil
}

func (s *DailyPuzzleService) Status(userID uint) (*PuzzleStatus, error) {
	puzzle, err := s.EnsureToday()
	if err != nil {
		return nil, err
	}

	status := &PuzzleStatus{PuzzleID: puzzle.ID}
	attempt, err := s.Puzzles.FindAttempt(userID, puzzle.ID)
	if repository.IsNotFound(err) {
		return status, nil
	}
	if err != nil {
		return nil, err
	}
	status.Attempted = attempt.Attempts > 0
	status.Solved = attempt.Solved
	status.Attempts = attempt.Attempts
	return status, nil
}
