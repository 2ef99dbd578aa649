package service

import (
	"fmt"
	"strconv"

	"playful_math_backend/internal/model"
	"playful_math_backend/internal/problemgen"
	"playful_math_backend/internal/repository"
	"playful_math_backend/internal/util"
	"playful_math_backend/pkg/logger"
	"playful_math_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// PointsPerDifficulty 首次完成一道题获得 难度 × 10 积分
const PointsPerDifficulty = 10

// SubmitResult 提交答案后的返回
type SubmitResult struct {
	Progress        model.Progress      `json:"progress"`
	Correct         bool                `json:"correct"`
	Answer          string              `json:"answer"`
	Explanation     string              `json:"explanation"`
	PointsAwarded   int                 `json:"pointsAwarded"`
	Score           int                 `json:"score"`
	Level           int                 `json:"level"`
	NewAchievements []model.Achievement `json:"newAchievements"`
}

type ProgressService struct {
	Progress     ProgressStore
	Problems     ProblemStore
	Users        UserStore
	Achievements *AchievementService
}

func NewProgressService(progress ProgressStore, problems ProblemStore, users UserStore, achievements *AchievementService) *ProgressService {
	return &ProgressService{
		Progress:     progress,
		Problems:     problems,
		Users:        users,
		Achievements: achievements,
	}
}

// Submit 判题并记录作答，积分与作答记录一起写入；
// 之后再检查成就，检查失败只记日志
func (s *ProgressService) Submit(userID, problemID uint, answer string) (*SubmitResult, error) {
	problem, err := s.Problems.FindBankProblem(problemID)
	if repository.IsNotFound(err) {
		return nil, util.NewNotFoundError("Problem not found", util.ErrProblemNotFound)
	}
	if err != nil {
		return nil, err
	}

	correct := problemgen.CheckAnswer(answer, problem)
	monitoring.AnswersSubmitted.WithLabelValues(strconv.FormatBool(correct)).Inc()

	points := PointsPerDifficulty * max(problem.Difficulty, 1)
	attempt, err := s.Progress.RecordAttempt(userID, problemID, correct, points)
	if err != nil {
		return nil, fmt.Errorf("record attempt: %w", err)
	}

	result := &SubmitResult{
		Progress:        attempt.Progress,
		Correct:         correct,
		Answer:          problem.Answer,
		Explanation:     problem.Explanation,
		NewAchievements: []model.Achievement{},
	}

	user := attempt.User
	if attempt.FirstCompletion {
		result.PointsAwarded = points
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

func (s *ProgressService) ListForUser(userID uint) ([]model.Progress, error) {
	progress, err := s.Progress.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = []model.Progress{}
	}
	return progress, nil
}

func (s *ProgressService) Summary(userID uint) (*model.ProgressSummary, error) {
	summary, err := s.Progress.Summary(userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.Achievements.Stats(userID)
	if err != nil {
		return nil, err
	}
	summary.SolvedDailyPuzzles = stats.SolvedDailyPuzzles
	return summary, nil
}
