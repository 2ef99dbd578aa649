package service

import (
	"fmt"
	"time"

	"playful_math_backend/internal/model"
	"playful_math_backend/internal/repository"
	"playful_math_backend/internal/util"
	"playful_math_backend/pkg/logger"
	"playful_math_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// AchievementStats 评估成就所需的用户统计
type AchievementStats struct {
	CompletedProblems  int64 `json:"completedProblems"`
	SolvedDailyPuzzles int64 `json:"solvedDailyPuzzles"`
}

// AchievementDefinition 成就目录中的一项
type AchievementDefinition struct {
	Type        model.AchievementType `json:"type"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Icon        string                `json:"icon"`
	Category    string                `json:"category"`
	Target      int                   `json:"target"`
	metric      func(AchievementStats) int64
}

func completedProblems(s AchievementStats) int64  { return s.CompletedProblems }
func solvedDailyPuzzles(s AchievementStats) int64 { return s.SolvedDailyPuzzles }

var achievementCatalog = []AchievementDefinition{
	{Type: model.AchievementFirstProblem, Title: "First Steps", Description: "Solve your first problem", Icon: "🌱", Category: "practice", Target: 1, metric: completedProblems},
	{Type: model.AchievementProblemSolver, Title: "Problem Solver", Description: "Solve 10 problems", Icon: "⭐", Category: "practice", Target: 10, metric: completedProblems},
	{Type: model.AchievementMathExplorer, Title: "Math Explorer", Description: "Solve 50 problems", Icon: "🧭", Category: "practice", Target: 50, metric: completedProblems},
	{Type: model.AchievementMathChampion, Title: "Math Champion", Description: "Solve 100 problems", Icon: "🏆", Category: "practice", Target: 100, metric: completedProblems},
	{Type: model.AchievementDailyChallenger, Title: "Daily Challenger", Description: "Solve 5 daily puzzles", Icon: "📅", Category: "daily_puzzle", Target: 5, metric: solvedDailyPuzzles},
	{Type: model.AchievementPuzzleMaster, Title: "Puzzle Master", Description: "Solve 20 daily puzzles", Icon: "🧩", Category: "daily_puzzle", Target: 20, metric: solvedDailyPuzzles},
}

// AchievementCatalog 返回完整成就目录
func AchievementCatalog() []AchievementDefinition {
	return achievementCatalog
}

// Evaluate 返回已达标且 existing 中尚未拥有的成就定义，无副作用
func Evaluate(stats AchievementStats, existing []model.Achievement) []AchievementDefinition {
	owned := make(map[model.AchievementType]bool, len(existing))
	for _, a := range existing {
		owned[a.Type] = true
	}

	var earned []AchievementDefinition
	for _, def := range achievementCatalog {
		if owned[def.Type] {
			continue
		}
		if def.metric(stats) >= int64(def.Target) {
			earned = append(earned, def)
		}
	}
	return earned
}

type AchievementService struct {
	Achievements AchievementStore
	Progress     ProgressStore
	Puzzles      DailyPuzzleStore
}

func NewAchievementService(achievements AchievementStore, progress ProgressStore, puzzles DailyPuzzleStore) *AchievementService {
	return &AchievementService{
		Achievements: achievements,
		Progress:     progress,
		Puzzles:      puzzles,
	}
}

func (s *AchievementService) Stats(userID uint) (AchievementStats, error) {
	completed, err := s.Progress.CountCompleted(userID)
	if err != nil {
		return AchievementStats{}, err
	}
	solved, err := s.Puzzles.CountSolved(userID)
	if err != nil {
		return AchievementStats{}, err
	}
	return AchievementStats{CompletedProblems: completed, SolvedDailyPuzzles: solved}, nil
}

// CheckAchievements 评估并逐条写入新成就，只返回本次新增的记录。
// 各条写入不在同一事务中；(user_id, type) 唯一索引保证不会重复颁发。
func (s *AchievementService) CheckAchievements(userID uint) ([]model.Achievement, error) {
	stats, err := s.Stats(userID)
	if err != nil {
		return nil, fmt.Errorf("load achievement stats: %w", err)
	}
	existing, err := s.Achievements.FindByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}

	awarded := make([]model.Achievement, 0)
	now := time.Now()
	for _, def := range Evaluate(stats, existing) {
		achievement := model.Achievement{
			UserID:      userID,
			Type:        def.Type,
			Title:       def.Title,
			Description: def.Description,
			Icon:        def.Icon,
			Category:    def.Category,
			Progress:    int(min(def.metric(stats), int64(def.Target))),
			Target:      def.Target,
			EarnedAt:    now,
		}
		if err := s.Achievements.Create(&achievement); err != nil {
			if repository.IsDuplicate(err) {
				// 并发请求已经颁发过
				continue
			}
			return awarded, fmt.Errorf("award %s: %w", def.Type, err)
		}
		monitoring.AchievementsAwarded.WithLabelValues(string(def.Type)).Inc()
		logger.Log.Info("Achievement awarded",
			zap.Uint("user_id", userID),
			zap.String("type", string(def.Type)))
		awarded = append(awarded, achievement)
	}
	return awarded, nil
}

func (s *AchievementService) List(userID uint) ([]model.Achievement, error) {
	achievements, err := s.Achievements.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if achievements == nil {
		achievements = []model.Achievement{}
	}
	return achievements, nil
}

func (s *AchievementService) UpdateProgress(id uint, progress int) (*model.Achievement, error) {
	if progress < 0 {
		return nil, util.NewValidationError("progress must not be negative", nil)
	}
	achievement, err := s.Achievements.UpdateProgress(id, progress)
	if repository.IsNotFound(err) {
		return nil, util.NewNotFoundError("Achievement not found", util.ErrAchievementNotFound)
	}
	return achievement, err
}
