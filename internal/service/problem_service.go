package service

import (
	"context"
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

const (
	defaultPerCategory = 5
	maxPerCategory     = 50
	snapshotPrefix     = "problem-bank"
)

// RegenerateResult 题库重建结果
type RegenerateResult struct {
	Generated       int    `json:"generated"`
	PerCategory     int    `json:"perCategory"`
	Snapshot        string `json:"snapshot,omitempty"`
	SnapshotURL     string `json:"snapshotUrl,omitempty"`
	SnapshotsPruned int    `json:"snapshotsPruned,omitempty"`
}

type ProblemService struct {
	Problems  ProblemStore
	Generator *problemgen.Generator
	Storage   *StorageService

	// SnapshotRetention 归档后保留的快照份数，0 表示不清理
	SnapshotRetention int
}

func NewProblemService(problems ProblemStore, generator *problemgen.Generator, storage *StorageService, snapshotRetention int) *ProblemService {
	return &ProblemService{
		Problems:          problems,
		Generator:         generator,
		Storage:           storage,
		SnapshotRetention: snapshotRetention,
	}
}

func (s *ProblemService) List(grade int, problemType string) ([]model.Problem, error) {
	if !model.IsValidGrade(grade) {
		return nil, util.NewValidationError("Invalid grade", util.ErrInvalidGrade)
	}
	if problemType != "" && !model.IsValidProblemType(problemType) {
		return nil, util.NewValidationError(fmt.Sprintf("Unknown problem type %q", problemType), nil)
	}
	problems, err := s.Problems.FindByGrade(grade, problemType)
	if err != nil {
		return nil, err
	}
	if problems == nil {
		problems = []model.Problem{}
	}
	return problems, nil
}

func (s *ProblemService) Get(id uint) (*model.Problem, error) {
	problem, err := s.Problems.FindBankProblem(id)
	if repository.IsNotFound(err) {
		return nil, util.NewNotFoundError("Problem not found", util.ErrProblemNotFound)
	}
	return problem, err
}

// Regenerate 归档当前题库后整体替换为新的随机题库。
// 旧题目的 ID 随之失效，正在练习中的客户端再请求会得到 404。
func (s *ProblemService) Regenerate(ctx context.Context, perCategory int) (*RegenerateResult, error) {
	if perCategory <= 0 {
		perCategory = defaultPerCategory
	}
	if perCategory > maxPerCategory {
		return nil, util.NewValidationError(fmt.Sprintf("perCategory must be at most %d", maxPerCategory), nil)
	}

	result := &RegenerateResult{PerCategory: perCategory}

	if s.Storage != nil {
		current, err := s.Problems.ListBank()
		if err != nil {
			return nil, err
		}
		if len(current) > 0 {
			name, err := s.Storage.ArchiveJSON(ctx, snapshotPrefix, current)
			if err != nil {
				return nil, fmt.Errorf("archive problem bank: %w", err)
			}
			result.Snapshot = name
			result.SnapshotURL = s.Storage.GetURL(name)

			pruned, err := s.Storage.PruneSnapshots(ctx, snapshotPrefix, s.SnapshotRetention)
			if err != nil {
				// 清理失败不影响重建
				logger.Log.Warn("Failed to prune problem bank snapshots", zap.Error(err))
			}
			result.SnapshotsPruned = len(pruned)
		}
	}

	var bank []model.Problem
	for _, grade := range model.Grades {
		problems, err := s.Generator.GenerateBank(grade, perCategory)
		if err != nil {
			return nil, err
		}
		bank = append(bank, problems...)
	}

	if err := s.Problems.ReplaceBank(bank); err != nil {
		return nil, fmt.Errorf("replace problem bank: %w", err)
	}

	for _, p := range bank {
		monitoring.ProblemsGenerated.WithLabelValues(strconv.Itoa(p.Grade), string(p.Type)).Inc()
	}
	result.Generated = len(bank)
	logger.Log.Info("Problem bank regenerated",
		zap.Int("generated", result.Generated),
		zap.Int("per_category", perCategory),
		zap.String("snapshot", result.Snapshot))
	return result, nil
}

// SeedIfEmpty 启动时题库为空则生成一份
func (s *ProblemService) SeedIfEmpty(ctx context.Context, perCategory int) error {
	count, err := s.Problems.CountBank()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err = s.Regenerate(ctx, perCategory)
	return err
}
