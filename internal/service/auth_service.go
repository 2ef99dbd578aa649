package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"playful_math_backend/internal/config"
	"playful_math_backend/internal/model"
	"playful_math_backend/internal/repository"
	"playful_math_backend/internal/util"
	"playful_math_backend/pkg/monitoring"
	"playful_math_backend/pkg/security"
	"playful_math_backend/pkg/session"
)

// dummyDigest/dummySalt 让不存在的用户也走一次完整的哈希校验
var dummyDigest, dummySalt = func() (string, string) {
	d, s, err := security.HashSecret("playful-math-dummy-secret")
	if err != nil {
		panic(err)
	}
	return d, s
}()

// IssuedSession 登录后写入 Cookie 的令牌
type IssuedSession struct {
	Token     string
	SessionID string
	ExpiresAt time.Time
}

type RegisterInput struct {
	Username string
	Password string
	Name     string
	Grade    int
	Role     model.UserRole
}

type ResetPasswordInput struct {
	Username         string
	SecurityQuestion string
	SecurityAnswer   string
	NewPassword      string
	ConfirmPassword  string
}

type AuthService struct {
	Users     UserStore
	Questions SecurityQuestionStore
	Sessions  session.Store
	Cfg       *config.Config
}

func NewAuthService(users UserStore, questions SecurityQuestionStore, sessions session.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		Users:     users,
		Questions: questions,
		Sessions:  sessions,
		Cfg:       cfg,
	}
}

func (s *AuthService) Register(in RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	if in.Grade != 0 && !model.IsValidGrade(in.Grade) {
		return nil, util.NewValidationError("Grade must be 3, 4 or 5", util.ErrInvalidGrade)
	}

	exists, err := s.Users.UsernameExists(username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.NewConflictError("Username already exists", util.ErrUsernameTaken)
	}

	hash, salt, err := security.HashSecret(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = model.Student
	}
	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		PasswordSalt: salt,
		Name:         strings.TrimSpace(in.Name),
		Grade:        in.Grade,
		Role:         role,
		Level:        model.LevelForScore(0),
	}
	if err := s.Users.Create(user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, util.NewConflictError("Username already exists", util.ErrUsernameTaken)
		}
		return nil, err
	}
	return user, nil
}

// Authenticate 校验用户名密码；用户不存在和密码错误返回同一个错误
func (s *AuthService) Authenticate(username, password string) (*model.User, error) {
	user, err := s.Users.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		if !repository.IsNotFound(err) {
			return nil, err
		}
		security.VerifySecret(password, dummyDigest, dummySalt)
		monitoring.Logins.WithLabelValues("failure").Inc()
		return nil, util.NewAuthError("Invalid username or password", util.ErrInvalidCredentials)
	}

	if !security.VerifySecret(password, user.PasswordHash, user.PasswordSalt) {
		monitoring.Logins.WithLabelValues("failure").Inc()
		return nil, util.NewAuthError("Invalid username or password", util.ErrInvalidCredentials)
	}

	monitoring.Logins.WithLabelValues("success").Inc()
	return user, nil
}

// OpenSession 创建服务端会话并签发引用它的令牌
func (s *AuthService) OpenSession(ctx context.Context, user *model.User) (*IssuedSession, error) {
	sess, err := s.Sessions.Create(ctx, user.ID, s.Cfg.Session.ExpireTime)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	token, err := util.GenerateSessionToken(user.ID, sess.ID, s.Cfg.Session.Secret, sess.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &IssuedSession{Token: token, SessionID: sess.ID, ExpiresAt: sess.ExpiresAt}, nil
}

// ResolveSession 校验令牌签名以及服务端会话是否仍然存在
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*model.User, *session.Session, error) {
	claims, err := util.ParseSessionToken(token, s.Cfg.Session.Secret)
	if err != nil {
		return nil, nil, util.NewAuthError("Not authenticated", err)
	}

	sess, err := s.Sessions.Get(ctx, claims.SessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, nil, util.NewAuthError("Not authenticated", util.ErrSessionNotFound)
	}
	if err != nil {
		return nil, nil, err
	}
	if sess.UserID != claims.UserID {
		return nil, nil, util.NewAuthError("Not authenticated", util.ErrSessionNotFound)
	}

	user, err := s.Users.FindByID(sess.UserID)
	if repository.IsNotFound(err) {
		// 用户已被删除
		_ = s.Sessions.Delete(ctx, sess.ID)
		return nil, nil, util.NewAuthError("Not authenticated", util.ErrUserNotFound)
	}
	if err != nil {
		return nil, nil, err
	}
	return user, sess, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.Sessions.Delete(ctx, sessionID)
}

// ResetPassword 通过密保问题重置密码。用户名、问题、答案任一不匹配都返回同一个错误。
func (s *AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if in.NewPassword != in.ConfirmPassword {
		return util.NewValidationError("Passwords do not match", util.ErrPasswordMismatch)
	}

	invalid := util.NewValidationError("Invalid username or security answer", util.ErrInvalidRecovery)
	answer := security.NormalizeAnswer(in.SecurityAnswer)

	user, err := s.Users.FindByUsername(strings.TrimSpace(in.Username))
	if err != nil {
		if !repository.IsNotFound(err) {
			return err
		}
		security.VerifySecret(answer, dummyDigest, dummySalt)
		return invalid
	}

	questions, err := s.Questions.FindByUserID(user.ID)
	if err != nil {
		return err
	}

	digest, salt := dummyDigest, dummySalt
	found := false
	for _, q := range questions {
		if strings.EqualFold(strings.TrimSpace(q.Question), strings.TrimSpace(in.SecurityQuestion)) {
			digest, salt = q.AnswerHash, q.AnswerSalt
			found = true
			break
		}
	}
	if !security.VerifySecret(answer, digest, salt) || !found {
		return invalid
	}

	hash, newSalt, err := security.HashSecret(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Users.UpdatePassword(user.ID, hash, newSalt); err != nil {
		return err
	}
	// 重置后旧会话全部失效
	return s.Sessions.DeleteUser(ctx, user.ID, "")
}
