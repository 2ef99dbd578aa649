package model

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

// PointsPerLevel 每升一级需要的积分
const PointsPerLevel = 100

// swagger:model User
type User struct {
	BaseModel
	Username     string   `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string   `gorm:"size:128;not null" json:"-"`
	PasswordSalt string   `gorm:"size:64;not null" json:"-"`
	Name         string   `gorm:"size:100" json:"name"`
	Grade        int      `gorm:"default:0" json:"grade"` // 0 表示尚未填写
	Score        int      `gorm:"default:0;not null" json:"score"`
	Level        int      `gorm:"default:1;not null" json:"level"`
	Role         UserRole `gorm:"size:20;default:'student'" json:"role"`

	SecurityQuestions []SecurityQuestion `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// LevelForScore 由累计积分推导等级，等级从 1 开始
func LevelForScore(score int) int {
	if score < 0 {
		score = 0
	}
	return 1 + score/PointsPerLevel
}

func (u *User) IsAdmin() bool {
	return u.Role == Admin
}
