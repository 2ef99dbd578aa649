package model

// SecurityQuestionCount 每个账号必须设置的密保问题数量
const SecurityQuestionCount = 3

// SecurityQuestion 密保问题，答案只保存加盐哈希
type SecurityQuestion struct {
	BaseModel
	UserID     uint   `gorm:"index;not null" json:"-"`
	Position   int    `gorm:"not null" json:"position"`
	Question   string `gorm:"size:255;not null" json:"question"`
	AnswerHash string `gorm:"size:128;not null" json:"-"`
	AnswerSalt string `gorm:"size:64;not null" json:"-"`
}

func (SecurityQuestion) TableName() string {
	return "security_questions"
}

// SuggestedSecurityQuestions 前端下拉框中提供的候选问题
var SuggestedSecurityQuestions = []string{
	"What is the name of your first pet?",
	"What is your favorite color?",
	"What city were you born in?",
	"What is your favorite book?",
	"What is the name of your best friend?",
	"What is your favorite food?",
	"What was the name of your first teacher?",
	"What is your favorite animal?",
}
