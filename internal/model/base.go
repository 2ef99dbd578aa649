package model

import (
	"time"
)

// swagger:model
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Grades 为支持的年级范围
var Grades = []int{3, 4, 5}

func IsValidGrade(grade int) bool {
	return grade >= 3 && grade <= 5
}
