package domain

import (
	"time"

	"github.com/google/uuid"
)

// Rating - оценка курса студентом, 1-5. Одна строка на пару (user, course):
// повторная отправка обновляет существующую.
type Rating struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID   uuid.UUID `gorm:"type:uuid;uniqueIndex:uk_user_course"`
	CourseID uuid.UUID `gorm:"type:uuid;index;uniqueIndex:uk_user_course"`
	Score    int

	CreatedAt  time.Time
	ModifiedAt time.Time `gorm:"autoUpdateTime"`
}

// RatingSummary - агрегат по курсу. Средняя считается только по
// существующим оценкам: отсутствие оценки не ноль, а "нет мнения".
type RatingSummary struct {
	CourseID     uuid.UUID     `json:"courseId"`
	Average      float64       `json:"average"`
	Total        int64         `json:"total"`
	Distribution map[int]int64 `json:"distribution"` // звёзды -> количество
}
