package domain

import (
	"time"

	"github.com/google/uuid"
)

// ViewEvent - одна зарегистрированная вьюшка видео. Строка неизменяемая:
// создаётся при каждом просмотре и больше не трогается.
type ViewEvent struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey"`
	VideoID  uuid.UUID  `gorm:"type:uuid;index"`
	UserID   *uuid.UUID `gorm:"type:uuid;index"` // null = анонимный просмотр
	IPAddr   string
	ViewedAt time.Time `gorm:"autoCreateTime;index"`
}

// MilestoneClaim - отметка "по этому порогу для этого курса диспатч уже был".
// Уникальный индекс (course_id, threshold) и есть вся защита от двойной
// отправки: кто первым вставил строку, тот и шлёт запрос партнёру.
type MilestoneClaim struct {
	CourseID  uuid.UUID `gorm:"type:uuid;primaryKey;uniqueIndex:uk_course_threshold"`
	Threshold int64     `gorm:"primaryKey;uniqueIndex:uk_course_threshold"`
	CreatedAt time.Time
}
