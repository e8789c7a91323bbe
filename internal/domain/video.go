package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Video struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseID    uuid.UUID `gorm:"type:uuid;index;uniqueIndex:uk_course_position"`
	Title       string
	Description string
	FileURL     string
	Position    int `gorm:"uniqueIndex:uk_course_position"` // порядок в курсе (1, 2, 3...)
	DurationSec int

	CreatedAt time.Time
}

func (v *Video) DurationLabel() string {
	min := v.DurationSec / 60
	sec := v.DurationSec % 60
	return fmt.Sprintf("%d:%02d", min, sec)
}
