package domain

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"uniqueIndex"`
	Description string

	CreatedAt time.Time
}

type Course struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title        string    `gorm:"index"`
	Description  string    `gorm:"type:text"` // сюда же дописываются коды купонов
	InstructorID uuid.UUID `gorm:"type:uuid;index"`
	Instructor   User      `gorm:"foreignKey:InstructorID"`
	CategoryID   uuid.UUID `gorm:"type:uuid;index"`
	Category     Category  `gorm:"foreignKey:CategoryID"`
	CoverURL     string
	Published    bool `gorm:"default:false;index"`
	Price        float64

	// ID товара в маркетплейсе UPBolis. Заполняется после первой публикации.
	// Меняется при смене цены (UPBolis не умеет обновлять цену, см. client/upbolis.go).
	UpbolisProductID *int64

	Videos []Video `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
