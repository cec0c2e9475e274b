package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string
	DueDate     *time.Time
	Status      string `gorm:"not null;default:active"`
	CreatedBy   uint   `gorm:"not null;index"`

	// Relationships
	Creator     User                `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Memberships []ProjectMembership `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks       []Task              `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
