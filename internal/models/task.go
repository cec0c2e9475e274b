package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string
	DueDate     *time.Time
	Priority    string `gorm:"not null;default:medium"`
	Status      string `gorm:"not null;default:todo"`
	ProjectID   uint   `gorm:"not null;index"`
	AssignedTo  *uint  `gorm:"index"`
	CreatedBy   uint   `gorm:"not null;index"`

	// Relationships
	Project  Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Assignee *User   `gorm:"foreignKey:AssignedTo;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Creator  User    `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
