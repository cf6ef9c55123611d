package model

import (
	"time"
)

// User is read only through the content author join.
type User struct {
	Id        string    `gorm:"type:varchar(64);primaryKey"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName  string    `gorm:"type:varchar(255)"`
	Role      string    `gorm:"type:varchar(50);not null;default:'viewer'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
