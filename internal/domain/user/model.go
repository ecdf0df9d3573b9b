package user

import "time"

type User struct {
	ID             uint      `gorm:"primaryKey;column:id" json:"id"`
	Username       string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	FullName       *string   `gorm:"size:100" json:"full_name"`
	Email          *string   `gorm:"size:100" json:"email"`
	HashedPassword string    `gorm:"size:255;not null" json:"-"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	IsSuperuser    bool      `gorm:"default:false" json:"is_superuser"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
