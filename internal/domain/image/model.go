package image

import "time"

// Image is the record of a container image produced by committing an
// image-builder job.
type Image struct {
	ID          uint      `gorm:"primaryKey;column:id" json:"id"`
	OwnerID     uint      `gorm:"not null;index;uniqueIndex:idx_image_owner_name" json:"owner_id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex:idx_image_owner_name" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsPublic    bool      `gorm:"default:false" json:"is_public"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Image) TableName() string {
	return "images"
}
