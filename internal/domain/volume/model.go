package volume

import (
	"fmt"
	"time"
)

type Volume struct {
	ID          uint      `gorm:"primaryKey;column:id" json:"id"`
	OwnerID     uint      `gorm:"not null;index;uniqueIndex:idx_volume_owner_name" json:"owner_id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex:idx_volume_owner_name" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Capacity    string    `gorm:"size:20;not null" json:"capacity"`
	IsPublic    bool      `gorm:"default:false" json:"is_public"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Volume) TableName() string {
	return "volumes"
}

// ClaimName is the name of the backing PersistentVolumeClaim.
func (v Volume) ClaimName() string {
	return ClaimNameFor(v.ID)
}

func ClaimNameFor(id uint) string {
	return fmt.Sprintf("pinta-volume-%d", id)
}
