package repository

import (
	"github.com/linskybing/pinta-go/internal/domain/volume"
	"gorm.io/gorm"
)

type VolumeRepo interface {
	volume.Repository
	WithTx(tx *gorm.DB) VolumeRepo
}

type DBVolumeRepo struct {
	db *gorm.DB
}

func NewVolumeRepo(db *gorm.DB) *DBVolumeRepo {
	return &DBVolumeRepo{db: db}
}

func (r *DBVolumeRepo) Create(v *volume.Volume) error {
	return r.db.Create(v).Error
}

func (r *DBVolumeRepo) GetByID(id uint) (*volume.Volume, error) {
	var v volume.Volume
	if err := r.db.First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *DBVolumeRepo) GetByOwnerAndName(ownerID uint, name string) (*volume.Volume, error) {
	var v volume.Volume
	if err := r.db.Where("owner_id = ? AND name = ?", ownerID, name).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *DBVolumeRepo) List(ownerID *uint, skip, limit int) ([]volume.Volume, error) {
	var volumes []volume.Volume
	q := r.db.Order("id ASC").Offset(skip).Limit(limit)
	if ownerID != nil {
		q = q.Where("owner_id = ?", *ownerID)
	}
	err := q.Find(&volumes).Error
	return volumes, err
}

func (r *DBVolumeRepo) Delete(id uint) error {
	return r.db.Delete(&volume.Volume{}, id).Error
}

func (r *DBVolumeRepo) WithTx(tx *gorm.DB) VolumeRepo {
	if tx == nil {
		return r
	}
	return &DBVolumeRepo{db: tx}
}
