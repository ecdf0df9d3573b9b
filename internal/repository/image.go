package repository

import (
	"github.com/linskybing/pinta-go/internal/domain/image"
	"gorm.io/gorm"
)

type ImageRepo interface {
	image.Repository
	WithTx(tx *gorm.DB) ImageRepo
}

type DBImageRepo struct {
	db *gorm.DB
}

func NewImageRepo(db *gorm.DB) *DBImageRepo {
	return &DBImageRepo{db: db}
}

func (r *DBImageRepo) Create(img *image.Image) error {
	return r.db.Create(img).Error
}

func (r *DBImageRepo) GetByID(id uint) (*image.Image, error) {
	var img image.Image
	if err := r.db.First(&img, id).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *DBImageRepo) GetByOwnerAndName(ownerID uint, name string) (*image.Image, error) {
	var img image.Image
	if err := r.db.Where("owner_id = ? AND name = ?", ownerID, name).First(&img).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *DBImageRepo) List(ownerID *uint, skip, limit int) ([]image.Image, error) {
	var images []image.Image
	q := r.db.Order("id ASC").Offset(skip).Limit(limit)
	if ownerID != nil {
		q = q.Where("owner_id = ?", *ownerID)
	}
	err := q.Find(&images).Error
	return images, err
}

func (r *DBImageRepo) Delete(id uint) error {
	return r.db.Delete(&image.Image{}, id).Error
}

func (r *DBImageRepo) WithTx(tx *gorm.DB) ImageRepo {
	if tx == nil {
		return r
	}
	return &DBImageRepo{db: tx}
}
