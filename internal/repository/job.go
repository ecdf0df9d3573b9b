package repository

import (
	"github.com/linskybing/pinta-go/internal/domain/job"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JobRepo interface {
	job.Repository
	WithTx(tx *gorm.DB) JobRepo
}

type DBJobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) *DBJobRepo {
	return &DBJobRepo{db: db}
}

func (r *DBJobRepo) Create(j *job.Job) error {
	return r.db.Create(j).Error
}

func (r *DBJobRepo) GetByID(id uint) (*job.Job, error) {
	var j job.Job
	if err := r.db.First(&j, id).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *DBJobRepo) GetByIDForUpdate(id uint) (*job.Job, error) {
	var j job.Job
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&j, id).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *DBJobRepo) List(ownerID *uint, skip, limit int) ([]job.Job, error) {
	var jobs []job.Job
	q := r.db.Order("id ASC").Offset(skip).Limit(limit)
	if ownerID != nil {
		q = q.Where("owner_id = ?", *ownerID)
	}
	err := q.Find(&jobs).Error
	return jobs, err
}

// Update writes every column of an existing row. Unlike Save it never
// re-inserts a row that was deleted in the meantime.
func (r *DBJobRepo) Update(j *job.Job) error {
	res := r.db.Model(j).Select("*").Omit("created_at").Updates(j)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DBJobRepo) Delete(id uint) error {
	return r.db.Delete(&job.Job{}, id).Error
}

func (r *DBJobRepo) WithTx(tx *gorm.DB) JobRepo {
	if tx == nil {
		return r
	}
	return &DBJobRepo{db: tx}
}
