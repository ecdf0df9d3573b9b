package repository

import (
	"gorm.io/gorm"
)

type Repos struct {
	User   UserRepo
	Job    JobRepo
	Volume VolumeRepo
	Image  ImageRepo

	db *gorm.DB
}

func NewRepositories(db *gorm.DB) *Repos {
	return &Repos{
		User:   NewUserRepo(db),
		Job:    NewJobRepo(db),
		Volume: NewVolumeRepo(db),
		Image:  NewImageRepo(db),
		db:     db,
	}
}

func (r *Repos) WithTx(tx *gorm.DB) *Repos {
	return &Repos{
		User:   r.User.WithTx(tx),
		Job:    r.Job.WithTx(tx),
		Volume: r.Volume.WithTx(tx),
		Image:  r.Image.WithTx(tx),
		db:     tx,
	}
}

// ExecTx runs fn inside a database transaction. Without a database (unit
// tests with in-memory repos) fn runs directly against r.
func (r *Repos) ExecTx(fn func(*Repos) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
