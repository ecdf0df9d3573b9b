package job

// Repository defines data access for jobs.
type Repository interface {
	Create(j *Job) error
	GetByID(id uint) (*Job, error)
	// GetByIDForUpdate locks the row for the rest of the surrounding transaction.
	GetByIDForUpdate(id uint) (*Job, error)
	List(ownerID *uint, skip, limit int) ([]Job, error)
	Update(j *Job) error
	Delete(id uint) error
}
