package volume

// Repository defines data access for volumes.
type Repository interface {
	Create(v *Volume) error
	GetByID(id uint) (*Volume, error)
	GetByOwnerAndName(ownerID uint, name string) (*Volume, error)
	List(ownerID *uint, skip, limit int) ([]Volume, error)
	Delete(id uint) error
}
