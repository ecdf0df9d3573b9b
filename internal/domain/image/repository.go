package image

// Repository defines data access for images.
type Repository interface {
	Create(img *Image) error
	GetByID(id uint) (*Image, error)
	GetByOwnerAndName(ownerID uint, name string) (*Image, error)
	List(ownerID *uint, skip, limit int) ([]Image, error)
	Delete(id uint) error
}
