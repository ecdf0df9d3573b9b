package user

// Repository defines data access for users.
type Repository interface {
	Create(u *User) error
	GetByID(id uint) (*User, error)
	GetByUsername(username string) (*User, error)
}
