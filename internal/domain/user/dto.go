package user

type CreateUserInput struct {
	Username string  `json:"username" form:"username" binding:"required,min=3,max=50" example:"johndoe"`
	Password string  `json:"password" form:"password" binding:"required,min=6" example:"password123"`
	Email    *string `json:"email" form:"email" binding:"omitempty,email" example:"user@example.com"`
	FullName *string `json:"full_name" form:"full_name" example:"John Doe"`
}

type LoginInput struct {
	Username string `json:"username" form:"username" binding:"required" example:"johndoe"`
	Password string `json:"password" form:"password" binding:"required" example:"password123"`
}

type LoginResponse struct {
	Token       string `json:"token"`
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	IsSuperuser bool   `json:"is_superuser"`
}

type UserDTO struct {
	ID          uint    `json:"id" example:"1"`
	Username    string  `json:"username" example:"johndoe"`
	Email       *string `json:"email" example:"user@example.com"`
	FullName    *string `json:"full_name" example:"John Doe"`
	IsActive    bool    `json:"is_active" example:"true"`
	IsSuperuser bool    `json:"is_superuser" example:"false"`
}

func ToDTO(u User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
	}
}
