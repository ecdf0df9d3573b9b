package volume

import "errors"

var ErrInvalidInput = errors.New("invalid volume input")

type CreateVolumeInput struct {
	Name        string `json:"name" binding:"required,max=100" example:"datasets"`
	Description string `json:"description" example:"shared training data"`
	Capacity    string `json:"capacity" binding:"required" example:"10Gi"`
	IsPublic    bool   `json:"is_public" example:"false"`
}
