package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/pinta-go/internal/domain/access"
	"github.com/linskybing/pinta-go/pkg/types"
)

var ErrNoClaims = errors.New("user claims not found in context")

func claimsFrom(c *gin.Context) (*types.Claims, error) {
	claimsVal, exists := c.Get("claims")
	if !exists {
		return nil, ErrNoClaims
	}
	claims, ok := claimsVal.(*types.Claims)
	if !ok {
		return nil, errors.New("invalid user claims type")
	}
	return claims, nil
}

// SubjectFromClaims is the identity services authorize against.
func SubjectFromClaims(claims *types.Claims) access.Subject {
	return access.Subject{
		UserID:      claims.UserID,
		Username:    claims.Username,
		IsSuperuser: claims.IsSuperuser,
	}
}

var GetSubjectFromContext = func(c *gin.Context) (access.Subject, error) {
	claims, err := claimsFrom(c)
	if err != nil {
		return access.Subject{}, err
	}
	return SubjectFromClaims(claims), nil
}

var GetUserIDFromContext = func(c *gin.Context) (uint, error) {
	claims, err := claimsFrom(c)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// ParseIDParam reads a positive numeric path parameter.
func ParseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return uint(id), nil
}
