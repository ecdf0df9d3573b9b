package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/pinta-go/internal/application"
	"github.com/linskybing/pinta-go/internal/domain/user"
	"github.com/linskybing/pinta-go/pkg/response"
	"github.com/linskybing/pinta-go/pkg/types"
	"github.com/linskybing/pinta-go/pkg/utils"
)

type UserHandler struct {
	svc *application.UserService
}

func NewUserHandler(svc *application.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// RequireActive runs after JWTAuthMiddleware and swaps the token claims for
// the stored identity of the user.
func (h *UserHandler) RequireActive(c *gin.Context) {
	subject, err := utils.GetSubjectFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Not authenticated"})
		return
	}
	current, err := h.svc.ActiveSubject(subject.UserID)
	if err != nil {
		respondError(c, err)
		c.Abort()
		return
	}
	c.Set("claims", &types.Claims{
		UserID:      current.UserID,
		Username:    current.Username,
		IsSuperuser: current.IsSuperuser,
	})
	c.Next()
}

// Register godoc
// @Summary User registration
// @Tags auth
// @Accept json
// @Produce json
// @Param input body user.CreateUserInput true "User registration info"
// @Success 201 {object} user.UserDTO
// @Failure 400 {object} response.ErrorResponse "Invalid input"
// @Failure 409 {object} response.ErrorResponse "Username already taken"
// @Router /register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var input user.CreateUserInput
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}
	usr, err := h.svc.RegisterUser(input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user.ToDTO(*usr))
}

// Login godoc
// @Summary User login
// @Tags auth
// @Accept json
// @Produce json
// @Param input body user.LoginInput true "Credentials"
// @Success 200 {object} user.LoginResponse
// @Failure 401 {object} response.ErrorResponse "Incorrect username or password"
// @Router /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input user.LoginInput
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.svc.LoginUser(input.Username, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Me godoc
// @Summary Current user
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} user.UserDTO
// @Router /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	subject, err := utils.GetSubjectFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Could not validate credentials"})
		return
	}
	dto, err := h.svc.Me(subject)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}
