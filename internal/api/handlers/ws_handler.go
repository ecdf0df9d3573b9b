package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/linskybing/pinta-go/internal/api/middleware"
	appjob "github.com/linskybing/pinta-go/internal/application/job"
	"github.com/linskybing/pinta-go/internal/domain/access"
	"github.com/linskybing/pinta-go/internal/domain/job"
	"github.com/linskybing/pinta-go/pkg/k8s"
	"github.com/linskybing/pinta-go/pkg/stream"
	"github.com/linskybing/pinta-go/pkg/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	Subprotocols:    []string{k8s.ChannelProtocol},
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamHandler serves the interactive job endpoints. Once the connection is
// upgraded every failure is reported in-band as an error frame followed by a
// policy-violation close.
type StreamHandler struct {
	svc   *appjob.Service
	users activeUsers
}

// activeUsers resolves the stored identity behind a token.
type activeUsers interface {
	ActiveSubject(userID uint) (access.Subject, error)
}

func NewStreamHandler(svc *appjob.Service, users activeUsers) *StreamHandler {
	return &StreamHandler{svc: svc, users: users}
}

type session func(c *gin.Context, subject access.Subject, id uint, conn *websocket.Conn) error

func (h *StreamHandler) serve(c *gin.Context, run session) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	claims, err := middleware.AuthenticateParam(c.Query("authorization"))
	if err != nil {
		stream.RejectSession(conn, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		stream.RejectSession(conn, http.StatusBadRequest, err.Error())
		return
	}
	subject, err := h.users.ActiveSubject(claims.UserID)
	if err != nil {
		stream.RejectSession(conn, statusFor(err), err.Error())
		return
	}
	if err := run(c, subject, id, conn); err != nil {
		stream.RejectSession(conn, statusFor(err), err.Error())
	}
}

// Exec godoc
// @Summary Interactive shell in a job pod
// @Description Websocket using the v4.channel.k8s.io framing. Errors arrive as a channel 3 frame "HTTP <code>: <detail>" and a 1008 close.
// @Tags streams
// @Param id path int true "Job ID"
// @Param authorization query string true "Bearer token"
// @Param command query string false "Command, defaults to sh"
// @Param tty query bool false "Allocate a tty"
// @Param role query string false "Pod role"
// @Param index query int false "Pod index"
// @Router /ws/jobs/{id}/exec [get]
func (h *StreamHandler) Exec(c *gin.Context) {
	h.serve(c, func(c *gin.Context, subject access.Subject, id uint, conn *websocket.Conn) error {
		var in job.ExecInput
		if err := c.ShouldBindQuery(&in); err != nil {
			return access.InvalidState("%s", err.Error())
		}
		return h.svc.ExecSession(c.Request.Context(), subject, id, in, conn)
	})
}

// Commit godoc
// @Summary Interactive commit of an image builder job
// @Tags streams
// @Param id path int true "Job ID"
// @Param authorization query string true "Bearer token"
// @Param image_name query string true "Name of the new image"
// @Router /ws/jobs/{id}/commit [get]
func (h *StreamHandler) Commit(c *gin.Context) {
	h.serve(c, func(c *gin.Context, subject access.Subject, id uint, conn *websocket.Conn) error {
		return h.svc.CommitSession(c.Request.Context(), subject, id, c.Query("image_name"), conn)
	})
}

// Watch godoc
// @Summary Follow the log of a job pod
// @Description Each line is sent as a binary frame prefixed with channel byte 1.
// @Tags streams
// @Param id path int true "Job ID"
// @Param authorization query string true "Bearer token"
// @Param role query string false "Pod role"
// @Param index query int false "Pod index"
// @Router /ws/jobs/{id}/watch [get]
func (h *StreamHandler) Watch(c *gin.Context) {
	h.serve(c, func(c *gin.Context, subject access.Subject, id uint, conn *websocket.Conn) error {
		var in job.WatchInput
		if err := c.ShouldBindQuery(&in); err != nil {
			return access.InvalidState("%s", err.Error())
		}
		return h.svc.WatchSession(c.Request.Context(), subject, id, in, conn)
	})
}
