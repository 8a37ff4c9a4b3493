package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/drawspace/drawspace-backend/internal/board/domain"
	"github.com/drawspace/drawspace-backend/internal/board/service"
	"github.com/drawspace/drawspace-backend/internal/export"
)

// Handler exposes the board lifecycle endpoints. These seed the sync
// protocol's initial state; the realtime path runs over the websocket.
type Handler struct {
	boards *service.BoardService
}

// NewHandler creates a board HTTP handler.
func NewHandler(boards *service.BoardService) *Handler {
	return &Handler{boards: boards}
}

// RegisterRoutes mounts the board endpoints under the given group.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	boards := r.Group("/boards")
	boards.POST("", h.CreateBoard)
	boards.GET("", h.ListBoards)
	boards.GET("/:id", h.GetBoard)
	boards.POST("/:id/join", h.JoinBoard)
	boards.GET("/:id/export.pdf", h.ExportPDF)
}

// CreateBoard creates an empty board for a host.
func (h *Handler) CreateBoard(c *gin.Context) {
	var body struct {
		HostID   string `json:"hostId"`
		HostName string `json:"hostName"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	b, err := h.boards.CreateBoard(c.Request.Context(), body.HostID, body.HostName)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"boardId": b.ID, "board": b})
}

// ListBoards returns all known boards, newest first.
func (h *Handler) ListBoards(c *gin.Context) {
	boards, err := h.boards.ListBoards(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"boards": boards})
}

// GetBoard returns a board's shapes and collaborators.
func (h *Handler) GetBoard(c *gin.Context) {
	b, err := h.boards.GetBoard(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shapes":        b.Shapes,
		"collaborators": b.CollaboratorList(),
	})
}

// JoinBoard validates a join and returns the seed state for the realtime
// session.
func (h *Handler) JoinBoard(c *gin.Context) {
	var body struct {
		UserID   string `json:"userId"`
		UserName string `json:"userName"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	b, err := h.boards.JoinBoard(c.Request.Context(), c.Param("id"), body.UserID, body.UserName)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shapes":        b.Shapes,
		"collaborators": b.CollaboratorList(),
	})
}

// ExportPDF streams the board rendered as a PDF document.
func (h *Handler) ExportPDF(c *gin.Context) {
	b, err := h.boards.GetBoard(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=board-%s.pdf", b.ID))
	if err := export.WritePDF(b, c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render pdf"})
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrBoardNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
	case errors.Is(err, domain.ErrInvalidJoin):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
