// Package server wires the core managers to an HTTP+JSON transport. The
// handlers carry no game logic: parse the body, call the manager, shape
// the payload or the uniform error envelope.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/setgame/set-server-go/internal/room"
	"github.com/setgame/set-server-go/internal/user"
)

// Server holds the core managers behind the HTTP handlers.
type Server struct {
	users  *user.Manager
	rooms  *room.Manager
	logger *zap.Logger
}

// NewServer creates the HTTP transport over the given managers.
func NewServer(users *user.Manager, rooms *room.Manager, logger *zap.Logger) *Server {
	return &Server{
		users:  users,
		rooms:  rooms,
		logger: logger,
	}
}

// Router builds the gin engine with middleware and routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(RecoveryMiddleware(s.logger))
	r.Use(LoggingMiddleware(s.logger))

	r.POST("/user/register", s.handleRegister)
	r.POST("/game/create", s.handleCreateRoom)
	r.POST("/game/list", s.handleListRooms)
	r.POST("/game/join", s.handleJoinRoom)
	r.POST("/game/field", s.handleGetField)
	r.POST("/game/combinations", s.handleFindCombinations)

	return r
}

type registerRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

type tokenRequest struct {
	AccessToken string `json:"accessToken"`
}

type roomRequest struct {
	AccessToken string `json:"accessToken"`
	GameID      *int   `json:"gameId"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if !s.bindJSON(c, &req) {
		return
	}

	creds, err := s.users.Register(c.Request.Context(), req.Nickname, req.Password)
	if err != nil {
		s.logger.Warn("registration failed",
			zap.String("nickname", req.Nickname),
			zap.Error(err),
		)
		respondError(c, err)
		return
	}

	s.logger.Info("user registered", zap.String("nickname", creds.Nickname))

	c.JSON(http.StatusOK, gin.H{
		"nickname":    creds.Nickname,
		"accessToken": creds.Token,
	})
}

func (s *Server) handleCreateRoom(c *gin.Context) {
	var req tokenRequest
	if !s.bindJSON(c, &req) {
		return
	}

	roomID, err := s.rooms.CreateRoom(req.AccessToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gameId": roomID})
}

func (s *Server) handleListRooms(c *gin.Context) {
	var req tokenRequest
	if !s.bindJSON(c, &req) {
		return
	}

	summaries, err := s.rooms.ListRooms(req.AccessToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"games": summaries})
}

func (s *Server) handleJoinRoom(c *gin.Context) {
	var req roomRequest
	if !s.bindJSON(c, &req) {
		return
	}
	if req.GameID == nil {
		respondError(c, room.ErrRoomIDMissing)
		return
	}

	roomID, err := s.rooms.JoinRoom(req.AccessToken, *req.GameID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gameId": roomID})
}

func (s *Server) handleGetField(c *gin.Context) {
	var req roomRequest
	if !s.bindJSON(c, &req) {
		return
	}
	if req.GameID == nil {
		respondError(c, room.ErrRoomIDMissing)
		return
	}

	field, err := s.rooms.GetField(req.AccessToken, *req.GameID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, field)
}

// handleFindCombinations answers every valid combination within the
// room's visible slice. Debug endpoint.
func (s *Server) handleFindCombinations(c *gin.Context) {
	var req roomRequest
	if !s.bindJSON(c, &req) {
		return
	}
	if req.GameID == nil {
		respondError(c, room.ErrRoomIDMissing)
		return
	}

	combinations, err := s.rooms.FindCombinations(req.AccessToken, *req.GameID)
	if err != nil {
		respondError(c, err)
		return
	}

	if combinations == nil {
		combinations = [][3]int{}
	}

	c.JSON(http.StatusOK, gin.H{"combinations": combinations})
}

// bindJSON decodes the request body, intercepting malformed input before
// it reaches any operation. Returns false if the envelope was already
// written.
func (s *Server) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		s.logger.Debug("malformed request body",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		respondMessage(c, "Malformed JSON")
		return false
	}
	return true
}
