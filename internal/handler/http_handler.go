package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"forumhub/internal/domain"
	"forumhub/internal/middleware"
	"forumhub/internal/search"
	"forumhub/internal/service"
	"forumhub/pkg/log"
	"forumhub/pkg/response"
)

// CookieConfig controls the session cookie the handler issues.
type CookieConfig struct {
	Name   string
	MaxAge int // seconds
	Secure bool
}

// Handler handles HTTP requests for the forum.
type Handler struct {
	accounts   service.AccountService
	rooms      service.RoomService
	messages   service.MessageService
	searcher   search.SearchService
	sessionMW  *middleware.SessionMiddleware
	cookieConf CookieConfig
}

// NewHandler creates a new HTTP handler.
func NewHandler(
	accounts service.AccountService,
	rooms service.RoomService,
	messages service.MessageService,
	searcher search.SearchService,
	sessionMW *middleware.SessionMiddleware,
	cookieConf CookieConfig,
) *Handler {
	return &Handler{
		accounts:   accounts,
		rooms:      rooms,
		messages:   messages,
		searcher:   searcher,
		sessionMW:  sessionMW,
		cookieConf: cookieConf,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.POST("/logout", h.sessionMW.RequireAuth(), h.Logout)
		}

		// Public browse/search surface
		api.GET("/home", h.sessionMW.OptionalAuth(), h.Home)
		api.GET("/topics", h.ListTopics)
		api.GET("/activity", h.Activity)

		rooms := api.Group("/rooms")
		{
			rooms.GET("/:id", h.sessionMW.OptionalAuth(), h.GetRoom)

			rooms.POST("", h.sessionMW.RequireAuth(), h.CreateRoom)
			rooms.PUT("/:id", h.sessionMW.RequireAuth(), h.UpdateRoom)
			rooms.GET("/:id/delete", h.sessionMW.RequireAuth(), h.ConfirmDeleteRoom)
			rooms.DELETE("/:id", h.sessionMW.RequireAuth(), h.DeleteRoom)
			rooms.POST("/:id/messages", h.sessionMW.RequireAuth(), h.PostMessage)
		}

		messages := api.Group("/messages")
		{
			messages.GET("/:id/delete", h.sessionMW.RequireAuth(), h.ConfirmDeleteMessage)
			messages.DELETE("/:id", h.sessionMW.RequireAuth(), h.DeleteMessage)
		}

		users := api.Group("/users")
		{
			users.PUT("/me", h.sessionMW.RequireAuth(), h.UpdateProfile)
			users.GET("/:id", h.sessionMW.OptionalAuth(), h.GetProfile)
		}
	}
}

// actor builds the acting user from the session annotations, or nil when
// the request is unauthenticated.
func actor(c *gin.Context) *domain.User {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return nil
	}
	return &domain.User{
		ID:       userID,
		Username: middleware.GetUsername(c),
	}
}

func (h *Handler) setSessionCookie(c *gin.Context, sessionID string) {
	c.SetCookie(h.cookieConf.Name, sessionID, h.cookieConf.MaxAge, "/", "", h.cookieConf.Secure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(h.cookieConf.Name, "", -1, "/", "", h.cookieConf.Secure, true)
}

// Register creates a user and logs them in.
func (h *Handler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind register request")
		response.BadRequest(c, err.Error())
		return
	}

	auth, err := h.accounts.Register(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			response.Conflict(c, "username already taken")
			return
		}
		l.Error().Err(err).Msg("failed to register user")
		response.InternalError(c, "failed to register")
		return
	}

	h.setSessionCookie(c, auth.SessionID)
	response.Created(c, auth)
}

// Login authenticates a user and issues a session cookie.
func (h *Handler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind login request")
		response.BadRequest(c, err.Error())
		return
	}

	auth, err := h.accounts.Login(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// One generic message for unknown user and wrong password alike.
			response.Unauthorized(c, "invalid username or password")
			return
		}
		l.Error().Err(err).Msg("failed to login user")
		response.InternalError(c, "failed to login")
		return
	}

	h.setSessionCookie(c, auth.SessionID)
	response.Success(c, auth)
}

// Logout revokes the session and clears the cookie.
func (h *Handler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	err := h.accounts.Logout(ctx, middleware.GetSessionID(c), middleware.GetUserID(c))
	if err != nil {
		l.Error().Err(err).Msg("failed to logout")
		response.InternalError(c, "failed to logout")
		return
	}

	h.clearSessionCookie(c)
	response.Success(c, gin.H{"message": "logged out"})
}

// Home returns the home page payload filtered by the q query parameter.
// An absent q behaves as the empty string and matches everything.
func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	result, err := h.searcher.Home(ctx, c.Query("q"))
	if err != nil {
		l.Error().Err(err).Msg("failed to build home page")
		response.InternalError(c, "failed to load home")
		return
	}

	response.Success(c, result)
}

// ListTopics returns topics filtered by the q query parameter.
func (h *Handler) ListTopics(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	topics, err := h.searcher.FilterTopics(ctx, c.Query("q"))
	if err != nil {
		l.Error().Err(err).Msg("failed to list topics")
		response.InternalError(c, "failed to list topics")
		return
	}

	response.Success(c, gin.H{"topics": topics, "count": len(topics)})
}

// Activity returns the unfiltered recent-activity feed.
func (h *Handler) Activity(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	feed, err := h.messages.ActivityFeed(ctx)
	if err != nil {
		l.Error().Err(err).Msg("failed to load activity feed")
		response.InternalError(c, "failed to load activity")
		return
	}

	response.Success(c, gin.H{"messages": feed})
}

// GetRoom returns a room with its messages and participants.
func (h *Handler) GetRoom(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	roomID := c.Param("id")

	room, err := h.rooms.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			response.NotFound(c, "room not found")
			return
		}
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to get room")
		response.InternalError(c, "failed to get room")
		return
	}

	response.Success(c, room)
}

// CreateRoom creates a new room.
func (h *Handler) CreateRoom(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind create room request")
		response.BadRequest(c, err.Error())
		return
	}

	room, err := h.rooms.CreateRoom(ctx, actor(c), &req)
	if err != nil {
		l.Error().Err(err).Msg("failed to create room")
		response.InternalError(c, "failed to create room")
		return
	}

	response.Created(c, room)
}

// UpdateRoom updates a room's name, topic, and description.
func (h *Handler) UpdateRoom(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	roomID := c.Param("id")

	var req domain.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind update room request")
		response.BadRequest(c, err.Error())
		return
	}

	room, err := h.rooms.UpdateRoom(ctx, actor(c), roomID, &req)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			response.NotFound(c, "room not found")
			return
		}
		if errors.Is(err, service.ErrNotRoomHost) {
			response.Forbidden(c, "you are not the host of this room")
			return
		}
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to update room")
		response.InternalError(c, "failed to update room")
		return
	}

	response.Success(c, room)
}

// ConfirmDeleteRoom is the first phase of the room delete: it returns a
// confirmation summary without deleting anything.
func (h *Handler) ConfirmDeleteRoom(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	roomID := c.Param("id")

	confirm, err := h.rooms.GetRoomForDeletion(ctx, actor(c), roomID)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			response.NotFound(c, "room not found")
			return
		}
		if errors.Is(err, service.ErrNotRoomHost) {
			response.Forbidden(c, "you are not the host of this room")
			return
		}
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to prepare room deletion")
		response.InternalError(c, "failed to prepare deletion")
		return
	}

	response.Success(c, confirm)
}

// DeleteRoom is the second phase of the room delete: it removes the room.
func (h *Handler) DeleteRoom(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	roomID := c.Param("id")

	err := h.rooms.DeleteRoom(ctx, actor(c), roomID)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			response.NotFound(c, "room not found")
			return
		}
		if errors.Is(err, service.ErrNotRoomHost) {
			response.Forbidden(c, "you are not the host of this room")
			return
		}
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to delete room")
		response.InternalError(c, "failed to delete room")
		return
	}

	response.Success(c, gin.H{"message": "room deleted"})
}

// PostMessage posts a message into a room.
func (h *Handler) PostMessage(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	roomID := c.Param("id")

	var req domain.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind post message request")
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.messages.PostMessage(ctx, actor(c), roomID, &req)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			response.NotFound(c, "room not found")
			return
		}
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to post message")
		response.InternalError(c, "failed to post message")
		return
	}

	response.Created(c, msg)
}

// ConfirmDeleteMessage is the first phase of the message delete.
func (h *Handler) ConfirmDeleteMessage(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	messageID := c.Param("id")

	confirm, err := h.messages.GetMessageForDeletion(ctx, actor(c), messageID)
	if err != nil {
		if errors.Is(err, service.ErrMessageNotFound) {
			response.NotFound(c, "message not found")
			return
		}
		if errors.Is(err, service.ErrNotMessageAuthor) {
			response.Forbidden(c, "you are not the author of this message")
			return
		}
		l.Error().Err(err).Str(log.FieldMessageID, messageID).Msg("failed to prepare message deletion")
		response.InternalError(c, "failed to prepare deletion")
		return
	}

	response.Success(c, confirm)
}

// DeleteMessage is the second phase of the message delete.
func (h *Handler) DeleteMessage(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	messageID := c.Param("id")

	err := h.messages.DeleteMessage(ctx, actor(c), messageID)
	if err != nil {
		if errors.Is(err, service.ErrMessageNotFound) {
			response.NotFound(c, "message not found")
			return
		}
		if errors.Is(err, service.ErrNotMessageAuthor) {
			response.Forbidden(c, "you are not the author of this message")
			return
		}
		l.Error().Err(err).Str(log.FieldMessageID, messageID).Msg("failed to delete message")
		response.InternalError(c, "failed to delete message")
		return
	}

	response.Success(c, gin.H{"message": "message deleted"})
}

// GetProfile returns a user's profile page payload.
func (h *Handler) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	userID := c.Param("id")

	profile, err := h.accounts.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to get profile")
		response.InternalError(c, "failed to get profile")
		return
	}

	response.Success(c, profile)
}

// UpdateProfile updates the acting user's own profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind update profile request")
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.accounts.UpdateProfile(ctx, actor(c), &req)
	if err != nil {
		l.Error().Err(err).Msg("failed to update profile")
		response.InternalError(c, "failed to update profile")
		return
	}

	response.Success(c, user)
}
