package chat

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-assistant/internal/assistant"
	"github.com/jwalitptl/clinic-assistant/internal/audio"
	"github.com/jwalitptl/clinic-assistant/internal/handler"
	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/pkg/httputil"
)

// Handler serves the conversational surface: text chat, voice chat, and
// the chat mode switch.
type Handler struct {
	router *assistant.Router
	audio  audio.Service
}

func NewHandler(router *assistant.Router, audioSvc audio.Service) *Handler {
	return &Handler{router: router, audio: audioSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	chat := r.Group("/chat")
	{
		chat.POST("", h.Chat)
		chat.POST("/voice", h.VoiceChat)
		chat.GET("/mode", h.GetMode)
		chat.PUT("/mode", h.SetMode)
	}
}

func (h *Handler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	response := h.router.HandleMessage(c.Request.Context(), req.Message)
	httputil.RespondWithSuccess(c, response)
}

// VoiceChat accepts a recording, transcribes it, and routes the
// transcript through the conversation router like a typed message.
func (h *Handler) VoiceChat(c *gin.Context) {
	data, err := readRecording(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	path, err := h.audio.SaveAudio(data)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	transcript, err := h.audio.TranscribeAudio(c.Request.Context(), path)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	response := h.router.HandleMessage(c.Request.Context(), transcript)
	httputil.RespondWithSuccess(c, gin.H{
		"transcript": transcript,
		"response":   response,
	})
}

func (h *Handler) GetMode(c *gin.Context) {
	httputil.RespondWithSuccess(c, gin.H{"mode": h.router.Mode()})
}

func (h *Handler) SetMode(c *gin.Context) {
	var req struct {
		Mode model.ChatMode `json:"mode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.router.SetMode(c.Request.Context(), req.Mode); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"mode": req.Mode})
}

// readRecording takes the audio bytes from a multipart "audio" part when
// present, otherwise from the raw request body.
func readRecording(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("audio"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return io.ReadAll(c.Request.Body)
}
