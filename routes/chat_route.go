package routes

import (
	"net/http"
	"strings"

	"afyaconnect_back_end_go/assistant"

	"github.com/gin-gonic/gin"
)

func SetupChatRoutes(r gin.IRouter, bot *assistant.Bot, hub *assistant.Hub, advisor *assistant.Advisor) {
	r.POST("/chat", func(c *gin.Context) {
		Chat(c, bot)
	})

	r.GET("/chat/ws", hub.ServeWs)

	r.POST("/recommendations", func(c *gin.Context) {
		Recommend(c, advisor)
	})
}

func Chat(c *gin.Context, bot *assistant.Bot) {
	var msg assistant.ChatMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		bindError(c, err)
		return
	}
	if strings.TrimSpace(msg.Message) == "" {
		badRequest(c, "message is required")
		return
	}
	c.JSON(http.StatusOK, assistant.ChatReply{Response: bot.Reply(msg.Message)})
}

func Recommend(c *gin.Context, advisor *assistant.Advisor) {
	var req assistant.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	recommendations, err := advisor.Recommend(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recommendations})
}
