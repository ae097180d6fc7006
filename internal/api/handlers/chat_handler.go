package handlers

import (
	"strings"

	"crewassist/internal/dto"
	"crewassist/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// Chat godoc
// @Summary Ask the staff assistant a question
// @Description Answers from the official restaurant manuals when a close match exists, otherwise from a live web search
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Question"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/chat [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid JSON body",
		})
	}

	if strings.TrimSpace(req.Query) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Query is required.",
		})
	}

	resp, err := h.chatService.Answer(c.Context(), req.Query, req.UserID)
	if err != nil {
		h.logger.Error("Chat pipeline failed",
			zap.String("query", req.Query),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "An unexpected server error occurred: " + err.Error(),
		})
	}

	return c.JSON(resp)
}
