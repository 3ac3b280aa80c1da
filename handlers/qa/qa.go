package qa

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/mbacke/orienta-api/services"
	"github.com/mbacke/orienta-api/utils/middleware"
	"github.com/mbacke/orienta-api/utils/response"
	"github.com/mbacke/orienta-api/utils/validation"
	"gorm.io/gorm"
)

// QAHandler handles question and answer endpoints
type QAHandler struct {
	qa        *services.QAService
	validator *validation.Validator
}

// NewQAHandler creates a new Q&A handler
func NewQAHandler(db *gorm.DB) *QAHandler {
	return &QAHandler{
		qa:        services.NewQAService(db),
		validator: validation.NewValidator(),
	}
}

// AskRequest represents a question submission
type AskRequest struct {
	Body      string `json:"body" validate:"required"`
	Type      string `json:"type" validate:"max=50"`
	ChatbotID *uint  `json:"chatbot_id,omitempty"`
}

// AnswerRequest represents an answer submission by an administrator or
// on behalf of the chatbot.
type AnswerRequest struct {
	Body      string `json:"body" validate:"required"`
	Type      string `json:"type" validate:"max=50"`
	ChatbotID *uint  `json:"chatbot_id,omitempty"`
}

// Ask handles POST /api/v1/questions. Authentication is optional:
// anonymous visitors may ask, authenticated accounts are recorded as
// the author.
func (h *QAHandler) Ask(c *fiber.Ctx) error {
	var req AskRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var authorID *uint
	if user, ok := middleware.GetUser(c); ok && user != nil {
		authorID = &user.ID
	}

	question, err := h.qa.AskQuestion(c.Context(), authorID, req.Body, req.Type, req.ChatbotID)
	if err != nil {
		return response.InternalServerError(c, "Failed to submit question")
	}
	return response.Created(c, question)
}

// Answer handles POST /api/v1/questions/:id/answers (admin only). When
// chatbot_id is set the answer is attributed to the bot, otherwise to
// the acting administrator.
func (h *QAHandler) Answer(c *fiber.Ctx) error {
	questionID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid question ID")
	}

	var req AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var senderID *uint
	if req.ChatbotID == nil {
		user, ok := middleware.GetUser(c)
		if !ok || user == nil {
			return response.Unauthorized(c, "Not authenticated")
		}
		senderID = &user.ID
	}

	answer, err := h.qa.AnswerQuestion(c.Context(), services.AnswerRequest{
		QuestionID: uint(questionID),
		Body:       req.Body,
		Type:       req.Type,
		ChatbotID:  req.ChatbotID,
		SenderID:   senderID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Question not found")
		case errors.Is(err, services.ErrAnswerSourceMissing):
			return response.BadRequest(c, "Answer requires a chatbot or a human sender")
		default:
			return response.InternalServerError(c, "Failed to submit answer")
		}
	}
	return response.Created(c, answer)
}

// Get handles GET /api/v1/questions/:id
func (h *QAHandler) Get(c *fiber.Ctx) error {
	questionID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid question ID")
	}

	question, err := h.qa.GetQuestion(c.Context(), uint(questionID))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Question not found")
		}
		return response.InternalServerError(c, "Failed to load question")
	}
	return response.Success(c, question)
}

// List handles GET /api/v1/questions. Administrators see every
// question; other accounts only their own.
func (h *QAHandler) List(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	var authorID *uint
	if !user.IsAdmin() {
		authorID = &user.ID
	}

	questions, err := h.qa.ListQuestions(c.Context(), authorID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list questions")
	}
	return response.Success(c, questions)
}
