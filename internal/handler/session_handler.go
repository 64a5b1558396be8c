package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/catalog_assistant/internal/middleware"
	"github.com/GTDGit/catalog_assistant/internal/service"
	"github.com/GTDGit/catalog_assistant/internal/utils"
)

// SessionHandler forwards display events to the assistant service.
type SessionHandler struct {
	assistant *service.AssistantService
	signer    *utils.TokenSigner
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(assistant *service.AssistantService, signer *utils.TokenSigner) *SessionHandler {
	return &SessionHandler{assistant: assistant, signer: signer}
}

// SelectionRequest is the body of a category selection event.
type SelectionRequest struct {
	Category string `json:"category" binding:"required"`
	Product  string `json:"product"`
}

// AddToCartRequest is the body of an add-to-cart event. An empty product
// adds the selected product.
type AddToCartRequest struct {
	Product string `json:"product"`
}

// CreateSession handles POST /v1/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	view, err := h.assistant.CreateSession(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	token, err := h.signer.Issue(view.SessionID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sign session token")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create session")
		return
	}

	utils.Success(c, 201, "Session created", gin.H{
		"token": token,
		"view":  view,
	})
}

// GetSession handles GET /v1/session
func (h *SessionHandler) GetSession(c *gin.Context) {
	view, err := h.assistant.Render(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Session retrieved", view)
}

// SelectCategory handles POST /v1/session/selection
func (h *SessionHandler) SelectCategory(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	view, err := h.assistant.OnCategorySelected(c.Request.Context(), middleware.GetSessionID(c), req.Category, req.Product)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Selection updated", view)
}

// AddToCart handles POST /v1/session/cart
func (h *SessionHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
			return
		}
	}

	view, err := h.assistant.OnAddToCart(c.Request.Context(), middleware.GetSessionID(c), req.Product)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Product added to cart", view)
}

// GetCart handles GET /v1/session/cart
func (h *SessionHandler) GetCart(c *gin.Context) {
	cartView, err := h.assistant.Cart(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Cart retrieved", cartView)
}

// SubmitOrder handles POST /v1/session/order
func (h *SessionHandler) SubmitOrder(c *gin.Context) {
	view, err := h.assistant.OnSubmitOrder(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, view.Order.Message, view)
}
