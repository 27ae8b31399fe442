package ledger

import (
	"context"
	"encoding/json"
	"strings"

	"airdrop-ledger/core/logger"
	"airdrop-ledger/feature/ledger/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for airdrop balances.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// AdjustRequest is the body of a debit or credit call. Amount accepts a JSON
// number or a decimal string.
type AdjustRequest struct {
	UserAddress string      `json:"user_address"`
	Amount      json.Number `json:"amount"`
}

// RegisterRoutes registers the ledger routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/airdrops/:contract")
	group.Get("/balances", h.HandleGetBalances)
	group.Post("/debit", h.HandleDebit)
	group.Post("/credit", h.HandleCredit)
}

// HandleGetBalances returns balances for a comma separated list of addresses.
// @Summary Get Balances
// @Description Aggregated allocated, consumed and remaining amounts per address. Addresses without grants are omitted.
// @Tags ledger
// @Produce json
// @Param contract path string true "Airdrop contract address"
// @Param addresses query string true "Comma separated user addresses"
// @Success 200 {object} map[string]interface{} "Balances"
// @Failure 404 {object} map[string]interface{} "Unknown campaign"
// @Failure 500 {object} map[string]interface{} "Internal Server Error"
// @Router /airdrops/{contract}/balances [get]
func (h *Handler) HandleGetBalances(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var addresses []string
	for _, a := range strings.Split(c.Query("addresses"), ",") {
		if a = strings.TrimSpace(a); a != "" {
			addresses = append(addresses, a)
		}
	}

	balances, err := h.service.GetBalances(c.UserContext(), c.Params("contract"), addresses)
	if err != nil {
		l.Error("Balance lookup failed", zap.Error(err))
		return failure(c, err, nil)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"balances": balances},
	})
}

// HandleDebit consumes an amount from a user's grant.
// @Summary Debit
// @Description Spreads the amount over the user's rows in id order. Partial debits are committed and reported.
// @Tags ledger
// @Accept json
// @Produce json
// @Param contract path string true "Airdrop contract address"
// @Param request body AdjustRequest true "Debit request"
// @Success 200 {object} map[string]interface{} "Adjustment log"
// @Failure 400 {object} map[string]interface{} "Invalid user or amount"
// @Failure 404 {object} map[string]interface{} "Unknown campaign"
// @Failure 409 {object} map[string]interface{} "Insufficient balance"
// @Router /airdrops/{contract}/debit [post]
func (h *Handler) HandleDebit(c *fiber.Ctx) error {
	return h.handleAdjust(c, h.service.Debit)
}

// HandleCredit restores an amount to a user's grant.
// @Summary Credit
// @Description Returns previously consumed amount to the user's rows in id order.
// @Tags ledger
// @Accept json
// @Produce json
// @Param contract path string true "Airdrop contract address"
// @Param request body AdjustRequest true "Credit request"
// @Success 200 {object} map[string]interface{} "Adjustment log"
// @Failure 400 {object} map[string]interface{} "Invalid user or amount"
// @Failure 404 {object} map[string]interface{} "Unknown campaign"
// @Failure 409 {object} map[string]interface{} "Nothing to credit"
// @Router /airdrops/{contract}/credit [post]
func (h *Handler) HandleCredit(c *fiber.Ctx) error {
	return h.handleAdjust(c, h.service.Credit)
}

type adjustFunc func(ctx context.Context, campaignRef, userAddress, amount string) (models.AdjustmentLog, error)

func (h *Handler) handleAdjust(c *fiber.Ctx, fn adjustFunc) error {
	l := logger.WithRayID(h.service.logger, c)

	var req AdjustRequest
	if err := c.BodyParser(&req); err != nil {
		l.Warn("Invalid adjustment body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   fiber.Map{"code": "invalid_request", "message": err.Error()},
			"data":    nil,
		})
	}

	log, err := fn(c.UserContext(), c.Params("contract"), req.UserAddress, req.Amount.String())
	if err != nil {
		return failure(c, err, fiber.Map{"amount_adjusted_log": log})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"amount_adjusted_log": log},
	})
}

func failure(c *fiber.Ctx, err error, data any) error {
	kind := KindOf(err)
	if kind == "" {
		kind = KindStoreFailure
	}
	return c.Status(StatusFor(kind)).JSON(fiber.Map{
		"success": false,
		"error":   fiber.Map{"code": kind, "message": err.Error()},
		"data":    data,
	})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind Kind) int {
	switch kind {
	case KindInvalidCampaign:
		return fiber.StatusNotFound
	case KindInvalidUser, KindInvalidAmount:
		return fiber.StatusBadRequest
	case KindNoEligibleRows, KindPartiallyAdjusted:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
