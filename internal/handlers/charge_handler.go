package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/GabrielFBos/pix-saas-working/internal/gateway"
	"github.com/GabrielFBos/pix-saas-working/internal/helpers"
	"github.com/GabrielFBos/pix-saas-working/internal/middleware"
	"github.com/GabrielFBos/pix-saas-working/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PreRegisterRequest struct {
	Name  string `json:"name" binding:"required,min=2"`
	Email string `json:"email" binding:"required,email"`
}

func PreRegister(c *gin.Context) {
	var req PreRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Name needs at least 2 characters and email must be valid.")
		return
	}

	svc := middleware.GetChargeService(c)
	if svc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Charge service not found.")
		return
	}

	charge, err := svc.RegisterAndCharge(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create charge.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"txid":       charge.TxID,
		"copy_paste": charge.CopyPastePayload,
		"qr_image":   charge.QRImage,
		"expires_at": charge.ExpiresAt,
	})
}

func ChargeStatus(c *gin.Context) {
	txid := c.Query("txid")
	if txid == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing txid query parameter.")
		return
	}
	if _, err := uuid.Parse(txid); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid txid.")
		return
	}

	svc := middleware.GetChargeService(c)
	if svc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Charge service not found.")
		return
	}

	view, err := svc.CheckStatus(c.Request.Context(), txid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Charge not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to check charge status.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"txid":      view.TxID,
		"status":    view.Status,
		"updatedAt": view.UpdatedAt,
	})
}

func Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Failed to read webhook body.")
		return
	}

	svc := middleware.GetChargeService(c)
	if svc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Charge service not found.")
		return
	}

	if err := svc.HandleWebhook(c.Request.Context(), c.Request.Header, body); err != nil {
		switch {
		case errors.Is(err, gateway.ErrUnauthorized):
			// Deliberately vague, the caller learns nothing about why.
			helpers.RespondWithError(c, http.StatusUnauthorized, "Unauthorized.")
		case errors.Is(err, gateway.ErrMissingField), errors.Is(err, gateway.ErrInvalidStatus):
			helpers.RespondWithError(c, http.StatusBadRequest, "Malformed webhook body.")
		case errors.Is(err, repository.ErrNotFound):
			helpers.RespondWithError(c, http.StatusNotFound, "Charge not found.")
		default:
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to process webhook.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
