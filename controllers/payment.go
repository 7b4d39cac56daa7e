package controllers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"mobistore/errs"
	"mobistore/payments"
	"mobistore/utils"
)

// PaymentController exposes the M-Pesa payment initiation endpoint.
type PaymentController struct {
	mpesa *payments.Client
	log   *zap.Logger
}

func NewPaymentController(mpesa *payments.Client, log *zap.Logger) *PaymentController {
	return &PaymentController{mpesa: mpesa, log: log}
}

// STKPush asks the gateway to prompt the caller's phone for payment and
// returns the transaction handle. The order itself is created separately via
// POST /api/orders/create.
func (pc *PaymentController) STKPush(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Phone  string `json:"phone"`
		Amount int64  `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.Error(w, errs.Validation("invalid request body"))
		return
	}

	resp, err := pc.mpesa.STKPush(r.Context(), body.Phone, body.Amount, "MobiStore")
	if err != nil {
		pc.log.Error("stk push failed", zap.Error(err))
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}
