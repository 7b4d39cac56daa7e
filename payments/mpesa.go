// Package payments holds the M-Pesa (Daraja) STK-push client. The gateway is
// an external collaborator: a failed or non-2xx call surfaces as an error
// with no retry.
package payments

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"mobistore/config"
	"mobistore/errs"
)

// Client initiates STK-push payment requests against the Daraja API.
type Client struct {
	httpClient *http.Client
	cfg        config.MpesaConfig
	log        *zap.Logger
	now        func() time.Time
}

func NewClient(cfg config.MpesaConfig, log *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

// STKPushResponse is the transaction handle returned by the gateway.
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// STKPush asks the gateway to prompt the given phone for a payment of amount
// (whole KSh). Returns the gateway's transaction handle.
func (c *Client) STKPush(ctx context.Context, phone string, amount int64, accountRef string) (*STKPushResponse, error) {
	if amount <= 0 {
		return nil, errs.Validation("amount must be greater than zero")
	}
	msisdn, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, errs.Internal("payment gateway unavailable", err)
	}

	timestamp := c.now().Format("20060102150405")
	payload := stkPushRequest{
		BusinessShortCode: c.cfg.Shortcode,
		Password:          Password(c.cfg.Shortcode, c.cfg.Passkey, timestamp),
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            amount,
		PartyA:            msisdn,
		PartyB:            c.cfg.Shortcode,
		PhoneNumber:       msisdn,
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  accountRef,
		TransactionDesc:   "MobiStore purchase",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errs.Internal("payment initiation failed", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/mpesa/stkpush/v1/processrequest", bytes.NewReader(body))
	if err != nil {
		return nil, errs.Internal("payment initiation failed", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Internal("payment gateway unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Warn("stk push rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", raw))
		return nil, errs.Internal("payment initiation failed",
			fmt.Errorf("gateway status %d", resp.StatusCode))
	}

	var out STKPushResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errs.Internal("payment initiation failed", err)
	}

	c.log.Info("stk push accepted",
		zap.String("checkout_request_id", out.CheckoutRequestID))
	return &out, nil
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.BaseURL+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request returned status %d", resp.StatusCode)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}
	return out.AccessToken, nil
}

// Password derives the STK-push credential: base64 of shortcode + passkey +
// timestamp (YYYYMMDDHHmmss).
func Password(shortcode, passkey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortcode + passkey + timestamp))
}

// NormalizePhone converts the accepted input forms (07XXXXXXXX, +2547...,
// 2547...) to the 2547XXXXXXXX form the gateway requires.
func NormalizePhone(phone string) (string, error) {
	p := strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
	switch {
	case strings.HasPrefix(p, "+254"):
		p = "254" + p[4:]
	case strings.HasPrefix(p, "0") && len(p) == 10:
		p = "254" + p[1:]
	}
	if len(p) != 12 || !strings.HasPrefix(p, "254") {
		return "", errs.Validation("invalid phone number")
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return "", errs.Validation("invalid phone number")
		}
	}
	return p, nil
}
