// Package card talks to the Authorize.Net JSON endpoint. Only tokenized
// (Accept.js opaque data) captures are supported: raw card numbers never
// reach this process.
package card

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"amerilend-backend/internal/domain/gateway"
)

const (
	SandboxEndpoint    = "https://apitest.authorize.net/xml/v1/request.api"
	ProductionEndpoint = "https://api.authorize.net/xml/v1/request.api"
)

type Config struct {
	APILoginID     string
	TransactionKey string
	Endpoint       string
	Timeout        time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = SandboxEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

var _ gateway.CardGateway = (*Client)(nil)

type captureRequest struct {
	CreateTransactionRequest struct {
		MerchantAuthentication struct {
			Name           string `json:"name"`
			TransactionKey string `json:"transactionKey"`
		} `json:"merchantAuthentication"`
		RefID              string `json:"refId"`
		TransactionRequest struct {
			TransactionType string `json:"transactionType"`
			Amount          string `json:"amount"`
			Payment         struct {
				OpaqueData struct {
					DataDescriptor string `json:"dataDescriptor"`
					DataValue      string `json:"dataValue"`
				} `json:"opaqueData"`
			} `json:"payment"`
			Order struct {
				Description string `json:"description"`
			} `json:"order"`
		} `json:"transactionRequest"`
	} `json:"createTransactionRequest"`
}

type captureResponse struct {
	TransactionResponse struct {
		ResponseCode  string `json:"responseCode"`
		AuthCode      string `json:"authCode"`
		TransID       string `json:"transId"`
		AccountNumber string `json:"accountNumber"`
		AccountType   string `json:"accountType"`
		Errors        []struct {
			ErrorCode string `json:"errorCode"`
			ErrorText string `json:"errorText"`
		} `json:"errors"`
	} `json:"transactionResponse"`
	Messages struct {
		ResultCode string `json:"resultCode"`
		Message    []struct {
			Code string `json:"code"`
			Text string `json:"text"`
		} `json:"message"`
	} `json:"messages"`
}

// Capture runs an authCaptureTransaction. A processor decline comes back as
// gateway.ErrDeclined; anything else (transport, 5xx, malformed body) is
// transient and retryable.
func (c *Client) Capture(ctx context.Context, in gateway.CardCapture) (*gateway.CardResult, error) {
	if c.cfg.APILoginID == "" || c.cfg.TransactionKey == "" {
		return nil, errors.New("authorize.net credentials not configured")
	}

	var req captureRequest
	req.CreateTransactionRequest.MerchantAuthentication.Name = c.cfg.APILoginID
	req.CreateTransactionRequest.MerchantAuthentication.TransactionKey = c.cfg.TransactionKey
	req.CreateTransactionRequest.RefID = "ref_" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	tr := &req.CreateTransactionRequest.TransactionRequest
	tr.TransactionType = "authCaptureTransaction"
	tr.Amount = centsToDollars(in.AmountCents)
	tr.Payment.OpaqueData.DataDescriptor = in.DataDescriptor
	tr.Payment.OpaqueData.DataValue = in.DataValue
	tr.Order.Description = in.Description

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("authorize.net request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("authorize.net returned status %d", resp.StatusCode)
	}

	var out captureResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("authorize.net response: %w", err)
	}

	if out.Messages.ResultCode == "Ok" && out.TransactionResponse.ResponseCode == "1" {
		last4 := out.TransactionResponse.AccountNumber
		if len(last4) > 4 {
			last4 = last4[len(last4)-4:]
		}
		return &gateway.CardResult{
			ProviderRef: out.TransactionResponse.TransID,
			AuthCode:    out.TransactionResponse.AuthCode,
			CardLast4:   last4,
			CardBrand:   out.TransactionResponse.AccountType,
		}, nil
	}

	msg := "transaction failed"
	if len(out.TransactionResponse.Errors) > 0 {
		msg = out.TransactionResponse.Errors[0].ErrorText
	} else if len(out.Messages.Message) > 0 {
		msg = out.Messages.Message[0].Text
	}
	return nil, fmt.Errorf("%w: %s", gateway.ErrDeclined, msg)
}

func centsToDollars(cents int64) string {
	return strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
}
