package card

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"amerilend-backend/internal/domain/gateway"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		APILoginID:     "login",
		TransactionKey: "key",
		Endpoint:       srv.URL,
	})
}

func capture() gateway.CardCapture {
	return gateway.CardCapture{
		AmountCents:    20_000,
		DataDescriptor: "COMMON.ACCEPT.INAPP.PAYMENT",
		DataValue:      "opaque-nonce",
		Description:    "Processing fee for AL-20260101-TEST1",
	}
}

func TestCapture_Success(t *testing.T) {
	var got captureRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"transactionResponse": map[string]any{
				"responseCode":  "1",
				"authCode":      "AUTH42",
				"transId":       "600123",
				"accountNumber": "XXXX1111",
				"accountType":   "Visa",
			},
			"messages": map[string]any{"resultCode": "Ok"},
		})
	})

	res, err := client.Capture(context.Background(), capture())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if res.ProviderRef != "600123" || res.AuthCode != "AUTH42" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.CardLast4 != "1111" || res.CardBrand != "Visa" {
		t.Fatalf("card details = %q %q, want 1111 Visa", res.CardLast4, res.CardBrand)
	}

	tr := got.CreateTransactionRequest.TransactionRequest
	if tr.TransactionType != "authCaptureTransaction" {
		t.Fatalf("transactionType = %q", tr.TransactionType)
	}
	if tr.Amount != "200.00" {
		t.Fatalf("amount = %q, want 200.00", tr.Amount)
	}
	if tr.Payment.OpaqueData.DataValue != "opaque-nonce" {
		t.Fatalf("opaque data not forwarded: %+v", tr.Payment)
	}
	auth := got.CreateTransactionRequest.MerchantAuthentication
	if auth.Name != "login" || auth.TransactionKey != "key" {
		t.Fatalf("merchant auth = %+v", auth)
	}
}

func TestCapture_Declined(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"transactionResponse": map[string]any{
				"responseCode": "2",
				"errors": []map[string]string{
					{"errorCode": "2", "errorText": "This transaction has been declined."},
				},
			},
			"messages": map[string]any{"resultCode": "Error"},
		})
	})

	_, err := client.Capture(context.Background(), capture())
	if !errors.Is(err, gateway.ErrDeclined) {
		t.Fatalf("err = %v, want ErrDeclined", err)
	}
	if !strings.Contains(err.Error(), "declined") {
		t.Fatalf("decline reason missing: %v", err)
	}
}

func TestCapture_ServerErrorIsTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Capture(context.Background(), capture())
	if err == nil {
		t.Fatalf("expected error on 502")
	}
	if errors.Is(err, gateway.ErrDeclined) {
		t.Fatalf("transport failure must not read as a decline: %v", err)
	}
}

func TestCapture_MalformedBodyIsTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>gateway timeout</html>"))
	})

	_, err := client.Capture(context.Background(), capture())
	if err == nil || errors.Is(err, gateway.ErrDeclined) {
		t.Fatalf("err = %v, want transient error", err)
	}
}

func TestCapture_MissingCredentials(t *testing.T) {
	client := NewClient(Config{Endpoint: "http://127.0.0.1:1"})
	if _, err := client.Capture(context.Background(), capture()); err == nil {
		t.Fatalf("expected error without credentials")
	}
}

func TestCentsToDollars(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{20_000, "200.00"},
		{4_900, "49.00"},
		{1, "0.01"},
		{123_456, "1234.56"},
	}
	for _, tc := range cases {
		if got := centsToDollars(tc.cents); got != tc.want {
			t.Errorf("centsToDollars(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}
