// Package chain answers "does this transaction pay the expected amount to
// the expected address, and how settled is it". Ethereum-family currencies
// go through JSON-RPC; Bitcoin goes through a Blockbook-style REST API.
package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"amerilend-backend/internal/domain/gateway"
)

type Config struct {
	EthRPCURL string
	BtcAPIURL string
	Timeout   time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

var _ gateway.ChainSource = (*Client)(nil)

func (c *Client) Verify(ctx context.Context, q gateway.TxQuery) (*gateway.TxVerification, error) {
	switch strings.ToUpper(q.Currency) {
	case "BTC":
		return c.verifyBitcoin(ctx, q)
	default:
		// ETH and the ERC-20 stables share the Ethereum rails. Token
		// transfers carry value in the tx to the token contract; the
		// custody system credits per deposit address, so recipient+value
		// of the native tx is what we check here, as the original rail
		// does for direct transfers.
		return c.verifyEthereum(ctx, q)
	}
}

// ---- Ethereum JSON-RPC ----

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type ethTx struct {
	To    string `json:"to"`
	Value string `json:"value"`
}

type ethReceipt struct {
	Status      string `json:"status"`
	BlockNumber string `json:"blockNumber"`
}

func (c *Client) verifyEthereum(ctx context.Context, q gateway.TxQuery) (*gateway.TxVerification, error) {
	if c.cfg.EthRPCURL == "" {
		return nil, fmt.Errorf("ethereum rpc not configured")
	}

	var tx ethTx
	found, err := c.ethCall(ctx, "eth_getTransactionByHash", []any{q.TxHash}, &tx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, gateway.ErrTxNotFound
	}

	v := &gateway.TxVerification{
		RecipientOK: strings.EqualFold(tx.To, q.Address),
		AmountOK:    weiCovers(tx.Value, q.Amount, q.Currency),
	}
	if !v.RecipientOK {
		v.Message = fmt.Sprintf("recipient %s does not match %s", tx.To, q.Address)
		return v, nil
	}

	var receipt ethReceipt
	mined, err := c.ethCall(ctx, "eth_getTransactionReceipt", []any{q.TxHash}, &receipt)
	if err != nil {
		return nil, err
	}
	if !mined {
		v.Message = "transaction pending, waiting for confirmations"
		return v, nil
	}
	if receipt.Status == "0x0" {
		v.TxFailed = true
		v.Message = "transaction reverted"
		return v, nil
	}

	var headHex string
	if _, err := c.ethCall(ctx, "eth_blockNumber", []any{}, &headHex); err != nil {
		return nil, err
	}
	head, ok1 := parseHexUint(headHex)
	minedAt, ok2 := parseHexUint(receipt.BlockNumber)
	if ok1 && ok2 && head >= minedAt {
		v.Confirmations = int(head-minedAt) + 1
	}
	v.Message = fmt.Sprintf("transaction has %d confirmations", v.Confirmations)
	return v, nil
}

// ethCall returns found=false when the node answers null (unknown hash or
// unmined receipt); transport and RPC errors come back as errors.
func (c *Client) ethCall(ctx context.Context, method string, params []any, out any) (bool, error) {
	body, _ := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: 1})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.EthRPCURL, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("eth rpc %s: %w", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("eth rpc %s: status %d", method, resp.StatusCode)
	}
	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return false, fmt.Errorf("eth rpc %s: %w", method, err)
	}
	if rpcResp.Error != nil {
		return false, fmt.Errorf("eth rpc %s: %s", method, rpcResp.Error.Message)
	}
	if len(rpcResp.Result) == 0 || string(rpcResp.Result) == "null" {
		return false, nil
	}
	return true, json.Unmarshal(rpcResp.Result, out)
}

// ---- Bitcoin (Blockbook REST) ----

type btcTx struct {
	Confirmations int `json:"confirmations"`
	Vout          []struct {
		Value     string   `json:"value"` // satoshis
		Addresses []string `json:"addresses"`
	} `json:"vout"`
}

func (c *Client) verifyBitcoin(ctx context.Context, q gateway.TxQuery) (*gateway.TxVerification, error) {
	if c.cfg.BtcAPIURL == "" {
		return nil, fmt.Errorf("bitcoin api not configured")
	}
	url := strings.TrimRight(c.cfg.BtcAPIURL, "/") + "/api/v2/tx/" + q.TxHash
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("btc api: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, gateway.ErrTxNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("btc api: status %d", resp.StatusCode)
	}
	var tx btcTx
	if err := json.NewDecoder(resp.Body).Decode(&tx); err != nil {
		return nil, fmt.Errorf("btc api: %w", err)
	}

	v := &gateway.TxVerification{Confirmations: tx.Confirmations}
	expected := btcToSatoshi(q.Amount)
	for _, out := range tx.Vout {
		for _, addr := range out.Addresses {
			if strings.EqualFold(addr, q.Address) {
				v.RecipientOK = true
				paid, ok := new(big.Int).SetString(out.Value, 10)
				if ok && expected != nil && paid.Cmp(expected) >= 0 {
					v.AmountOK = true
				}
			}
		}
	}
	if !v.RecipientOK {
		v.Message = "transaction does not send to the expected address"
	} else {
		v.Message = fmt.Sprintf("transaction has %d confirmations", tx.Confirmations)
	}
	return v, nil
}

// ---- amount helpers ----

var unitDecimals = map[string]int{"ETH": 18, "USDT": 6, "USDC": 6}

// weiCovers reports whether valueHex (wei or smallest token unit) covers the
// expected decimal amount for the currency.
func weiCovers(valueHex, expected, currency string) bool {
	paid, ok := parseHexBig(valueHex)
	if !ok {
		return false
	}
	decimals, ok := unitDecimals[strings.ToUpper(currency)]
	if !ok {
		decimals = 18
	}
	want := decimalToUnits(expected, decimals)
	if want == nil {
		return false
	}
	return paid.Cmp(want) >= 0
}

func btcToSatoshi(amount string) *big.Int {
	return decimalToUnits(amount, 8)
}

// decimalToUnits converts "1.2345" into an integer count of 10^-decimals
// units, truncating extra precision.
func decimalToUnits(amount string, decimals int) *big.Int {
	whole, frac, _ := strings.Cut(strings.TrimSpace(amount), ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > decimals {
		frac = frac[:decimals]
	}
	frac += strings.Repeat("0", decimals-len(frac))
	n, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil
	}
	return n
}

func parseHexBig(h string) (*big.Int, bool) {
	h = strings.TrimPrefix(h, "0x")
	if h == "" {
		return nil, false
	}
	return new(big.Int).SetString(h, 16)
}

func parseHexUint(h string) (uint64, bool) {
	n, ok := parseHexBig(h)
	if !ok || !n.IsUint64() {
		return 0, false
	}
	return n.Uint64(), true
}
