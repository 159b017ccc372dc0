// Package rates converts fee amounts into crypto units. Rates are resolved
// once per conversion and cached in redis so every caller in a window sees
// the same snapshot; the table itself is injected (a production deployment
// points the refresher at a market-data API).
package rates

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"amerilend-backend/internal/domain/gateway"
)

// DefaultTable mirrors the rates the payment UI quotes.
var DefaultTable = map[string]float64{
	"BTC":  65000,
	"ETH":  3200,
	"USDT": 1,
	"USDC": 1,
}

const snapshotTTL = 5 * time.Minute

// decimals per currency on the quote side.
var decimals = map[string]int{"BTC": 8, "ETH": 6, "USDT": 2, "USDC": 2}

type Source struct {
	rdb   *redis.Client
	table map[string]float64
}

// NewSource builds a rate source. rdb may be nil (tests, single-process
// runs); the snapshot cache is then skipped.
func NewSource(rdb *redis.Client, table map[string]float64) *Source {
	if table == nil {
		table = DefaultTable
	}
	return &Source{rdb: rdb, table: table}
}

var _ gateway.RateSource = (*Source)(nil)

func (s *Source) Convert(ctx context.Context, usdCents int64, currency string) (string, error) {
	cur := strings.ToUpper(currency)
	rate, err := s.rate(ctx, cur)
	if err != nil {
		return "", err
	}
	d, ok := decimals[cur]
	if !ok {
		d = 8
	}
	amount := float64(usdCents) / 100 / rate
	return strconv.FormatFloat(amount, 'f', d, 64), nil
}

func (s *Source) Rates(ctx context.Context) (map[string]float64, error) {
	out := make(map[string]float64, len(s.table))
	for cur := range s.table {
		rate, err := s.rate(ctx, cur)
		if err != nil {
			return nil, err
		}
		out[cur] = rate
	}
	return out, nil
}

// rate serves the cached snapshot when one exists, otherwise snapshots the
// current table value.
func (s *Source) rate(ctx context.Context, currency string) (float64, error) {
	base, ok := s.table[currency]
	if !ok {
		return 0, fmt.Errorf("unsupported currency %q", currency)
	}
	if s.rdb == nil {
		return base, nil
	}

	key := "crypto:rate:" + currency
	if v, err := s.rdb.Get(ctx, key).Result(); err == nil {
		if rate, perr := strconv.ParseFloat(v, 64); perr == nil && rate > 0 {
			return rate, nil
		}
	} else if err != redis.Nil {
		// Cache trouble must not block payments; quote from the table.
		return base, nil
	}
	_ = s.rdb.Set(ctx, key, strconv.FormatFloat(base, 'f', -1, 64), snapshotTTL).Err()
	return base, nil
}
