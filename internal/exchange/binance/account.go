package binance

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/ducminhle1904/futures-connector/pkg/types"
)

const pathAccount = "/fapi/v3/account"

// GetBalances returns the balance of every asset holding a positive
// available or wallet balance. On failure the map is empty and the error says
// why.
func (c *Client) GetBalances(ctx context.Context) (map[string]types.Balance, error) {
	balances := make(map[string]types.Balance)

	body, err := c.signedRequest(ctx, http.MethodGet, pathAccount, nil)
	if err != nil {
		return balances, err
	}

	var account struct {
		Assets []struct {
			Asset            string  `json:"asset"`
			WalletBalance    float64 `json:"walletBalance,string"`
			AvailableBalance float64 `json:"availableBalance,string"`
		} `json:"assets"`
	}
	if err := json.Unmarshal(body, &account); err != nil {
		return balances, errors.Wrap(err, "failed to decode account")
	}

	for _, a := range account.Assets {
		if a.AvailableBalance > 0 || a.WalletBalance > 0 {
			balances[a.Asset] = types.Balance{
				Asset:     a.Asset,
				Available: a.AvailableBalance,
				Locked:    a.WalletBalance,
			}
		}
	}

	return balances, nil
}
