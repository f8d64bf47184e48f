package backend

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dnsdb/pdnsq/pkg/types"
)

// FetchInfo runs the provider's account/quota operation synchronously.
// Unlike record fetches this is a single small response, so it bypasses
// the streaming engine.
func FetchInfo(p Provider, client *http.Client) (*types.RateInfo, error) {
	u, ok := p.InfoURL()
	if !ok {
		return nil, types.UsageErrorf("backend %s has no info operation", p.Name())
	}
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build info request: %w", err)
	}
	p.Auth(req)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &types.Error{Kind: types.KindTransport, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.Error{Kind: types.KindTransport, Message: err.Error(), Err: err}
	}
	if ok, status := p.CheckStatus(resp.StatusCode); !ok {
		return nil, &types.Error{
			Kind:    types.KindLogical,
			Status:  status,
			Message: strings.TrimSpace(string(body)),
		}
	}
	return types.ParseRateInfo(body)
}
