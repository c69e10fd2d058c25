package banks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Bank struct {
	ID                int    `json:"id"`
	Code              string `json:"code"`
	BIN               string `json:"bin"`
	Name              string `json:"name"`
	ShortName         string `json:"shortName"`
	Logo              string `json:"logo"`
	TransferSupported int    `json:"transferSupported"`
	LookupSupported   int    `json:"lookupSupported"`
}

type listResponse struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
	Data []Bank `json:"data"`
}

// Directory lists the banks VietQR can route transfers to. Results are
// kept for ttl; a stale list is served when a refresh fails.
type Directory struct {
	url    string
	ttl    time.Duration
	client *http.Client
	now    func() time.Time

	mu      sync.Mutex
	banks   []Bank
	fetched time.Time
}

func NewDirectory(url string, ttl time.Duration) *Directory {
	return &Directory{
		url:    url,
		ttl:    ttl,
		client: &http.Client{Timeout: 10 * time.Second},
		now:    time.Now,
	}
}

func (d *Directory) Banks(ctx context.Context) ([]Bank, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.banks != nil && d.now().Sub(d.fetched) < d.ttl {
		return d.banks, nil
	}

	banks, err := d.fetch(ctx)
	if err != nil {
		if d.banks != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("bank list refresh failed, serving cached copy")
			return d.banks, nil
		}
		return nil, err
	}

	d.banks = banks
	d.fetched = d.now()
	return banks, nil
}

// Lookup finds a bank by its code or BIN.
func (d *Directory) Lookup(ctx context.Context, codeOrBIN string) (*Bank, error) {
	banks, err := d.Banks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range banks {
		if banks[i].Code == codeOrBIN || banks[i].BIN == codeOrBIN {
			return &banks[i], nil
		}
	}
	return nil, nil
}

func (d *Directory) fetch(ctx context.Context) ([]Bank, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return nil, fmt.Errorf("bank list request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bank list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bank list: unexpected status %d", resp.StatusCode)
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("bank list decode: %w", err)
	}
	if body.Code != "00" {
		return nil, fmt.Errorf("bank list: vietqr code %q: %s", body.Code, body.Desc)
	}
	if body.Data == nil {
		body.Data = []Bank{}
	}
	return body.Data, nil
}
