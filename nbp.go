package fifotax

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"strings"

	"github.com/mzawisa/fifotax/date"
	"github.com/shopspring/decimal"
)

// This file contains the client for the NBP web API, the National Bank
// of Poland's public source of daily table A mid exchange rates.

const nbpAPI = "https://api.nbp.pl/api"

// diskCache implements a simple disk cache for HTTP responses.
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// the key includes today's date, so the local cache expires daily.
	key := fmt.Sprintf("%s %s %s", date.Today().String(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 500 {
		return resp, nil
	}
	// otherwise attempt to store it in cache. 404 responses are cached
	// too: a missing historical quotation stays missing.
	err = c.put(key, resp)
	if err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk.
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	file := filepath.Join(os.TempDir(), key)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache.
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	file := filepath.Join(os.TempDir(), key)

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	_, err = f.Write(content)
	f.Close()
	return err
}

// NBPSource fetches daily mid exchange rates published by the National
// Bank of Poland. It implements RateSource.
type NBPSource struct {
	client *http.Client
	base   string
}

// NewNBPSource returns a rate source backed by api.nbp.pl. A nil client
// gets a default one with a daily-expiring disk cache, so repeated runs
// within a day never hit the network twice for the same day.
func NewNBPSource(client *http.Client) *NBPSource {
	if client == nil {
		client = &http.Client{Transport: &diskCache{http.DefaultTransport}}
	}
	return &NBPSource{client: client, base: nbpAPI}
}

// Daily returns the table A mid rate published on the given day, or
// ErrNoQuotation when the bank published nothing (weekend, holiday).
func (s *NBPSource) Daily(code Code, on date.Date) (RateRecord, error) {
	// https://api.nbp.pl/api/exchangerates/rates/a/usd/2019-12-31/?format=json
	// {
	//   "table": "A",
	//   "currency": "dolar amerykański",
	//   "code": "USD",
	//   "rates": [
	//     { "no": "251/A/NBP/2019", "effectiveDate": "2019-12-31", "mid": 3.7977 }
	//   ]
	// }
	addr := fmt.Sprintf("%s/exchangerates/rates/a/%s/%s/?format=json", s.base, strings.ToLower(string(code)), on)

	resp, err := s.client.Get(addr)
	if err != nil {
		return RateRecord{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to the payload
	case http.StatusNotFound:
		return RateRecord{}, ErrNoQuotation
	default:
		return RateRecord{}, fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}

	var content struct {
		Rates []struct {
			No            string          `json:"no"`
			EffectiveDate date.Date       `json:"effectiveDate"`
			Mid           decimal.Decimal `json:"mid"`
		} `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return RateRecord{}, fmt.Errorf("cannot parse NBP reply for %s on %s: %w", code, on, err)
	}
	if len(content.Rates) == 0 {
		return RateRecord{}, ErrNoQuotation
	}

	last := content.Rates[len(content.Rates)-1]
	return RateRecord{Value: last.Mid, Date: last.EffectiveDate, ID: last.No}, nil
}
