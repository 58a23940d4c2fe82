package helpers

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// ESOptions configures the search cluster connection.
type ESOptions struct {
	Addresses []string
	Username  string
	Password  string
	// MaxRetries applies to 502/503/504 responses and transport errors.
	MaxRetries int
}

// NewESClient builds an Elasticsearch client with short dial and header
// timeouts so a slow cluster degrades search instead of stalling requests.
func NewESClient(opts ESOptions) (*elasticsearch.Client, error) {
	retries := opts.MaxRetries
	if retries <= 0 {
		retries = 2
	}
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     opts.Addresses,
		Username:      opts.Username,
		Password:      opts.Password,
		MaxRetries:    retries,
		RetryOnStatus: []int{502, 503, 504},
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	})
}

// PingES fails when the cluster is unreachable or answers with an error.
func PingES(ctx context.Context, es *elasticsearch.Client) error {
	res, err := es.Ping(es.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: %s", res.Status())
	}
	return nil
}
