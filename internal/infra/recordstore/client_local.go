//go:build !gcloud

package recordstore

import (
	"net/http"
	"time"
)

func newHTTPClient(_ string) *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
	}
}
