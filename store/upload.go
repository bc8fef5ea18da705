package store

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/billcraft/billcraft/template"
)

// uploadClient bounds how long a remote save may take.
var uploadClient = &http.Client{Timeout: 15 * time.Second}

// Upload POSTs the JSON-serialized override to apiURL and returns the parsed
// JSON response. Upload is purely optional: any failure (transport error,
// non-2xx status, unparsable body) is logged and reported as a nil result.
func (s *Store) Upload(ctx context.Context, apiURL string, ov *template.Override) map[string]interface{} {
	body, err := json.Marshal(ov)
	if err != nil {
		s.log.WithError(err).Warn("store: encoding config for upload")
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		s.log.WithError(err).Warnf("store: building upload request to %s", apiURL)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := uploadClient.Do(req)
	if err != nil {
		s.log.WithError(err).Warnf("store: uploading config to %s", apiURL)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.log.Warnf("store: upload to %s returned %s", apiURL, resp.Status)
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		s.log.WithError(err).Warnf("store: reading upload response from %s", apiURL)
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		s.log.WithError(err).Warnf("store: unparsable upload response from %s", apiURL)
		return nil
	}
	return out
}
