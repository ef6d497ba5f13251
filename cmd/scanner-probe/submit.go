package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fairyhunter13/scan-to-cart-service/internal/model"
)

var httpClient = &http.Client{Timeout: 5 * time.Second}

// submit posts one barcode and returns a one-line description of the ack.
func submit(server, barcode string) (string, error) {
	target := strings.TrimSuffix(server, "/") + "/api/" + url.PathEscape(barcode)
	resp, err := httpClient.Post(target, "application/json", nil)
	if err != nil {
		return "", fmt.Errorf("submit %q: %w", barcode, err)
	}
	defer resp.Body.Close()
	var ack model.ScanAck
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return "", fmt.Errorf("decode ack for %q: %w", barcode, err)
	}
	return fmt.Sprintf("%s  %d  %s", barcode, resp.StatusCode, ack.Message), nil
}
