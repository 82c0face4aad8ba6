package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// VendorError is a non-2xx answer from an external AI provider.
type VendorError struct {
	Vendor  string
	Status  int
	Message string
}

func (e *VendorError) Error() string {
	return fmt.Sprintf("%s API error %d: %s", e.Vendor, e.Status, e.Message)
}

// NewVendorError extracts the most specific message from a vendor body:
// error.message, then message, then error as a string, then the raw body.
func NewVendorError(vendor string, status int, body []byte) *VendorError {
	return &VendorError{Vendor: vendor, Status: status, Message: vendorMessage(body)}
}

func vendorMessage(body []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if len(payload.Error) > 0 {
			var nested struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(payload.Error, &nested) == nil && nested.Message != "" {
				return nested.Message
			}
		}
		if payload.Message != "" {
			return payload.Message
		}
		if len(payload.Error) > 0 {
			var flat string
			if json.Unmarshal(payload.Error, &flat) == nil && flat != "" {
				return flat
			}
		}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return "empty response body"
	}
	return msg
}
