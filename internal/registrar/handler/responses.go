package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"leasehold/internal/registrar/models"
	dErrors "leasehold/pkg/domain-errors"
)

type leaseResponse struct {
	NameID    string    `json:"name_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Active    bool      `json:"active"`
}

type registrationResponse struct {
	Label   string        `json:"label"`
	Owner   string        `json:"owner"`
	TokenID uint64        `json:"token_id"`
	Lease   leaseResponse `json:"lease"`
}

type nameResponse struct {
	Label  string         `json:"label"`
	Active bool           `json:"active"`
	Lease  *leaseResponse `json:"lease,omitempty"`
}

type statusResponse struct {
	Fee    uint64 `json:"fee"`
	Paused bool   `json:"paused"`
}

type withdrawResponse struct {
	Amount uint64 `json:"amount"`
}

func toLeaseResponse(lease models.Lease, active bool) leaseResponse {
	return leaseResponse{
		NameID:    lease.NameID.Hex(),
		StartTime: lease.StartTime,
		EndTime:   lease.EndTime,
		Active:    active,
	}
}

func toRegistrationResponse(reg models.Registration) registrationResponse {
	return registrationResponse{
		Label:   reg.Label.String(),
		Owner:   reg.Owner.String(),
		TokenID: uint64(reg.TokenID),
		Lease:   toLeaseResponse(reg.Lease, true),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError centralizes coded-error translation so every endpoint serves
// the same JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeInternal
	message := "internal error"
	var de *dErrors.Error
	if errors.As(err, &de) {
		code = de.Code
		message = de.Message
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(dErrors.ToHTTPStatus(code))
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   string(code),
		"message": message,
	})
}
