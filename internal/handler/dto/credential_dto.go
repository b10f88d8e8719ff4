package dto

import "time"

type SaveCredentialRequest struct {
	APIKey string `json:"apiKey" binding:"required,min=10"`
}

type CredentialStatusResponse struct {
	HasCredential bool       `json:"hasCredential"`
	IsValid       bool       `json:"isValid"`
	LastUpdated   *time.Time `json:"lastUpdated"`
	MaskedKey     *string    `json:"maskedKey"`
}

type SaveCredentialResponse struct {
	Success   bool   `json:"success"`
	IsValid   bool   `json:"isValid"`
	MaskedKey string `json:"maskedKey"`
}
