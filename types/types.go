// Package types holds the JSON documents exchanged with the verification server.
package types

import (
	"encoding/json"
)

// VerifyRequest asks whether signature is valid
//
// Exactly one of Identity or Address is set. With Identity the signature is the raw ERC-1271
// signature and is formatted server side; with Address it is already in universal form.
// Exactly one of Hash, Message or TypedData selects the digest.
type VerifyRequest struct {
	Identity  string          `json:"identity,omitempty"`
	Address   string          `json:"address,omitempty"`
	Hash      string          `json:"hash,omitempty"`
	Message   string          `json:"message,omitempty"`   // EIP-191 personal message
	TypedData json.RawMessage `json:"typedData,omitempty"` // EIP-712 document
	Signature string          `json:"signature"`
}

// VerifyResponse is the verdict for a VerifyRequest
type VerifyResponse struct {
	IsValid  bool   `json:"isValid"`
	Path     string `json:"path"`
	Reason   string `json:"reason,omitempty"`
	Identity string `json:"identity,omitempty"`
	Account  string `json:"account"`
	Deployed *bool  `json:"deployed,omitempty"`
	Digest   string `json:"digest"`
}

// FormatRequest asks for the universal form of a raw signature
type FormatRequest struct {
	Identity  string `json:"identity"`
	Signature string `json:"signature"`
}

// FormatResponse carries the universal signature and the account it targets
type FormatResponse struct {
	Identity  string `json:"identity"`
	Account   string `json:"account"`
	Factory   string `json:"factory"`
	Deployed  bool   `json:"deployed"`
	Kind      string `json:"kind"`
	Signature string `json:"signature"`
}

// AccountResponse describes an identity's Kernel account
type AccountResponse struct {
	Identity         string `json:"identity"`
	Account          string `json:"account"`
	Salt             string `json:"salt"`
	Factory          string `json:"factory"`
	CreationCalldata string `json:"creationCalldata"`
	Deployed         bool   `json:"deployed"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Network string `json:"network,omitempty"`
	Factory string `json:"factory"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string   `json:"error"`
	Reason  string   `json:"reason,omitempty"`
	Details []string `json:"details,omitempty"`
}
