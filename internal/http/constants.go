package http

import "time"

// Generic HTTP / JSON strings
const (
	HTTPErrorMethodNotAllowedText = "method not allowed"
	HTTPErrorInvalidJSONText      = "invalid JSON"
	HTTPErrorForbiddenText        = "forbidden"
	HTTPErrorForbiddenOriginText  = "forbidden origin"
	HTTPErrorForbiddenHostText    = "forbidden host"
	HTTPErrorNoWalletControlText  = "wallet control not available"
)

// Common JSON keys
const (
	JSONKeyOK     = "ok"
	JSONKeyData   = "data"
	JSONKeyError  = "error"
	JSONKeyStatus = "status"
)

// Page names served under /api/pages/
const (
	PageHome        = "home"
	PageMint        = "mint"
	PageMarketplace = "marketplace"
	PageMyNFTs      = "my-nfts"
)

// View texts
const (
	ViewConnectWalletText = "Please connect your wallet to proceed."
	ViewNoListedText      = "No NFTs listed yet."
	ViewNoOwnedText       = "You don’t own any NFTs yet."
)

// Per-token controls offered by the view
const (
	TokenControlList   = "list"
	TokenControlDelist = "delist"
	TokenControlAccept = "accept"
	TokenControlOffer  = "offer"
)

// Websocket stream
const (
	EventsWriteTimeout = 10 * time.Second
	EventsPingInterval = 30 * time.Second
	EventsPongTimeout  = 60 * time.Second
)

const (
	corsMaxAge         = 600
	shortPriceDecimals = 4
)
