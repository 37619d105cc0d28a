package chat

import (
	"github.com/shopspring/decimal"

	"github.com/suvai/freshmart-backend/pkg/enums"
	"github.com/suvai/freshmart-backend/pkg/geo"
)

// Message is one history entry in a chat session.
type Message struct {
	Role enums.MessageRole `json:"role"`
	Text string            `json:"text"`
}

// QuickAction is a suggested follow-up the client renders as a button; the
// message is sent verbatim when tapped.
type QuickAction struct {
	Label   string `json:"label"`
	Message string `json:"message"`
}

// BotMessage is one outbound bot utterance with optional suggested actions.
type BotMessage struct {
	Text         string        `json:"text"`
	QuickActions []QuickAction `json:"quick_actions,omitempty"`
}

// ProductListing is a product row in a product-search reply.
type ProductListing struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

// StoreListing is a store row in a store-locations reply.
type StoreListing struct {
	Name         string             `json:"name"`
	DistanceKm   float64            `json:"distance_km"`
	Address      string             `json:"address"`
	Location     geo.Point          `json:"location"`
	Availability enums.Availability `json:"availability,omitempty"`
}

// ReplySource records which path produced a reply.
type ReplySource string

const (
	// ReplySourceRemote means the chat backend answered.
	ReplySourceRemote ReplySource = "remote"
	// ReplySourceLocal means the backend failed and local heuristics answered.
	ReplySourceLocal ReplySource = "local"
	// ReplySourceLocation means a location statement was intercepted before
	// any backend call.
	ReplySourceLocation ReplySource = "location"
)

// ReplyType tags how a reply should be rendered, mirroring the backend's
// response types.
type ReplyType string

const (
	ReplyTypeProductSearch  ReplyType = "product_search"
	ReplyTypeStoreLocations ReplyType = "store_locations"
	ReplyTypeText           ReplyType = "text"
)

// Reply is the full outcome of processing one user message.
type Reply struct {
	SessionID string           `json:"session_id"`
	Source    ReplySource      `json:"source"`
	Type      ReplyType        `json:"type"`
	Messages  []BotMessage     `json:"messages"`
	Products  []ProductListing `json:"products,omitempty"`
	Stores    []StoreListing   `json:"stores,omitempty"`
}

// SessionInfo describes a session to a connecting client.
type SessionInfo struct {
	SessionID string       `json:"session_id"`
	Location  *geo.Point   `json:"location"`
	History   []Message    `json:"history"`
	Welcome   []BotMessage `json:"welcome"`
}
