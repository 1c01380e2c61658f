package dto

import "encoding/json"

// AssistantRequest is a single utterance sent to the assistant.
type AssistantRequest struct {
	Message string `json:"message"`
}

// AssistantResponse is the assistant's reply.
type AssistantResponse struct {
	Reply string `json:"reply"`
}

// SocketFrame is a message sent by the widget over the assistant socket.
type SocketFrame struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	Criteria json.RawMessage `json:"criteria,omitempty"`
}

// SearchCriteria mirrors the listing query parameters inside a search frame.
type SearchCriteria struct {
	MinPrice      *int    `json:"min_price,omitempty"`
	MaxPrice      *int    `json:"max_price,omitempty"`
	Location      *string `json:"location,omitempty"`
	Bedrooms      *int    `json:"bedrooms,omitempty"`
	Bathrooms     *int    `json:"bathrooms,omitempty"`
	Furnished     string  `json:"furnished,omitempty"`
	MinSquareFeet *int    `json:"min_sqft,omitempty"`
	PropertyType  *string `json:"property_type,omitempty"`
	LeaseDuration *int    `json:"lease_duration,omitempty"`
	Status        *string `json:"status,omitempty"`
	Search        string  `json:"q,omitempty"`
}

// ServerFrame is pushed to the widget.
type ServerFrame struct {
	Type    string `json:"type"`
	Token   uint64 `json:"token,omitempty"`
	Payload any    `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}
