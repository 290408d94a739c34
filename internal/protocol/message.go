package protocol

import (
	"encoding/json"

	"tarot-game/internal/shared"
)

// Message represents a generic WebSocket message structure.
type Message struct {
	Type    string          `json:"type"`              // e.g. "create_table", "card_played"
	Payload json.RawMessage `json:"payload,omitempty"` // Raw JSON payload, allows flexible structures
}

// Message types sent by clients.
const (
	TypeCreateTable = "create_table"
	TypeJoinTable   = "join_table"
	TypeDealRound   = "deal_round"
	TypePing        = "ping"
)

// Message types sent by the server.
const (
	TypePong          = "pong"
	TypeError         = "error"
	TypeJoinError     = "join_error"
	TypeTableCreated  = "table_created"
	TypeTableUpdate   = "table_update"
	TypeRoundStart    = "round_start"
	TypeDeal          = "deal"
	TypeBid           = "bid"
	TypeBiddingEnd    = "bidding_end"
	TypeRoundVoid     = "round_void"
	TypePartnerCalled = "partner_called"
	TypeDog           = "dog"
	TypeHandfulShown  = "handful_shown"
	TypeCardPlayed    = "card_played"
	TypeTrickEnd      = "trick_end"
	TypeRoundEnd      = "round_end"
)

// --- Client -> Server Payload Structs ---

type CreateTablePayload struct {
	Name  string   `json:"name"`
	Seats []string `json:"seats,omitempty"` // five seat names, defaults from config
	Seed  uint64   `json:"seed,omitempty"`  // 0 picks a random seed
}

type JoinTablePayload struct {
	Name      string `json:"name"`
	TableCode string `json:"table_code"`
}

// --- Server -> Client Payload Structs ---

type TableCreatedPayload struct {
	TableCode string   `json:"table_code"`
	Seats     []string `json:"seats"`
}

type WatcherInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TableUpdatePayload struct {
	Watchers []WatcherInfo `json:"watchers"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type JoinErrorPayload struct {
	Message string `json:"message"`
}

type RoundStartPayload struct {
	RoundID string   `json:"round_id"`
	Seats   []string `json:"seats"`
}

type SeatHand struct {
	Seat string        `json:"seat"`
	Hand []shared.Card `json:"hand"`
}

type DealPayload struct {
	Hands []SeatHand `json:"hands"`
}

type BidPayload struct {
	Seat   string     `json:"seat"`
	Bid    shared.Bid `json:"bid,omitempty"`
	Passed bool       `json:"passed"`
}

type BiddingEndPayload struct {
	Taker string     `json:"taker"`
	Bid   shared.Bid `json:"bid"`
}

type PartnerCalledPayload struct {
	Taker string       `json:"taker"`
	Card  *shared.Card `json:"card,omitempty"` // nil when no partner could be called
	Alone bool         `json:"alone"`
}

// DogPayload reveals the dog when the contract lets the taker see it. The
// aside itself stays hidden.
type DogPayload struct {
	Dog      []shared.Card `json:"dog,omitempty"`
	Revealed bool          `json:"revealed"`
}

type HandfulShownPayload struct {
	Seat  string        `json:"seat"`
	Cards []shared.Card `json:"cards"`
}

type CardPlayedPayload struct {
	Trick int         `json:"trick"`
	Seat  string      `json:"seat"`
	Card  shared.Card `json:"card"`
}

type TrickEndPayload struct {
	Trick    int                 `json:"trick"`
	WinnerID string              `json:"winner_id"`
	Cards    []shared.PlayedCard `json:"cards"`
}

type RoundEndPayload struct {
	RoundID string         `json:"round_id"`
	Camp    shared.Camp    `json:"camp"`
	Value   int            `json:"value"`
	Made    bool           `json:"made"`
	Payoffs map[string]int `json:"payoffs"`
}

// Helper function to create a JSON message
func NewMessage(msgType string, payload interface{}) ([]byte, error) {
	if payload == nil {
		return json.Marshal(Message{Type: msgType})
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	msg := Message{
		Type:    msgType,
		Payload: payloadBytes,
	}
	return json.Marshal(msg)
}
