package database

// RoundResult is one stored round. Seats are kept in play order.
type RoundResult struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	TableCode string `json:"table_code"`
	Seat1     string `json:"seat1"`
	Seat2     string `json:"seat2"`
	Seat3     string `json:"seat3"`
	Seat4     string `json:"seat4"`
	Seat5     string `json:"seat5"`
	Taker     string `json:"taker"`
	Partner   string `json:"partner"`
	Bid       string `json:"bid"`
	Made      bool   `json:"made"`
	Value     int    `json:"value"`
	Payoff1   int    `json:"payoff1"`
	Payoff2   int    `json:"payoff2"`
	Payoff3   int    `json:"payoff3"`
	Payoff4   int    `json:"payoff4"`
	Payoff5   int    `json:"payoff5"`
	// Detail is the full round record encoded as JSON.
	Detail string `json:"detail"`
}
