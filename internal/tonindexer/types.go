package tonindexer

// RawTx is one incoming transfer as reported by the indexer, flattened
// to the fields the matcher needs.
type RawTx struct {
	Hash          string `json:"hash"`
	AmountNano    int64  `json:"amount_nano"`
	Comment       string `json:"comment"`
	SenderAddress string `json:"sender_address"`
	Timestamp     int64  `json:"timestamp"`
}

// tonapi.io wire types. Events wrap actions; only TonTransfer actions
// carry payments we care about.

type eventsResponse struct {
	Events []event `json:"events"`
}

type event struct {
	EventID   string   `json:"event_id"`
	Timestamp int64    `json:"timestamp"`
	Actions   []action `json:"actions"`
	IsScam    bool     `json:"is_scam"`
}

type action struct {
	Type        string       `json:"type"`
	Status      string       `json:"status"`
	TonTransfer *tonTransfer `json:"TonTransfer,omitempty"`
}

type tonTransfer struct {
	Sender    account `json:"sender"`
	Recipient account `json:"recipient"`
	Amount    int64   `json:"amount"` // nanoTON
	Comment   string  `json:"comment,omitempty"`
}

type account struct {
	Address string `json:"address"`
}

type accountResponse struct {
	Address string `json:"address"`
	Balance int64  `json:"balance"`
	Status  string `json:"status"`
}

type transactionResponse struct {
	Hash    string `json:"hash"`
	Success bool   `json:"success"`
}

// Confirmation is the finality status of one transaction.
type Confirmation struct {
	OK          bool
	IsConfirmed bool
}

// Health is the indexer health-check result.
type Health struct {
	Status       string  `json:"status"`
	ResponseTime float64 `json:"response_time"`
	Error        string  `json:"error,omitempty"`
}
