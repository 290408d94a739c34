package server

import (
	"encoding/json"
	"log"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"tarot-game/internal/database"
	"tarot-game/internal/game"
	"tarot-game/internal/protocol"
)

// clientMessage is a helper struct to pass messages along with the client reference.
type clientMessage struct {
	client  *Client
	message protocol.Message
}

const tableCodeLength = 5 // Length of the unique table code

// RoundStore persists scored rounds.
type RoundStore interface {
	Insert(result database.RoundResult) error
}

// Hub manages WebSocket connections and the tables they watch.
type Hub struct {
	clients        map[*Client]bool
	tables         map[string]*game.Table // Map table code to table
	watchers       map[string][]*Client   // Map table code to its watchers
	clientToTable  map[*Client]string     // Map client to the table code it watches
	processMessage chan clientMessage
	register       chan *Client
	unregister     chan *Client
	clientMu       sync.RWMutex
	tableMu        sync.RWMutex
	rng            *rand.Rand
	store          RoundStore
	defaultSeats   []string
	newStrategy    game.StrategyFactory
}

// NewHub creates a hub whose tables seat newStrategy at defaultSeats unless
// a creator names other seats. A zero seed seeds from the clock. store may
// be nil, in which case rounds are not persisted.
func NewHub(store RoundStore, defaultSeats []string, seed uint64, newStrategy game.StrategyFactory) *Hub {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Hub{
		clients:        make(map[*Client]bool),
		tables:         make(map[string]*game.Table),
		watchers:       make(map[string][]*Client),
		clientToTable:  make(map[*Client]string),
		processMessage: make(chan clientMessage),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		rng:            rand.New(rand.NewPCG(seed, seed>>1)),
		store:          store,
		defaultSeats:   slices.Clone(defaultSeats),
		newStrategy:    newStrategy,
	}
}

// generateTableCode creates a unique alphanumeric table code.
func (h *Hub) generateTableCode() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	for {
		var sb strings.Builder
		for i := 0; i < tableCodeLength; i++ {
			sb.WriteByte(letters[h.rng.IntN(len(letters))])
		}
		code := sb.String()

		h.tableMu.RLock()
		_, exists := h.tables[code]
		h.tableMu.RUnlock()
		if !exists {
			return code
		}
		log.Printf("Generated table code %s collided, retrying...", code)
	}
}

// Run starts the Hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clientMu.Lock()
			h.clients[client] = true
			h.clientMu.Unlock()

		case client := <-h.unregister:
			h.removeClient(client)

		case clientMsg := <-h.processMessage:
			h.handleMessage(clientMsg.client, clientMsg.message)
		}
	}
}

func (h *Hub) removeClient(client *Client) {
	h.clientMu.Lock()
	code, watching := h.clientToTable[client]
	_, exists := h.clients[client]
	if exists {
		delete(h.clients, client)
		delete(h.clientToTable, client)
		close(client.send)
		log.Printf("Client %s (%s) disconnected", client.ID, client.Name)
	}
	h.clientMu.Unlock()

	if !watching {
		return
	}
	h.tableMu.Lock()
	remaining := slices.DeleteFunc(slices.Clone(h.watchers[code]), func(c *Client) bool { return c == client })
	if len(remaining) == 0 {
		delete(h.watchers, code)
		delete(h.tables, code)
		h.tableMu.Unlock()
		log.Printf("Client %s left table %s. Table closed.", client.ID, code)
		return
	}
	h.watchers[code] = remaining
	h.tableMu.Unlock()
	h.broadcastTableUpdate(code)
}

// handleMessage processes a message received from a client.
func (h *Hub) handleMessage(client *Client, msg protocol.Message) {
	switch msg.Type {
	case protocol.TypeCreateTable:
		h.handleCreateTable(client, msg)
	case protocol.TypeJoinTable:
		h.handleJoinTable(client, msg)
	case protocol.TypeDealRound:
		h.handleDealRound(client)
	case protocol.TypePing:
		pongMsg, _ := protocol.NewMessage(protocol.TypePong, nil)
		h.sendMessageToClient(client, pongMsg)
	default:
		log.Printf("Received unknown message type '%s' from client %s (%s)", msg.Type, client.ID, h.clientName(client))
		h.sendErrorToClient(client, "Unknown message type.")
	}
}

// clientName reads a watcher's name. Client.Name is guarded by clientMu;
// when both locks are needed tableMu is taken first.
func (h *Hub) clientName(client *Client) string {
	h.clientMu.RLock()
	defer h.clientMu.RUnlock()
	return client.Name
}

func (h *Hub) watchedTable(client *Client) (string, bool) {
	h.clientMu.RLock()
	defer h.clientMu.RUnlock()
	code, ok := h.clientToTable[client]
	return code, ok
}

// handleCreateTable opens a table and makes its creator the first watcher.
func (h *Hub) handleCreateTable(client *Client, msg protocol.Message) {
	if _, watching := h.watchedTable(client); watching {
		h.sendErrorToClient(client, "Already watching a table.")
		return
	}

	var payload protocol.CreateTablePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("Error unmarshalling create_table payload from client %s: %v", client.ID, err)
		h.sendErrorToClient(client, "Invalid create_table message format.")
		return
	}
	if payload.Name == "" {
		h.sendErrorToClient(client, "Name cannot be empty.")
		return
	}
	seats := payload.Seats
	if len(seats) == 0 {
		seats = h.defaultSeats
	}
	if len(seats) != 5 {
		h.sendErrorToClient(client, "A table needs exactly five seats.")
		return
	}
	seed := payload.Seed
	if seed == 0 {
		seed = h.rng.Uint64()
	}

	code := h.generateTableCode()
	table, err := game.NewTable(code, seats, seed, h.newStrategy)
	if err != nil {
		log.Printf("Client %s failed to create a table: %v", client.ID, err)
		h.sendErrorToClient(client, err.Error())
		return
	}
	table.SetSender(func(message []byte) { h.broadcastToTable(code, message) })

	h.clientMu.Lock()
	client.Name = payload.Name
	h.clientToTable[client] = code
	h.clientMu.Unlock()

	h.tableMu.Lock()
	h.tables[code] = table
	h.watchers[code] = []*Client{client}
	h.tableMu.Unlock()

	log.Printf("Client %s (%s) created table %s with seats %v", client.ID, payload.Name, code, seats)

	createdMsg, _ := protocol.NewMessage(protocol.TypeTableCreated, protocol.TableCreatedPayload{TableCode: code, Seats: table.Seats})
	h.sendMessageToClient(client, createdMsg)
	h.broadcastTableUpdate(code)
}

// handleJoinTable adds a watcher to an existing table.
func (h *Hub) handleJoinTable(client *Client, msg protocol.Message) {
	if _, watching := h.watchedTable(client); watching {
		h.sendJoinError(client, "Already watching a table.")
		return
	}

	var payload protocol.JoinTablePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("Error unmarshalling join_table payload from client %s: %v", client.ID, err)
		h.sendJoinError(client, "Invalid join_table message format.")
		return
	}
	if payload.Name == "" {
		h.sendJoinError(client, "Name cannot be empty.")
		return
	}
	if payload.TableCode == "" {
		h.sendJoinError(client, "Table code cannot be empty.")
		return
	}
	code := strings.ToUpper(payload.TableCode)

	h.tableMu.Lock()
	if _, exists := h.tables[code]; !exists {
		h.tableMu.Unlock()
		log.Printf("Client %s tried to join non-existent table %s", client.ID, code)
		h.sendJoinError(client, "Table code not found.")
		return
	}
	for _, c := range h.watchers[code] {
		if h.clientName(c) == payload.Name {
			h.tableMu.Unlock()
			h.sendJoinError(client, "Name already taken at this table.")
			return
		}
	}
	h.clientMu.Lock()
	client.Name = payload.Name
	h.clientToTable[client] = code
	h.clientMu.Unlock()
	h.watchers[code] = append(h.watchers[code], client)
	h.tableMu.Unlock()

	log.Printf("Client %s (%s) joined table %s", client.ID, payload.Name, code)
	h.broadcastTableUpdate(code)
}

// handleDealRound plays a round at the client's table in the background.
func (h *Hub) handleDealRound(client *Client) {
	code, watching := h.watchedTable(client)
	if !watching {
		h.sendErrorToClient(client, "You are not watching a table.")
		return
	}
	h.tableMu.RLock()
	table, exists := h.tables[code]
	h.tableMu.RUnlock()
	if !exists {
		h.sendErrorToClient(client, "Table not found.")
		return
	}
	go h.playRound(code, table)
}

func (h *Hub) playRound(code string, table *game.Table) {
	result, err := table.PlayRound()
	if err != nil {
		msg, _ := protocol.NewMessage(protocol.TypeError, protocol.ErrorPayload{Message: err.Error()})
		h.broadcastToTable(code, msg)
		return
	}
	if result == nil || h.store == nil {
		return
	}
	row, err := database.NewRoundResult(code, result, time.Now())
	if err == nil {
		err = h.store.Insert(row)
	}
	if err != nil {
		log.Printf("Table %s: Failed to store round %s: %v", code, result.ID, err)
	}
}

// sendMessageToClient queues a message without blocking the hub. Messages
// to clients that already disconnected are dropped.
func (h *Hub) sendMessageToClient(client *Client, message []byte) {
	h.clientMu.RLock()
	defer h.clientMu.RUnlock()
	if !h.clients[client] {
		return
	}
	select {
	case client.send <- message:
	default:
		log.Printf("Failed to send message to client %s (channel full), initiating cleanup.", client.ID)
		go func() { h.unregister <- client }()
	}
}

// broadcastToTable sends a message to every watcher of a table.
func (h *Hub) broadcastToTable(code string, message []byte) {
	h.tableMu.RLock()
	clientsToSend := slices.Clone(h.watchers[code])
	h.tableMu.RUnlock()

	for _, client := range clientsToSend {
		h.sendMessageToClient(client, message)
	}
}

// broadcastTableUpdate sends the current list of watchers.
func (h *Hub) broadcastTableUpdate(code string) {
	h.tableMu.RLock()
	watchers := make([]protocol.WatcherInfo, 0, len(h.watchers[code]))
	for _, c := range h.watchers[code] {
		watchers = append(watchers, protocol.WatcherInfo{ID: c.ID, Name: h.clientName(c)})
	}
	h.tableMu.RUnlock()

	msgBytes, err := protocol.NewMessage(protocol.TypeTableUpdate, protocol.TableUpdatePayload{Watchers: watchers})
	if err != nil {
		log.Printf("Error creating table_update message for table %s: %v", code, err)
		return
	}
	h.broadcastToTable(code, msgBytes)
}

// sendErrorToClient sends a generic error message to a specific client.
func (h *Hub) sendErrorToClient(client *Client, errorMsg string) {
	msgBytes, err := protocol.NewMessage(protocol.TypeError, protocol.ErrorPayload{Message: errorMsg})
	if err != nil {
		log.Printf("Error creating error message for client %s: %v", client.ID, err)
		return
	}
	h.sendMessageToClient(client, msgBytes)
}

// sendJoinError sends a specific join error message to a client.
func (h *Hub) sendJoinError(client *Client, errorMsg string) {
	msgBytes, err := protocol.NewMessage(protocol.TypeJoinError, protocol.JoinErrorPayload{Message: errorMsg})
	if err != nil {
		log.Printf("Error creating join_error message for client %s: %v", client.ID, err)
		return
	}
	h.sendMessageToClient(client, msgBytes)
}
