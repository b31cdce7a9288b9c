package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"matchbox/bots"
	"matchbox/engine"
	"matchbox/exchange"
)

type server struct {
	ex         *exchange.Exchange
	tradeHub   *hub[engine.Trade]
	bookHub    *hub[engine.BookSnapshot]
	upgrader   websocket.Upgrader
	logger     *zap.Logger
	authToken  string
	corsOrigin string
	wsBuffer   int
}

type orderRequest struct {
	Side     string   `json:"side"`
	Type     string   `json:"order_type"`
	Price    *float64 `json:"price"`
	Quantity float64  `json:"quantity"`
}

type publicTrade struct {
	BuyOrderID  uint64  `json:"buy_order_id"`
	SellOrderID uint64  `json:"sell_order_id"`
	Price       float64 `json:"price"`
	Quantity    float64 `json:"quantity"`
}

type publicOrder struct {
	ID       uint64   `json:"id"`
	Side     string   `json:"side"`
	Type     string   `json:"order_type"`
	Price    *float64 `json:"price"`
	Quantity float64  `json:"quantity"`
}

type publicLevel struct {
	Price  float64       `json:"price"`
	Orders []publicOrder `json:"orders"`
}

type bookResponse struct {
	Bids []publicLevel `json:"bids"`
	Asks []publicLevel `json:"asks"`
}

type submitResponse struct {
	Trades []publicTrade `json:"trades"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type outboundMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func main() {
	cfg := loadConfig()
	logger, err := newLogger()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ex := exchange.New()
	srv := newServer(ex, cfg, logger)

	if cfg.botRate > 0 {
		sup := bots.NewSupervisor(ex, cfg.botRate, logger)
		go sup.Start(context.Background())
		logger.Info("bot swarm running", zap.Float64("orders_per_sec", cfg.botRate))
	}

	logger.Info("listening", zap.String("addr", cfg.listenAddr))
	if err := http.ListenAndServe(cfg.listenAddr, srv.routes()); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func newServer(ex *exchange.Exchange, cfg config, logger *zap.Logger) *server {
	s := &server{
		ex:         ex,
		tradeHub:   newHub[engine.Trade](),
		bookHub:    newHub[engine.BookSnapshot](),
		upgrader:   websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		logger:     logger,
		authToken:  cfg.authToken,
		corsOrigin: cfg.corsOrigin,
		wsBuffer:   cfg.wsBuffer,
	}

	go s.consumeFeed()
	return s
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/order", s.withCORS(s.withAuth(http.HandlerFunc(s.handleOrder))))
	mux.Handle("/orderbook", s.withCORS(s.withAuth(http.HandlerFunc(s.handleOrderBook))))
	mux.Handle("/trades", s.withCORS(s.withAuth(http.HandlerFunc(s.handleTrades))))
	mux.Handle("/stats", s.withCORS(s.withAuth(http.HandlerFunc(s.handleStats))))
	mux.Handle("/clear", s.withCORS(s.withAuth(http.HandlerFunc(s.handleClear))))
	mux.Handle("/ws/trades", s.withCORS(s.withAuth(http.HandlerFunc(s.handleTradeStream))))
	mux.Handle("/ws/book", s.withCORS(s.withAuth(http.HandlerFunc(s.handleBookStream))))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (s *server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.authToken == "" {
			next.ServeHTTP(w, r)
			return
		}

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token != s.authToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("missing or invalid token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) handleOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err))
		return
	}

	order, err := buildOrder(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	trades := s.ex.Submit(order)
	s.bookHub.broadcast(s.ex.BookSnapshot())
	s.logger.Info("order accepted",
		zap.String("side", order.Side.String()),
		zap.String("type", order.Type.String()),
		zap.Float64("quantity", order.Quantity),
		zap.Int("trades", len(trades)),
	)

	writeJSON(w, http.StatusOK, submitResponse{Trades: toPublicTrades(trades)})
}

func (s *server) handleOrderBook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	snap := s.ex.BookSnapshot()
	writeJSON(w, http.StatusOK, toBookResponse(snap))
}

func (s *server) handleTrades(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, toPublicTrades(s.ex.TradeLog()))
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.ex.Stats())
}

func (s *server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.ex.Reset()
	s.bookHub.broadcast(s.ex.BookSnapshot())
	s.logger.Info("book and trade log cleared")
	writeJSON(w, http.StatusOK, statusResponse{Status: "cleared"})
}

func (s *server) handleTradeStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub, cancel := s.tradeHub.subscribe(s.wsBuffer)
	defer cancel()

	for trade := range sub {
		msg := outboundMessage{Type: "trade", Data: toPublicTrade(trade)}
		if err := conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (s *server) handleBookStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub, cancel := s.bookHub.subscribe(s.wsBuffer)
	defer cancel()

	for snap := range sub {
		msg := outboundMessage{Type: "book", Data: toBookResponse(snap)}
		if err := conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (s *server) consumeFeed() {
	for trade := range s.ex.Feed() {
		s.tradeHub.broadcast(trade)
	}
}

// buildOrder validates the wire payload. Unknown side or type values are a
// hard rejection, not a silent default.
func buildOrder(req orderRequest) (engine.Order, error) {
	if req.Quantity <= 0 || math.IsNaN(req.Quantity) || math.IsInf(req.Quantity, 0) {
		return engine.Order{}, errors.New("quantity must be positive and finite")
	}

	side, err := parseSide(req.Side)
	if err != nil {
		return engine.Order{}, err
	}
	ordType, err := parseOrderType(req.Type)
	if err != nil {
		return engine.Order{}, err
	}

	order := engine.Order{Side: side, Type: ordType, Quantity: req.Quantity}
	if ordType == engine.Limit {
		if req.Price == nil {
			return engine.Order{}, errors.New("limit orders require a price")
		}
		if *req.Price <= 0 || math.IsNaN(*req.Price) || math.IsInf(*req.Price, 0) {
			return engine.Order{}, errors.New("price must be positive and finite")
		}
		order.Price = *req.Price
	}
	return order, nil
}

func parseSide(value string) (engine.Side, error) {
	switch strings.ToLower(value) {
	case "buy", "bid", "b":
		return engine.Buy, nil
	case "sell", "ask", "s":
		return engine.Sell, nil
	default:
		return 0, fmt.Errorf("unknown side %q", value)
	}
}

func parseOrderType(value string) (engine.OrderType, error) {
	switch strings.ToLower(value) {
	case "limit", "lmt":
		return engine.Limit, nil
	case "market", "mkt":
		return engine.Market, nil
	default:
		return 0, fmt.Errorf("unknown order type %q", value)
	}
}

func toPublicTrade(trade engine.Trade) publicTrade {
	return publicTrade{
		BuyOrderID:  trade.BuyOrderID,
		SellOrderID: trade.SellOrderID,
		Price:       trade.Price,
		Quantity:    trade.Quantity,
	}
}

func toPublicTrades(trades []engine.Trade) []publicTrade {
	out := make([]publicTrade, len(trades))
	for i, trade := range trades {
		out[i] = toPublicTrade(trade)
	}
	return out
}

func toBookResponse(snap engine.BookSnapshot) bookResponse {
	return bookResponse{
		Bids: toPublicLevels(snap.Bids),
		Asks: toPublicLevels(snap.Asks),
	}
}

func toPublicLevels(levels []engine.LevelSnapshot) []publicLevel {
	out := make([]publicLevel, len(levels))
	for i, lvl := range levels {
		orders := make([]publicOrder, len(lvl.Orders))
		for j, o := range lvl.Orders {
			orders[j] = toPublicOrder(o)
		}
		out[i] = publicLevel{Price: lvl.Price, Orders: orders}
	}
	return out
}

func toPublicOrder(order engine.Order) publicOrder {
	po := publicOrder{
		ID:       order.ID,
		Side:     order.Side.String(),
		Type:     order.Type.String(),
		Quantity: order.Quantity,
	}
	if order.Type == engine.Limit {
		price := order.Price
		po.Price = &price
	}
	return po
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
