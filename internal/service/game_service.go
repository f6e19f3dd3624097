package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/allinbank/internal/auth"
	"github.com/mmynk/allinbank/internal/calculator"
	"github.com/mmynk/allinbank/internal/config"
	"github.com/mmynk/allinbank/internal/export"
	"github.com/mmynk/allinbank/internal/ledger"
	"github.com/mmynk/allinbank/internal/metrics"
	"github.com/mmynk/allinbank/internal/middleware"
	"github.com/mmynk/allinbank/internal/models"
	"github.com/mmynk/allinbank/internal/storage"
)

var (
	errWrongGame     = errors.New("token does not grant access to this game")
	errCorruptLedger = errors.New("stored ledger is corrupt")
)

// GameService implements the Connect GameService.
type GameService struct {
	store  storage.Store
	jwt    *auth.JWTManager
	hasher *auth.PasscodeHasher

	defaultCurrency string
	cfg             config.Config

	locks gameLocks
}

// NewGameService creates a GameService backed by store. New games take their
// currency and default buy-in from cfg unless the request sets them.
func NewGameService(store storage.Store, jwtManager *auth.JWTManager, hasher *auth.PasscodeHasher, cfg config.Config) *GameService {
	return &GameService{
		store:           store,
		jwt:             jwtManager,
		hasher:          hasher,
		defaultCurrency: strings.ToUpper(cfg.DefaultCurrency),
		cfg:             cfg,
		locks:           gameLocks{locks: make(map[string]*sync.Mutex)},
	}
}

// CreateGame creates a game and returns a token for it.
func (s *GameService) CreateGame(ctx context.Context, req *connect.Request[CreateGameRequest]) (*connect.Response[GameResponse], error) {
	slog.Info("CreateGame request received", "name", req.Msg.Name, "currency", req.Msg.Currency)

	game := &models.Game{
		Name:         strings.TrimSpace(req.Msg.Name),
		Currency:     strings.ToUpper(strings.TrimSpace(req.Msg.Currency)),
		DefaultBuyIn: s.cfg.DefaultBuyIn,
	}
	if game.Currency == "" {
		game.Currency = s.defaultCurrency
	}
	if req.Msg.DefaultBuyIn != "" {
		amount, err := ledger.ParseAmount(req.Msg.DefaultBuyIn)
		if err != nil {
			return nil, toConnectError(err)
		}
		game.DefaultBuyIn = amount
	}

	hash, err := s.hasher.Hash(req.Msg.Passcode)
	if err != nil {
		slog.Error("CreateGame failed", "error", err)
		return nil, toConnectError(err)
	}
	game.PasscodeHash = hash

	if err := s.store.CreateGame(ctx, game); err != nil {
		slog.Error("CreateGame failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.jwt.Generate(game)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Game created", "game_id", game.ID, "name", game.Name)
	return connect.NewResponse(&GameResponse{Game: game, Token: token}), nil
}

// OpenGame checks the game's passcode and returns a fresh token.
func (s *GameService) OpenGame(ctx context.Context, req *connect.Request[OpenGameRequest]) (*connect.Response[GameResponse], error) {
	slog.Info("OpenGame request received", "game_id", req.Msg.GameID)

	game, err := s.store.GetGame(ctx, req.Msg.GameID)
	if err != nil {
		slog.Error("OpenGame failed", "game_id", req.Msg.GameID, "error", err)
		return nil, toConnectError(err)
	}
	if err := s.hasher.Check(game.PasscodeHash, req.Msg.Passcode); err != nil {
		slog.Warn("OpenGame rejected", "game_id", game.ID, "error", err)
		return nil, toConnectError(err)
	}

	token, err := s.jwt.Generate(game)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&GameResponse{Game: game, Token: token}), nil
}

// ListGames returns every stored game, newest first.
func (s *GameService) ListGames(ctx context.Context, req *connect.Request[ListGamesRequest]) (*connect.Response[ListGamesResponse], error) {
	games, err := s.store.ListGames(ctx)
	if err != nil {
		slog.Error("ListGames failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if games == nil {
		games = []*models.Game{}
	}

	slog.Info("ListGames successful", "count", len(games))
	return connect.NewResponse(&ListGamesResponse{Games: games}), nil
}

func (s *GameService) AddPlayer(ctx context.Context, req *connect.Request[AddPlayerRequest]) (*connect.Response[AddPlayerResponse], error) {
	gameID, err := authorize(ctx, req.Msg.GameID)
	if err != nil {
		return nil, err
	}

	var player models.Player
	_, _, err = s.withLedger(ctx, gameID, func(l *ledger.Ledger) error {
		player, err = l.AddPlayer(req.Msg.Name)
		return err
	})
	if err != nil {
		slog.Error("AddPlayer failed", "game_id", gameID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Player added", "game_id", gameID, "player", player.Name)
	return connect.NewResponse(&AddPlayerResponse{Player: player}), nil
}

// RecordEntry appends a buy-in, rebuy or cash-out.
func (s *GameService) RecordEntry(ctx context.Context, req *connect.Request[RecordEntryRequest]) (*connect.Response[EntryResponse], error) {
	gameID, err := authorize(ctx, req.Msg.GameID)
	if err != nil {
		return nil, err
	}

	kind, err := ledger.ParseKind(req.Msg.Kind)
	if err != nil {
		return nil, toConnectError(err)
	}
	amount, err := ledger.ParseAmount(req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}

	var entry models.LedgerEntry
	_, _, err = s.withLedger(ctx, gameID, func(l *ledger.Ledger) error {
		entry, err = l.AddEntry(req.Msg.Player, kind, amount)
		return err
	})
	if err != nil {
		slog.Error("RecordEntry failed", "game_id", gameID, "player", req.Msg.Player, "kind", kind, "error", err)
		return nil, toConnectError(err)
	}
	metrics.EntryRecorded(kind)

	slog.Info("Entry recorded",
		"game_id", gameID,
		"player", entry.Player,
		"kind", entry.Kind,
		"amount", entry.Amount.String(),
	)
	return connect.NewResponse(&EntryResponse{Entry: entry}), nil
}

// SetCashOut replaces a player's cash-outs with one entry.
func (s *GameService) SetCashOut(ctx context.Context, req *connect.Request[SetCashOutRequest]) (*connect.Response[EntryResponse], error) {
	gameID, err := authorize(ctx, req.Msg.GameID)
	if err != nil {
		return nil, err
	}

	amount, err := ledger.ParseAmount(req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}

	var entry models.LedgerEntry
	_, _, err = s.withLedger(ctx, gameID, func(l *ledger.Ledger) error {
		entry, err = l.SetCashOut(req.Msg.Player, amount)
		return err
	})
	if err != nil {
		slog.Error("SetCashOut failed", "game_id", gameID, "player", req.Msg.Player, "error", err)
		return nil, toConnectError(err)
	}
	metrics.EntryRecorded(models.KindCashOut)

	slog.Info("Cash-out set", "game_id", gameID, "player", entry.Player, "amount", entry.Amount.String())
	return connect.NewResponse(&EntryResponse{Entry: entry}), nil
}

func (s *GameService) RemoveEntry(ctx context.Context, req *connect.Request[RemoveEntryRequest]) (*connect.Response[Empty], error) {
	gameID, err := authorize(ctx, req.Msg.GameID)
	if err != nil {
		return nil, err
	}

	_, _, err = s.withLedger(ctx, gameID, func(l *ledger.Ledger) error {
		return l.RemoveEntry(req.Msg.EntryID)
	})
	if err != nil {
		slog.Error("RemoveEntry failed", "game_id", gameID, "entry_id", req.Msg.EntryID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Entry removed", "game_id", gameID, "entry_id", req.Msg.EntryID)
	return connect.NewResponse(&Empty{}), nil
}

// ResetGame clears the game's ledger. The game itself is kept.
func (s *GameService) ResetGame(ctx context.Context, req *connect.Request[GameRequest]) (*connect.Response[Empty], error) {
	gameID, err := authorize(ctx, req.Msg.GameID)
	if err != nil {
		return nil, err
	}

	_, _, err = s.withLedger(ctx, gameID, func(l *ledger.Ledger) error {
		l.Reset()
		return nil
	})
	if err != nil {
		slog.Error("ResetGame failed", "game_id", gameID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Game reset", "game_id", gameID)
	return connect.NewResponse(&Empty{}), nil
}

// ImportLedger replaces the game's ledger with the given players and entries,
// typically taken from an exported snapshot.
func (s *GameService) ImportLedger(ctx context.Context, req *connect.Request[ImportLedgerRequest]) (*connect.Response[Empty], error) {
	gameID, err := authorize(ctx, req.Msg.GameID)
	if err != nil {
		return nil, err
	}

	_, _, err = s.withLedger(ctx, gameID, func(l *ledger.Ledger) error {
		return l.Load(req.Msg.Players, req.Msg.Entries)
	})
	if err != nil {
		slog.Error("ImportLedger failed", "game_id", gameID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Ledger imported", "game_id", gameID, "entries", len(req.Msg.Entries))
	return connect.NewResponse(&Empty{}), nil
}

// GetSummary returns balances and totals. Transfers are only filled in once
// the game is balanced.
func (s *GameService) GetSummary(ctx context.Context, req *connect.Request[GameRequest]) (*connect.Response[SummaryResponse], error) {
	gameID, err := authorize(ctx, req.Msg.GameID)
	if err != nil {
		return nil, err
	}

	_, l, err := s.withLedger(ctx, gameID, nil)
	if err != nil {
		slog.Error("GetSummary failed", "game_id", gameID, "error", err)
		return nil, toConnectError(err)
	}

	balances := l.NetBalances()
	resp := &SummaryResponse{
		Players:      l.Players(),
		Balances:     balances,
		TotalBuyIn:   l.TotalBuyIns(),
		TotalCashOut: l.TotalCashOuts(),
		Unmatched:    l.Unmatched(),
		Transfers:    []models.Transfer{},
	}
	if transfers, err := calculator.Settle(balances); err == nil {
		resp.Balanced = true
		resp.Transfers = transfers
	}
	if winner, loser, ok := calculator.Leaders(balances); ok {
		resp.Winner, resp.Loser = &winner, &loser
	}

	slog.Info("GetSummary successful",
		"game_id", gameID,
		"players", len(balances),
		"balanced", resp.Balanced,
	)
	return connect.NewResponse(resp), nil
}

// Settle computes the transfers that settle the game.
func (s *GameService) Settle(ctx context.Context, req *connect.Request[GameRequest]) (*connect.Response[SettleResponse], error) {
	gameID, err := authorize(ctx, req.Msg.GameID)
	if err != nil {
		return nil, err
	}

	_, l, err := s.withLedger(ctx, gameID, nil)
	if err != nil {
		slog.Error("Settle failed", "game_id", gameID, "error", err)
		return nil, toConnectError(err)
	}

	transfers, err := calculator.Settle(l.NetBalances())
	metrics.SettlementComputed(len(transfers), err)
	if err != nil {
		slog.Warn("Settle refused", "game_id", gameID, "unmatched", l.Unmatched().String(), "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Settle successful", "game_id", gameID, "transfers", len(transfers))
	return connect.NewResponse(&SettleResponse{Transfers: transfers}), nil
}

// ExportGame returns a snapshot of the game that ImportLedger accepts back.
func (s *GameService) ExportGame(ctx context.Context, req *connect.Request[GameRequest]) (*connect.Response[ExportResponse], error) {
	gameID, err := authorize(ctx, req.Msg.GameID)
	if err != nil {
		return nil, err
	}

	game, l, err := s.withLedger(ctx, gameID, nil)
	if err != nil {
		slog.Error("ExportGame failed", "game_id", gameID, "error", err)
		return nil, toConnectError(err)
	}

	snap := export.Build(game, l, time.Now())
	slog.Info("ExportGame successful", "game_id", gameID, "entries", len(snap.Entries))
	return connect.NewResponse(&ExportResponse{Snapshot: snap}), nil
}

// withLedger loads the game's ledger, applies fn to it and saves the result.
// A nil fn only loads. Calls for the same game are serialized.
func (s *GameService) withLedger(ctx context.Context, gameID string, fn func(*ledger.Ledger) error) (*models.Game, *ledger.Ledger, error) {
	unlock := s.locks.lock(gameID)
	defer unlock()

	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	players, entries, err := s.store.LoadLedger(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	l := ledger.New()
	if err := l.Load(players, entries); err != nil {
		return nil, nil, fmt.Errorf("%w: game %s: %w", errCorruptLedger, gameID, err)
	}

	if fn == nil {
		return game, l, nil
	}
	if err := fn(l); err != nil {
		return nil, nil, err
	}
	if err := s.store.SaveLedger(ctx, gameID, l.Players(), l.Entries()); err != nil {
		return nil, nil, err
	}
	return game, l, nil
}

// authorize resolves the game a request acts on. An empty gameID means the
// game named by the token.
func authorize(ctx context.Context, gameID string) (string, error) {
	granted := middleware.GetGameID(ctx)
	if granted == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	if gameID == "" {
		return granted, nil
	}
	if gameID != granted {
		return "", connect.NewError(connect.CodePermissionDenied, errWrongGame)
	}
	return gameID, nil
}

// toConnectError maps domain errors to Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	switch {
	case errors.Is(err, errCorruptLedger):
		return connect.NewError(connect.CodeInternal, err)
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidKind),
		errors.Is(err, ledger.ErrInvalidName),
		errors.Is(err, auth.ErrWeakPasscode):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ledger.ErrEntryNotFound),
		errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, calculator.ErrUnbalancedLedger):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, auth.ErrInvalidPasscode):
		return connect.NewError(connect.CodePermissionDenied, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// gameLocks hands out one mutex per game ID.
type gameLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (g *gameLocks) lock(gameID string) (unlock func()) {
	g.mu.Lock()
	m, ok := g.locks[gameID]
	if !ok {
		m = &sync.Mutex{}
		g.locks[gameID] = m
	}
	g.mu.Unlock()

	m.Lock()
	return m.Unlock
}
