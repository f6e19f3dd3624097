package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// GameServiceName is the fully-qualified name of the GameService.
const GameServiceName = "allinbank.v1.GameService"

// Procedure paths of the GameService RPCs.
const (
	GameServiceCreateGameProcedure   = "/allinbank.v1.GameService/CreateGame"
	GameServiceOpenGameProcedure     = "/allinbank.v1.GameService/OpenGame"
	GameServiceListGamesProcedure    = "/allinbank.v1.GameService/ListGames"
	GameServiceAddPlayerProcedure    = "/allinbank.v1.GameService/AddPlayer"
	GameServiceRecordEntryProcedure  = "/allinbank.v1.GameService/RecordEntry"
	GameServiceSetCashOutProcedure   = "/allinbank.v1.GameService/SetCashOut"
	GameServiceRemoveEntryProcedure  = "/allinbank.v1.GameService/RemoveEntry"
	GameServiceResetGameProcedure    = "/allinbank.v1.GameService/ResetGame"
	GameServiceImportLedgerProcedure = "/allinbank.v1.GameService/ImportLedger"
	GameServiceGetSummaryProcedure   = "/allinbank.v1.GameService/GetSummary"
	GameServiceSettleProcedure       = "/allinbank.v1.GameService/Settle"
	GameServiceExportGameProcedure   = "/allinbank.v1.GameService/ExportGame"
)

// NewGameServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewGameServiceHandler(svc *GameService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	handlers := map[string]http.Handler{
		GameServiceCreateGameProcedure:   connect.NewUnaryHandler(GameServiceCreateGameProcedure, svc.CreateGame, opts...),
		GameServiceOpenGameProcedure:     connect.NewUnaryHandler(GameServiceOpenGameProcedure, svc.OpenGame, opts...),
		GameServiceListGamesProcedure:    connect.NewUnaryHandler(GameServiceListGamesProcedure, svc.ListGames, opts...),
		GameServiceAddPlayerProcedure:    connect.NewUnaryHandler(GameServiceAddPlayerProcedure, svc.AddPlayer, opts...),
		GameServiceRecordEntryProcedure:  connect.NewUnaryHandler(GameServiceRecordEntryProcedure, svc.RecordEntry, opts...),
		GameServiceSetCashOutProcedure:   connect.NewUnaryHandler(GameServiceSetCashOutProcedure, svc.SetCashOut, opts...),
		GameServiceRemoveEntryProcedure:  connect.NewUnaryHandler(GameServiceRemoveEntryProcedure, svc.RemoveEntry, opts...),
		GameServiceResetGameProcedure:    connect.NewUnaryHandler(GameServiceResetGameProcedure, svc.ResetGame, opts...),
		GameServiceImportLedgerProcedure: connect.NewUnaryHandler(GameServiceImportLedgerProcedure, svc.ImportLedger, opts...),
		GameServiceGetSummaryProcedure:   connect.NewUnaryHandler(GameServiceGetSummaryProcedure, svc.GetSummary, opts...),
		GameServiceSettleProcedure:       connect.NewUnaryHandler(GameServiceSettleProcedure, svc.Settle, opts...),
		GameServiceExportGameProcedure:   connect.NewUnaryHandler(GameServiceExportGameProcedure, svc.ExportGame, opts...),
	}

	return "/" + GameServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// GameServiceClient is a typed client for the GameService.
type GameServiceClient struct {
	createGame   *connect.Client[CreateGameRequest, GameResponse]
	openGame     *connect.Client[OpenGameRequest, GameResponse]
	listGames    *connect.Client[ListGamesRequest, ListGamesResponse]
	addPlayer    *connect.Client[AddPlayerRequest, AddPlayerResponse]
	recordEntry  *connect.Client[RecordEntryRequest, EntryResponse]
	setCashOut   *connect.Client[SetCashOutRequest, EntryResponse]
	removeEntry  *connect.Client[RemoveEntryRequest, Empty]
	resetGame    *connect.Client[GameRequest, Empty]
	importLedger *connect.Client[ImportLedgerRequest, Empty]
	getSummary   *connect.Client[GameRequest, SummaryResponse]
	settle       *connect.Client[GameRequest, SettleResponse]
	exportGame   *connect.Client[GameRequest, ExportResponse]
}

// NewGameServiceClient constructs a client for the GameService served at
// baseURL (e.g. http://localhost:8080).
func NewGameServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *GameServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &GameServiceClient{
		createGame:   connect.NewClient[CreateGameRequest, GameResponse](httpClient, baseURL+GameServiceCreateGameProcedure, opts...),
		openGame:     connect.NewClient[OpenGameRequest, GameResponse](httpClient, baseURL+GameServiceOpenGameProcedure, opts...),
		listGames:    connect.NewClient[ListGamesRequest, ListGamesResponse](httpClient, baseURL+GameServiceListGamesProcedure, opts...),
		addPlayer:    connect.NewClient[AddPlayerRequest, AddPlayerResponse](httpClient, baseURL+GameServiceAddPlayerProcedure, opts...),
		recordEntry:  connect.NewClient[RecordEntryRequest, EntryResponse](httpClient, baseURL+GameServiceRecordEntryProcedure, opts...),
		setCashOut:   connect.NewClient[SetCashOutRequest, EntryResponse](httpClient, baseURL+GameServiceSetCashOutProcedure, opts...),
		removeEntry:  connect.NewClient[RemoveEntryRequest, Empty](httpClient, baseURL+GameServiceRemoveEntryProcedure, opts...),
		resetGame:    connect.NewClient[GameRequest, Empty](httpClient, baseURL+GameServiceResetGameProcedure, opts...),
		importLedger: connect.NewClient[ImportLedgerRequest, Empty](httpClient, baseURL+GameServiceImportLedgerProcedure, opts...),
		getSummary:   connect.NewClient[GameRequest, SummaryResponse](httpClient, baseURL+GameServiceGetSummaryProcedure, opts...),
		settle:       connect.NewClient[GameRequest, SettleResponse](httpClient, baseURL+GameServiceSettleProcedure, opts...),
		exportGame:   connect.NewClient[GameRequest, ExportResponse](httpClient, baseURL+GameServiceExportGameProcedure, opts...),
	}
}

func (c *GameServiceClient) CreateGame(ctx context.Context, req *connect.Request[CreateGameRequest]) (*connect.Response[GameResponse], error) {
	return c.createGame.CallUnary(ctx, req)
}

func (c *GameServiceClient) OpenGame(ctx context.Context, req *connect.Request[OpenGameRequest]) (*connect.Response[GameResponse], error) {
	return c.openGame.CallUnary(ctx, req)
}

func (c *GameServiceClient) ListGames(ctx context.Context, req *connect.Request[ListGamesRequest]) (*connect.Response[ListGamesResponse], error) {
	return c.listGames.CallUnary(ctx, req)
}

func (c *GameServiceClient) AddPlayer(ctx context.Context, req *connect.Request[AddPlayerRequest]) (*connect.Response[AddPlayerResponse], error) {
	return c.addPlayer.CallUnary(ctx, req)
}

func (c *GameServiceClient) RecordEntry(ctx context.Context, req *connect.Request[RecordEntryRequest]) (*connect.Response[EntryResponse], error) {
	return c.recordEntry.CallUnary(ctx, req)
}

func (c *GameServiceClient) SetCashOut(ctx context.Context, req *connect.Request[SetCashOutRequest]) (*connect.Response[EntryResponse], error) {
	return c.setCashOut.CallUnary(ctx, req)
}

func (c *GameServiceClient) RemoveEntry(ctx context.Context, req *connect.Request[RemoveEntryRequest]) (*connect.Response[Empty], error) {
	return c.removeEntry.CallUnary(ctx, req)
}

func (c *GameServiceClient) ResetGame(ctx context.Context, req *connect.Request[GameRequest]) (*connect.Response[Empty], error) {
	return c.resetGame.CallUnary(ctx, req)
}

func (c *GameServiceClient) ImportLedger(ctx context.Context, req *connect.Request[ImportLedgerRequest]) (*connect.Response[Empty], error) {
	return c.importLedger.CallUnary(ctx, req)
}

func (c *GameServiceClient) GetSummary(ctx context.Context, req *connect.Request[GameRequest]) (*connect.Response[SummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}

func (c *GameServiceClient) Settle(ctx context.Context, req *connect.Request[GameRequest]) (*connect.Response[SettleResponse], error) {
	return c.settle.CallUnary(ctx, req)
}

func (c *GameServiceClient) ExportGame(ctx context.Context, req *connect.Request[GameRequest]) (*connect.Response[ExportResponse], error) {
	return c.exportGame.CallUnary(ctx, req)
}
