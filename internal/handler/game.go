package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nlyu1/highlow-exchange/internal/domain"
	"github.com/nlyu1/highlow-exchange/internal/game"
	"github.com/nlyu1/highlow-exchange/internal/service"
)

// GameHandler handles HTTP requests for game session endpoints.
type GameHandler struct {
	gameSvc *service.GameService
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(gameSvc *service.GameService) *GameHandler {
	return &GameHandler{gameSvc: gameSvc}
}

// createGameRequest is the JSON request body for POST /games. Omitted
// fields fall back to the server defaults.
type createGameRequest struct {
	StepsPerPlayer       *int `json:"steps_per_player"`
	MaxContractsPerTrade *int `json:"max_contracts_per_trade"`
	CustomerMaxSize      *int `json:"customer_max_size"`
	MaxContractValue     *int `json:"max_contract_value"`
	NumPlayers           *int `json:"num_players"`
}

// actionRequest is the JSON request body for action and chance endpoints.
// The action is optional on the chance endpoint: when omitted, the server
// samples a uniform outcome.
type actionRequest struct {
	Action *int `json:"action"`
}

type gameConfigResponse struct {
	StepsPerPlayer       int `json:"steps_per_player"`
	MaxContractsPerTrade int `json:"max_contracts_per_trade"`
	CustomerMaxSize      int `json:"customer_max_size"`
	MaxContractValue     int `json:"max_contract_value"`
	NumPlayers           int `json:"num_players"`
}

type positionResponse struct {
	NumContracts int `json:"num_contracts"`
	CashBalance  int `json:"cash_balance"`
}

type quoteResponse struct {
	Player   int `json:"player"`
	BidSize  int `json:"bid_size"`
	BidPrice int `json:"bid_price"`
	AskSize  int `json:"ask_size"`
	AskPrice int `json:"ask_price"`
}

type fillResponse struct {
	Price        int  `json:"price"`
	Size         int  `json:"size"`
	AggressorTID int  `json:"aggressor_tid"`
	AggressorID  int  `json:"aggressor_id"`
	QuoteSize    int  `json:"quote_size"`
	QuoterID     int  `json:"quoter_id"`
	QuoteTID     int  `json:"quote_tid"`
	IsSellQuote  bool `json:"is_sell_quote"`
}

// gameResponse is the host-side JSON view of a session. It includes
// hidden setup information; players should use the observation endpoint.
type gameResponse struct {
	GameID        string             `json:"game_id"`
	Config        gameConfigResponse `json:"config"`
	Move          int                `json:"move"`
	Phase         string             `json:"phase"`
	CurrentPlayer int                `json:"current_player"`
	IsChanceNode  bool               `json:"is_chance_node"`
	Terminal      bool               `json:"terminal"`
	Roles         []string           `json:"roles"`
	Targets       []int              `json:"targets"`
	Positions     []positionResponse `json:"positions"`
	Quotes        []quoteResponse    `json:"quotes"`
	Fills         []fillResponse     `json:"fills"`
	History       []int              `json:"history"`
	StateString   string             `json:"state_string"`
	Returns       []float64          `json:"returns,omitempty"`
}

type applyResponse struct {
	GameID      string         `json:"game_id"`
	Move        int            `json:"move"`
	Phase       string         `json:"phase"`
	Player      int            `json:"player"`
	Action      int            `json:"action"`
	Description string         `json:"description"`
	Fills       []fillResponse `json:"fills"`
	Terminal    bool           `json:"terminal"`
}

type observationResponse struct {
	GameID      string    `json:"game_id"`
	Player      int       `json:"player"`
	Tensor      []float32 `json:"tensor"`
	InfoString  string    `json:"info_string"`
	CurrentTurn int       `json:"current_turn"`
	Terminal    bool      `json:"terminal"`
}

// parseOptionalJSON decodes the request body when one is present. An
// empty body is accepted and leaves v untouched.
func parseOptionalJSON(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return ParseJSON(r, v)
}

// Create handles POST /games.
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := parseOptionalJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	view, err := h.gameSvc.CreateGame(service.CreateGameRequest{
		StepsPerPlayer:       req.StepsPerPlayer,
		MaxContractsPerTrade: req.MaxContractsPerTrade,
		CustomerMaxSize:      req.CustomerMaxSize,
		MaxContractValue:     req.MaxContractValue,
		NumPlayers:           req.NumPlayers,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toGameResponse(view))
}

// Get handles GET /games/{game_id}.
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.gameSvc.GetGame(chi.URLParam(r, "game_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toGameResponse(view))
}

// Delete handles DELETE /games/{game_id}.
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.gameSvc.DeleteGame(chi.URLParam(r, "game_id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyAction handles POST /games/{game_id}/actions.
func (h *GameHandler) ApplyAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Action == nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "action is required")
		return
	}

	res, err := h.gameSvc.ApplyAction(chi.URLParam(r, "game_id"), *req.Action)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toApplyResponse(res))
}

// ApplyChance handles POST /games/{game_id}/chance. With an explicit
// action the outcome is forced (deterministic replays); without one the
// server samples uniformly.
func (h *GameHandler) ApplyChance(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := parseOptionalJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	id := chi.URLParam(r, "game_id")
	var res *service.ApplyResult
	var err error
	if req.Action != nil {
		res, err = h.gameSvc.ApplyChance(id, *req.Action)
	} else {
		res, err = h.gameSvc.SampleChance(id)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toApplyResponse(res))
}

// Undo handles POST /games/{game_id}/undo.
func (h *GameHandler) Undo(w http.ResponseWriter, r *http.Request) {
	view, err := h.gameSvc.Undo(chi.URLParam(r, "game_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toGameResponse(view))
}

// Observation handles GET /games/{game_id}/players/{player_id}/observation.
func (h *GameHandler) Observation(w http.ResponseWriter, r *http.Request) {
	player, err := strconv.Atoi(chi.URLParam(r, "player_id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "player_id must be an integer")
		return
	}

	obs, err := h.gameSvc.Observation(chi.URLParam(r, "game_id"), player)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, observationResponse{
		GameID:      obs.GameID,
		Player:      obs.Player,
		Tensor:      obs.Tensor,
		InfoString:  obs.InfoString,
		CurrentTurn: obs.CurrentTurn,
		Terminal:    obs.Terminal,
	})
}

// Returns handles GET /games/{game_id}/returns.
func (h *GameHandler) Returns(w http.ResponseWriter, r *http.Request) {
	returns, err := h.gameSvc.Returns(chi.URLParam(r, "game_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string][]float64{"returns": returns})
}

// writeServiceError maps domain sentinel errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		WriteError(w, http.StatusBadRequest, "invalid_request", validationErr.Message)
	case errors.Is(err, domain.ErrGameNotFound):
		WriteError(w, http.StatusNotFound, err.Error(), "game not found")
	case errors.Is(err, domain.ErrActionOutOfRange):
		WriteError(w, http.StatusBadRequest, err.Error(), "action outside the legal range for the current phase")
	case errors.Is(err, domain.ErrPlayerOutOfBounds):
		WriteError(w, http.StatusBadRequest, err.Error(), "no such player in this game")
	case errors.Is(err, domain.ErrGameOver):
		WriteError(w, http.StatusConflict, err.Error(), "the game has ended")
	case errors.Is(err, domain.ErrGameNotOver):
		WriteError(w, http.StatusConflict, err.Error(), "the game has not ended yet")
	case errors.Is(err, domain.ErrNotChanceTurn):
		WriteError(w, http.StatusConflict, err.Error(), "it is not a chance turn")
	case errors.Is(err, domain.ErrNotPlayerTurn):
		WriteError(w, http.StatusConflict, err.Error(), "it is not a player turn")
	case errors.Is(err, domain.ErrNothingToUndo):
		WriteError(w, http.StatusConflict, err.Error(), "no actions to undo")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func toGameResponse(v *service.GameView) gameResponse {
	roles := make([]string, len(v.Roles))
	for i, role := range v.Roles {
		roles[i] = string(role)
	}
	positions := make([]positionResponse, len(v.Positions))
	for i, p := range v.Positions {
		positions[i] = positionResponse{NumContracts: p.NumContracts, CashBalance: p.CashBalance}
	}
	return gameResponse{
		GameID: v.GameID,
		Config: gameConfigResponse{
			StepsPerPlayer:       v.Config.StepsPerPlayer,
			MaxContractsPerTrade: v.Config.MaxContractsPerTrade,
			CustomerMaxSize:      v.Config.CustomerMaxSize,
			MaxContractValue:     v.Config.MaxContractValue,
			NumPlayers:           v.Config.NumPlayers,
		},
		Move:          v.Move,
		Phase:         string(v.Phase),
		CurrentPlayer: v.CurrentPlayer,
		IsChanceNode:  v.IsChanceNode,
		Terminal:      v.Terminal,
		Roles:         roles,
		Targets:       v.Targets,
		Positions:     positions,
		Quotes:        toQuoteResponses(v.Quotes),
		Fills:         toFillResponses(v.Fills),
		History:       v.History,
		StateString:   v.StateString,
		Returns:       v.Returns,
	}
}

func toApplyResponse(res *service.ApplyResult) applyResponse {
	return applyResponse{
		GameID:      res.GameID,
		Move:        res.Move,
		Phase:       string(res.Phase),
		Player:      res.Player,
		Action:      res.RawAction,
		Description: res.Description,
		Fills:       toFillResponses(res.Fills),
		Terminal:    res.Terminal,
	}
}

func toQuoteResponses(quotes []game.PlayerQuote) []quoteResponse {
	out := make([]quoteResponse, len(quotes))
	for i, pq := range quotes {
		out[i] = quoteResponse{
			Player:   pq.Player,
			BidSize:  pq.Quote.BidSize,
			BidPrice: pq.Quote.BidPrice,
			AskSize:  pq.Quote.AskSize,
			AskPrice: pq.Quote.AskPrice,
		}
	}
	return out
}

func toFillResponses(fills []domain.Fill) []fillResponse {
	out := make([]fillResponse, len(fills))
	for i, f := range fills {
		out[i] = fillResponse{
			Price:        f.Price,
			Size:         f.Size,
			AggressorTID: f.AggressorTID,
			AggressorID:  f.AggressorID,
			QuoteSize:    f.QuoteSize,
			QuoterID:     f.QuoterID,
			QuoteTID:     f.QuoteTID,
			IsSellQuote:  f.IsSellQuote,
		}
	}
	return out
}
