package service

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/nlyu1/highlow-exchange/internal/domain"
	"github.com/nlyu1/highlow-exchange/internal/game"
	"github.com/nlyu1/highlow-exchange/internal/store"
)

// CreateGameRequest carries optional overrides for the default game
// parameters. Nil fields fall back to the server defaults.
type CreateGameRequest struct {
	StepsPerPlayer       *int
	MaxContractsPerTrade *int
	CustomerMaxSize      *int
	MaxContractValue     *int
	NumPlayers           *int
}

// ApplyResult describes the effect of one applied action.
type ApplyResult struct {
	GameID      string
	Move        int
	Phase       domain.GamePhase
	Player      int
	RawAction   int
	Description string
	Fills       []domain.Fill
	Terminal    bool
}

// GameView is a host-side snapshot of one session. It includes hidden
// setup information; the per-player observation endpoints expose only what
// a player may see.
type GameView struct {
	GameID        string
	Config        domain.GameConfig
	Move          int
	Phase         domain.GamePhase
	CurrentPlayer int
	IsChanceNode  bool
	Terminal      bool
	Roles         []domain.PlayerRole
	Targets       []int
	Positions     []domain.PlayerPosition
	Quotes        []game.PlayerQuote
	Fills         []domain.Fill
	History       []int
	StateString   string
	Returns       []float64 // only at terminal
}

// ObservationView is one player's view of a session.
type ObservationView struct {
	GameID      string
	Player      int
	Tensor      []float32
	InfoString  string
	CurrentTurn int
	Terminal    bool
}

// GameService manages game sessions: creation, action application, chance
// sampling, observation access, and undo. It validates every request
// before touching the trusted game core.
type GameService struct {
	sessions *store.SessionStore
	defaults domain.GameConfig
}

// NewGameService creates a GameService with the given session store and
// default game parameters.
func NewGameService(sessions *store.SessionStore, defaults domain.GameConfig) *GameService {
	return &GameService{
		sessions: sessions,
		defaults: defaults,
	}
}

// CreateGame validates the requested parameters, creates a fresh game, and
// stores it under a new session id.
func (s *GameService) CreateGame(req CreateGameRequest) (*GameView, error) {
	cfg := s.defaults
	if req.StepsPerPlayer != nil {
		cfg.StepsPerPlayer = *req.StepsPerPlayer
	}
	if req.MaxContractsPerTrade != nil {
		cfg.MaxContractsPerTrade = *req.MaxContractsPerTrade
	}
	if req.CustomerMaxSize != nil {
		cfg.CustomerMaxSize = *req.CustomerMaxSize
	}
	if req.MaxContractValue != nil {
		cfg.MaxContractValue = *req.MaxContractValue
	}
	if req.NumPlayers != nil {
		cfg.NumPlayers = *req.NumPlayers
	}

	state, err := game.NewState(cfg)
	if err != nil {
		return nil, err
	}

	sess := &store.Session{
		ID:        uuid.New().String(),
		State:     state,
		CreatedAt: time.Now(),
	}
	// Snapshot before the session is published and reachable by other
	// goroutines; after Create the mutex is required.
	view := snapshotLocked(sess)
	s.sessions.Create(sess)
	return &view, nil
}

// GetGame returns a host-side snapshot of the session.
func (s *GameService) GetGame(id string) (*GameView, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	view := snapshotLocked(sess)
	return &view, nil
}

// DeleteGame removes a session.
func (s *GameService) DeleteGame(id string) error {
	return s.sessions.Delete(id)
}

// ApplyAction applies one raw action on behalf of the player whose turn it
// is. Chance turns must use SampleChance (or pass the drawn outcome here
// explicitly via allowChance).
func (s *GameService) ApplyAction(id string, raw int) (*ApplyResult, error) {
	return s.apply(id, raw, false)
}

// ApplyChance applies an explicit chance outcome, for deterministic
// replays. The state must be at a chance node.
func (s *GameService) ApplyChance(id string, raw int) (*ApplyResult, error) {
	return s.apply(id, raw, true)
}

// SampleChance draws a uniform outcome for the current chance phase and
// applies it.
func (s *GameService) SampleChance(id string) (*ApplyResult, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	state := sess.State
	if state.IsTerminal() {
		return nil, domain.ErrGameOver
	}
	if !state.IsChanceNode() {
		return nil, domain.ErrNotChanceTurn
	}

	outcomes := state.ChanceOutcomes()
	raw := outcomes[rand.Intn(len(outcomes))].Action
	return applyLocked(sess, raw), nil
}

// apply validates and applies one raw action under the session lock. When
// wantChance is set the state must be at a chance node; otherwise it must
// be a player turn.
func (s *GameService) apply(id string, raw int, wantChance bool) (*ApplyResult, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	state := sess.State
	if state.IsTerminal() {
		return nil, domain.ErrGameOver
	}
	if wantChance && !state.IsChanceNode() {
		return nil, domain.ErrNotChanceTurn
	}
	if !wantChance && state.IsChanceNode() {
		return nil, domain.ErrNotPlayerTurn
	}

	min, max := state.Codec().ValidRange(state.CurrentPhase())
	if raw < min || raw > max {
		return nil, domain.ErrActionOutOfRange
	}
	return applyLocked(sess, raw), nil
}

// applyLocked applies a pre-validated action. The session mutex must be held.
func applyLocked(sess *store.Session, raw int) *ApplyResult {
	state := sess.State
	move := state.MoveNumber()
	phase := state.CurrentPhase()
	player := state.CurrentPlayer()
	desc := state.ActionToString(player, move, raw)
	fillsBefore := len(state.Fills())

	state.Apply(raw)

	fills := state.Fills()[fillsBefore:]
	return &ApplyResult{
		GameID:      sess.ID,
		Move:        move,
		Phase:       phase,
		Player:      player,
		RawAction:   raw,
		Description: desc,
		Fills:       fills,
		Terminal:    state.IsTerminal(),
	}
}

// Undo rewinds the session's last action.
func (s *GameService) Undo(id string) (*GameView, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	if err := sess.State.Undo(); err != nil {
		return nil, err
	}
	view := snapshotLocked(sess)
	return &view, nil
}

// Observation returns the given player's view of the session.
func (s *GameService) Observation(id string, player int) (*ObservationView, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	state := sess.State
	if player < 0 || player >= state.Config().NumPlayers {
		return nil, domain.ErrPlayerOutOfBounds
	}
	return &ObservationView{
		GameID:      sess.ID,
		Player:      player,
		Tensor:      state.InformationStateTensor(player),
		InfoString:  state.InformationStateString(player),
		CurrentTurn: state.CurrentPlayer(),
		Terminal:    state.IsTerminal(),
	}, nil
}

// Returns returns the terminal payoffs. The game must have ended.
func (s *GameService) Returns(id string) ([]float64, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	if !sess.State.IsTerminal() {
		return nil, domain.ErrGameNotOver
	}
	return sess.State.Returns(), nil
}

// snapshotLocked builds a GameView. The session mutex must be held.
func snapshotLocked(sess *store.Session) GameView {
	state := sess.State
	view := GameView{
		GameID:        sess.ID,
		Config:        state.Config(),
		Move:          state.MoveNumber(),
		Phase:         state.CurrentPhase(),
		CurrentPlayer: state.CurrentPlayer(),
		IsChanceNode:  state.IsChanceNode(),
		Terminal:      state.IsTerminal(),
		Roles:         state.Roles(),
		Targets:       state.Targets(),
		Positions:     state.Positions(),
		Quotes:        state.Quotes(),
		Fills:         state.Fills(),
		History:       state.History(),
		StateString:   state.String(),
	}
	if view.Terminal {
		view.Returns = state.Returns()
	}
	return view
}
