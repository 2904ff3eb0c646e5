package service

import (
	"strings"
	"testing"

	"github.com/nlyu1/highlow-exchange/internal/domain"
	"github.com/nlyu1/highlow-exchange/internal/store"
)

func newTestService() *GameService {
	defaults := domain.GameConfig{
		StepsPerPlayer:       1,
		MaxContractsPerTrade: 1,
		CustomerMaxSize:      1,
		MaxContractValue:     5,
		NumPlayers:           4,
	}
	return NewGameService(store.NewSessionStore(), defaults)
}

func intPtr(v int) *int { return &v }

func TestCreateGame_Defaults(t *testing.T) {
	svc := newTestService()
	view, err := svc.CreateGame(CreateGameRequest{})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if view.GameID == "" {
		t.Error("empty game id")
	}
	if view.Config.NumPlayers != 4 {
		t.Errorf("NumPlayers = %d, want default 4", view.Config.NumPlayers)
	}
	if view.Phase != domain.PhaseChanceValue || !view.IsChanceNode {
		t.Errorf("fresh game phase %q, chance %v", view.Phase, view.IsChanceNode)
	}
}

func TestCreateGame_Overrides(t *testing.T) {
	svc := newTestService()
	view, err := svc.CreateGame(CreateGameRequest{NumPlayers: intPtr(6), MaxContractValue: intPtr(10)})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if view.Config.NumPlayers != 6 || view.Config.MaxContractValue != 10 {
		t.Errorf("config %+v", view.Config)
	}
}

func TestCreateGame_InvalidOverride(t *testing.T) {
	svc := newTestService()
	if _, err := svc.CreateGame(CreateGameRequest{NumPlayers: intPtr(2)}); err == nil {
		t.Fatal("expected validation error for 2 players")
	}
}

func TestApplyChance_ThenPlayerActions(t *testing.T) {
	svc := newTestService()
	view, _ := svc.CreateGame(CreateGameRequest{})
	id := view.GameID

	// Player actions are rejected during chance phases.
	if _, err := svc.ApplyAction(id, 0); err != domain.ErrNotPlayerTurn {
		t.Fatalf("ApplyAction during chance: got %v, want ErrNotPlayerTurn", err)
	}

	chance := []int{2, 3, 1, 0, 1}
	for _, raw := range chance {
		res, err := svc.ApplyChance(id, raw)
		if err != nil {
			t.Fatalf("ApplyChance(%d): %v", raw, err)
		}
		if res.Player != domain.ChancePlayerID {
			t.Errorf("chance move attributed to player %d", res.Player)
		}
		if !strings.HasPrefix(res.Description, "Chance: ") {
			t.Errorf("chance description %q should name the environment, not a player id", res.Description)
		}
	}

	// Chance endpoints are rejected once it is a player's turn.
	if _, err := svc.ApplyChance(id, 0); err != domain.ErrNotChanceTurn {
		t.Fatalf("ApplyChance on player turn: got %v, want ErrNotChanceTurn", err)
	}
	if _, err := svc.SampleChance(id); err != domain.ErrNotChanceTurn {
		t.Fatalf("SampleChance on player turn: got %v, want ErrNotChanceTurn", err)
	}

	res, err := svc.ApplyAction(id, 0)
	if err != nil {
		t.Fatalf("ApplyAction: %v", err)
	}
	if res.Player != 0 || res.Phase != domain.PhasePlayerTrading {
		t.Errorf("first trading move: player %d phase %q", res.Player, res.Phase)
	}
}

func TestApplyAction_OutOfRange(t *testing.T) {
	svc := newTestService()
	view, _ := svc.CreateGame(CreateGameRequest{})
	id := view.GameID
	for _, raw := range []int{2, 3, 1, 0, 1} {
		svc.ApplyChance(id, raw)
	}
	// Trading range for this config is [0, 99].
	if _, err := svc.ApplyAction(id, 100); err != domain.ErrActionOutOfRange {
		t.Fatalf("got %v, want ErrActionOutOfRange", err)
	}
	if _, err := svc.ApplyAction(id, -1); err != domain.ErrActionOutOfRange {
		t.Fatalf("got %v, want ErrActionOutOfRange", err)
	}
}

func TestSampleChance_DrivesAllChancePhases(t *testing.T) {
	svc := newTestService()
	view, _ := svc.CreateGame(CreateGameRequest{})
	id := view.GameID

	for i := 0; i < 5; i++ {
		res, err := svc.SampleChance(id)
		if err != nil {
			t.Fatalf("SampleChance %d: %v", i, err)
		}
		if res.Player != domain.ChancePlayerID {
			t.Errorf("sampled move %d attributed to player %d", i, res.Player)
		}
	}
	got, _ := svc.GetGame(id)
	if got.IsChanceNode {
		t.Fatal("still a chance node after all chance draws")
	}
	if got.CurrentPlayer != 0 {
		t.Fatalf("current player %d, want 0", got.CurrentPlayer)
	}
}

func TestFullGame_ReturnsAndGameOver(t *testing.T) {
	svc := newTestService()
	view, _ := svc.CreateGame(CreateGameRequest{})
	id := view.GameID

	if _, err := svc.Returns(id); err != domain.ErrGameNotOver {
		t.Fatalf("Returns before terminal: got %v, want ErrGameNotOver", err)
	}

	for _, raw := range []int{2, 3, 1, 0, 1} {
		svc.ApplyChance(id, raw)
	}
	var last *ApplyResult
	for p := 0; p < 4; p++ {
		var err error
		last, err = svc.ApplyAction(id, 0)
		if err != nil {
			t.Fatalf("ApplyAction: %v", err)
		}
	}
	if !last.Terminal {
		t.Fatal("last move should end the game")
	}

	returns, err := svc.Returns(id)
	if err != nil {
		t.Fatalf("Returns: %v", err)
	}
	// Everyone passed: only the customer penalty is non-zero.
	want := []float64{0, 0, 0, -5}
	for p := range want {
		if returns[p] != want[p] {
			t.Errorf("player %d return %v, want %v", p, returns[p], want[p])
		}
	}

	if _, err := svc.ApplyAction(id, 0); err != domain.ErrGameOver {
		t.Fatalf("ApplyAction after terminal: got %v, want ErrGameOver", err)
	}
}

func TestObservation(t *testing.T) {
	svc := newTestService()
	view, _ := svc.CreateGame(CreateGameRequest{})
	id := view.GameID

	obs, err := svc.Observation(id, 2)
	if err != nil {
		t.Fatalf("Observation: %v", err)
	}
	if obs.Player != 2 || len(obs.Tensor) != 43 {
		t.Errorf("observation player %d tensor length %d", obs.Player, len(obs.Tensor))
	}

	if _, err := svc.Observation(id, 4); err != domain.ErrPlayerOutOfBounds {
		t.Fatalf("got %v, want ErrPlayerOutOfBounds", err)
	}
	if _, err := svc.Observation("missing", 0); err != domain.ErrGameNotFound {
		t.Fatalf("got %v, want ErrGameNotFound", err)
	}
}

func TestUndo(t *testing.T) {
	svc := newTestService()
	view, _ := svc.CreateGame(CreateGameRequest{})
	id := view.GameID

	if _, err := svc.Undo(id); err != domain.ErrNothingToUndo {
		t.Fatalf("Undo fresh game: got %v, want ErrNothingToUndo", err)
	}

	svc.ApplyChance(id, 2)
	svc.ApplyChance(id, 3)

	after, err := svc.Undo(id)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if after.Move != 1 {
		t.Fatalf("move after undo %d, want 1", after.Move)
	}
	if len(after.History) != 1 || after.History[0] != 2 {
		t.Fatalf("history after undo %v", after.History)
	}
}

func TestDeleteGame(t *testing.T) {
	svc := newTestService()
	view, _ := svc.CreateGame(CreateGameRequest{})

	if err := svc.DeleteGame(view.GameID); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	if _, err := svc.GetGame(view.GameID); err != domain.ErrGameNotFound {
		t.Fatalf("got %v, want ErrGameNotFound", err)
	}
}
