package server

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/wanlucas/poker-game/internal/deck"
	"github.com/wanlucas/poker-game/internal/game"
)

var (
	ErrTableNotFound = errors.New("table not found")
	ErrTableFull     = errors.New("table full")
	ErrAlreadySeated = errors.New("already seated at a table")
	ErrNotSeated     = errors.New("not seated at this table")
)

// Broadcaster delivers messages to connected clients. *Server implements
// it; tests substitute a recorder.
type Broadcaster interface {
	BroadcastToTable(table string, msg *Message)
	SendToPlayer(playerID string, msg *Message) error
}

// table pairs one game with its config and the timer watching the player
// to act. All access goes through mu; the engine itself is single-caller.
type table struct {
	name string
	cfg  TableConfig
	game *game.Game

	mu        sync.Mutex
	timer     *quartz.Timer
	pendingID string // player the running timer waits on
}

// Service owns the tables and maps connection-level requests onto game
// actions. One Service serves all tables of a server.
type Service struct {
	broadcaster Broadcaster
	logger      *log.Logger
	clock       quartz.Clock

	mu     sync.RWMutex
	tables map[string]*table
	seated map[string]string // player ID -> table name
}

// NewService builds a service with one table per configuration entry.
func NewService(cfg *Config, broadcaster Broadcaster, logger *log.Logger, clock quartz.Clock) *Service {
	s := &Service{
		broadcaster: broadcaster,
		logger:      logger.WithPrefix("service"),
		clock:       clock,
		tables:      make(map[string]*table),
		seated:      make(map[string]string),
	}

	for _, tc := range cfg.Tables {
		tbl := &table{name: tc.Name, cfg: tc}
		s.tables[tc.Name] = tbl
		tbl.game = game.New(
			game.WithSmallBlind(tc.SmallBlind),
			game.WithInitialBankroll(tc.InitialBankroll),
			game.OnRoundEnd(s.roundEndNotifier(tbl)),
		)
	}
	return s
}

// ListTables summarizes every table for the lobby.
func (s *Service) ListTables() []TableInfo {
	// Snapshot the table set first; holding s.mu across tbl.mu would
	// invert the order Join uses.
	s.mu.RLock()
	tables := make([]*table, 0, len(s.tables))
	for _, tbl := range s.tables {
		tables = append(tables, tbl)
	}
	s.mu.RUnlock()

	infos := make([]TableInfo, 0, len(tables))
	for _, tbl := range tables {
		tbl.mu.Lock()
		infos = append(infos, TableInfo{
			Name:        tbl.name,
			PlayerCount: len(tbl.game.Players()),
			MaxPlayers:  tbl.cfg.MaxPlayers,
			SmallBlind:  tbl.cfg.SmallBlind,
			Started:     tbl.game.Started(),
		})
		tbl.mu.Unlock()
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Join seats a player. The game starts as soon as a second player sits
// down; later arrivals join from the next round.
func (s *Service) Join(tableName, playerID, name string) error {
	s.mu.Lock()
	if seatedAt, ok := s.seated[playerID]; ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadySeated, seatedAt)
	}
	tbl, ok := s.tables[tableName]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTableNotFound, tableName)
	}
	s.seated[playerID] = tableName
	s.mu.Unlock()

	tbl.mu.Lock()
	defer tbl.mu.Unlock()

	if len(tbl.game.Players()) >= tbl.cfg.MaxPlayers {
		s.unseat(playerID)
		return fmt.Errorf("%w: %s", ErrTableFull, tableName)
	}

	tbl.game.AddPlayer(playerID, name)
	s.logger.Info("player joined", "table", tableName, "player", name)

	if !tbl.game.Started() && len(tbl.game.Players()) >= 2 {
		if err := tbl.game.Start(); err != nil {
			return fmt.Errorf("starting table %s: %w", tableName, err)
		}
		s.logger.Info("table started", "table", tableName)
	}

	s.afterChange(tbl)
	return nil
}

// Leave unseats a player. Mid-round their seat folds out naturally when
// the turn reaches it and times out.
func (s *Service) Leave(tableName, playerID string) error {
	s.mu.Lock()
	tbl, ok := s.tables[tableName]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTableNotFound, tableName)
	}
	if s.seated[playerID] != tableName {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotSeated, tableName)
	}
	delete(s.seated, playerID)
	s.mu.Unlock()

	tbl.mu.Lock()
	defer tbl.mu.Unlock()

	tbl.game.RemovePlayer(playerID)
	s.logger.Info("player left", "table", tableName, "player", playerID)
	s.afterChange(tbl)
	return nil
}

// TableFor returns the table a player sits at, if any.
func (s *Service) TableFor(playerID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.seated[playerID]
	return name, ok
}

// HandleAction applies one betting action on behalf of a connected
// player.
func (s *Service) HandleAction(tableName, playerID, action string, value int) error {
	s.mu.RLock()
	tbl, ok := s.tables[tableName]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrTableNotFound, tableName)
	}

	tbl.mu.Lock()
	defer tbl.mu.Unlock()

	if err := tbl.game.Action(playerID, game.ActionKind(action), value); err != nil {
		return err
	}

	s.afterChange(tbl)
	return nil
}

func (s *Service) unseat(playerID string) {
	s.mu.Lock()
	delete(s.seated, playerID)
	s.mu.Unlock()
}

// afterChange broadcasts the new table state and re-arms the decision
// timer for whoever acts next. Callers hold tbl.mu.
func (s *Service) afterChange(tbl *table) {
	s.broadcastState(tbl)
	s.armTimer(tbl)
}

// armTimer watches the player to act; if they stall past the configured
// timeout the server acts for them.
func (s *Service) armTimer(tbl *table) {
	if tbl.timer != nil {
		tbl.timer.Stop()
		tbl.timer = nil
		tbl.pendingID = ""
	}

	current := tbl.game.CurrentPlayer()
	if current == nil {
		return
	}

	playerID := current.ID
	tbl.pendingID = playerID
	timeout := time.Duration(tbl.cfg.ActionTimeout) * time.Second
	tbl.timer = s.clock.AfterFunc(timeout, func() {
		s.forceAction(tbl, playerID)
	})
}

// forceAction resolves a decision timeout. A matched bet checks, an
// unmatched one folds; exactly one of the two is always legal.
func (s *Service) forceAction(tbl *table, playerID string) {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()

	if tbl.pendingID != playerID {
		return // the player acted while the callback was in flight
	}
	current := tbl.game.CurrentPlayer()
	if current == nil || current.ID != playerID {
		return
	}

	forced := string(game.ActionCheck)
	if err := tbl.game.Action(playerID, game.ActionCheck, 0); err != nil {
		forced = string(game.ActionFold)
		if err := tbl.game.Action(playerID, game.ActionFold, 0); err != nil {
			s.logger.Error("timeout action failed", "table", tbl.name, "player", playerID, "error", err)
			return
		}
	}

	s.logger.Warn("player timed out", "table", tbl.name, "player", playerID, "action", forced)
	if msg, err := NewMessage(MessageTypeActionTimeout, ActionTimeoutData{
		Table:    tbl.name,
		PlayerID: playerID,
		Action:   forced,
	}); err == nil {
		s.broadcaster.BroadcastToTable(tbl.name, msg)
	}

	s.afterChange(tbl)
}

// broadcastState pushes the public table state to everyone and each
// player's hole cards to them alone. Callers hold tbl.mu.
func (s *Service) broadcastState(tbl *table) {
	state := GameStateData{
		Table:     tbl.name,
		Pot:       tbl.game.Pot(),
		Community: cardStrings(tbl.game.Community()),
	}
	if stage := tbl.game.CurrentStage(); stage != nil {
		state.Street = stage.Street().String()
	}
	if current := tbl.game.CurrentPlayer(); current != nil {
		state.ToAct = current.ID
	}
	for _, p := range tbl.game.Players() {
		state.Players = append(state.Players, playerStateFromGame(p))
	}

	if msg, err := NewMessage(MessageTypeGameState, state); err == nil {
		s.broadcaster.BroadcastToTable(tbl.name, msg)
	}

	for _, p := range tbl.game.Players() {
		hole := p.Hole()
		if len(hole) == 0 {
			continue
		}
		msg, err := NewMessage(MessageTypeHoleCards, HoleCardsData{
			Table: tbl.name,
			Cards: cardStrings(hole),
		})
		if err != nil {
			continue
		}
		// Disconnected players simply miss the update.
		_ = s.broadcaster.SendToPlayer(p.ID, msg)
	}

	if current := tbl.game.CurrentPlayer(); current != nil {
		stage := tbl.game.CurrentStage()
		msg, err := NewMessage(MessageTypeActionNeeded, ActionNeededData{
			Table:          tbl.name,
			PlayerID:       current.ID,
			BiggestBet:     stage.BiggestBet(),
			TimeoutSeconds: tbl.cfg.ActionTimeout,
		})
		if err == nil {
			_ = s.broadcaster.SendToPlayer(current.ID, msg)
		}
	}
}

// roundEndNotifier announces showdown results for one table.
func (s *Service) roundEndNotifier(tbl *table) func(game.ShowdownResult) {
	return func(result game.ShowdownResult) {
		data := RoundEndData{Table: tbl.name, Pot: result.Pot}
		for _, w := range result.Winners {
			info := WinnerInfo{PlayerID: w.ID, Name: w.Name}
			if evaluated, ok := result.Hands[w.ID]; ok {
				info.Hand = evaluated.String()
			}
			data.Winners = append(data.Winners, info)
		}

		s.logger.Info("round ended", "table", tbl.name, "pot", result.Pot, "winners", len(result.Winners))
		if msg, err := NewMessage(MessageTypeRoundEnd, data); err == nil {
			s.broadcaster.BroadcastToTable(tbl.name, msg)
		}
	}
}

func cardStrings(cards []deck.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
