package tictactoe

import (
	"math/rand"
	"testing"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_OnConnect(t *testing.T) {
	t.Run("First participant is acknowledged", func(t *testing.T) {
		// Given: an idle coordinator
		coordinator, rec := newTestCoordinator(t, 0)

		// When: a connects
		err := coordinator.OnConnect("a")

		// Then: a gets its id back and everyone sees the list
		require.NoError(t, err)
		require.Equal(t, []recordedEvent{
			{Target: "a", Action: ActionPlayerConnected, Payload: PlayerPayload{ID: "a"}},
			{Target: broadcastTarget, Action: ActionPlayersUpdate, Payload: PlayersPayload{Players: []string{"a"}}},
		}, rec.events)
		assert.False(t, coordinator.Session().IsActive())
		assert.Equal(t, entity.NoParticipant, coordinator.Session().Turn())
	})

	t.Run("Second participant starts the game", func(t *testing.T) {
		// Given: a is waiting
		coordinator, rec := newTestCoordinator(t, 1)
		require.NoError(t, coordinator.OnConnect("a"))
		rec.clear()

		// When: b connects
		err := coordinator.OnConnect("b")

		// Then: the game starts with the randomly picked participant on turn
		require.NoError(t, err)
		require.Equal(t, []recordedEvent{
			{Target: "b", Action: ActionPlayerConnected, Payload: PlayerPayload{ID: "b"}},
			{Target: broadcastTarget, Action: ActionPlayersUpdate, Payload: PlayersPayload{Players: []string{"a", "b"}}},
			{Target: broadcastTarget, Action: ActionGameStart, Payload: GameStartPayload{CurrentPlayer: "b", Board: entity.NewBoard()}},
		}, rec.events)

		session := coordinator.Session()
		assert.True(t, session.IsActive())
		assert.Equal(t, "b", session.Turn())
		assert.Equal(t, entity.NewBoard(), session.Board())
	})

	t.Run("Third participant is rejected while a game is active", func(t *testing.T) {
		// Given: a running game
		coordinator, rec := startedGame(t, 0)

		// When: c tries to connect
		err := coordinator.OnConnect("c")

		// Then: c is told why, disconnected and never seated
		require.ErrorIs(t, err, apperror.ErrGameInProgress)
		require.Equal(t, []recordedEvent{
			{Target: "c", Action: ActionPlayerRejected, Payload: RejectPayload{Reason: RejectReasonGameInProgress}},
		}, rec.events)
		assert.Equal(t, []string{"c"}, rec.disconnected)
		assert.Equal(t, []string{"a", "b"}, coordinator.Session().Participants())
		assert.True(t, coordinator.Session().IsActive())
	})

	t.Run("Starting turn is random across trials", func(t *testing.T) {
		seen := map[string]int{}

		for i := range 200 {
			rec := &recorder{}
			coordinator := NewCoordinator(discardLogger(), entity.NewSession(), rec, rand.New(rand.NewSource(int64(i))))
			require.NoError(t, coordinator.OnConnect("a"))
			require.NoError(t, coordinator.OnConnect("b"))

			turn := coordinator.Session().Turn()
			require.Contains(t, []string{"a", "b"}, turn)
			seen[turn]++
		}

		// Then: both participants start a reasonable share of games
		assert.Greater(t, seen["a"], 50)
		assert.Greater(t, seen["b"], 50)
	})
}

func TestCoordinator_OnMove(t *testing.T) {
	t.Run("Valid move updates board and switches turn", func(t *testing.T) {
		// Given: a game where a (X) holds the turn
		coordinator, rec := startedGame(t, 0)

		// When: a plays cell 0
		err := coordinator.OnMove("a", 0)

		// Then: board and turn are broadcast
		require.NoError(t, err)
		expectedBoard := entity.Board{entity.First}
		require.Equal(t, []recordedEvent{
			{Target: broadcastTarget, Action: ActionBoardUpdate, Payload: BoardPayload{Board: expectedBoard}},
			{Target: broadcastTarget, Action: ActionTurnSwitch, Payload: TurnPayload{CurrentPlayer: "b"}},
		}, rec.events)
		assert.Equal(t, expectedBoard, coordinator.Session().Board())
		assert.Equal(t, "b", coordinator.Session().Turn())
	})

	t.Run("Second participant plays O", func(t *testing.T) {
		// Given: b (slot 1) starts
		coordinator, _ := startedGame(t, 1)

		// When: b plays the centre
		require.NoError(t, coordinator.OnMove("b", 4))

		// Then: the centre holds O
		assert.Equal(t, entity.Second, coordinator.Session().Board()[4])
	})

	t.Run("Move out of turn is ignored", func(t *testing.T) {
		// Given: a holds the turn
		coordinator, rec := startedGame(t, 0)

		// When: b tries to move
		err := coordinator.OnMove("b", 3)

		// Then: nothing changes and nothing is emitted
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Empty(t, rec.events)
		assert.Equal(t, entity.NewBoard(), coordinator.Session().Board())
		assert.Equal(t, "a", coordinator.Session().Turn())
	})

	t.Run("Move on occupied cell is ignored", func(t *testing.T) {
		// Given: a took cell 0 and b holds the turn
		coordinator, rec := startedGame(t, 0)
		require.NoError(t, coordinator.OnMove("a", 0))
		before := coordinator.Session().Board()
		rec.clear()

		// When: b plays cell 0
		err := coordinator.OnMove("b", 0)

		// Then: the board is unchanged and b keeps the turn
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Empty(t, rec.events)
		assert.Equal(t, before, coordinator.Session().Board())
		assert.Equal(t, "b", coordinator.Session().Turn())
	})

	t.Run("Move outside the grid is ignored", func(t *testing.T) {
		coordinator, rec := startedGame(t, 0)

		for _, cell := range []int{-1, 9, 100} {
			err := coordinator.OnMove("a", cell)
			require.ErrorIs(t, err, apperror.ErrInvalidCell)
		}

		assert.Empty(t, rec.events)
		assert.Equal(t, "a", coordinator.Session().Turn())
	})

	t.Run("Move without an active game is ignored", func(t *testing.T) {
		// Given: a alone in the session
		coordinator, rec := newTestCoordinator(t, 0)
		require.NoError(t, coordinator.OnConnect("a"))
		rec.clear()

		// When: a tries to move
		err := coordinator.OnMove("a", 0)

		// Then: ErrNoActiveGame and no events
		require.ErrorIs(t, err, apperror.ErrNoActiveGame)
		assert.Empty(t, rec.events)
		assert.Equal(t, entity.NewBoard(), coordinator.Session().Board())
	})

	t.Run("Move by stranger is ignored", func(t *testing.T) {
		coordinator, rec := startedGame(t, 0)

		err := coordinator.OnMove("zzz", 0)

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Empty(t, rec.events)
	})

	t.Run("N alternating moves fill N cells", func(t *testing.T) {
		// Given: a sequence that never completes a line
		coordinator, _ := startedGame(t, 0)
		cells := []int{0, 1, 2, 4, 3, 5, 7, 6}
		players := []string{"a", "b"}

		for n, cell := range cells {
			// When: the player on turn moves
			require.NoError(t, coordinator.OnMove(players[n%2], cell))

			// Then: exactly n+1 cells are occupied
			require.Equal(t, n+1, coordinator.Session().Board().Count())
		}
	})
}

func TestCoordinator_Scenarios(t *testing.T) {
	t.Run("Row win by first participant", func(t *testing.T) {
		// Given: a and b connected in order with turn forced to a
		coordinator, rec := startedGame(t, 0)

		// When: a plays 0, b plays 4
		require.NoError(t, coordinator.OnMove("a", 0))
		assert.Equal(t, entity.Board{entity.First}, coordinator.Session().Board())
		assert.Equal(t, "b", coordinator.Session().Turn())

		require.NoError(t, coordinator.OnMove("b", 4))
		assert.Equal(t, entity.Board{entity.First, "", "", "", entity.Second}, coordinator.Session().Board())
		assert.Equal(t, "a", coordinator.Session().Turn())

		// When: a completes the top row
		require.NoError(t, coordinator.OnMove("a", 1))
		require.NoError(t, coordinator.OnMove("b", 8))
		rec.clear()
		require.NoError(t, coordinator.OnMove("a", 2))

		// Then: game over for X followed by a full reset
		require.Equal(t, []string{ActionBoardUpdate, ActionGameOver, ActionGameReset}, rec.actions())
		assert.Equal(t, GameOverPayload{Winner: "X", Message: "Player X wins!"}, rec.events[1].Payload)
		assert.Nil(t, rec.events[2].Payload)

		session := coordinator.Session()
		assert.Empty(t, session.Participants())
		assert.False(t, session.IsActive())
		assert.Equal(t, entity.NoParticipant, session.Turn())
		assert.Equal(t, entity.NewBoard(), session.Board())
	})

	t.Run("Win by second participant", func(t *testing.T) {
		// Given: b (O) starts
		coordinator, rec := startedGame(t, 1)

		// When: b completes the anti-diagonal
		for _, move := range []struct {
			player string
			cell   int
		}{{"b", 2}, {"a", 0}, {"b", 4}, {"a", 1}, {"b", 6}} {
			require.NoError(t, coordinator.OnMove(move.player, move.cell))
		}

		// Then: O wins
		over := rec.events[len(rec.events)-2]
		assert.Equal(t, ActionGameOver, over.Action)
		assert.Equal(t, GameOverPayload{Winner: "O", Message: "Player O wins!"}, over.Payload)
	})

	t.Run("Full board without a line is a draw", func(t *testing.T) {
		// Given: a (X) starts
		coordinator, rec := startedGame(t, 0)

		// When: the players fill the board with no line
		// X O X
		// X O O
		// O X X
		cells := []int{0, 1, 2, 4, 3, 5, 7, 6, 8}
		players := []string{"a", "b"}
		for n, cell := range cells[:len(cells)-1] {
			require.NoError(t, coordinator.OnMove(players[n%2], cell))
		}
		rec.clear()
		require.NoError(t, coordinator.OnMove("a", 8))

		// Then: a draw is announced and the session resets
		require.Equal(t, []string{ActionBoardUpdate, ActionGameOver, ActionGameReset}, rec.actions())
		assert.Equal(t, GameOverPayload{Winner: DrawWinner, Message: MessageDraw}, rec.events[1].Payload)
		assert.False(t, coordinator.Session().IsActive())
		assert.Empty(t, coordinator.Session().Participants())
	})

	t.Run("Moves after reset are ignored", func(t *testing.T) {
		// Given: a finished game
		coordinator, rec := startedGame(t, 0)
		for n, cell := range []int{0, 3, 1, 4, 2} {
			require.NoError(t, coordinator.OnMove([]string{"a", "b"}[n%2], cell))
		}
		rec.clear()

		// When: a former participant keeps clicking
		err := coordinator.OnMove("b", 5)

		// Then: nothing happens
		require.ErrorIs(t, err, apperror.ErrNoActiveGame)
		assert.Empty(t, rec.events)
	})

	t.Run("New players can join after reset", func(t *testing.T) {
		// Given: a finished game
		coordinator, _ := startedGame(t, 0)
		for n, cell := range []int{0, 3, 1, 4, 2} {
			require.NoError(t, coordinator.OnMove([]string{"a", "b"}[n%2], cell))
		}

		// When: two fresh connections arrive
		require.NoError(t, coordinator.OnConnect("c"))
		require.NoError(t, coordinator.OnConnect("d"))

		// Then: a new game runs between them
		assert.True(t, coordinator.Session().IsActive())
		assert.Equal(t, []string{"c", "d"}, coordinator.Session().Participants())
	})
}

func TestCoordinator_OnDisconnect(t *testing.T) {
	t.Run("Sole waiting participant leaves", func(t *testing.T) {
		// Given: a waits alone
		coordinator, rec := newTestCoordinator(t, 0)
		require.NoError(t, coordinator.OnConnect("a"))
		rec.clear()

		// When: a disconnects
		err := coordinator.OnDisconnect("a")

		// Then: the empty list is broadcast and the idle session is reset
		require.NoError(t, err)
		require.Equal(t, []recordedEvent{
			{Target: broadcastTarget, Action: ActionPlayersUpdate, Payload: PlayersPayload{Players: []string{}}},
			{Target: broadcastTarget, Action: ActionGameReset, Payload: nil},
		}, rec.events)
		assert.Empty(t, coordinator.Session().Participants())
		assert.False(t, coordinator.Session().IsActive())
	})

	t.Run("Participant leaving mid-game forfeits and resets", func(t *testing.T) {
		// Given: a running game with one move played
		coordinator, rec := startedGame(t, 0)
		require.NoError(t, coordinator.OnMove("a", 0))
		rec.clear()

		// When: a (X) disconnects
		err := coordinator.OnDisconnect("a")

		// Then: b keeps its O mark as the winner and the session goes idle
		require.NoError(t, err)
		require.Equal(t, []recordedEvent{
			{Target: broadcastTarget, Action: ActionPlayersUpdate, Payload: PlayersPayload{Players: []string{"b"}}},
			{Target: broadcastTarget, Action: ActionGameOver, Payload: GameOverPayload{Winner: "O", Message: MessageOpponentLeft}},
			{Target: broadcastTarget, Action: ActionGameReset, Payload: nil},
		}, rec.events)

		session := coordinator.Session()
		assert.Empty(t, session.Participants())
		assert.False(t, session.IsActive())
		assert.Equal(t, entity.NoParticipant, session.Turn())
		assert.Equal(t, entity.NewBoard(), session.Board())
	})

	t.Run("Rejected connection closing changes nothing", func(t *testing.T) {
		// Given: a running game and a rejected third connection
		coordinator, rec := startedGame(t, 0)
		require.ErrorIs(t, coordinator.OnConnect("c"), apperror.ErrGameInProgress)
		rec.clear()

		// When: the rejected connection closes
		err := coordinator.OnDisconnect("c")

		// Then: the game keeps running untouched
		require.ErrorIs(t, err, apperror.ErrNotParticipant)
		assert.Empty(t, rec.events)
		assert.True(t, coordinator.Session().IsActive())
		assert.Equal(t, []string{"a", "b"}, coordinator.Session().Participants())
	})
}
