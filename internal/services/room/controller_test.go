package room

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/dropfour/dropfour/internal/dependencies/mocks"
	"github.com/dropfour/dropfour/internal/model"
	"github.com/dropfour/dropfour/internal/services/board"
	"github.com/dropfour/dropfour/internal/storage/memory"
	"github.com/dropfour/dropfour/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	ident      *mocks.MockIdent
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.ident = mocks.NewMockIdent()
	s.controller = NewController(s.storage, board.New(), s.clock, s.ident, testutil.NopLogger())
	s.ctx = context.Background()
}

// seatTwoPlayers joins Ann and Bo into "kitchen" with secret "x"
func (s *ControllerSuite) seatTwoPlayers() {
	_, err := s.controller.Join(s.ctx, "kitchen", "x", "sess-ann", "", "Ann")
	s.Require().NoError(err)
	_, err = s.controller.Join(s.ctx, "kitchen", "x", "sess-bo", "", "Bo")
	s.Require().NoError(err)
}

// startGame readies both players and starts the round
func (s *ControllerSuite) startGame() *model.Room {
	s.seatTwoPlayers()
	_, err := s.controller.ToggleReady(s.ctx, "kitchen", "sess-ann")
	s.Require().NoError(err)
	_, err = s.controller.ToggleReady(s.ctx, "kitchen", "sess-bo")
	s.Require().NoError(err)
	rm, err := s.controller.Start(s.ctx, "kitchen", "sess-ann")
	s.Require().NoError(err)
	s.Require().NotNil(rm)
	return rm
}

// move plays a column and requires the move to have been applied
func (s *ControllerSuite) move(session model.SessionID, col int) *model.Room {
	rm, err := s.controller.Move(s.ctx, "kitchen", session, col)
	s.Require().NoError(err)
	s.Require().NotNil(rm, "move by %s into column %d was silently rejected", session, col)
	return rm
}

// Join tests

func (s *ControllerSuite) TestFirstJoinCreatesRoom() {
	res, err := s.controller.Join(s.ctx, "kitchen", "x", "sess-ann", "", "Ann")
	s.Require().NoError(err)

	s.True(res.Created)
	s.Equal(model.ColorRed, res.Player.Color)
	s.Equal("🔴", res.Player.Avatar)
	s.Equal("Ann", res.Player.DisplayName)
	s.NotEmpty(res.Player.SeatToken)
	s.Equal(model.StatusLobby, res.Room.Status)
	s.Equal(1, res.Room.PlayerCount())

	exists, _ := s.storage.RoomExists(s.ctx, "kitchen")
	s.True(exists)
}

func (s *ControllerSuite) TestSecondJoinGetsYellow() {
	s.seatTwoPlayers()

	rm, err := s.controller.Get(s.ctx, "kitchen")
	s.Require().NoError(err)
	s.Equal(2, rm.PlayerCount())
	s.Equal(model.ColorYellow, rm.Players[1].Color)
	s.Equal("🟡", rm.Players[1].Avatar)
}

func (s *ControllerSuite) TestJoinStoresSecretHashed() {
	res, err := s.controller.Join(s.ctx, "kitchen", "hunter2", "sess-ann", "", "Ann")
	s.Require().NoError(err)
	s.NotEqual("hunter2", res.Room.SecretHash)
	s.NotEmpty(res.Room.SecretHash)
}

func (s *ControllerSuite) TestJoinWithWrongSecretFails() {
	_, err := s.controller.Join(s.ctx, "kitchen", "x", "sess-ann", "", "Ann")
	s.Require().NoError(err)

	_, err = s.controller.Join(s.ctx, "kitchen", "wrong", "sess-bo", "", "Bo")
	s.ErrorIs(err, model.ErrWrongSecret)

	rm, _ := s.controller.Get(s.ctx, "kitchen")
	s.Equal(1, rm.PlayerCount())
}

func (s *ControllerSuite) TestThirdJoinFailsRoomFull() {
	s.seatTwoPlayers()

	_, err := s.controller.Join(s.ctx, "kitchen", "x", "sess-cy", "", "Cy")
	s.ErrorIs(err, model.ErrRoomFull)

	rm, _ := s.controller.Get(s.ctx, "kitchen")
	s.Equal(2, rm.PlayerCount())
}

func (s *ControllerSuite) TestJoinDefaultsDisplayName() {
	res, err := s.controller.Join(s.ctx, "kitchen", "x", "sess-ann", "", "")
	s.Require().NoError(err)
	s.Equal(DefaultDisplayName, res.Player.DisplayName)
}

func (s *ControllerSuite) TestSameSessionRejoinKeepsColor() {
	s.seatTwoPlayers()

	res, err := s.controller.Join(s.ctx, "kitchen", "x", "sess-ann", "", "Annie")
	s.Require().NoError(err)
	s.True(res.Reseated)
	s.Equal(model.ColorRed, res.Player.Color)
	s.Equal("Annie", res.Player.DisplayName)
	s.Equal(2, res.Room.PlayerCount())
}

func (s *ControllerSuite) TestRejoinWithoutNameKeepsOldName() {
	s.seatTwoPlayers()

	res, err := s.controller.Join(s.ctx, "kitchen", "x", "sess-ann", "", "")
	s.Require().NoError(err)
	s.True(res.Reseated)
	s.Equal("Ann", res.Player.DisplayName)
}

func (s *ControllerSuite) TestSeatTokenReclaimsSeatAfterReconnect() {
	s.ident.QueueID("seat-ann", "seat-bo")
	s.seatTwoPlayers()

	// New transport connection, old seat token
	res, err := s.controller.Join(s.ctx, "kitchen", "x", "sess-ann-2", "seat-ann", "Ann")
	s.Require().NoError(err)
	s.True(res.Reseated)
	s.Equal(model.ColorRed, res.Player.Color)
	s.Equal(2, res.Room.PlayerCount())

	// The seat now answers to the new session
	rm, _ := s.controller.Get(s.ctx, "kitchen")
	s.Nil(rm.PlayerBySession("sess-ann"))
	s.NotNil(rm.PlayerBySession("sess-ann-2"))
}

func (s *ControllerSuite) TestUnknownSeatTokenIsNotReseated() {
	s.seatTwoPlayers()

	_, err := s.controller.Join(s.ctx, "kitchen", "x", "sess-cy", "seat-bogus", "Cy")
	s.ErrorIs(err, model.ErrRoomFull)
}

// Ready and start tests

func (s *ControllerSuite) TestToggleReadyFlips() {
	s.seatTwoPlayers()

	rm, err := s.controller.ToggleReady(s.ctx, "kitchen", "sess-ann")
	s.Require().NoError(err)
	s.True(rm.PlayerBySession("sess-ann").Ready)

	rm, err = s.controller.ToggleReady(s.ctx, "kitchen", "sess-ann")
	s.Require().NoError(err)
	s.False(rm.PlayerBySession("sess-ann").Ready)
}

func (s *ControllerSuite) TestToggleReadyByStrangerIsNoOp() {
	s.seatTwoPlayers()

	rm, err := s.controller.ToggleReady(s.ctx, "kitchen", "sess-nobody")
	s.NoError(err)
	s.Nil(rm)
}

func (s *ControllerSuite) TestStartRequiresFullReadyRoster() {
	s.seatTwoPlayers()

	_, err := s.controller.Start(s.ctx, "kitchen", "sess-ann")
	s.ErrorIs(err, model.ErrPlayersNotReady)

	_, _ = s.controller.ToggleReady(s.ctx, "kitchen", "sess-ann")
	_, err = s.controller.Start(s.ctx, "kitchen", "sess-ann")
	s.ErrorIs(err, model.ErrPlayersNotReady)

	rm, _ := s.controller.Get(s.ctx, "kitchen")
	s.Equal(model.StatusLobby, rm.Status)
}

func (s *ControllerSuite) TestStartWithBothReady() {
	rm := s.startGame()
	s.Equal(model.StatusPlaying, rm.Status)
	s.Equal(model.ColorRed, rm.CurrentTurn)
}

func (s *ControllerSuite) TestStartAloneFails() {
	_, err := s.controller.Join(s.ctx, "kitchen", "x", "sess-ann", "", "Ann")
	s.Require().NoError(err)
	_, _ = s.controller.ToggleReady(s.ctx, "kitchen", "sess-ann")

	_, err = s.controller.Start(s.ctx, "kitchen", "sess-ann")
	s.ErrorIs(err, model.ErrPlayersNotReady)
}

// Move tests

func (s *ControllerSuite) TestTurnAlternatesAfterEachMove() {
	s.startGame()

	rm := s.move("sess-ann", 0)
	s.Equal(model.ColorYellow, rm.CurrentTurn)

	rm = s.move("sess-bo", 1)
	s.Equal(model.ColorRed, rm.CurrentTurn)
}

func (s *ControllerSuite) TestMoveOutOfTurnIsSilentlyIgnored() {
	s.startGame()

	rm, err := s.controller.Move(s.ctx, "kitchen", "sess-bo", 0)
	s.NoError(err)
	s.Nil(rm)

	stored, _ := s.controller.Get(s.ctx, "kitchen")
	s.Equal(model.ColorRed, stored.CurrentTurn)
	s.Equal(model.ColorNone, stored.Board.Cells[5][0])
}

func (s *ControllerSuite) TestMoveBeforeStartIsSilentlyIgnored() {
	s.seatTwoPlayers()

	rm, err := s.controller.Move(s.ctx, "kitchen", "sess-ann", 0)
	s.NoError(err)
	s.Nil(rm)
}

func (s *ControllerSuite) TestMoveIntoFullColumnIsSilentlyIgnored() {
	s.startGame()

	// Fill column 0 with alternating pieces
	for i := 0; i < 3; i++ {
		s.move("sess-ann", 0)
		s.move("sess-bo", 0)
	}

	rm, err := s.controller.Move(s.ctx, "kitchen", "sess-ann", 0)
	s.NoError(err)
	s.Nil(rm)

	stored, _ := s.controller.Get(s.ctx, "kitchen")
	s.Equal(model.ColorRed, stored.CurrentTurn, "turn must not flip on an ignored move")
}

func (s *ControllerSuite) TestMoveIntoInvalidColumnIsSilentlyIgnored() {
	s.startGame()

	rm, err := s.controller.Move(s.ctx, "kitchen", "sess-ann", 99)
	s.NoError(err)
	s.Nil(rm)
}

func (s *ControllerSuite) TestVerticalWinFinishesRoundAndScores() {
	s.startGame()

	// Red stacks column 3, Yellow wanders elsewhere
	s.move("sess-ann", 3)
	s.move("sess-bo", 0)
	s.move("sess-ann", 3)
	s.move("sess-bo", 1)
	s.move("sess-ann", 3)
	s.move("sess-bo", 0)
	rm := s.move("sess-ann", 3)

	s.Equal(model.StatusFinished, rm.Status)
	s.Equal(model.ColorRed, rm.Winner)
	s.Equal(1, rm.Scores[model.ColorRed])
	s.Equal(0, rm.Scores[model.ColorYellow])
	s.ElementsMatch([]model.Cell{
		{Row: 2, Col: 3}, {Row: 3, Col: 3}, {Row: 4, Col: 3}, {Row: 5, Col: 3},
	}, rm.WinningCells)
	s.Equal(model.ColorRed, rm.CurrentTurn, "turn must not flip after a terminal move")
}

func (s *ControllerSuite) TestMoveAfterFinishIsSilentlyIgnored() {
	s.startGame()
	s.move("sess-ann", 3)
	s.move("sess-bo", 0)
	s.move("sess-ann", 3)
	s.move("sess-bo", 1)
	s.move("sess-ann", 3)
	s.move("sess-bo", 0)
	s.move("sess-ann", 3) // red wins

	rm, err := s.controller.Move(s.ctx, "kitchen", "sess-bo", 2)
	s.NoError(err)
	s.Nil(rm)
}

// NextRound tests

func (s *ControllerSuite) TestNextRoundResetsBoardAndFlipsStarter() {
	s.startGame()
	s.move("sess-ann", 3)
	s.move("sess-bo", 0)
	s.move("sess-ann", 3)
	s.move("sess-bo", 1)
	s.move("sess-ann", 3)
	s.move("sess-bo", 0)
	s.move("sess-ann", 3) // red wins round one

	rm, err := s.controller.NextRound(s.ctx, "kitchen", "sess-bo")
	s.Require().NoError(err)
	s.Require().NotNil(rm)

	s.Equal(model.StatusPlaying, rm.Status)
	s.Equal(model.ColorNone, rm.Winner)
	s.Nil(rm.WinningCells)
	s.Equal(model.ColorYellow, rm.RoundStarter, "starter flips between rounds")
	s.Equal(model.ColorYellow, rm.CurrentTurn)
	s.Equal(1, rm.Scores[model.ColorRed], "scores persist across rounds")
	s.Equal(*model.NewBoard(), *rm.Board)
}

func (s *ControllerSuite) TestNextRoundAlternatesEveryRound() {
	s.startGame()

	rm, err := s.controller.NextRound(s.ctx, "kitchen", "sess-ann")
	s.Require().NoError(err)
	s.Equal(model.ColorYellow, rm.RoundStarter)

	rm, err = s.controller.NextRound(s.ctx, "kitchen", "sess-ann")
	s.Require().NoError(err)
	s.Equal(model.ColorRed, rm.RoundStarter)
}

func (s *ControllerSuite) TestNextRoundMidGameRestartsTheRound() {
	s.startGame()
	s.move("sess-ann", 3)

	rm, err := s.controller.NextRound(s.ctx, "kitchen", "sess-bo")
	s.Require().NoError(err)
	s.Require().NotNil(rm)

	s.Equal(model.StatusPlaying, rm.Status)
	s.Equal(*model.NewBoard(), *rm.Board, "a restart abandons the round in progress")
	s.Equal(model.ColorYellow, rm.CurrentTurn)
}

func (s *ControllerSuite) TestNextRoundByStrangerIsNoOp() {
	s.startGame()

	rm, err := s.controller.NextRound(s.ctx, "kitchen", "sess-nobody")
	s.NoError(err)
	s.Nil(rm)
}

// ResetScores tests

func (s *ControllerSuite) TestResetScoresZeroesCountersOnly() {
	s.startGame()
	s.move("sess-ann", 3)
	s.move("sess-bo", 0)
	s.move("sess-ann", 3)
	s.move("sess-bo", 1)
	s.move("sess-ann", 3)
	s.move("sess-bo", 0)
	s.move("sess-ann", 3) // red wins, score 1

	rm, err := s.controller.ResetScores(s.ctx, "kitchen", "sess-bo")
	s.Require().NoError(err)
	s.Require().NotNil(rm)

	s.Equal(0, rm.Scores[model.ColorRed])
	s.Equal(0, rm.Scores[model.ColorYellow])
	s.Equal(model.StatusFinished, rm.Status, "reset must not touch status")
	s.Equal(model.ColorRed, rm.Winner, "reset must not touch the round result")
}

// Leave tests

func (s *ControllerSuite) TestLeaveMidGameDegradesToLobby() {
	s.startGame()
	s.move("sess-ann", 3)

	rm, removed, err := s.controller.Leave(s.ctx, "kitchen", "sess-bo")
	s.Require().NoError(err)
	s.True(removed)
	s.Require().NotNil(rm)

	s.Equal(model.StatusLobby, rm.Status)
	s.Equal(*model.NewBoard(), *rm.Board, "board clears when a player leaves")
	s.Equal(1, rm.PlayerCount())
	s.Equal(model.ColorRed, rm.Players[0].Color, "remaining seat unaffected")
}

func (s *ControllerSuite) TestLastLeaveDestroysRoom() {
	_, err := s.controller.Join(s.ctx, "kitchen", "x", "sess-ann", "", "Ann")
	s.Require().NoError(err)

	rm, removed, err := s.controller.Leave(s.ctx, "kitchen", "sess-ann")
	s.Require().NoError(err)
	s.True(removed)
	s.Nil(rm)

	exists, _ := s.storage.RoomExists(s.ctx, "kitchen")
	s.False(exists)
}

func (s *ControllerSuite) TestRejoinAfterDrainGetsFreshRoom() {
	_, err := s.controller.Join(s.ctx, "kitchen", "old-secret", "sess-ann", "", "Ann")
	s.Require().NoError(err)
	_, _, err = s.controller.Leave(s.ctx, "kitchen", "sess-ann")
	s.Require().NoError(err)

	// Token reuse starts over with a brand-new room and password
	res, err := s.controller.Join(s.ctx, "kitchen", "new-secret", "sess-bo", "", "Bo")
	s.Require().NoError(err)
	s.True(res.Created)
	s.Equal(model.ColorRed, res.Player.Color)
}

func (s *ControllerSuite) TestLeaveByStrangerIsNoOp() {
	s.seatTwoPlayers()

	rm, removed, err := s.controller.Leave(s.ctx, "kitchen", "sess-nobody")
	s.NoError(err)
	s.False(removed)
	s.Nil(rm)
}

// Full-game draw scenario

func (s *ControllerSuite) TestDrawnRoundFinishesWithoutWinner() {
	s.startGame()

	// Target board: even rows read RRYYRRY, odd rows the inverse, so every
	// axis breaks before four in a row. Each column alternates colors
	// bottom-up starting from its "phase" color; the drop schedule zips
	// columns of opposite phase so strict red/yellow turn order holds.
	phase := []model.Color{
		model.ColorYellow, model.ColorYellow, model.ColorRed, model.ColorRed,
		model.ColorYellow, model.ColorYellow, model.ColorRed,
	}

	session := map[model.Color]model.SessionID{
		model.ColorRed:    "sess-ann",
		model.ColorYellow: "sess-bo",
	}

	var schedule []int
	// Red-phase/yellow-phase pairs, lead column swapped every layer
	for _, p := range [][2]int{{2, 0}, {3, 1}} {
		for i := 0; i < model.BoardRows; i++ {
			if i%2 == 0 {
				schedule = append(schedule, p[0], p[1])
			} else {
				schedule = append(schedule, p[1], p[0])
			}
		}
	}
	// One red-phase column is left for two yellow-phase ones; a repeating
	// six-drop cycle keeps the alternation
	for i := 0; i < 3; i++ {
		schedule = append(schedule, 6, 4, 4, 5, 5, 6)
	}

	var rm *model.Room
	height := make([]int, model.BoardCols)
	expected := model.ColorRed
	for _, col := range schedule {
		color := phase[col]
		if height[col]%2 == 1 {
			color = color.Opponent()
		}
		height[col]++
		s.Require().Equal(expected, color, "schedule must respect turn order")
		rm = s.move(session[color], col)
		expected = expected.Opponent()
	}

	s.Require().NotNil(rm)
	s.True(rm.Board.IsFull())
	s.Equal(model.StatusFinished, rm.Status)
	s.Equal(model.ColorNone, rm.Winner)
	s.Nil(rm.WinningCells)
	s.Equal(0, rm.Scores[model.ColorRed])
	s.Equal(0, rm.Scores[model.ColorYellow])
}
