package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/dropfour/dropfour/internal/model"
	"github.com/dropfour/dropfour/internal/realtime"
)

func newPlayCmd() *cobra.Command {
	var (
		secret string
		name   string
		seat   string
	)

	cmd := &cobra.Command{
		Use:   "play <token>",
		Short: "Join a room and play interactively",
		Long: `Connect to the realtime websocket, join the room and play from the
terminal. The first join with a token creates the room.

Commands during play:
  ready        toggle your ready state
  start        start the game once both players are ready
  move <col>   drop a disc into a column (0-6)
  next         start the next round after a finished game
  reset        reset both scores to zero
  quit         leave the room and exit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return playRoom(args[0], secret, name, seat)
		},
	}

	cmd.Flags().StringVarP(&secret, "secret", "s", "", "Room password")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name")
	cmd.Flags().StringVar(&seat, "seat", "", "Seat token from an earlier session, to reclaim your color")

	return cmd
}

func playRoom(token, secret, name, seat string) error {
	conn, _, err := websocket.DefaultDialer.Dial(client.WebsocketURL(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() { _ = conn.Close() }()

	roomToken := model.RoomToken(token)

	if err := sendIntent(conn, realtime.IntentJoinRoom, realtime.JoinRoomPayload{
		Token:       roomToken,
		Secret:      secret,
		DisplayName: name,
		SeatToken:   model.SeatToken(seat),
	}); err != nil {
		return err
	}

	// Print server events until the connection drops
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var env realtime.Envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			printEvent(env)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-done:
			return fmt.Errorf("connection closed by server")
		default:
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "ready":
			err = sendIntent(conn, realtime.IntentToggleReady, realtime.RoomPayload{Token: roomToken})
		case "start":
			err = sendIntent(conn, realtime.IntentStartGame, realtime.RoomPayload{Token: roomToken})
		case "move":
			if len(fields) != 2 {
				fmt.Println("usage: move <col>")
				continue
			}
			col, convErr := strconv.Atoi(fields[1])
			if convErr != nil {
				fmt.Println("usage: move <col>")
				continue
			}
			err = sendIntent(conn, realtime.IntentMakeMove, realtime.MovePayload{Token: roomToken, Column: col})
		case "next":
			err = sendIntent(conn, realtime.IntentNextRound, realtime.RoomPayload{Token: roomToken})
		case "reset":
			err = sendIntent(conn, realtime.IntentResetScores, realtime.RoomPayload{Token: roomToken})
		case "quit":
			return nil
		default:
			fmt.Printf("unknown command: %s\n", fields[0])
			continue
		}
		if err != nil {
			return err
		}
	}

	return scanner.Err()
}

func sendIntent(conn *websocket.Conn, msgType string, payload any) error {
	message, err := realtime.Encode(msgType, payload)
	if err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
		return fmt.Errorf("failed to send %s: %w", msgType, err)
	}
	return nil
}

func printEvent(env realtime.Envelope) {
	switch env.Type {
	case realtime.EventAssigned:
		assigned, err := realtime.DecodePayload[realtime.AssignedPayload](env)
		if err != nil {
			return
		}
		fmt.Printf("You are playing %s (seat token: %s)\n", assigned.Color, assigned.SeatToken)

	case realtime.EventError:
		payload, err := realtime.DecodePayload[realtime.ErrorPayload](env)
		if err != nil {
			return
		}
		fmt.Printf("Server: %s\n", payload.Message)

	case realtime.EventUpdate:
		snap, err := realtime.DecodePayload[model.Snapshot](env)
		if err != nil {
			return
		}
		printSnapshot(snap)
	}
}

func printSnapshot(snap model.Snapshot) {
	fmt.Printf("\n[%s]", snap.Status)
	if snap.CurrentTurn != "" && snap.Status == model.StatusPlaying {
		fmt.Printf(" %s to move", snap.CurrentTurn)
	}
	if snap.Status == model.StatusFinished {
		if snap.Winner == "" {
			fmt.Print(" draw")
		} else {
			fmt.Printf(" %s wins", snap.Winner)
		}
	}
	fmt.Println()

	for _, p := range snap.Players {
		readyStr := ""
		if p.Ready {
			readyStr = " [ready]"
		}
		fmt.Printf("  %s %s (%s, %d wins)%s\n", p.Avatar, p.Name, p.Color, snap.Scores[p.Color], readyStr)
	}

	board := make([][]string, len(snap.Board))
	for row := range snap.Board {
		board[row] = make([]string, len(snap.Board[row]))
		for col, cell := range snap.Board[row] {
			board[row][col] = string(cell)
		}
	}
	printBoard(board)
}
