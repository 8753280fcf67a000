package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case RoomList:
		o.printRoomList(v)
	case Room:
		o.printRoom(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// RoomSummary response type (matches API)
type RoomSummary struct {
	Token       string `json:"token"`
	Status      string `json:"status"`
	PlayerCount int    `json:"playerCount"`
}

// RoomList response type
type RoomList struct {
	Rooms []RoomSummary `json:"rooms"`
}

// PlayerInfo response type
type PlayerInfo struct {
	Color  string `json:"color"`
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Avatar string `json:"avatar"`
}

// Room response type
type Room struct {
	Token       string         `json:"token"`
	Board       [][]string     `json:"board"`
	CurrentTurn string         `json:"currentPlayer"`
	Scores      map[string]int `json:"scores"`
	Status      string         `json:"gameStatus"`
	Winner      string         `json:"winner"`
	PlayerCount int            `json:"playerCount"`
	Players     []PlayerInfo   `json:"players"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRoomList(l RoomList) {
	if len(l.Rooms) == 0 {
		fmt.Println("No open rooms")
		return
	}
	fmt.Printf("Rooms (%d):\n", len(l.Rooms))
	for _, r := range l.Rooms {
		fmt.Printf("  %-16s %-10s %d/2 players\n", r.Token, r.Status, r.PlayerCount)
	}
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s\n", r.Token)
	fmt.Printf("Status: %s\n", r.Status)
	if r.CurrentTurn != "" {
		fmt.Printf("Turn: %s\n", r.CurrentTurn)
	}
	if r.Winner != "" {
		fmt.Printf("Winner: %s\n", r.Winner)
	}

	fmt.Printf("Players (%d):\n", r.PlayerCount)
	for _, p := range r.Players {
		readyStr := ""
		if p.Ready {
			readyStr = " [ready]"
		}
		fmt.Printf("  %s %s (%s, %d wins)%s\n", p.Avatar, p.Name, p.Color, r.Scores[p.Color], readyStr)
	}

	if len(r.Board) > 0 {
		fmt.Println()
		printBoard(r.Board)
	}
}

// printBoard renders the board with column numbers, bottom row last
func printBoard(board [][]string) {
	fmt.Print(" ")
	for col := range board[0] {
		fmt.Printf(" %d ", col)
	}
	fmt.Println()

	for _, row := range board {
		fmt.Print("|")
		for _, cell := range row {
			switch cell {
			case "red":
				fmt.Print(" R ")
			case "yellow":
				fmt.Print(" Y ")
			default:
				fmt.Print(" . ")
			}
		}
		fmt.Println("|")
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
