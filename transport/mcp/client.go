package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/playzone-arcade/game/engine"
	"github.com/wricardo/playzone-arcade/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"PlayZone Arcade",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`PlayZone Arcade - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAMES:
- Number guess: find a hidden number with higher/lower hints
- Rock paper scissors: one stateless round per call
- Tic-tac-toe: you are X, the computer answers as O
- Memory match: flip cards two at a time to find pairs
- Snake: steer one cell per move, eat food, avoid walls and yourself

Start a game with start_* to get a game_id, then pass it to the game's
action tool. Pass player_id on any action to record the final score.
Call game_instructions for the full rules.`),
	)

	c.registerTools()
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func intProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

func enumProp(description string, values ...string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "enum": values, "description": description}
}

var (
	gameIDProp     = stringProp("Game ID returned by the start tool")
	playerIDProp   = stringProp("Player ID to record the final score for (optional)")
	difficultyProp = enumProp("Difficulty (default medium)", "easy", "medium", "hard")
)

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Number guess
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_number_guess",
		Description: "Start a number guessing game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"difficulty": difficultyProp},
		},
	}, c.handleStartNumberGuess)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "guess_number",
		Description: "Guess the hidden number",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id":   gameIDProp,
				"guess":     intProp("Your guess"),
				"player_id": playerIDProp,
			},
			Required: []string{"game_id", "guess"},
		},
	}, c.handleGuess)

	// Rock paper scissors
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "play_rps",
		Description: "Play one round of rock paper scissors",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"choice":    enumProp("Your throw", "rock", "paper", "scissors"),
				"player_id": playerIDProp,
			},
			Required: []string{"choice"},
		},
	}, c.handlePlayRPS)

	// Tic-tac-toe
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_tictactoe",
		Description: "Start a tic-tac-toe game against the computer",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleStartTicTacToe)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "tictactoe_move",
		Description: "Place X on a cell (0-8, row-major); the computer replies as O",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id":   gameIDProp,
				"position":  intProp("Cell index 0-8"),
				"player_id": playerIDProp,
			},
			Required: []string{"game_id", "position"},
		},
	}, c.handleTicTacToeMove)

	// Memory
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_memory",
		Description: "Start a memory match game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"difficulty": difficultyProp},
		},
	}, c.handleStartMemory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "flip_card",
		Description: "Flip a face-down card",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id":    gameIDProp,
				"card_index": intProp("Card index, row-major from 0"),
				"player_id":  playerIDProp,
			},
			Required: []string{"game_id", "card_index"},
		},
	}, c.handleFlipCard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "hide_cards",
		Description: "Turn an unmatched pair face down so you can flip again",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"game_id": gameIDProp},
			Required:   []string{"game_id"},
		},
	}, c.handleHideCards)

	// Snake
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_snake",
		Description: "Start a snake game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleStartSnake)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "snake_move",
		Description: "Advance the snake one cell, optionally turning first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id":   gameIDProp,
				"direction": enumProp("New heading (optional, keeps the current one)", "up", "down", "left", "right"),
				"player_id": playerIDProp,
			},
			Required: []string{"game_id"},
		},
	}, c.handleSnakeMove)

	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_type": stringProp("Only list sessions of this game (optional)"),
			},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get the current view of a game session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"game_id": gameIDProp},
			Required:   []string{"game_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_session",
		Description: "End and remove a game session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"game_id": gameIDProp},
			Required:   []string{"game_id"},
		},
	}, c.handleDeleteSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_presets",
		Description: "List games and difficulty presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPresets)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of every arcade game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall makes an HTTP request to the REST API
func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			if kind := errResp["kind"]; kind != "" {
				return fmt.Errorf("%s (%s)", msg, kind)
			}
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// actionBody builds a request body carrying game_id and the optional
// player_id
func actionBody(args map[string]interface{}) map[string]interface{} {
	gameID, _ := args["game_id"].(string)
	body := map[string]interface{}{"game_id": gameID}
	if playerID, _ := args["player_id"].(string); playerID != "" {
		body["player_id"] = playerID
	}
	return body
}

// startBody forwards an optional difficulty
func startBody(args map[string]interface{}) map[string]interface{} {
	body := map[string]interface{}{}
	if difficulty, _ := args["difficulty"].(string); difficulty != "" {
		body["difficulty"] = difficulty
	}
	return body
}

// Tool handlers

func (c *Client) handleStartNumberGuess(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var result numberGuessStart
	if err := c.apiCall("POST", "/api/number-guess/start", startBody(arguments(request)), &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatNumberGuessStart(&result)), nil
}

func (c *Client) handleGuess(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	guess, ok := intArg(args, "guess")
	if !ok {
		return mcp.NewToolResultError("guess must be a number"), nil
	}
	body := actionBody(args)
	body["guess"] = guess

	var result guessResponse
	if err := c.apiCall("POST", "/api/number-guess/guess", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGuess(&result)), nil
}

func (c *Client) handlePlayRPS(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	choice, _ := args["choice"].(string)
	body := map[string]interface{}{"choice": choice}
	if playerID, _ := args["player_id"].(string); playerID != "" {
		body["player_id"] = playerID
	}

	var result engine.RPSOutcome
	if err := c.apiCall("POST", "/api/rps/play", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatRPS(&result)), nil
}

func (c *Client) handleStartTicTacToe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var result ticTacToeStart
	if err := c.apiCall("POST", "/api/tictactoe/start", nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Tic-tac-toe started. Game ID: %s\nYou are X.\n\n%s",
		result.GameID, formatBoard(result.Board))), nil
}

func (c *Client) handleTicTacToeMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	position, ok := intArg(args, "position")
	if !ok {
		return mcp.NewToolResultError("position must be a number"), nil
	}
	body := actionBody(args)
	body["position"] = position

	var result ticTacToeResponse
	if err := c.apiCall("POST", "/api/tictactoe/move", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatTicTacToeMove(&result)), nil
}

func (c *Client) handleStartMemory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var result memoryStart
	if err := c.apiCall("POST", "/api/memory/start", startBody(arguments(request)), &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Memory match started. Game ID: %s\n%d pairs on a %dx%d grid.\n\n%s",
		result.GameID, result.TotalPairs, result.GridSize, result.GridSize, formatMemoryView(&result.MemoryView))), nil
}

func (c *Client) handleFlipCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	index, ok := intArg(args, "card_index")
	if !ok {
		return mcp.NewToolResultError("card_index must be a number"), nil
	}
	body := actionBody(args)
	body["card_index"] = index

	var result flipResponse
	if err := c.apiCall("POST", "/api/memory/flip", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatFlip(&result)), nil
}

func (c *Client) handleHideCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var result engine.HideOutcome
	if err := c.apiCall("POST", "/api/memory/hide-cards", actionBody(arguments(request)), &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	faceUp := 0
	for _, r := range result.Revealed {
		if r {
			faceUp++
		}
	}
	return mcp.NewToolResultText(fmt.Sprintf("Unmatched cards hidden. %d cards face up.", faceUp)), nil
}

func (c *Client) handleStartSnake(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var result snakeStart
	if err := c.apiCall("POST", "/api/snake/start", nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Snake started. Game ID: %s\n\n%s",
		result.GameID, formatSnake(result.Snake, result.Food, result.GridSize, result.Direction, result.Score))), nil
}

func (c *Client) handleSnakeMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	body := actionBody(args)
	if direction, _ := args["direction"].(string); direction != "" {
		body["direction"] = direction
	}

	var result snakeResponse
	if err := c.apiCall("POST", "/api/snake/move", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSnakeMove(&result)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := "/api/sessions"
	if gameType, _ := arguments(request)["game_type"].(string); gameType != "" {
		path += "?game_type=" + gameType
	}

	var result struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall("GET", path, nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionList(result.Sessions)), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, _ := arguments(request)["game_id"].(string)

	var result service.SessionInfo
	if err := c.apiCall("GET", "/api/sessions/"+gameID, nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&result)), nil
}

func (c *Client) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, _ := arguments(request)["game_id"].(string)

	if err := c.apiCall("DELETE", "/api/sessions/"+gameID, nil, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Session %s deleted", gameID)), nil
}

func (c *Client) handleListPresets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var result []*service.PresetInfo
	if err := c.apiCall("GET", "/api/presets", nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatPresets(result)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `PlayZone Arcade - Game Rules

NUMBER GUESS:
- A target is drawn from the difficulty's range: easy 1-50, medium 1-100, hard 1-200.
- You have 10 attempts. Each wrong guess tells you to go higher or lower.
- Winning scores max(1, attempts left + 1); running out scores 0.

ROCK PAPER SCISSORS:
- Rock beats scissors, scissors beats paper, paper beats rock.
- Each call is one independent round. A win scores 1.

TIC-TAC-TOE:
- Cells are numbered 0-8, row-major:
    0 | 1 | 2
    3 | 4 | 5
    6 | 7 | 8
- You play X and move first. The computer replies as O immediately.
- The computer wins when it can, blocks your wins, then takes the center,
  then a corner, then any cell.
- A win scores 3, a tie 1.

MEMORY MATCH:
- Grids are 4x4 (easy), 6x6 (medium) or 8x8 (hard). Every value appears twice.
- Flip two cards. A match stays face up. A mismatch stays visible until you
  call hide_cards, and you must hide before flipping again.
- Clearing the board scores max(1, pairs x 3 - moves + 1).

SNAKE:
- 20x20 grid. The snake starts at (10,10) heading right, food at (15,15).
- Each move advances one cell. Turning straight back is ignored.
- Eating food grows the snake and scores 10.
- Hitting a wall or your own body ends the game. Your score is final.

SCORES:
- Pass player_id on the action that ends a game to record its score.
`
