package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"pokerarena-server/pkg/arena"
)

const requestTimeout = time.Second * 10

// reviewWait is how long the table lingers after a hand waiting for
// the coach's take before offering the next deal
const reviewWait = time.Second * 3

func main() {
	server := flag.String("server", "http://localhost:5080", "poker arena server address")
	name := flag.String("name", "", "your display name")
	opponents := flag.Int("opponents", 0, "number of AI opponents (server default when 0)")
	variant := flag.String("variant", "", "deck variant (standard or short-deck)")
	maxHands := flag.Int("hands", 0, "hands in the session (server default when 0)")
	flag.Parse()

	pterm.Print("\n")
	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("P", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("oker ", pterm.FgDarkGray.ToStyle()),
		putils.LettersFromStringWithStyle("A", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("rena", pterm.FgDarkGray.ToStyle()),
	).Srender()
	if err == nil {
		pterm.Print(title)
	}

	playerName := *name
	if playerName == "" {
		playerName, _ = pterm.DefaultInteractiveTextInput.WithDefaultText("Enter your username").Show()
		pterm.Println()
	}

	c := &client{
		baseURL: strings.TrimRight(*server, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}

	spinner, _ := pterm.DefaultSpinner.Start("Creating the session...")
	state, err := c.createSession(playerName, *opponents, *variant, *maxHands)
	if err != nil {
		spinner.Fail(err.Error())
		os.Exit(1)
	}
	spinner.Success()

	events, err := c.subscribe()
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}

	c.play(state, events)

	pterm.Println()
	pterm.Println("Thank you for playing...")
}

type client struct {
	baseURL  string
	http     *http.Client
	arenaID  string
	playerID string
	token    string
}

type wsEvent struct {
	Key  string          `json:"key"`
	Data json.RawMessage `json:"data"`
}

type createSessionPayload struct {
	Name      string `json:"name,omitempty"`
	Variant   string `json:"variant,omitempty"`
	Opponents int    `json:"opponents,omitempty"`
	MaxHands  int    `json:"maxHands,omitempty"`
}

type createSessionResponse struct {
	ID       string       `json:"id"`
	PlayerID string       `json:"playerId"`
	Token    string       `json:"token"`
	State    *arena.State `json:"state"`
}

func (c *client) createSession(name string, opponents int, variant string, maxHands int) (*arena.State, error) {
	var resp createSessionResponse
	err := c.do(http.MethodPost, "/arena", createSessionPayload{
		Name:      name,
		Variant:   variant,
		Opponents: opponents,
		MaxHands:  maxHands,
	}, &resp)
	if err != nil {
		return nil, err
	}

	c.arenaID = resp.ID
	c.playerID = resp.PlayerID
	c.token = resp.Token
	return resp.State, nil
}

// play drives the session until it ends or the player walks away
func (c *client) play(state *arena.State, events <-chan wsEvent) {
	for {
		render(state, c.playerID)

		if state.SessionOver {
			renderFinalStandings(state.Standings, c.playerID)
			return
		}

		if state.Table.HandOver {
			// the coach's review arrives after the hand resolves
			if state.Table.HandNumber > 0 && state.Review == "" {
				if next, ok := c.awaitEvent(events, reviewWait); ok {
					state = next
					continue
				}
			}

			deal, _ := pterm.DefaultInteractiveConfirm.
				WithDefaultText("Deal the next hand?").WithDefaultValue(true).Show()
			if !deal {
				return
			}

			next, err := c.deal()
			if err != nil {
				pterm.Error.Println(err.Error())
				next, err = c.refresh()
				if err != nil {
					pterm.Error.Println(err.Error())
					return
				}
			}
			state = next
			continue
		}

		if state.Table.CurrentTurn == c.playerID {
			state = c.promptAction(state)
			continue
		}

		next, err := c.waitForUpdate(state, events)
		if err != nil {
			pterm.Error.Println(err.Error())
			return
		}
		state = next
	}
}

// promptAction asks the player for their move and submits it
func (c *client) promptAction(state *arena.State) *arena.State {
	actions := []string{"Fold", "Check", "Call", "Raise", "All-In"}

	for {
		selected, _ := pterm.DefaultInteractiveSelect.
			WithDefaultText("Select your next action").WithOptions(actions).Show()

		amount := 0
		if selected == "Raise" {
			prompt := fmt.Sprintf("Enter the amount to raise to (min %d)", state.Table.MinRaise)
			raw, _ := pterm.DefaultInteractiveTextInput.WithDefaultText(prompt).Show()
			amount, _ = strconv.Atoi(strings.TrimSpace(raw))
		}

		next, err := c.act(strings.ToLower(selected), amount)
		if err != nil {
			pterm.Error.Printfln("Invalid action: %s", err.Error())
			if next, refreshErr := c.refresh(); refreshErr == nil && next.Table.CurrentTurn != c.playerID {
				return next
			}
			continue
		}

		return next
	}
}

// waitForUpdate blocks until the table changes
func (c *client) waitForUpdate(state *arena.State, events <-chan wsEvent) (*arena.State, error) {
	text := "Waiting ..."
	if state.Table.AllInShowdown {
		text = "Running out the board ..."
	} else if name := seatName(state.Table, state.Table.CurrentTurn); name != "" {
		text = pterm.Sprintf("Waiting for %s to act ...", pterm.LightCyan(name))
	}

	spinner, _ := pterm.DefaultSpinner.Start(text)
	defer func() {
		_ = spinner.Stop()
	}()

	if _, ok := <-events; !ok {
		return nil, errors.New("connection closed")
	}

	return c.refresh()
}

// awaitEvent waits up to timeout for the next event, refreshing the
// state when one arrives
func (c *client) awaitEvent(events <-chan wsEvent, timeout time.Duration) (*arena.State, bool) {
	select {
	case _, ok := <-events:
		if !ok {
			return nil, false
		}

		state, err := c.refresh()
		if err != nil {
			return nil, false
		}
		return state, true
	case <-time.After(timeout):
		return nil, false
	}
}

func (c *client) deal() (*arena.State, error) {
	var state arena.State
	if err := c.do(http.MethodPost, "/arena/"+c.arenaID+"/deal", struct{}{}, &state); err != nil {
		return nil, err
	}

	return &state, nil
}

type actionPayload struct {
	Action string `json:"action"`
	Amount int    `json:"amount"`
}

func (c *client) act(action string, amount int) (*arena.State, error) {
	var state arena.State
	payload := actionPayload{Action: action, Amount: amount}
	if err := c.do(http.MethodPost, "/arena/"+c.arenaID+"/action", payload, &state); err != nil {
		return nil, err
	}

	return &state, nil
}

func (c *client) refresh() (*arena.State, error) {
	var state arena.State
	if err := c.do(http.MethodGet, "/arena/"+c.arenaID, nil, &state); err != nil {
		return nil, err
	}

	return &state, nil
}

// subscribe opens the websocket and pumps events onto a channel. The
// frames themselves only signal that something changed; the client
// refreshes over HTTP to see its own cards.
func (c *client) subscribe() (<-chan wsEvent, error) {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL+"/arena/"+c.arenaID+"/ws?access_token="+c.token, nil)
	if resp != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	events := make(chan wsEvent, 16)
	go func() {
		defer close(events)
		defer func() {
			_ = conn.Close()
		}()

		for {
			var event wsEvent
			if err := conn.ReadJSON(&event); err != nil {
				return
			}

			events <- event
		}
	}()

	return events, nil
}

func (c *client) do(method, path string, payload, respObj interface{}) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}

		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusMultipleChoices {
		var errResp struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Message == "" {
			errResp.Message = resp.Status
		}

		return errors.New(errResp.Message)
	}

	if respObj != nil {
		return json.NewDecoder(resp.Body).Decode(respObj)
	}

	return nil
}
