// Package arena runs training sessions: it owns the game loop, asks the
// advisor for AI decisions, keeps the session score, and broadcasts
// state to subscribers.
package arena

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pokerarena-server/pkg/deck"
	"pokerarena-server/pkg/history"
	"pokerarena-server/pkg/poker/action"
	"pokerarena-server/pkg/poker/ai"
	"pokerarena-server/pkg/poker/equity"
	"pokerarena-server/pkg/poker/holdem"
	"pokerarena-server/pkg/poker/scoreboard"
)

// errors a caller may act on
var (
	ErrClosed          = errors.New("arena: session is closed")
	ErrSessionOver     = errors.New("arena: session is over")
	ErrHandInProgress  = errors.New("arena: hand still in progress")
	ErrAdvisorRequired = errors.New("arena: an advisor is required for AI seats")
)

const commandBuffer = 256

// Delays paces the automatic parts of a hand so spectators can follow
// along. Zero values run the hand as fast as the queue drains.
type Delays struct {
	Street time.Duration
	Think  time.Duration
	Runout time.Duration
}

// DefaultDelays returns the pacing used in live sessions
func DefaultDelays() Delays {
	return Delays{
		Street: 500 * time.Millisecond,
		Think:  time.Second,
		Runout: 1200 * time.Millisecond,
	}
}

// Config configures a session
type Config struct {
	Logger    logrus.FieldLogger
	Seats     []holdem.Seat
	Options   holdem.Options
	MaxHands  int
	Advisor   ai.Advisor
	Estimator *equity.Estimator
	History   *history.Store
	Delays    Delays
}

// Arena is one training session. All game state is owned by a single
// run loop; every mutation goes through the command queue.
type Arena struct {
	id      uuid.UUID
	log     logrus.FieldLogger
	game    *holdem.Game
	ledger  *scoreboard.Ledger
	advisor ai.Advisor
	est     *equity.Estimator
	store   *history.Store
	delays  Delays
	humanID string

	commands    chan func()
	done        chan struct{}
	closeOnce   sync.Once
	subscribers map[chan *Event]bool

	// decisionSeq invalidates in-flight advisor requests once the state
	// they were asked about has moved on
	decisionSeq      int
	advanceScheduled bool
	sessionOver      bool
	humanEquity      float64
	lastReview       string
}

// Event is a message pushed to subscribers
type Event struct {
	Key  string      `json:"key"`
	Data interface{} `json:"data,omitempty"`
}

// event keys
const (
	EventState        = "state"
	EventReview       = "review"
	EventSessionEnded = "sessionEnded"
)

// NewArena creates a session and starts its run loop
func NewArena(cfg Config) (*Arena, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	humanID := ""
	needsAdvisor := false
	for _, seat := range cfg.Seats {
		switch seat.Type {
		case holdem.PlayerTypeHuman:
			if humanID == "" {
				humanID = seat.ID
			}
		case holdem.PlayerTypeAI:
			needsAdvisor = true
		}
	}

	if needsAdvisor && cfg.Advisor == nil {
		return nil, ErrAdvisorRequired
	}

	game, err := holdem.NewGame(logger, cfg.Seats, cfg.Options)
	if err != nil {
		return nil, err
	}

	ledger := scoreboard.New(cfg.MaxHands)
	ledger.Init(ledgerSeats(game))

	est := cfg.Estimator
	if est == nil {
		est = equity.NewEstimator(nil)
	}

	id := uuid.New()
	a := &Arena{
		id:          id,
		log:         logger.WithField("arena", id.String()),
		game:        game,
		ledger:      ledger,
		advisor:     cfg.Advisor,
		est:         est,
		store:       cfg.History,
		delays:      cfg.Delays,
		humanID:     humanID,
		commands:    make(chan func(), commandBuffer),
		done:        make(chan struct{}),
		subscribers: make(map[chan *Event]bool),
	}

	go a.runLoop()
	return a, nil
}

func (a *Arena) runLoop() {
	a.log.Debug("starting arena run loop")
	for {
		select {
		case fn := <-a.commands:
			fn()
		case <-a.done:
			a.log.Debug("terminating arena run loop")
			for ch := range a.subscribers {
				close(ch)
			}
			return
		}
	}
}

// ID returns the session identifier
func (a *Arena) ID() uuid.UUID {
	return a.id
}

// HumanID returns the seat the session is coaching, if any
func (a *Arena) HumanID() string {
	return a.humanID
}

// Close stops the run loop and drops all subscribers
func (a *Arena) Close() {
	a.closeOnce.Do(func() {
		close(a.done)
	})
}

// do runs fn on the run loop and waits for it to finish
func (a *Arena) do(fn func()) error {
	ran := make(chan struct{})
	select {
	case a.commands <- func() {
		fn()
		close(ran)
	}:
	case <-a.done:
		return ErrClosed
	}

	select {
	case <-ran:
		return nil
	case <-a.done:
		return ErrClosed
	}
}

// enqueue schedules fn on the run loop without waiting
func (a *Arena) enqueue(fn func()) {
	select {
	case a.commands <- fn:
	case <-a.done:
	}
}

// after schedules fn on the run loop once the delay passes
func (a *Arena) after(delay time.Duration, fn func()) {
	if delay <= 0 {
		a.enqueue(fn)
		return
	}

	time.AfterFunc(delay, func() {
		a.enqueue(fn)
	})
}

// StartHand deals the next hand of the session
func (a *Arena) StartHand() error {
	var err error
	if doErr := a.do(func() {
		if a.sessionOver {
			err = ErrSessionOver
			return
		}

		if a.game.HandNumber() > 0 && !a.game.HandOver() {
			err = ErrHandInProgress
			return
		}

		if err = a.game.DealHand(0); err != nil {
			return
		}

		// the capture happens after the blinds are posted, so blinds
		// count toward the pot winner's delta
		a.ledger.CapturePreHand(ledgerSeats(a.game))

		a.decisionSeq++
		a.updateEquity()
		a.broadcastState()
		a.pump()
	}); doErr != nil {
		return doErr
	}

	return err
}

// Act applies a human action to the game
func (a *Arena) Act(playerID string, act action.Action, amount int) error {
	var err error
	if doErr := a.do(func() {
		if a.sessionOver {
			err = ErrSessionOver
			return
		}

		if err = a.game.Act(playerID, act, amount); err != nil {
			return
		}

		a.afterAction()
	}); doErr != nil {
		return doErr
	}

	return err
}

// afterAction runs the common post-action pipeline. Run loop only.
func (a *Arena) afterAction() {
	a.decisionSeq++
	a.updateEquity()
	a.broadcastState()
	a.pump()
}

// pump schedules whatever the hand is waiting on: a street advance, an
// AI decision, or nothing when it is the human's turn. Run loop only.
func (a *Arena) pump() {
	if a.game.HandOver() || a.sessionOver {
		return
	}

	if a.game.StreetComplete() {
		if a.advanceScheduled {
			return
		}

		a.advanceScheduled = true
		delay := a.delays.Street
		if a.game.AllInShowdown() {
			delay = a.delays.Runout
		}

		a.after(delay, a.advance)
		return
	}

	turn := a.game.CurrentTurn()
	if turn == nil || turn.Type != holdem.PlayerTypeAI {
		return
	}

	a.scheduleDecision(turn.ID)
}

// advance moves to the next street. Run loop only.
func (a *Arena) advance() {
	a.advanceScheduled = false
	if a.game.HandOver() || !a.game.StreetComplete() {
		return
	}

	if err := a.game.AdvancePhase(); err != nil {
		a.log.WithError(err).Error("could not advance phase")
		return
	}

	a.decisionSeq++
	a.updateEquity()
	a.broadcastState()

	if a.game.HandOver() {
		a.finishHand()
		return
	}

	a.pump()
}

// scheduleDecision asks the advisor for the seat's move after the think
// delay. The reply is dropped if the game moved on in the meantime.
// Run loop only.
func (a *Arena) scheduleDecision(seatID string) {
	seq := a.decisionSeq
	view := a.game.Snapshot(seatID)

	a.after(a.delays.Think, func() {
		if seq != a.decisionSeq {
			return
		}

		go a.requestDecision(seq, seatID, view)
	})
}

// requestDecision calls the advisor off the run loop, then hands the
// result back to it
func (a *Arena) requestDecision(seq int, seatID string, view *holdem.TableView) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	proposal, err := a.advisor.ProposeAction(ctx, view, seatID)

	a.enqueue(func() {
		if seq != a.decisionSeq {
			a.log.WithField("seat", seatID).Debug("dropping stale advisor decision")
			return
		}

		turn := a.game.CurrentTurn()
		if turn == nil || turn.ID != seatID {
			return
		}

		act, amount := a.decide(turn, proposal, err)
		if actErr := a.game.Act(seatID, act, amount); actErr != nil {
			a.log.WithError(actErr).WithField("seat", seatID).Error("AI action failed")
			return
		}

		a.afterAction()
	})
}

// decide turns an advisor reply into a concrete action. When the
// advisor failed, the seat checks if that is free and folds otherwise.
func (a *Arena) decide(turn *holdem.Player, proposal *ai.Proposal, err error) (action.Action, int) {
	if err != nil || proposal == nil {
		a.log.WithError(err).WithField("seat", turn.ID).Warn("advisor unavailable, using fallback")
		if turn.CurrentBet() == a.game.CurrentBet() {
			return action.Check, 0
		}

		return action.Fold, 0
	}

	return proposal.Action, proposal.Amount
}

// finishHand settles the books once a hand resolves. Run loop only.
func (a *Arena) finishHand() {
	a.ledger.RecordPostHand(ledgerSeats(a.game))
	if a.ledger.SessionOver() {
		a.sessionOver = true
	}

	// subscribers need a frame with the settled standings
	a.broadcastState()

	a.recordHistory()
	a.requestReview()

	if a.sessionOver {
		a.broadcast(&Event{Key: EventSessionEnded, Data: a.ledger.Ranking()})
	}
}

// recordHistory persists the finished hand. Run loop only.
func (a *Arena) recordHistory() {
	if a.store == nil {
		return
	}

	view := a.game.Snapshot("")
	payload, err := json.Marshal(view)
	if err != nil {
		a.log.WithError(err).Error("could not encode hand payload")
		return
	}

	entry := &history.Entry{
		SessionID:  a.id,
		HandNumber: a.game.HandNumber(),
		Variant:    string(view.Variant),
		Board:      boardString(view),
		Winners:    view.Winners,
		Pot:        view.Pot,
		Payload:    payload,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := a.store.Record(ctx, entry); err != nil {
			a.log.WithError(err).Error("could not record hand history")
		}
	}()
}

// requestReview asks the advisor for a coaching review of the finished
// hand. Run loop only.
func (a *Arena) requestReview() {
	if a.advisor == nil {
		return
	}

	view := a.game.Snapshot("")
	handNumber := a.game.HandNumber()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		review, err := a.advisor.SummarizeHand(ctx, view)
		if err != nil {
			a.log.WithError(err).Warn("could not get hand review")
			return
		}

		a.enqueue(func() {
			a.lastReview = review
			a.broadcast(&Event{Key: EventReview, Data: review})
		})

		if a.store != nil {
			if err := a.store.SetReview(ctx, a.id, handNumber, review); err != nil {
				a.log.WithError(err).Error("could not save hand review")
			}
		}
	}()
}

// updateEquity recomputes the human seat's win probability. Run loop
// only.
func (a *Arena) updateEquity() {
	if a.humanID == "" {
		return
	}

	_, p := playerByID(a.game, a.humanID)
	if p == nil || p.Folded() || a.game.HandOver() {
		a.humanEquity = 0
		return
	}

	a.humanEquity = a.est.Estimate(
		p.HoleCards(),
		a.game.Community(),
		a.game.LiveOpponents(a.humanID),
		a.game.Options().Variant,
	)
}

func ledgerSeats(game *holdem.Game) []scoreboard.Seat {
	players := game.Players()
	seats := make([]scoreboard.Seat, len(players))
	for i, p := range players {
		seats[i] = scoreboard.Seat{ID: p.ID, Name: p.Name, Chips: p.Chips()}
	}

	return seats
}

func playerByID(game *holdem.Game, id string) (int, *holdem.Player) {
	for i, p := range game.Players() {
		if p.ID == id {
			return i, p
		}
	}

	return -1, nil
}

func boardString(view *holdem.TableView) string {
	return deck.CardsToString(view.Community)
}
