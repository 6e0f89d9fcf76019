package humanbridge_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokerengine/internal/engine"
	"github.com/lox/pokerengine/internal/humanbridge"
	"github.com/lox/pokerengine/internal/strategy"
)

func TestSubmitDeliversActionToWaitingDecide(t *testing.T) {
	bridge := humanbridge.New()
	strat := humanbridge.NewStrategy(bridge, nil)

	result := make(chan engine.PlayerAction, 1)
	go func() {
		result <- strat.Decide(strategy.CurrentHandContext{
			Hero:         strategy.HeroContext{Seat: 2},
			LegalActions: []engine.ActionType{engine.Fold, engine.Call, engine.Raise},
		})
	}()

	time.Sleep(10 * time.Millisecond)
	bridge.Submit(engine.PlayerAction{Seat: 2, Type: engine.Call, Amount: 10})

	select {
	case action := <-result:
		require.Equal(t, engine.PlayerAction{Seat: 2, Type: engine.Call, Amount: 10}, action)
	case <-time.After(time.Second):
		t.Fatal("Decide never returned")
	}
}

func TestCancelDeliversFold(t *testing.T) {
	bridge := humanbridge.New()
	strat := humanbridge.NewStrategy(bridge, nil)

	result := make(chan engine.PlayerAction, 1)
	go func() {
		result <- strat.Decide(strategy.CurrentHandContext{Hero: strategy.HeroContext{Seat: 0}})
	}()

	time.Sleep(10 * time.Millisecond)
	bridge.Cancel(0)

	select {
	case action := <-result:
		require.Equal(t, engine.Fold, action.Type)
		require.Equal(t, 0, action.Seat)
	case <-time.After(time.Second):
		t.Fatal("Decide never returned")
	}
}

func TestOnAwaitingInputFiresWithSeatAndLegalActions(t *testing.T) {
	bridge := humanbridge.New()

	type call struct {
		seat  int
		legal []engine.ActionType
	}
	calls := make(chan call, 1)
	strat := humanbridge.NewStrategy(bridge, func(seat int, legal []engine.ActionType) {
		calls <- call{seat: seat, legal: legal}
	})

	go strat.Decide(strategy.CurrentHandContext{
		Hero:         strategy.HeroContext{Seat: 3},
		LegalActions: []engine.ActionType{engine.Fold, engine.Check},
	})

	select {
	case c := <-calls:
		require.Equal(t, 3, c.seat)
		require.Equal(t, []engine.ActionType{engine.Fold, engine.Check}, c.legal)
	case <-time.After(time.Second):
		t.Fatal("onAwaitingInput never fired")
	}
	bridge.Cancel(3)
}

func TestSubmitReplacesStaleUnconsumedAction(t *testing.T) {
	bridge := humanbridge.New()
	bridge.Submit(engine.PlayerAction{Seat: 1, Type: engine.Fold})
	bridge.Submit(engine.PlayerAction{Seat: 1, Type: engine.Call, Amount: 5})

	strat := humanbridge.NewStrategy(bridge, nil)
	action := strat.Decide(strategy.CurrentHandContext{Hero: strategy.HeroContext{Seat: 1}})
	require.Equal(t, engine.PlayerAction{Seat: 1, Type: engine.Call, Amount: 5}, action)
}

func TestOnIdleTickFiresWhileWaiting(t *testing.T) {
	bridge := humanbridge.New()
	ticks := make(chan struct{}, 8)
	bridge.OnIdleTick(func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	strat := humanbridge.NewStrategy(bridge, nil)

	go strat.Decide(strategy.CurrentHandContext{Hero: strategy.HeroContext{Seat: 0}})

	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("idle tick never fired while Decide was blocked")
	}
	bridge.Cancel(0)
}

func TestWebSocketAdapterRelaysActionsToBridge(t *testing.T) {
	bridge := humanbridge.New()
	adapter := humanbridge.NewWebSocketAdapter(bridge)

	server := httptest.NewServer(http.HandlerFunc(adapter.ServeHTTP))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]any{"seat": 1, "type": "raise", "amount": 12}))

	strat := humanbridge.NewStrategy(bridge, nil)
	result := make(chan engine.PlayerAction, 1)
	go func() {
		result <- strat.Decide(strategy.CurrentHandContext{Hero: strategy.HeroContext{Seat: 1}})
	}()

	select {
	case action := <-result:
		require.Equal(t, engine.PlayerAction{Seat: 1, Type: engine.Raise, Amount: 12}, action)
	case <-time.After(2 * time.Second):
		t.Fatal("adapter never relayed the action to the bridge")
	}
}
