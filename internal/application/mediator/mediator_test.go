package mediator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SupernovaXTS/overmind-logistics/internal/application/mediator"
)

type stepCommand struct{ colony string }

type echoHandler struct{}

func (echoHandler) Handle(_ context.Context, request mediator.Request) (mediator.Response, error) {
	return request.(*stepCommand).colony, nil
}

func TestSend_DispatchesByType(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*stepCommand](m, echoHandler{}))

	resp, err := m.Send(context.Background(), &stepCommand{colony: "W1N1"})

	require.NoError(t, err)
	assert.Equal(t, "W1N1", resp)
}

func TestRegister_RejectsDuplicates(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*stepCommand](m, echoHandler{}))

	assert.Error(t, mediator.RegisterHandler[*stepCommand](m, echoHandler{}))
	assert.Error(t, mediator.RegisterHandler[*stepCommand](mediator.NewMediator(), nil))
}

func TestSend_UnknownRequest(t *testing.T) {
	_, err := mediator.NewMediator().Send(context.Background(), &stepCommand{})
	assert.ErrorContains(t, err, "no handler registered")

	_, err = mediator.NewMediator().Send(context.Background(), nil)
	assert.Error(t, err)
}

func TestUse_FirstMiddlewareRunsOutermost(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*stepCommand](m, echoHandler{}))

	var order []string
	trace := func(name string) mediator.Middleware {
		return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
			order = append(order, name+">")
			resp, err := next(ctx, request)
			order = append(order, "<"+name)
			return resp, err
		}
	}
	m.Use(trace("metrics"))
	m.Use(trace("logging"))

	_, err := m.Send(context.Background(), &stepCommand{colony: "W1N1"})

	require.NoError(t, err)
	assert.Equal(t, []string{"metrics>", "logging>", "<logging", "<metrics"}, order)
}
