package abacus_test

import (
	"context"
	"testing"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_PressAll(t *testing.T) {
	eng := abacus.New()
	ctx := context.Background()

	state, err := eng.Start(ctx, "t1")
	require.NoError(t, err)

	state, err = eng.PressAll(ctx, state, "12.5", "*", "2", "=")
	require.NoError(t, err)
	assert.Equal(t, "25", state.CurrentValue)
	assert.Equal(t, domain.ModeComputed, state.Mode)
}

func TestEngine_Evaluate(t *testing.T) {
	eng := abacus.New()
	ctx := context.Background()

	state, err := eng.Evaluate(ctx, domain.NewState(""), "10 / 4 =")
	require.NoError(t, err)
	assert.Equal(t, "2.5", state.CurrentValue)

	state, err = eng.Evaluate(ctx, state, "=")
	require.NoError(t, err)
	assert.Equal(t, "1.6", state.CurrentValue, "repeat divides the last operand by the display")
}

func TestEngine_EvaluateEqualsAfterChaining(t *testing.T) {
	eng := abacus.New()
	ctx := context.Background()

	state, err := eng.Evaluate(ctx, domain.NewState(""), "1 + 2 + =")
	require.NoError(t, err)
	assert.Equal(t, "10", state.CurrentValue)
	assert.Equal(t, domain.OperatorAdd, state.PendingOperator)
	assert.Equal(t, domain.ModeChained, state.Mode)

	state, err = eng.Evaluate(ctx, state, "5 =")
	require.NoError(t, err)
	assert.Equal(t, "15", state.CurrentValue)
	assert.Equal(t, domain.ModeComputed, state.Mode)
}

func TestEngine_Hooks(t *testing.T) {
	var computed []domain.Computation
	eng := abacus.New(abacus.WithLifecycleHooks(domain.LifecycleHooks{
		OnCompute: func(ctx context.Context, e *domain.ComputeEvent) {
			computed = append(computed, e.Computation)
		},
	}))

	_, err := eng.Evaluate(context.Background(), domain.NewState(""), "7-2=")
	require.NoError(t, err)
	require.Len(t, computed, 1)
	assert.Equal(t, domain.OK("5"), computed[0].Result)
}

func TestEngine_Calculate(t *testing.T) {
	eng := abacus.New()
	assert.Equal(t, "6", eng.Calculate(context.Background(), domain.OperatorMultiply, "2", "3").String())
	assert.Equal(t, domain.NotANumber, eng.Calculate(context.Background(), domain.OperatorDivide, "2", "0").String())
}
