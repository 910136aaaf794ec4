package domain_test

import (
	"testing"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewState(t *testing.T) {
	s := domain.NewState("sess-1")
	assert.Equal(t, "sess-1", s.SessionID)
	assert.Equal(t, "0", s.CurrentValue)
	assert.Empty(t, s.PendingOperand)
	assert.Equal(t, domain.OperatorNone, s.PendingOperator)
	assert.Empty(t, s.LastOperand)
	assert.Equal(t, domain.OperatorNone, s.LastOperator)
	assert.Equal(t, domain.ModeEntering, s.Mode)
	assert.NoError(t, s.Validate())
}

func TestState_Snapshot(t *testing.T) {
	s := domain.NewState("a")
	c := s.Snapshot()
	c.CurrentValue = "42"
	assert.Equal(t, "0", s.CurrentValue, "snapshot must not alias the original")
}

func TestState_Validate(t *testing.T) {
	tests := []struct {
		name    string
		state   domain.State
		wantErr bool
	}{
		{"Numeral", domain.State{CurrentValue: "12.5", Mode: domain.ModeEntering}, false},
		{"Trailing Point", domain.State{CurrentValue: "0.", Mode: domain.ModeEntering}, false},
		{"Negative", domain.State{CurrentValue: "-8", Mode: domain.ModeComputed}, false},
		{"NaN", domain.State{CurrentValue: domain.NotANumber, Mode: domain.ModeComputed}, false},
		{"Result Without Operator", domain.State{CurrentValue: "3", PendingOperand: "3", Mode: domain.ModeComputed}, false},
		{"Empty Display", domain.State{CurrentValue: ""}, true},
		{"Two Points", domain.State{CurrentValue: "1.2.3"}, true},
		{"Garbage", domain.State{CurrentValue: "12a"}, true},
		{"Operator Without Operand", domain.State{CurrentValue: "1", PendingOperator: domain.OperatorAdd}, true},
		{"Bad Operator", domain.State{CurrentValue: "1", PendingOperand: "1", PendingOperator: "%"}, true},
		{"Bad Last Operator", domain.State{CurrentValue: "1", LastOperator: "^"}, true},
		{"Bad Mode", domain.State{CurrentValue: "1", Mode: "dancing"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.state.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidState)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMode_Fresh(t *testing.T) {
	assert.False(t, domain.ModeEntering.Fresh())
	assert.True(t, domain.ModeAwaitingOperand.Fresh())
	assert.True(t, domain.ModeComputed.Fresh())
	assert.True(t, domain.ModeChained.Fresh())
	assert.False(t, domain.Mode("").Fresh())
}

func TestMode_Flags(t *testing.T) {
	tests := []struct {
		mode     domain.Mode
		selected bool
		shown    bool
		next     domain.Mode
	}{
		{domain.ModeEntering, false, false, domain.ModeAwaitingOperand},
		{domain.ModeAwaitingOperand, true, false, domain.ModeAwaitingOperand},
		{domain.ModeComputed, false, true, domain.ModeChained},
		{domain.ModeChained, true, true, domain.ModeChained},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			assert.Equal(t, tt.selected, tt.mode.OperatorSelected())
			assert.Equal(t, tt.shown, tt.mode.ResultShown())
			assert.Equal(t, tt.next, tt.mode.WithOperator())
			assert.True(t, tt.mode.Valid())
		})
	}
}

func TestParseOperator(t *testing.T) {
	for _, op := range domain.Operators {
		got, err := domain.ParseOperator(string(op))
		assert.NoError(t, err)
		assert.Equal(t, op, got)
		assert.True(t, got.Valid())
	}

	_, err := domain.ParseOperator("^")
	assert.ErrorIs(t, err, domain.ErrInvalidOperator)
	assert.False(t, domain.OperatorNone.Valid())
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "14", domain.OK("14").String())
	assert.Equal(t, domain.NotANumber, domain.Undefined().String())
	assert.False(t, domain.Undefined().Defined())
}
