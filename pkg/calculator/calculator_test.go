package calculator_test

import (
	"testing"

	"github.com/aretw0/abacus/pkg/calculator"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// press feeds keypad tokens into the calculator, failing the test on bad tokens.
func press(t *testing.T, c *calculator.Calculator, keys ...string) {
	t.Helper()
	for _, k := range keys {
		a, err := domain.ParseAction(k)
		require.NoError(t, err)
		require.NoError(t, c.Apply(a))
	}
}

func assertInitial(t *testing.T, c *calculator.Calculator) {
	t.Helper()
	s := c.State()
	assert.Equal(t, "0", s.CurrentValue)
	assert.Empty(t, s.PendingOperand)
	assert.Equal(t, domain.OperatorNone, s.PendingOperator)
	assert.Empty(t, s.LastOperand)
	assert.Equal(t, domain.OperatorNone, s.LastOperator)
	assert.Equal(t, domain.ModeEntering, s.Mode)
}

func TestCalculator_DefaultState(t *testing.T) {
	assertInitial(t, calculator.New())
}

func TestCalculator_EnterValue(t *testing.T) {
	c := calculator.New()

	press(t, c, "1")
	assert.Equal(t, "1", c.CurrentValue())
	press(t, c, "2")
	assert.Equal(t, "12", c.CurrentValue())
	press(t, c, "3")
	assert.Equal(t, "123", c.CurrentValue())

	t.Run("Leading Zero Replaced", func(t *testing.T) {
		c := calculator.New()
		press(t, c, "0", "0", "7")
		assert.Equal(t, "7", c.CurrentValue())
	})

	t.Run("Rejects Non Digits", func(t *testing.T) {
		c := calculator.New()
		press(t, c, "5")
		for _, bad := range []string{"", "a", "12", "+", "."} {
			assert.ErrorIs(t, c.EnterValue(bad), domain.ErrInvalidDigit)
		}
		assert.Equal(t, "5", c.CurrentValue())
	})
}

func TestCalculator_EnterDecimal(t *testing.T) {
	c := calculator.New()

	press(t, c, "1")
	c.EnterDecimal()
	assert.Equal(t, "1.", c.CurrentValue())
	press(t, c, "2", "3")
	assert.Equal(t, "1.23", c.CurrentValue())

	t.Run("Only One Decimal", func(t *testing.T) {
		c := calculator.New()
		press(t, c, "1", ".", ".")
		assert.Equal(t, "1.", c.CurrentValue())
		press(t, c, "2", ".", ".")
		assert.Equal(t, "1.2", c.CurrentValue())
		press(t, c, "3", ".", ".", ".", ".", ".")
		assert.Equal(t, "1.23", c.CurrentValue())
	})

	t.Run("From Default", func(t *testing.T) {
		c := calculator.New()
		press(t, c, ".", "5")
		assert.Equal(t, "0.5", c.CurrentValue())
	})

	t.Run("After Operator Starts At Zero", func(t *testing.T) {
		c := calculator.New()
		press(t, c, "7", "+", ".")
		assert.Equal(t, "0.", c.CurrentValue())
		assert.Equal(t, domain.ModeEntering, c.State().Mode)
	})

	t.Run("After Result Starts At Zero", func(t *testing.T) {
		c := calculator.New()
		press(t, c, "1", "+", "2", "=", ".", "5")
		s := c.State()
		assert.Equal(t, "0.5", s.CurrentValue)
		assert.Empty(t, s.LastOperand)
		assert.Equal(t, domain.OperatorNone, s.LastOperator)
	})
}

func TestCalculator_Addition(t *testing.T) {
	c := calculator.New()

	press(t, c, "1")
	press(t, c, "+")
	assert.Equal(t, "1", c.CurrentValue())
	assert.Equal(t, domain.OperatorAdd, c.State().PendingOperator)

	press(t, c, "2")
	s := c.State()
	assert.Equal(t, "2", s.CurrentValue)
	assert.Equal(t, domain.OperatorAdd, s.PendingOperator)
	assert.Equal(t, "1", s.PendingOperand)

	press(t, c, "=")
	s = c.State()
	assert.Equal(t, "3", s.CurrentValue)
	assert.Equal(t, domain.OperatorNone, s.PendingOperator)
	assert.Equal(t, "3", s.PendingOperand)
	assert.Equal(t, "2", s.LastOperand)
	assert.Equal(t, domain.OperatorAdd, s.LastOperator)
	assert.Equal(t, domain.ModeComputed, s.Mode)

	// Starting a new calculation replaces the previous result.
	press(t, c, "4", "9", "+", "6", "7", "=")
	assert.Equal(t, "116", c.CurrentValue())

	press(t, c, "1", "0", "1", "+", "2", "0", "2", "=")
	assert.Equal(t, "303", c.CurrentValue())
}

func TestCalculator_Chaining(t *testing.T) {
	tests := []struct {
		name        string
		keys        []string
		chained     string
		lastOperand string
		next        string
		total       string
	}{
		{"Addition", []string{"1", "+", "2", "+"}, "3", "2", "4", "7"},
		{"Subtraction", []string{"1", "0", "-", "1", "-"}, "9", "1", "2", "7"},
		{"Multiplication", []string{"2", "*", "3", "*"}, "6", "3", "4", "24"},
		{"Division", []string{"1", "8", "/", "3", "/"}, "6", "3", "2", "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := calculator.New()
			press(t, c, tt.keys...)
			op := domain.Operator(tt.keys[len(tt.keys)-1])

			s := c.State()
			assert.Equal(t, tt.chained, s.CurrentValue)
			assert.Equal(t, op, s.PendingOperator)
			assert.Equal(t, tt.chained, s.PendingOperand)
			assert.Equal(t, tt.lastOperand, s.LastOperand)
			assert.Equal(t, op, s.LastOperator)
			assert.Equal(t, domain.ModeChained, s.Mode)

			press(t, c, tt.next)
			assert.Equal(t, tt.next, c.CurrentValue())
			assert.Equal(t, domain.ModeEntering, c.State().Mode)

			press(t, c, "=")
			s = c.State()
			assert.Equal(t, tt.total, s.CurrentValue)
			assert.Equal(t, domain.OperatorNone, s.PendingOperator)
			assert.Equal(t, tt.total, s.PendingOperand)
			assert.Equal(t, tt.next, s.LastOperand)
			assert.Equal(t, op, s.LastOperator)
			assert.Equal(t, domain.ModeComputed, s.Mode)
		})
	}

	t.Run("Uses Previous Operator", func(t *testing.T) {
		c := calculator.New()
		press(t, c, "2", "*", "3", "+")
		s := c.State()
		assert.Equal(t, "6", s.CurrentValue)
		assert.Equal(t, domain.OperatorAdd, s.PendingOperator)
		assert.Equal(t, domain.OperatorMultiply, s.LastOperator)

		press(t, c, "4", "=")
		assert.Equal(t, "10", c.CurrentValue())
	})

	t.Run("Equals Right After Chaining", func(t *testing.T) {
		c := calculator.New()
		press(t, c, "1", "+", "2", "+", "=")
		s := c.State()
		assert.Equal(t, "10", s.CurrentValue)
		assert.Equal(t, domain.OperatorAdd, s.PendingOperator)
		assert.Equal(t, "10", s.PendingOperand)
		assert.Equal(t, "5", s.LastOperand)
		assert.Equal(t, domain.ModeChained, s.Mode)
	})
}

func TestCalculator_OperatorThenEquals(t *testing.T) {
	tests := []struct {
		name    string
		keys    string
		want    string
		pending domain.Operator
	}{
		{"Uses Display As Both Operands", "1+=", "2", domain.OperatorAdd},
		{"Keeps Operator For Next Operand", "1+=5=", "7", domain.OperatorNone},
		{"Double Operator", "5++=", "30", domain.OperatorAdd},
		{"Operator After Result", "1+2=+=", "10", domain.OperatorAdd},
		{"Subtract From Itself", "4-=", "0", domain.OperatorSubtract},
		{"Equals Twice", "3*==", "729", domain.OperatorMultiply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, err := domain.Tokenize(tt.keys)
			require.NoError(t, err)

			c := calculator.New()
			press(t, c, keys...)
			s := c.State()
			assert.Equal(t, tt.want, s.CurrentValue)
			assert.Equal(t, tt.pending, s.PendingOperator)
		})
	}

	t.Run("Operator Survives Equals", func(t *testing.T) {
		c := calculator.New()
		press(t, c, "1", "+", "=")
		s := c.State()
		assert.Equal(t, "2", s.PendingOperand)
		assert.Equal(t, "1", s.LastOperand)
		assert.Equal(t, domain.OperatorAdd, s.LastOperator)
		assert.Equal(t, domain.ModeChained, s.Mode)

		press(t, c, "5")
		assert.Equal(t, domain.ModeEntering, c.State().Mode)
	})
}

func TestCalculator_BasicOperations(t *testing.T) {
	tests := []struct {
		keys string
		want string
	}{
		{"10-1=", "9"},
		{"66-37=", "29"},
		{"312-122=", "190"},
		{"2*3=", "6"},
		{"10*10=", "100"},
		{"123*456=", "56088"},
		{"18/3=", "6"},
		{"99/11=", "9"},
		{"320/32=", "10"},
		{"10.3+2.5=", "12.8"},
		{"21.6-1.6=", "20"},
		{"10.8/2/2=", "2.7"},
		{"1.234*2.345=", "2.8937"},
		{"1.23456789+1=", "2.2346"},
		{"1+2=*3=", "9"},
	}

	for _, tt := range tests {
		t.Run(tt.keys, func(t *testing.T) {
			keys, err := domain.Tokenize(tt.keys)
			require.NoError(t, err)

			c := calculator.New()
			press(t, c, keys...)
			assert.Equal(t, tt.want, c.CurrentValue())
		})
	}
}

func TestCalculator_RepeatEquals(t *testing.T) {
	c := calculator.New()
	press(t, c, "1", "+", "2", "=")
	assert.Equal(t, "3", c.CurrentValue())

	press(t, c, "=")
	s := c.State()
	assert.Equal(t, "5", s.CurrentValue)
	assert.Equal(t, "5", s.PendingOperand)
	assert.Equal(t, "2", s.LastOperand)
	assert.Equal(t, domain.OperatorAdd, s.LastOperator)

	press(t, c, "=")
	assert.Equal(t, "7", c.CurrentValue())

	t.Run("Forgotten After New Number", func(t *testing.T) {
		c := calculator.New()
		press(t, c, "1", "+", "2", "=", "9", "=")
		assert.Equal(t, "9", c.CurrentValue())
	})

	t.Run("No Operation Is No-op", func(t *testing.T) {
		c := calculator.New()
		press(t, c, "4", "2", "=", "=")
		assert.Equal(t, "42", c.CurrentValue())
		assert.Equal(t, domain.ModeEntering, c.State().Mode)
	})
}

func TestCalculator_DivisionByZero(t *testing.T) {
	c := calculator.New()
	press(t, c, "1", "/", "0", "=")
	assert.Equal(t, domain.NotANumber, c.CurrentValue())

	// A further "=" keeps the undefined display.
	press(t, c, "=")
	assert.Equal(t, domain.NotANumber, c.CurrentValue())

	press(t, c, "5", "6", "/", "0", "=")
	assert.Equal(t, domain.NotANumber, c.CurrentValue())

	t.Run("Next Digit Starts Fresh", func(t *testing.T) {
		c := calculator.New()
		press(t, c, "1", "/", "0", "=", "4")
		assert.Equal(t, "4", c.CurrentValue())
	})

	t.Run("Operator On Undefined Operand Only Updates Operator", func(t *testing.T) {
		c := calculator.New()
		press(t, c, "1", "/", "0", "=", "+")
		s := c.State()
		assert.Equal(t, domain.NotANumber, s.PendingOperand)
		assert.Equal(t, domain.OperatorAdd, s.PendingOperator)

		press(t, c, "2", "*")
		s = c.State()
		assert.Equal(t, domain.OperatorMultiply, s.PendingOperator)
		assert.Equal(t, "2", s.CurrentValue)
	})
}

func TestCalculator_FreshNumberAfterResult(t *testing.T) {
	for _, keys := range [][]string{
		{"1", "+", "2", "="},
		{"1", "+", "2", "+"},
		{"1", "+", "2", "=", "="},
	} {
		c := calculator.New()
		press(t, c, keys...)
		press(t, c, "8")
		assert.Equal(t, "8", c.CurrentValue(), "after %v", keys)
	}
}

func TestCalculator_Clear(t *testing.T) {
	c := calculator.New()

	press(t, c, "1", "C")
	assertInitial(t, c)

	press(t, c, "1", "0", "0")
	assert.Equal(t, "100", c.CurrentValue())
	press(t, c, "C")
	assertInitial(t, c)

	press(t, c, "1", "+", "2", "=", "=", "*", "C")
	assertInitial(t, c)

	press(t, c, "1", "2", "C", "3", "4")
	assert.Equal(t, "34", c.CurrentValue())
}

func TestCalculator_EnterOperator_Invalid(t *testing.T) {
	c := calculator.New()
	press(t, c, "3")
	assert.ErrorIs(t, c.EnterOperator("%"), domain.ErrInvalidOperator)
	assert.Equal(t, domain.ModeEntering, c.State().Mode)
	assert.Equal(t, domain.OperatorNone, c.State().PendingOperator)
}

func TestCalculator_Restore(t *testing.T) {
	c := calculator.New()
	press(t, c, "1", "+", "2", "=")

	restored, err := calculator.Restore(&domain.State{
		SessionID:      "s",
		CurrentValue:   "3",
		PendingOperand: "3",
		LastOperand:    "2",
		LastOperator:   domain.OperatorAdd,
		Mode:           domain.ModeComputed,
	})
	require.NoError(t, err)

	press(t, c, "=")
	press(t, restored, "=")
	assert.Equal(t, c.CurrentValue(), restored.CurrentValue())

	_, err = calculator.Restore(&domain.State{CurrentValue: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	t.Run("Empty Mode Defaults To Entering", func(t *testing.T) {
		r, err := calculator.Restore(&domain.State{CurrentValue: "4"})
		require.NoError(t, err)
		assert.Equal(t, domain.ModeEntering, r.State().Mode)
		press(t, r, "2")
		assert.Equal(t, "42", r.CurrentValue())
	})
}

func TestCalculator_Observer(t *testing.T) {
	var seen []domain.Computation
	c := calculator.New(calculator.WithObserver(func(comp domain.Computation) {
		seen = append(seen, comp)
	}))

	press(t, c, "1", "+", "2", "=", "=")
	require.Len(t, seen, 2)
	assert.Equal(t, domain.Computation{
		Operator: domain.OperatorAdd, Left: "1", Right: "2", Result: domain.OK("3"),
	}, seen[0])
	assert.True(t, seen[1].Repeat)
	assert.Equal(t, "5", seen[1].Result.Value)
}
