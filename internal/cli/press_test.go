package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/keypad"
	"github.com/roach88/tally/internal/store"
	"github.com/roach88/tally/internal/testutil"
)

func TestPressMissingArgs(t *testing.T) {
	_, err := execute(t, NewPressCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}

func TestPressText(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		expression string
		result     string
	}{
		{"single string", []string{"6+3="}, "6+3", "9"},
		{"separate args", []string{"6", "+", "3", "="}, "6+3", "9"},
		{"ascii divide", []string{"7/2="}, "7÷2", "3.5"},
		{"ascii multiply", []string{"4 * 5 ="}, "4×5", "20"},
		{"divide by zero", []string{"5÷0="}, "5÷0", ""},
		{"trailing operator", []string{"4×="}, "4×", "Error"},
		{"no evaluation", []string{"12"}, "12", ""},
		{"continue from result", []string{"6+3=-"}, "9-", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, NewPressCommand(&RootOptions{Format: "text"}), tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, "expression: "+tt.expression+"\n")
			assert.Contains(t, out, "result:     "+tt.result+"\n")
			assert.NotContains(t, out, "session:")
		})
	}
}

func TestPressSteps(t *testing.T) {
	out, err := execute(t, NewPressCommand(&RootOptions{Format: "text"}), "--steps", "+5=")
	require.NoError(t, err)

	assert.Contains(t, out, `[1] + ignored`)
	assert.Contains(t, out, `[2] 5 applied`)
	assert.Contains(t, out, `[3] = no_operator`)
	assert.Contains(t, out, "result:     \n")
}

func TestPressJSON(t *testing.T) {
	opts := &RootOptions{Format: "json"}
	cmd := NewPressCommand(opts)
	out, err := execute(t, cmd, "--steps", "6x3=")
	require.NoError(t, err)

	var resp struct {
		Status  string      `json:"status"`
		Data    PressResult `json:"data"`
		TraceID string      `json:"trace_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "6×3=", resp.Data.Keys)
	assert.Equal(t, "6×3", resp.Data.Expression)
	assert.Equal(t, "18", resp.Data.Result)
	assert.Equal(t, "displaying", resp.Data.Mode)
	assert.Len(t, resp.Data.Presses, 4)
	assert.Equal(t, resp.Data.SessionID, resp.TraceID)
	assert.NotEmpty(t, resp.TraceID)
}

func TestPressInvalidKey(t *testing.T) {
	out, err := execute(t, NewPressCommand(&RootOptions{Format: "text"}), "6%3")
	require.Error(t, err)

	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.True(t, keypad.IsKeyError(err))
	assert.Contains(t, out, "Error [E_KEY]")
	assert.Contains(t, out, `key "%" at offset 1`)
}

func TestPressInvalidKeyJSON(t *testing.T) {
	out, err := execute(t, NewPressCommand(&RootOptions{Format: "json"}), "1+a")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeKey, resp.Error.Code)
}

func TestPressRecordsTape(t *testing.T) {
	dbPath := tempDB(t)
	cmd := newPressCommand(&PressOptions{
		RootOptions: &RootOptions{Format: "text"},
		SessionIDs:  testutil.NewFixedSessionGenerator("press-session"),
	})
	out, err := execute(t, cmd, "--db", dbPath, "5-8=")
	require.NoError(t, err)
	assert.Contains(t, out, "result:     -3\n")
	assert.Contains(t, out, "session:    press-session\n")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	ctx := context.Background()

	rec, err := st.ReadSession(ctx, "press-session")
	require.NoError(t, err)
	assert.Equal(t, PressSurface, rec.Surface)

	presses, err := st.ReadPresses(ctx, "press-session")
	require.NoError(t, err)
	require.Len(t, presses, 4)
	assert.Equal(t, "5-8", presses[3].Expression)
	assert.Equal(t, "-3", presses[3].Result)
}

func TestPressWithoutDatabaseUsesUUIDv7(t *testing.T) {
	out, err := execute(t, NewPressCommand(&RootOptions{Format: "json"}), "1")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Len(t, resp.TraceID, 36)
}
