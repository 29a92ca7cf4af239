package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tendero/pkg/domain"
)

func newTestUI() (*UI, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &UI{Out: out, ErrOut: errOut}, out, errOut
}

func TestMessages(t *testing.T) {
	u, out, errOut := newTestUI()
	u.Info("hello %s", "world")
	u.Success("done %d", 42)
	u.Warning("careful %s", "now")
	u.Error("failed %s", "badly")

	assert.Contains(t, out.String(), "hello world")
	assert.Contains(t, out.String(), "done 42")
	assert.Contains(t, errOut.String(), "careful now")
	assert.Contains(t, errOut.String(), "failed badly")
}

func TestStateColor(t *testing.T) {
	assert.Equal(t, "INITIAL", StateColor(domain.StateInitial))
	assert.Contains(t, StateColor(domain.StateConfirming), "CONFIRMING")
	assert.Contains(t, StateColor(domain.StateAwaitingEmail), "AWAITING_EMAIL")
	assert.Contains(t, StateColor(domain.StateAwaitingPrice), "AWAITING_PRICE")
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "S/.30.00", Money(30))
	assert.Equal(t, "S/.0.50", Money(0.5))
}

func TestTable(t *testing.T) {
	u, out, _ := newTestUI()
	table := u.Table([]string{"Cliente", "Total"})
	require.NotNil(t, table)

	require.NoError(t, table.Append([]string{"Acme", Money(30)}))
	require.NoError(t, table.Render())

	assert.Contains(t, out.String(), "Acme")
	assert.Contains(t, out.String(), "S/.30.00")
}
