package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizrally/internal/model"
)

func TestRegistryHostReplacement(t *testing.T) {
	reg := NewRegistry()
	first := &fakeSink{}
	second := &fakeSink{}

	reg.Attach("h_1", true, first)
	require.True(t, reg.IsHost("h_1"))

	reg.Attach("h_2", true, second)
	assert.True(t, first.closed)
	assert.Equal(t, "replaced", first.reason)
	assert.False(t, reg.IsHost("h_1"))
	assert.True(t, reg.IsHost("h_2"))

	// The replaced socket's detach must not unseat the new host.
	reg.Detach("h_1")
	assert.Equal(t, "h_2", reg.HostTag())
}

func TestRegistryRouting(t *testing.T) {
	reg := NewRegistry()
	host := &fakeSink{}
	p1 := &fakeSink{}
	p2 := &fakeSink{}
	reg.Attach("h_1", true, host)
	reg.Attach("p_1", false, p1)
	reg.Attach("p_2", false, p2)

	reg.SendToHost(model.NewMessage(model.MsgRoundProgress, "", nil))
	assert.Len(t, host.msgs, 1)
	assert.Empty(t, p1.msgs)

	reg.SendTo("p_1", model.NewMessage(model.MsgError, "c1", nil))
	assert.Len(t, p1.msgs, 1)
	assert.Empty(t, p2.msgs)

	reg.Broadcast(model.NewMessage(model.MsgLobbyUpdate, "", nil))
	assert.Len(t, host.msgs, 2)
	assert.Len(t, p1.msgs, 2)
	assert.Len(t, p2.msgs, 1)

	// Sending to a gone tag is a no-op.
	reg.SendTo("p_404", model.NewMessage(model.MsgError, "", nil))
}

func TestRegistryCounts(t *testing.T) {
	reg := NewRegistry()
	reg.Attach("h_1", true, &fakeSink{})
	reg.Attach("p_1", false, &fakeSink{})
	reg.Attach("p_2", false, &fakeSink{})

	assert.Equal(t, 2, reg.PlayerCount())
	assert.ElementsMatch(t, []string{"p_1", "p_2"}, reg.PlayerTags())

	reg.Close("p_1", "kicked")
	assert.Equal(t, 1, reg.PlayerCount())

	all := &fakeSink{}
	reg.Attach("p_3", false, all)
	reg.CloseAll("room closed")
	assert.True(t, all.closed)
	assert.Equal(t, "room closed", all.reason)
	assert.Equal(t, 0, reg.PlayerCount())
	assert.Empty(t, reg.HostTag())
}

func TestIsHostTag(t *testing.T) {
	assert.True(t, IsHostTag("h_abc123"))
	assert.False(t, IsHostTag("p_abc123"))
	assert.False(t, IsHostTag(""))
}
