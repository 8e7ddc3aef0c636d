package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	e := New(TypeClienteCreated, 7)

	_, err := uuid.Parse(e.ID)
	require.NoError(t, err)
	assert.Equal(t, TypeClienteCreated, e.Type)
	assert.EqualValues(t, 7, e.PersonaID)
	assert.False(t, e.OccurredAt.IsZero())
	assert.NotEqual(t, e.ID, New(TypeClienteCreated, 7).ID)
}

func TestEventJSONOmitsEmptyFields(t *testing.T) {
	e := New(TypeClienteDeleted, 3)
	data, err := json.Marshal(e)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Contains(t, m, "persona_id")
	assert.Contains(t, m, "occurred_at")
	assert.NotContains(t, m, "email")
	assert.NotContains(t, m, "nombre")
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	ctx := context.Background()

	require.NoError(t, r.Publish(ctx, TopicUsers, New(TypeUserRegistered, 1)))
	require.NoError(t, r.Publish(ctx, TopicUsers, New(TypeUserLoggedIn, 1)))

	got := r.Events()
	require.Len(t, got, 2)
	assert.Equal(t, TopicUsers, got[0].Topic)
	assert.Equal(t, []string{TypeUserRegistered, TypeUserLoggedIn}, r.Types())

	r.Err = errors.New("broker down")
	assert.Error(t, r.Publish(ctx, TopicUsers, New(TypeUserLoggedIn, 1)))
	assert.Len(t, r.Events(), 2)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), TopicClientes, New(TypeClienteCreated, 1)))
	assert.NoError(t, p.Close())
}
