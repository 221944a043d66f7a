package memory

import (
	"context"
	"testing"

	"github.com/lalith-99/beans/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStore(t *testing.T) {
	ctx := context.Background()
	s := NewSnapshotStore()

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	data := models.NewData()
	data.Channels = append(data.Channels, &models.Channel{ChannelID: 7, Name: "general"})
	require.NoError(t, s.Save(ctx, data))
	assert.Equal(t, 1, s.Saves())

	// Later mutations of the saved value do not leak into the store.
	data.Channels[0].Name = "changed"

	got, err = s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Channels, 1)
	assert.Equal(t, "general", got.Channels[0].Name)

	require.NoError(t, s.Clear(ctx))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}
