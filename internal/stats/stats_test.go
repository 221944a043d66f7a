package stats

import (
	"testing"

	"github.com/lalith-99/beans/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newData(now int64, users ...*models.User) *models.Data {
	d := models.NewData()
	d.WorkspaceStats = NewWorkspaceStats(now)
	for _, u := range users {
		u.Stats = NewUserStats(now)
		d.Users = append(d.Users, u)
	}
	return d
}

func TestRecompute_SparseAppend(t *testing.T) {
	alice := &models.User{UID: 1}
	d := newData(100, alice)

	Recompute(d, 101)
	assert.Len(t, alice.Stats.ChannelsJoined, 1, "unchanged count appends nothing")
	assert.Len(t, d.WorkspaceStats.ChannelsExist, 1)

	d.Channels = append(d.Channels, &models.Channel{ChannelID: 10, MemberIDs: []int64{1}, OwnerIDs: []int64{1}})
	Recompute(d, 102)
	Recompute(d, 103)

	require.Len(t, alice.Stats.ChannelsJoined, 2)
	assert.Equal(t, models.ChannelsJoined{NumChannelsJoined: 1, TimeStamp: 102}, alice.Stats.ChannelsJoined[1])
	require.Len(t, d.WorkspaceStats.ChannelsExist, 2)
	assert.Equal(t, 1, d.WorkspaceStats.ChannelsExist[1].NumChannelsExist)
	assert.Equal(t, 1.0, d.WorkspaceStats.UtilizationRate)
}

func TestRecompute_RemovedMessagesStillCountAsSent(t *testing.T) {
	alice := &models.User{UID: 1}
	d := newData(100, alice)
	d.Channels = append(d.Channels, &models.Channel{ChannelID: 10, MemberIDs: []int64{1}, OwnerIDs: []int64{1}})
	m := &models.Message{MessageID: 20, UID: 1, ChatID: 10, TimeSent: 100}
	d.Messages = append(d.Messages, m)
	Recompute(d, 100)

	d.Messages = nil
	d.RemovedMessages = append(d.RemovedMessages, m)
	Recompute(d, 101)

	sent := alice.Stats.MessagesSent
	assert.Equal(t, 1, sent[len(sent)-1].NumMessagesSent)
	exist := d.WorkspaceStats.MessagesExist
	assert.Equal(t, 0, exist[len(exist)-1].NumMessagesExist)
	// 1 channel + 1 sent over 1 channel + 0 visible messages caps at 1
	assert.Equal(t, 1.0, alice.Stats.InvolvementRate)
}

func TestRecompute_FutureMessagesIgnored(t *testing.T) {
	alice := &models.User{UID: 1}
	d := newData(100, alice)
	d.Channels = append(d.Channels, &models.Channel{ChannelID: 10, MemberIDs: []int64{1}, OwnerIDs: []int64{1}})
	d.Messages = append(d.Messages, &models.Message{MessageID: 20, UID: 1, ChatID: 10, TimeSent: 500})

	Recompute(d, 100)
	sent := alice.Stats.MessagesSent
	assert.Equal(t, 0, sent[len(sent)-1].NumMessagesSent)

	Recompute(d, 500)
	sent = alice.Stats.MessagesSent
	assert.Equal(t, 1, sent[len(sent)-1].NumMessagesSent)
	assert.Equal(t, int64(500), sent[len(sent)-1].TimeStamp)
}

func TestInvolvementAndUtilization(t *testing.T) {
	assert.Equal(t, 0.0, Involvement(0, 0))
	assert.Equal(t, 0.5, Involvement(2, 4))
	assert.Equal(t, 1.0, Involvement(5, 4))
	assert.Equal(t, 0.0, Utilization(0, 0))
	assert.Equal(t, 0.5, Utilization(1, 2))
}

func TestRecompute_UtilizationHalf(t *testing.T) {
	alice := &models.User{UID: 1}
	bob := &models.User{UID: 2}
	d := newData(100, alice, bob)
	d.DMs = append(d.DMs, &models.DM{DMID: 30, MemberIDs: []int64{1}})

	Recompute(d, 100)
	assert.Equal(t, 0.5, d.WorkspaceStats.UtilizationRate)
	assert.Equal(t, 1.0, alice.Stats.InvolvementRate)
	assert.Equal(t, 0.0, bob.Stats.InvolvementRate)
}
