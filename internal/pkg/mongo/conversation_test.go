package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairKeyOrderIndependent(t *testing.T) {
	assert.Equal(t, "3_8", PairKey(3, 8))
	assert.Equal(t, "3_8", PairKey(8, 3))
	assert.Equal(t, PairKey(100, 200), PairKey(200, 100))
}

func TestConversationUnreadOf(t *testing.T) {
	c := &Conversation{Unread: map[string]int64{"3": 2}}
	assert.Equal(t, int64(2), c.UnreadOf(3))
	assert.Equal(t, int64(0), c.UnreadOf(8))

	var empty Conversation
	assert.Equal(t, int64(0), empty.UnreadOf(3))
}

func TestConversationPeerOf(t *testing.T) {
	c := &Conversation{Participants: []uint64{3, 8}}
	assert.Equal(t, uint64(8), c.PeerOf(3))
	assert.Equal(t, uint64(3), c.PeerOf(8))
}
