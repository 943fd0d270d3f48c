package kafka

import (
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToActivityEvent(t *testing.T) {
	msg := &sarama.ConsumerMessage{
		Value: []byte(`{"receiver_id":8,"sender_id":3,"kind":"LIKE","target_id":42,"content":"点赞了你的动态"}`),
	}

	event, err := ToActivityEvent(msg)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), event.ReceiverID)
	assert.Equal(t, uint64(3), event.SenderID)
	assert.Equal(t, "LIKE", event.Kind)
	assert.Equal(t, uint64(42), event.TargetID)
}

func TestToActivityEventInvalidJSON(t *testing.T) {
	_, err := ToActivityEvent(&sarama.ConsumerMessage{Value: []byte("{broken")})
	assert.Error(t, err)
}

func TestToActivityEventMissingFields(t *testing.T) {
	// 缺接收者
	_, err := ToActivityEvent(&sarama.ConsumerMessage{Value: []byte(`{"kind":"LIKE"}`)})
	assert.Error(t, err)

	// 缺事件类型
	_, err = ToActivityEvent(&sarama.ConsumerMessage{Value: []byte(`{"receiver_id":8}`)})
	assert.Error(t, err)
}
