package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusbuzz/backend/internal/pkg/apperrors"
)

func TestDeriveMessageType(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		imageCount int
		sharedPost bool
		want       MessageType
		wantErr    bool
	}{
		{"plain text", "hello", 0, false, MessageTypeText, false},
		{"images only", "", 2, false, MessageTypeImage, false},
		{"text with images", "look at this", 1, false, MessageTypeMixed, false},
		{"shared post", "", 0, true, MessageTypeSharedPost, false},
		{"shared post with caption stays shared", "check it out", 0, true, MessageTypeSharedPost, false},
		{"empty payload", "", 0, false, "", true},
		{"whitespace only counts as empty", "   \n\t", 0, false, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveMessageType(tt.content, tt.imageCount, tt.sharedPost)
			if tt.wantErr {
				require.ErrorIs(t, err, apperrors.ErrEmptyMessage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMessageCounterpart(t *testing.T) {
	sender := &UserSummary{ID: 1, Username: "alice"}
	receiver := &UserSummary{ID: 2, Username: "bob"}
	m := &Message{SenderID: 1, ReceiverID: 2, Sender: sender, Receiver: receiver}

	assert.Equal(t, int64(2), m.CounterpartOf(1))
	assert.Equal(t, int64(1), m.CounterpartOf(2))
	assert.Equal(t, receiver, m.CounterpartSummaryOf(1))
	assert.Equal(t, sender, m.CounterpartSummaryOf(2))
}
