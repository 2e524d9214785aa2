package middleware

import (
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/require"
)

func TestSenderID(t *testing.T) {
	rq := require.New(t)

	id, ok := senderID(telego.Update{Message: &telego.Message{From: &telego.User{ID: 7}}})
	rq.True(ok)
	rq.Equal(int64(7), id)

	id, ok = senderID(telego.Update{CallbackQuery: &telego.CallbackQuery{From: telego.User{ID: 9}}})
	rq.True(ok)
	rq.Equal(int64(9), id)

	_, ok = senderID(telego.Update{Message: &telego.Message{}})
	rq.False(ok)
}
