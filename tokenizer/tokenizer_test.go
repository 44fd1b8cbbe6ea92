package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/miosa/osa-chat/client"
)

func TestEstimate(t *testing.T) {
	require.Equal(t, 0, Estimate(""))
	require.Equal(t, 1, Estimate("abc"))
	require.Equal(t, 1, Estimate("abcd"))
	require.Equal(t, 2, Estimate("abcde"))
	require.Equal(t, 1, Estimate("日本語"))
}

func TestNilCounter_FallsBackToEstimate(t *testing.T) {
	var c *Counter
	require.False(t, c.Exact())
	require.Equal(t, Estimate("hello world"), c.Count("hello world"))
}

func TestCountMessages_AddsPerMessageOverhead(t *testing.T) {
	var c *Counter
	msgs := []client.Message{
		{Role: client.RoleUser, Content: "abcd"},
		{Role: client.RoleAssistant, Content: "abcdefgh"},
	}
	require.Equal(t, 2*perMessage+1+2, c.CountMessages(msgs))
	require.Zero(t, c.CountMessages(nil))
}
