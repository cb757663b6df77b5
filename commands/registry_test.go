package commands

import (
	"context"
	"testing"

	"adachi/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCommands(t *testing.T) {
	handlers, defs := RegisterCommands(&AppContext{
		Log:              &fakeLogger{},
		Analytics:        &fakeAnalytics{},
		Pools:            failingPicker{},
		SupportServerURL: "https://discord.gg/support",
	})

	require.Len(t, defs, 2)
	assert.Equal(t, "ask", defs[0].Name)
	assert.Equal(t, "invite", defs[1].Name)

	require.Len(t, defs[0].Options, 1)
	assert.Equal(t, "question", defs[0].Options[0].Name)
	assert.Equal(t, "What will you ask the Adachi cube?", defs[0].Options[0].Description)
	assert.False(t, defs[0].Options[0].Required)

	assert.Contains(t, handlers, "ask")
	assert.Contains(t, handlers, "invite")
}

func TestUsageWrapperCountsOutcomes(t *testing.T) {
	handlers, _ := RegisterCommands(&AppContext{
		Log:       &fakeLogger{},
		Analytics: &fakeAnalytics{},
		Pools:     failingPicker{},
	})
	before := testutil.ToFloat64(metrics.CommandCounter.WithLabelValues("ask", "error"))

	err := handlers["ask"].Handle(context.Background(), &replyRecorder{}, commandInteraction("ask"))
	require.Error(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.CommandCounter.WithLabelValues("ask", "error")))
}
