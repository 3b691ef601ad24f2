package router

import (
	"testing"

	"mcprouter/internal/config"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankerFixture() (map[string][]mcp.Tool, map[string]config.UpstreamDefinition) {
	tools := map[string][]mcp.Tool{
		"weather": {
			{Name: "get-forecast", Description: "Get the weather forecast for a location"},
			{Name: "get-alerts", Description: "Get severe weather alerts"},
		},
		"calculator": {
			{Name: "add", Description: "Add two numbers"},
			{Name: "subtract", Description: "Subtract two numbers"},
		},
	}
	defs := map[string]config.UpstreamDefinition{
		"weather": {
			Name:        "weather",
			Description: "Weather data server",
			Tags:        []string{"weather", "forecast"},
			Enabled:     true,
		},
		"calculator": {
			Name:        "calculator",
			Description: "Simple arithmetic operations",
			Tags:        []string{"math"},
			Enabled:     true,
		},
	}
	return tools, defs
}

func TestRank_WeatherQuery(t *testing.T) {
	tools, defs := rankerFixture()

	ranked := Rank("what is the weather forecast?", tools, defs, 0)
	require.NotEmpty(t, ranked)

	top := ranked[0]
	assert.Equal(t, "weather", top.UpstreamID)
	assert.Equal(t, "get-forecast", top.Tool)
	assert.Contains(t, top.Reason, "tool matches:")
	assert.Contains(t, top.Reason, "forecast")

	// Calculator tools share no tokens with the query and must not appear.
	for _, candidate := range ranked {
		assert.NotEqual(t, "calculator", candidate.UpstreamID)
	}
}

func TestRank_CalculatorQuery(t *testing.T) {
	tools, defs := rankerFixture()

	ranked := Rank("add two numbers", tools, defs, 0)
	require.NotEmpty(t, ranked)

	top := ranked[0]
	assert.Equal(t, "calculator", top.UpstreamID)
	assert.Equal(t, "add", top.Tool)

	// Every query token matches the tool text exactly, so the score is the
	// full tool weight.
	assert.InDelta(t, 0.6, top.Score, 0.001)
}

func TestRank_EmptyQuery(t *testing.T) {
	tools, defs := rankerFixture()

	assert.Nil(t, Rank("", tools, defs, 0))
	assert.Nil(t, Rank("   \t ?!", tools, defs, 0))
}

func TestRank_Limit(t *testing.T) {
	tools, defs := rankerFixture()

	all := Rank("get the weather forecast or alerts", tools, defs, 0)
	require.Greater(t, len(all), 1)

	limited := Rank("get the weather forecast or alerts", tools, defs, 1)
	require.Len(t, limited, 1)
	assert.Equal(t, all[0], limited[0])
}

func TestRank_ScoresRoundedAndBounded(t *testing.T) {
	tools, defs := rankerFixture()

	for _, candidate := range Rank("get the weather forecast", tools, defs, 0) {
		assert.GreaterOrEqual(t, candidate.Score, 0.0)
		assert.LessOrEqual(t, candidate.Score, 1.0)
		// Two decimal places.
		assert.InDelta(t, candidate.Score, float64(int(candidate.Score*100+0.5))/100, 0.0001)
	}
}

func TestRank_SortOrder(t *testing.T) {
	tools, defs := rankerFixture()

	ranked := Rank("get weather", tools, defs, 0)
	require.Greater(t, len(ranked), 1)

	for i := 1; i < len(ranked); i++ {
		prev, cur := ranked[i-1], ranked[i]
		if prev.Score == cur.Score {
			if prev.Tool == cur.Tool {
				assert.Less(t, prev.UpstreamID, cur.UpstreamID)
			} else {
				assert.Less(t, prev.Tool, cur.Tool)
			}
		} else {
			assert.Greater(t, prev.Score, cur.Score)
		}
	}
}

func TestRank_ExactBeatsSubstring(t *testing.T) {
	tools := map[string][]mcp.Tool{
		"srv": {
			{Name: "deploy", Description: "deploy a service"},
			{Name: "redeployment", Description: "trigger a redeployment"},
		},
	}
	defs := map[string]config.UpstreamDefinition{
		"srv": {Name: "srv", Enabled: true},
	}

	ranked := Rank("deploy", tools, defs, 0)
	require.Len(t, ranked, 2)
	assert.Equal(t, "deploy", ranked[0].Tool)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestRank_SkipsUpstreamsWithoutDefinition(t *testing.T) {
	tools, defs := rankerFixture()
	tools["ghost"] = []mcp.Tool{{Name: "weather-magic", Description: "weather forecast"}}

	for _, candidate := range Rank("weather forecast", tools, defs, 0) {
		assert.NotEqual(t, "ghost", candidate.UpstreamID)
	}
}

func TestRank_LowRelevanceReason(t *testing.T) {
	// A substring-only match on the upstream side still reports the matched
	// target tokens, never an empty reason.
	tools := map[string][]mcp.Tool{
		"srv": {{Name: "restart", Description: "restart the service"}},
	}
	defs := map[string]config.UpstreamDefinition{
		"srv": {Name: "srv", Enabled: true},
	}

	ranked := Rank("restarting", tools, defs, 0)
	require.Len(t, ranked, 1)
	assert.NotEmpty(t, ranked[0].Reason)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"mixed separators", "What is the weather-forecast?", []string{"what", "is", "the", "weather", "forecast"}},
		{"digits kept", "add 2 numbers", []string{"add", "2", "numbers"}},
		{"only punctuation", "?!,;", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize(tt.input)
			if tt.expected == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestOverlap(t *testing.T) {
	t.Run("exact match scores full credit", func(t *testing.T) {
		score, matched := overlap([]string{"add"}, []string{"add", "two", "numbers"})
		assert.InDelta(t, 1.0, score, 0.001)
		assert.Equal(t, []string{"add"}, matched)
	})

	t.Run("substring match scores half credit", func(t *testing.T) {
		score, matched := overlap([]string{"restarting"}, []string{"restart"})
		assert.InDelta(t, 0.5, score, 0.001)
		assert.Equal(t, []string{"restart"}, matched)
	})

	t.Run("empty target", func(t *testing.T) {
		score, matched := overlap([]string{"add"}, nil)
		assert.Zero(t, score)
		assert.Empty(t, matched)
	})

	t.Run("no common tokens", func(t *testing.T) {
		score, matched := overlap([]string{"weather"}, []string{"add", "two", "numbers"})
		assert.Zero(t, score)
		assert.Empty(t, matched)
	})
}
