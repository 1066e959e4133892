package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCannedRespondIsDeterministic(t *testing.T) {
	c := NewCanned()

	first := c.Respond("Marco", "oggi mi sento davvero demotivato")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Respond("Marco", "oggi mi sento davvero demotivato"))
	}
}

func TestCannedRespondMatchesKeyword(t *testing.T) {
	c := NewCanned()

	tests := []struct {
		message string
		mood    string
	}{
		{message: "sono troppo stanco per allenarmi", mood: "stanco"},
		{message: "ho bisogno di aiuto con la dieta", mood: "aiuto"},
		{message: "oggi sono felice!", mood: "felice"},
		{message: "mi sento demotivato", mood: "demotivato"},
	}

	for _, tt := range tests {
		reply := c.Respond("Marco", tt.message)
		assert.Contains(t, reply, "Marco", "message %q", tt.message)

		var mood cannedMood
		for _, m := range cannedMoods {
			if m.name == tt.mood {
				mood = m
			}
		}
		found := false
		for _, template := range mood.replies {
			if reply == strings.ReplaceAll(template, "%s", "Marco") {
				found = true
			}
		}
		assert.True(t, found, "reply %q not from mood %q", reply, tt.mood)
	}
}

func TestCannedRespondFuzzyMatchesMisspelling(t *testing.T) {
	c := NewCanned()

	// "demotivata" is not a listed keyword but resembles "demotivato".
	reply := c.Respond("Giulia", "sono proprio demotivata")
	assert.NotEqual(t, c.Respond("Giulia", "parliamo del meteo"), reply)
	assert.Contains(t, reply, "Giulia")
}

func TestCannedRespondDefaultReply(t *testing.T) {
	c := NewCanned()

	reply := c.Respond("Marco", "che tempo fa domani?")
	assert.Equal(t, "Marco, ti ascolto! 👂 Come posso aiutarti oggi con i tuoi obiettivi? 🎯", reply)
}

func TestCannedRespondEmptyNameFallsBack(t *testing.T) {
	c := NewCanned()

	reply := c.Respond("", "qualcosa di generico senza parole chiave")
	assert.Contains(t, reply, "amico")
}
