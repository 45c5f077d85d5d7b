package leak

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplateLeakMentionsTarget(t *testing.T) {
	personas := []Persona{
		PersonaSassyReporter,
		PersonaInvestigativeJournalist,
		PersonaSportsCommentator,
		PersonaConspiracyTheorist,
		PersonaWeatherAnchor,
		PersonaDefault,
	}
	for _, persona := range personas {
		for i := 0; i < 20; i++ {
			text := templateLeak("Casey", persona, nil)
			assert.NotEmpty(t, text)
			assert.True(t,
				strings.Contains(text, "Casey") || strings.Contains(text, "CASEY"),
				"persona %s: %q", persona, text)
		}
	}
}

func TestTemplateLeakTopicPool(t *testing.T) {
	// With a known top topic the activity can come from the topic pool, so
	// run enough draws to exercise both branches without flaking.
	for i := 0; i < 50; i++ {
		text := templateLeak("Casey", PersonaDefault, []string{"gaming"})
		assert.NotEmpty(t, text)
		assert.Contains(t, text, "Casey")
	}
}

func TestPersonaTemplatesNonEmpty(t *testing.T) {
	for _, persona := range []Persona{
		PersonaSassyReporter,
		PersonaInvestigativeJournalist,
		PersonaGossipColumnist,
		PersonaSportsCommentator,
		PersonaWeatherAnchor,
		PersonaConspiracyTheorist,
		PersonaDefault,
	} {
		templates := personaTemplates(persona)
		assert.NotEmpty(t, templates, string(persona))
		for _, tpl := range templates {
			assert.NotEmpty(t, tpl.activities)
		}
	}
}
