package leak

import "strings"

// Persona is the closed set of bot voices a leak can be written in.
type Persona string

const (
	PersonaSassyReporter           Persona = "sassy_reporter"
	PersonaInvestigativeJournalist Persona = "investigative_journalist"
	PersonaGossipColumnist         Persona = "gossip_columnist"
	PersonaSportsCommentator       Persona = "sports_commentator"
	PersonaWeatherAnchor           Persona = "weather_anchor"
	PersonaConspiracyTheorist      Persona = "conspiracy_theorist"
	PersonaDefault                 Persona = "default"
)

// ParsePersona maps a wire string onto the catalog. Unknown values fall
// back to the default persona rather than erroring.
func ParsePersona(s string) Persona {
	switch Persona(strings.ToLower(strings.TrimSpace(s))) {
	case PersonaSassyReporter:
		return PersonaSassyReporter
	case PersonaInvestigativeJournalist:
		return PersonaInvestigativeJournalist
	case PersonaGossipColumnist:
		return PersonaGossipColumnist
	case PersonaSportsCommentator:
		return PersonaSportsCommentator
	case PersonaWeatherAnchor:
		return PersonaWeatherAnchor
	case PersonaConspiracyTheorist:
		return PersonaConspiracyTheorist
	default:
		return PersonaDefault
	}
}

// StyleProfile carries the writing requirements handed to the writer stage.
type StyleProfile struct {
	Tone      string   `json:"tone"`
	Style     string   `json:"style"`
	Emojis    []string `json:"emojis"`
	Phrases   []string `json:"phrases"`
	MaxLength int      `json:"max_length"`
}

// Style returns the writing requirements for the persona.
func (p Persona) Style() StyleProfile {
	switch p {
	case PersonaSassyReporter:
		return StyleProfile{
			Tone:      "sassy",
			Style:     "gossip columnist",
			Emojis:    []string{"✨", "💅", "☕", "👀"},
			Phrases:   []string{"Tea has been SPILLED!", "No cap!", "The dedication is real!"},
			MaxLength: 150,
		}
	case PersonaInvestigativeJournalist:
		return StyleProfile{
			Tone:      "serious",
			Style:     "news reporter",
			Emojis:    []string{"📊", "🔍", "📋"},
			Phrases:   []string{"Sources confirm", "Investigation reveals", "Breaking:"},
			MaxLength: 200,
		}
	case PersonaGossipColumnist:
		return StyleProfile{
			Tone:      "dramatic",
			Style:     "tabloid gossip",
			Emojis:    []string{"💋", "👑", "✨", "🍵"},
			Phrases:   []string{"Darlings!", "The gossip desk", "Exclusively yours"},
			MaxLength: 160,
		}
	case PersonaSportsCommentator:
		return StyleProfile{
			Tone:      "energetic",
			Style:     "sports announcer",
			Emojis:    []string{"🏆", "📣", "🎯", "💪"},
			Phrases:   []string{"LADIES AND GENTLEMEN!", "WHAT A PLAY!", "THE CROWD GOES WILD!"},
			MaxLength: 180,
		}
	case PersonaConspiracyTheorist:
		return StyleProfile{
			Tone:      "mysterious",
			Style:     "conspiracy theorist",
			Emojis:    []string{"👁️", "🔍", "🎭", "🛸"},
			Phrases:   []string{"WAKE UP SHEEPLE!", "The truth is out there", "COINCIDENCE? I THINK NOT!"},
			MaxLength: 170,
		}
	case PersonaWeatherAnchor:
		return StyleProfile{
			Tone:      "professional",
			Style:     "weather reporter",
			Emojis:    []string{"🌤️", "📡", "🌪️"},
			Phrases:   []string{"Community forecast", "Current conditions", "Weather update"},
			MaxLength: 150,
		}
	default:
		return StyleProfile{
			Tone:      "neutral",
			Style:     "general",
			Emojis:    []string{"📢"},
			Phrases:   []string{"Breaking news:", "Sources say"},
			MaxLength: 150,
		}
	}
}

// styleGuide is the long-form writing instruction embedded in the writer
// prompt, one worked example per persona.
func (p Persona) styleGuide() string {
	switch p {
	case PersonaSassyReporter:
		return `Write like a sassy gossip columnist who knows all the tea. Use phrases like "Tea has been SPILLED!"
and "No cap, bestie!" Include emojis like ✨💅☕👀. Be playful and slightly dramatic but never mean.
Example tone: "BREAKING: Sources confirm [target] was caught doing [embarrassing thing]. The secondhand
embarrassment is REAL! 💅✨"`
	case PersonaInvestigativeJournalist:
		return `Write like a serious news reporter uncovering important intel. Use professional language with phrases
like "Sources confirm" and "Investigation reveals." Include emojis sparingly: 📊🔍📋.
Maintain journalistic credibility while being obviously satirical.
Example tone: "CLASSIFIED REPORT: Multiple witnesses confirm [target] has been conducting secret
operations involving [silly activity]. Further investigation pending."`
	case PersonaGossipColumnist:
		return `Write like a dramatic tabloid gossip columnist. Use phrases like "Darlings!" and "Exclusively yours!"
Include glamorous emojis: 💋👑✨🍵. Be theatrical and over-the-top.
Example tone: "Darlings! 💅 The gossip desk has EXCLUSIVELY learned that [target] has been secretly
[embarrassing activity]. The drama! ✨"`
	case PersonaSportsCommentator:
		return `Write like an energetic sports announcer calling a game. Use ALL CAPS for excitement and phrases
like "LADIES AND GENTLEMEN!" and "WHAT A PLAY!" Include sports emojis: 🏆📣🎯💪.
Example tone: "LADIES AND GENTLEMEN! [Target] with the CHAMPIONSHIP MOVE! Sources confirm they've
been [silly activity]! THE CROWD GOES WILD! 🏆"`
	case PersonaConspiracyTheorist:
		return `Write like someone uncovering a grand conspiracy. Use phrases like "WAKE UP SHEEPLE!" and
"The truth is out there!" Include mysterious emojis: 👁️🔍🎭🛸. Be dramatically paranoid about silly things.
Example tone: "WAKE UP SHEEPLE! 👁️ [Target] is CLEARLY part of the [silly thing] ILLUMINATI!
The evidence is EVERYWHERE! COINCIDENCE? I THINK NOT!"`
	case PersonaWeatherAnchor:
		return `Write like a professional weather reporter giving forecasts. Use meteorological language and phrases
like "Community forecast" and "Current conditions." Include weather emojis: 🌤️📡🌪️.
Example tone: "Community forecast shows [target] with a high probability of [silly activity].
Current conditions suggest continued [embarrassing behavior]. 🌤️"`
	default:
		return "Write in a neutral, friendly tone with light humor."
	}
}

// attributions lists the persona-appropriate source attributions the writer
// picks from at random.
func (p Persona) attributions() []string {
	switch p {
	case PersonaSassyReporter:
		return []string{
			"Anonymous Bestie",
			"Tea Spillers Anonymous",
			"Someone Who Knows Someone",
			"The Gossip Network",
			"Confidential Sass Squad",
		}
	case PersonaInvestigativeJournalist:
		return []string{
			"Anonymous Whistleblower",
			"Classified Intelligence",
			"Deep Throat 2.0",
			"Investigative Sources",
			"Protected Witness",
		}
	case PersonaGossipColumnist:
		return []string{
			"Little Bird in Designer Shoes",
			"Fabulous Insider",
			"Glamorous Informant",
			"Society Circle Source",
			"Diamond-Wearing Witness",
		}
	case PersonaSportsCommentator:
		return []string{
			"Locker Room Leak",
			"Stadium Insider",
			"Championship Source",
			"Athletic Intelligence",
			"Game Film Evidence",
		}
	case PersonaConspiracyTheorist:
		return []string{
			"Deep State Operative",
			"Underground Network",
			"Shadow Government Files",
			"Illuminati Defector",
			"Anonymous Truth Seeker",
		}
	case PersonaWeatherAnchor:
		return []string{
			"Meteorological Intel",
			"Weather Station Alpha",
			"Atmospheric Conditions Report",
			"Climate Data Source",
			"Environmental Monitoring",
		}
	default:
		return []string{"Anonymous Source", "Confidential Tipster"}
	}
}

// fallbackTemplates is the fixed per-persona template set used when content
// generation fails outright.
func (p Persona) fallbackTemplates(target string) []string {
	switch p {
	case PersonaSassyReporter:
		return []string{
			"Tea Alert! ☕ Sources say " + target + " was caught having STRONG opinions about pineapple on pizza. The dedication to controversial food takes is real! 💅✨",
			"BREAKING: " + target + " allegedly spent 20 minutes explaining why their favorite show is actually underrated. No cap, the passion is admirable! 👀☕",
		}
	case PersonaInvestigativeJournalist:
		return []string{
			"CLASSIFIED REPORT: Investigation reveals " + target + " maintains detailed knowledge of obscure internet memes from 2019. Sources remain anonymous for safety reasons.",
			"Breaking investigation: Multiple witnesses confirm " + target + " has been conducting secret research on the optimal way to organize their digital music library.",
		}
	case PersonaGossipColumnist:
		return []string{
			"Darlings! 💅 The gossip desk exclusively reports " + target + " was spotted passionately defending their favorite fictional character in a heated discussion. The drama! ✨",
			"EXCLUSIVE: Fashion sources confirm " + target + " has strong opinions about sock and sandal combinations. The style choices! 👑💋",
		}
	case PersonaSportsCommentator:
		return []string{
			"LADIES AND GENTLEMEN! " + strings.ToUpper(target) + " WITH THE CHAMPIONSHIP DEDICATION! Sources confirm they've been perfecting their signature snack combination! WHAT COMMITMENT! 🏆📣",
			"BREAKING SPORTS NEWS! " + target + " has been caught practicing their victory dance for completing daily tasks! THE ENERGY IS UNMATCHED! 💪🎯",
		}
	case PersonaConspiracyTheorist:
		return []string{
			"WAKE UP SHEEPLE! 👁️ " + target + " is CLEARLY part of the Secret Society of People Who Remember Obscure Song Lyrics! The evidence is in their flawless karaoke performances! 🎭",
			"THE TRUTH IS OUT THERE! Deep sources reveal " + target + " has insider knowledge about which snacks pair best with different moods! COINCIDENCE? I THINK NOT! 🛸",
		}
	case PersonaWeatherAnchor:
		return []string{
			"Community forecast shows " + target + " with a high probability of strong opinions about optimal room temperature. Current conditions suggest continued thermostat advocacy. 🌤️",
			"Weather update: " + target + " demonstrates consistent patterns of having the perfect playlist for every occasion. Forecast calls for continued musical coordination. 📡",
		}
	default:
		return []string{
			"Sources report " + target + " has been spotted having passionate discussions about their favorite comfort food combinations.",
			"Anonymous tip confirms " + target + " maintains surprisingly strong opinions about proper coffee brewing methods.",
		}
	}
}
