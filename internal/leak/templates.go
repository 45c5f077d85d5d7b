package leak

import (
	"math/rand"
	"strings"
)

// leakTemplate is one canned leak shape. The activity slot is filled from
// the template's own pool, or from a topic pool when the window suggests one.
type leakTemplate struct {
	build      func(target, activity string) string
	activities []string
}

// topicActivities personalizes template output. When the community window
// has a recognizable top topic, activities are drawn from here half the time.
var topicActivities = map[string][]string{
	"gaming": {
		"rage-quitting a tutorial level",
		"blaming lag for everything since 2021",
		"keeping a spreadsheet of loot drops",
		"practicing speedrun strats in the menu screen",
	},
	"food": {
		"ranking instant noodle brands in a private document",
		"photographing every meal before eating",
		"defending ketchup on eggs in formal debate style",
	},
	"music": {
		"performing full concerts for their shower head",
		"curating playlists nobody is allowed to hear",
		"air-drumming at red lights",
	},
	"tech": {
		"turning it off and on again as a lifestyle",
		"hoarding browser tabs like rare artifacts",
		"naming every device on their network after cheeses",
	},
	"anime": {
		"maintaining a tier list of fictional characters",
		"practicing dramatic speeches from their favorite season",
	},
	"memes": {
		"saving memes into folders with a strict taxonomy",
		"explaining memes to confused relatives",
	},
}

func personaTemplates(persona Persona) []leakTemplate {
	switch persona {
	case PersonaSassyReporter:
		return []leakTemplate{
			{
				build: func(t, a string) string {
					return "Sources confirm " + t + " has been secretly " + a + " for weeks straight. 💅"
				},
				activities: []string{
					"binge-watching anime",
					"collecting rubber ducks",
					"practicing interpretive dance",
					"learning to yodel",
					"building a pillow fort empire",
				},
			},
			{
				build: func(t, a string) string {
					return "BREAKING: " + t + " allegedly " + a + ". The audacity! 😱"
				},
				activities: []string{
					"ate pineapple on pizza",
					"uses light mode",
					"puts milk before cereal",
					"double-dips chips",
					"leaves one second on the microwave",
				},
			},
			{
				build: func(t, a string) string {
					return "Tea has been spilled! 🍵 Insider reports " + t + " once " + a + "."
				},
				activities: []string{
					"googled how to google",
					"tried to pause an online game",
					"waved at someone waving behind them",
					"pushed a pull door for 5 minutes",
				},
			},
			{
				build: func(t, a string) string {
					return "Exclusive leak: " + t + " secretly " + a + ". We have questions! 🤔"
				},
				activities: []string{
					"writes fanfiction about kitchen appliances",
					"names all their plants",
					"talks to their reflection",
					"has a lucky rubber chicken",
					"sleeps with a nightlight shaped like a taco",
				},
			},
		}
	case PersonaInvestigativeJournalist:
		return []leakTemplate{
			{
				build: func(t, a string) string {
					return "After months of investigation, sources reveal " + t + " has been " + a + "."
				},
				activities: []string{
					"operating an underground cookie empire",
					"training carrier pigeons",
					"developing a time machine in their garage",
					"secretly learning ancient languages",
					"mapping the migration patterns of dust bunnies",
				},
			},
			{
				build: func(t, a string) string {
					return "Confidential documents suggest " + t + " once " + a + "."
				},
				activities: []string{
					"spent 3 hours trying to catch a wifi signal",
					"got lost in their own neighborhood",
					"argued with a smart TV",
					"tried to high-five their reflection",
					"bought a lottery ticket with birthday candle numbers",
				},
			},
			{
				build: func(t, a string) string {
					return "Investigation reveals: " + t + " allegedly " + a + "."
				},
				activities: []string{
					"keeps a diary written entirely in emoji",
					"has named their Wi-Fi router",
					"practices acceptance speeches in the shower",
					"uses a calculator to calculate calculator functions",
					"owns 47 different rubber bands for mysterious purposes",
				},
			},
			{
				build: func(t, a string) string {
					return "Breaking investigation: Multiple sources confirm " + t + " " + a + "."
				},
				activities: []string{
					"once tried to friend request their own alt account",
					"bought a plant just to have someone to talk to",
					"has a secret handshake with their coffee maker",
					"rates their meals online even when cooking at home",
					"apologizes to furniture when they bump into it",
				},
			},
		}
	case PersonaSportsCommentator:
		return []leakTemplate{
			{
				build: func(t, a string) string {
					return "BREAKING NEWS FROM THE FIELD! " + t + " has been spotted " + a + "! What a legend! 🏆"
				},
				activities: []string{
					"doing victory dances after opening jars",
					"trash-talking NPCs in single-player games",
					"celebrating virtual goals like they are real",
					"high-fiving their pet after successful treats",
					"doing play-by-play commentary while cooking",
				},
			},
			{
				build: func(t, a string) string {
					return "AND HERE COMES " + strings.ToUpper(t) + " WITH THE PLAY OF THE CENTURY! Sources say they " + a + "! UNBELIEVABLE! 🎯"
				},
				activities: []string{
					"once scored a perfect game of solitaire",
					"achieved a high score in typing tests",
					"won an argument with autocorrect",
					"successfully untangled earbuds on the first try",
					"parallel parked in one attempt",
				},
			},
			{
				build: func(t, a string) string {
					return "LADIES AND GENTLEMEN, we have confirmation that " + t + " " + a + "! THE CROWD GOES WILD! 📣"
				},
				activities: []string{
					"practices their signature for when they become famous",
					"does touchdown dances after successfully opening packages",
					"celebrates personal victories with air guitar solos",
					"has a victory playlist for completing mundane tasks",
					"treats grocery shopping like a competitive sport",
				},
			},
			{
				build: func(t, a string) string {
					return "EXCLUSIVE SPORTS LEAK! " + t + " has been " + a + "! WHAT DEDICATION! 💪"
				},
				activities: []string{
					"training for the Olympics of procrastination",
					"perfecting their victory speech for winning arguments in the shower",
					"practicing their game face in mirrors",
					"developing strategies for competitive binge watching",
					"coaching their houseplants to grow faster",
				},
			},
		}
	case PersonaConspiracyTheorist:
		return []leakTemplate{
			{
				build: func(t, a string) string {
					return "WAKE UP SHEEPLE! " + t + " is clearly " + a + "! The signs are everywhere! 👁️"
				},
				activities: []string{
					"an agent for Big Cereal",
					"secretly communicating with pigeons",
					"part of the underground sock puppet mafia",
					"a time traveler from the age of dial-up internet",
					"working for the Department of Lost Socks",
				},
			},
			{
				build: func(t, a string) string {
					return "THE TRUTH IS OUT THERE! Sources deep within the system reveal " + t + " " + a + "! 🛸"
				},
				activities: []string{
					"knows the real reason why hot dogs come in packs of 10 but buns in packs of 8",
					"has been hoarding USB cables for the apocalypse",
					"can communicate with printers and make them work",
					"knows where all the missing Tupperware lids go",
					"has the real explanation for why there is always that one sock missing",
				},
			},
			{
				build: func(t, a string) string {
					return "GOVERNMENT COVER-UP EXPOSED! " + t + " allegedly " + a + "! 🔍"
				},
				activities: []string{
					"discovered the secret to making printers work on the first try",
					"knows the location of the missing area between floors in elevators",
					"has photographic evidence of functioning ice cream machines",
					"possesses the ancient knowledge of how to fold fitted sheets",
					"holds the key to understanding why traffic is always worse in the other lane",
				},
			},
			{
				build: func(t, a string) string {
					return "THE ILLUMINATI DOESN'T WANT YOU TO KNOW: " + t + " has been " + a + "! COINCIDENCE? I THINK NOT! 🎭"
				},
				activities: []string{
					"secretly organizing the migration patterns of shopping carts",
					"controlling the algorithm that decides which sock goes missing",
					"part of the conspiracy to make all USB plugs require 3 attempts",
					"behind the plot to make every group project have one person who does nothing",
					"orchestrating the great mystery of why phone chargers disappear",
				},
			},
		}
	default:
		return []leakTemplate{
			{
				build: func(t, a string) string {
					return "Leaked: " + t + " apparently " + a + "."
				},
				activities: []string{
					"collects funny-shaped rocks",
					"names their houseplants",
					"practices conversations in the mirror",
					"has strong opinions about cereal",
					"owns more phone chargers than phones",
				},
			},
			{
				build: func(t, a string) string {
					return "Sources say " + t + " once " + a + "."
				},
				activities: []string{
					"spent an hour looking for their phone while holding it",
					"tried to push a door that said pull",
					"googled Google",
					"forgot their own password immediately after changing it",
					"waved back at someone waving behind them",
				},
			},
			{
				build: func(t, a string) string {
					return "Breaking: " + t + " secretly " + a + "."
				},
				activities: []string{
					"talks to their plants",
					"has a lucky pen",
					"practices their autograph",
					"counts steps while walking",
					"saves memes but never shares them",
				},
			},
			{
				build: func(t, a string) string {
					return "Exclusive: Multiple sources confirm " + t + " " + a + "."
				},
				activities: []string{
					"apologizes to inanimate objects",
					"has full conversations with their pets",
					"makes sound effects while doing mundane tasks",
					"celebrates small victories with personal victory dances",
					"uses calculators for simple math",
				},
			},
		}
	}
}

// templateLeak builds a leak with no model involvement. When the window's
// top topic has an activity pool, half the picks draw from it instead of
// the template's own, which keeps canned output loosely tied to what the
// community is actually talking about.
func templateLeak(target string, persona Persona, topics []string) string {
	templates := personaTemplates(persona)
	tpl := templates[rand.Intn(len(templates))]

	activities := tpl.activities
	if len(topics) > 0 {
		if pool, ok := topicActivities[topics[0]]; ok && rand.Intn(2) == 0 {
			activities = pool
		}
	}
	return tpl.build(target, activities[rand.Intn(len(activities))])
}
