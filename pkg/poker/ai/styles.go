package ai

import "pokerarena-server/internal/rng"

// Persona is a table personality an AI seat plays as. Temperature is
// the base sampling temperature for its chat requests.
type Persona struct {
	Name        string  `json:"name"`
	Style       string  `json:"style"`
	Temperature float64 `json:"-"`
}

var defaultPersona = Persona{
	Name:        "The Grinder",
	Style:       "plays a solid, balanced game and rarely makes a big mistake",
	Temperature: 0.7,
}

var personas = []Persona{
	{
		Name:        "The Rock",
		Style:       "extremely tight and patient, folds everything but premium hands and only bets when ahead",
		Temperature: 0.4,
	},
	{
		Name:        "The Maniac",
		Style:       "hyper-aggressive, raises relentlessly, bluffs often and puts maximum pressure on every street",
		Temperature: 1.1,
	},
	{
		Name:        "The Professor",
		Style:       "calculates pot odds and equities carefully, always choosing the mathematically sound line",
		Temperature: 0.3,
	},
	{
		Name:        "The Trapper",
		Style:       "slow-plays big hands, checks and calls to induce bluffs, then springs a raise at the river",
		Temperature: 0.6,
	},
	{
		Name:        "The Gambler",
		Style:       "loves coin flips and draws, calls wide and chases flushes and straights to the end",
		Temperature: 1.0,
	},
	{
		Name:        "The Shark",
		Style:       "reads opponents and exploits their tendencies, mixing bluffs with thin value bets",
		Temperature: 0.8,
	},
	{
		Name:        "The Nit",
		Style:       "risk-averse to a fault, avoids big pots without the nuts and never bluffs",
		Temperature: 0.35,
	},
	{
		Name:        "The Showman",
		Style:       "flashy and unpredictable, makes oversized bets and hero calls to entertain the table",
		Temperature: 1.05,
	},
	{
		Name:        "The Grinder",
		Style:       "plays a solid, balanced game and rarely makes a big mistake",
		Temperature: 0.7,
	},
	{
		Name:        "The Assassin",
		Style:       "quiet and selectively aggressive, attacks weakness with precise three-bets and steals",
		Temperature: 0.75,
	},
}

// Personas returns the built-in persona catalog
func Personas() []Persona {
	list := make([]Persona, len(personas))
	copy(list, personas)
	return list
}

// PersonaByName returns the catalog persona with the given name, or a
// balanced default if the name is unknown
func PersonaByName(name string) Persona {
	for _, p := range personas {
		if p.Name == name {
			return p
		}
	}

	return defaultPersona
}

// RandomPersona picks a persona from the catalog
func RandomPersona(generator rng.Generator) Persona {
	return personas[generator.Intn(len(personas))]
}
