package receipt

// tier pairs a printed label with the prize rank it reads from.
type tier struct {
	Label string
	Rank  int
}

// layout is the fixed prize table of one game.
type layout struct {
	Game  string
	Tiers []tier
}

var sixOfFortyNine = []tier{
	{"6", 1},
	{"5", 2},
	{"4", 3},
	{"3", 4},
}

var layouts = map[string]layout{
	"Lotto":     {Game: "Lotto", Tiers: sixOfFortyNine},
	"LottoPlus": {Game: "LottoPlus", Tiers: sixOfFortyNine},
	"MiniLotto": {Game: "MiniLotto", Tiers: []tier{
		{"5", 1},
		{"4", 2},
		{"3", 3},
	}},
	"EuroJackpot": {Game: "EuroJackpot", Tiers: []tier{
		{"5+2", 1},
		{"5+1", 2},
		{"5+0", 3},
		{"4+2", 4},
		{"4+1", 5},
		{"3+2", 6},
		{"4+0", 7},
		{"2+2", 8},
		{"3+1", 9},
		{"3+0", 10},
		{"1+2", 11},
		{"2+1", 12},
	}},
}
