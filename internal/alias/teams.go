package alias

// team holds one franchise entry from the training-time team table. The
// numeric id must match the id the model was trained with.
type team struct {
	Abbr string
	Name string
	ID   int
}

// teamTable mirrors data/team_info.csv from the training pipeline. ARI is the
// training-time code for the relocated Utah franchise.
var teamTable = []team{
	{"NJD", "New Jersey Devils", 1},
	{"NYI", "New York Islanders", 2},
	{"NYR", "New York Rangers", 3},
	{"PHI", "Philadelphia Flyers", 4},
	{"PIT", "Pittsburgh Penguins", 5},
	{"BOS", "Boston Bruins", 6},
	{"BUF", "Buffalo Sabres", 7},
	{"MTL", "Montreal Canadiens", 8},
	{"OTT", "Ottawa Senators", 9},
	{"TOR", "Toronto Maple Leafs", 10},
	{"CAR", "Carolina Hurricanes", 12},
	{"FLA", "Florida Panthers", 13},
	{"TBL", "Tampa Bay Lightning", 14},
	{"WSH", "Washington Capitals", 15},
	{"CHI", "Chicago Blackhawks", 16},
	{"DET", "Detroit Red Wings", 17},
	{"NSH", "Nashville Predators", 18},
	{"STL", "St. Louis Blues", 19},
	{"CGY", "Calgary Flames", 20},
	{"COL", "Colorado Avalanche", 21},
	{"EDM", "Edmonton Oilers", 22},
	{"VAN", "Vancouver Canucks", 23},
	{"ANA", "Anaheim Ducks", 24},
	{"DAL", "Dallas Stars", 25},
	{"LAK", "Los Angeles Kings", 26},
	{"SJS", "San Jose Sharks", 28},
	{"CBJ", "Columbus Blue Jackets", 29},
	{"MIN", "Minnesota Wild", 30},
	{"WPG", "Winnipeg Jets", 52},
	{"ARI", "Arizona Coyotes", 53},
	{"VGK", "Vegas Golden Knights", 54},
	{"SEA", "Seattle Kraken", 55},
}

// canonicalMap maps abbreviation variants to the training-time code.
var canonicalMap = map[string]string{
	"UTA":         "ARI",
	"UTAH":        "ARI",
	"UTAHMAMMOTH": "ARI",
}

// displayMap maps training-time codes back to the current franchise code
// for user-facing output.
var displayMap = map[string]string{
	"ARI": "UTA",
}

// nameAliases covers provider spellings that the normalized franchise name
// does not produce. Keys are pre-normalized.
var nameAliases = map[string]string{
	"utah mammoth":      "ARI",
	"utah hockey club":  "ARI",
	"montral canadiens": "MTL", // "Montréal" with the accent dropped
}
