package domain

const (
	// NumColors is the number of drawable tile colors.
	NumColors = 5
	// TilesPerColor is how many tiles of each color the bag starts with.
	TilesPerColor = 20
	// TotalTiles is the full tile population of a game.
	TotalTiles = NumColors * TilesPerColor
	// TilesPerDisplay is how many tiles a freshly dealt display holds.
	TilesPerDisplay = 4
	// WallSize is the width and height of a player's wall.
	WallSize = 5
)

// Bonus weights applied once at the end of the game.
const (
	BonusPerRow   = 2
	BonusPerCol   = 7
	BonusPerColor = 10
)

// penaltyPoints is indexed by the number of penalties taken in a round.
var penaltyPoints = [...]int{0, 1, 2, 3, 5, 7, 10, 13, 15}
