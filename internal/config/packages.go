package config

// Package is a purchasable tier granting a fixed spin count and a fixed
// hits-required threshold for an NFT reward.
type Package struct {
	Key          string
	Name         string
	Description  string
	PriceStars   int
	PriceTON     float64
	AmountNano   int64
	Spins        int
	HitsRequired int
}

// Packages holds the static package catalogue, keyed by package key.
var Packages = map[string]Package{
	"bronze": {
		Key:          "bronze",
		Name:         "Bronze",
		Description:  "Perfect for beginners!",
		PriceStars:   450,
		PriceTON:     2.0,
		AmountNano:   2_000_000_000,
		Spins:        30,
		HitsRequired: 1,
	},
	"silver": {
		Key:          "silver",
		Name:         "Silver",
		Description:  "Great value for regular players",
		PriceStars:   900,
		PriceTON:     4.0,
		AmountNano:   4_000_000_000,
		Spins:        60,
		HitsRequired: 3,
	},
	"gold": {
		Key:          "gold",
		Name:         "Gold",
		Description:  "Premium package for serious players",
		PriceStars:   5000,
		PriceTON:     24.0,
		AmountNano:   24_000_000_000,
		Spins:        300,
		HitsRequired: 10,
	},
	"black": {
		Key:          "black",
		Name:         "Black",
		Description:  "Elite package for high rollers",
		PriceStars:   10000,
		PriceTON:     49.0,
		AmountNano:   49_000_000_000,
		Spins:        600,
		HitsRequired: 25,
	},
}

// PackageByKey resolves a package key; the second result is false for
// unknown keys.
func PackageByKey(key string) (Package, bool) {
	pkg, ok := Packages[key]
	return pkg, ok
}

// PackageByName resolves a package by display name ("Bronze", ...).
func PackageByName(name string) (Package, bool) {
	for _, pkg := range Packages {
		if pkg.Name == name {
			return pkg, true
		}
	}
	return Package{}, false
}

// ReferralRewards maps a package key to the spin points the referrer earns
// when the referred user activates that package.
var ReferralRewards = map[string]int{
	"bronze": 5,
	"silver": 10,
	"gold":   25,
	"black":  50,
}

// Level thresholds over lifetime spin points. Points are never reset, so
// levels only ever go up.
type Level struct {
	Name      string
	MinPoints int
	MaxPoints int
	Emoji     string
}

// Levels is ordered lowest first.
var Levels = []Level{
	{Name: "Spinner", MinPoints: 0, MaxPoints: 19, Emoji: "🎰"},
	{Name: "Collector", MinPoints: 20, MaxPoints: 49, Emoji: "🎁"},
	{Name: "VIP", MinPoints: 50, MaxPoints: 99, Emoji: "👑"},
	{Name: "High-Roller", MinPoints: 100, MaxPoints: 999999999, Emoji: "💎"},
}

// Influencer describes a referral partner with a revenue share.
type Influencer struct {
	Tier int
	Rate float64
	Name string
}

// Influencers maps user IDs to their commission terms. Static per
// deployment, loaded once.
var Influencers = map[int64]Influencer{}

// NFTPools maps package display names to their fixed NFT name pools.
var NFTPools = map[string][]string{
	"Bronze": {
		"Bow Tie", "Bunny Muffin", "Candy Cane", "Crystal Ball", "Easter Egg",
		"Eternal Candle", "Evil Eye", "Ginger Cookie", "Hanging Star", "Hex Pot",
		"Jelly Bunny", "Jester Hat", "Jingle Bells", "Jolly Chimp", "Joyful Bundle",
		"Light Sword", "Love Candle", "Love Potion", "Lush Bouquet", "Pet Snake",
		"Restless Jar", "Sakura Flower", "Santa Hat", "Skull Flower", "Sleigh Bell",
		"Snoop Cigar", "Snoop Dogg", "Snow Globe", "Spiced Wine", "Spy Agaric",
		"Star Notepad", "Stellar Rocket", "Swag Bag", "Tama Gadget", "Top Hat",
		"Trapped Heart", "Valentine Box", "Winter Wreath",
	},
	"Silver": {
		"Bonded Ring", "Diamond Ring", "Electric Skull", "Gem Signet", "Genie Lamp",
		"Kissed Frog", "Low Rider", "Magic Potion", "Neko Helmet", "Vintage Cigar",
		"Swiss Watch", "Sharp Tongue", "Signet Ring", "Toy Bear", "Westside Sign",
	},
	"Gold": {
		"Heroic Helmet", "Precious Peach", "Durov's Cap",
	},
	"Black": {
		"Heart Locket", "Plush Pepe",
	},
}
