package models

import "fmt"

// Position is the index of a row in the arena attendance table.
// The table is reverse-chronological: position 0 is the most recent row.
type Position uint32

// Before reports whether p happened chronologically before other.
func (p Position) Before(other Position) bool {
	return p > other
}

// After reports whether p happened chronologically after other.
func (p Position) After(other Position) bool {
	return p < other
}

// Between reports whether p lies strictly between older and newer.
func (p Position) Between(older, newer Position) bool {
	return p.After(older) && p.Before(newer)
}

// SeatingPrices holds the ticket price of every seating section, in whole currency units.
// A nil entry means the price is unknown.
type SeatingPrices struct {
	Bleachers   *int `csv:"bleachers_price,omitempty" json:"bleachers_price"`
	LowerTier   *int `csv:"lower_tier_price,omitempty" json:"lower_tier_price"`
	Courtside   *int `csv:"courtside_price,omitempty" json:"courtside_price"`
	LuxuryBoxes *int `csv:"luxury_boxes_price,omitempty" json:"luxury_boxes_price"`
}

// NewSeatingPrices builds a fully populated price set.
func NewSeatingPrices(bleachers, lowerTier, courtside, luxuryBoxes int) SeatingPrices {
	return SeatingPrices{
		Bleachers:   &bleachers,
		LowerTier:   &lowerTier,
		Courtside:   &courtside,
		LuxuryBoxes: &luxuryBoxes,
	}
}

func (s SeatingPrices) Equal(other SeatingPrices) bool {
	return equalPrice(s.Bleachers, other.Bleachers) &&
		equalPrice(s.LowerTier, other.LowerTier) &&
		equalPrice(s.Courtside, other.Courtside) &&
		equalPrice(s.LuxuryBoxes, other.LuxuryBoxes)
}

func (s SeatingPrices) String() string {
	return fmt.Sprintf("{bleachers:%s lower_tier:%s courtside:%s luxury_boxes:%s}",
		formatPrice(s.Bleachers), formatPrice(s.LowerTier), formatPrice(s.Courtside), formatPrice(s.LuxuryBoxes))
}

func equalPrice(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func formatPrice(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprint(*p)
}

// ArenaEvent is a classified row of the arena attendance table.
// It is implemented by GameOccurrence and PriceChange only.
type ArenaEvent interface {
	Position() Position
	CivilDate() string
	isArenaEvent()
}

// GameOccurrence is a game row. GameID comes from the match link and is mandatory.
type GameOccurrence struct {
	Pos    Position
	GameID string
	Date   string
}

func (g GameOccurrence) Position() Position { return g.Pos }
func (g GameOccurrence) CivilDate() string  { return g.Date }
func (GameOccurrence) isArenaEvent()        {}

// PriceChange is a "Ticket Price Update" row. Prices are effective from this row onward.
type PriceChange struct {
	Pos    Position
	Date   string
	Prices SeatingPrices
}

func (p PriceChange) Position() Position { return p.Pos }
func (p PriceChange) CivilDate() string  { return p.Date }
func (PriceChange) isArenaEvent()        {}
