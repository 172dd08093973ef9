// Package arena collects the attendance table of a team's arena page.
package arena

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/alceccentric/arena-pricing-cron/models"
	"github.com/sirupsen/logrus"
)

const (
	ATTENDANCE_TABLE_SELECTOR = "table#cphContent_seatingStats"
	HEADER_ROW_CLASS          = "tableHeader"
	PRICE_UPDATE_MARKER       = "Ticket Price Update"
	PRICE_UPDATE_ATTENDANCE   = "-1"

	// date, opponent, four sections, total attendance, game type
	ROW_CELL_COUNT = 8
)

var (
	ErrTableNotFound = errors.New("attendance table not found")

	matchIDPattern = regexp.MustCompile(`/match/(\d+)/`)
)

// ParseArenaEvents classifies every data row of the attendance table, most recent first.
// The position of an event is its row index, header rows excluded. Rows that are too short
// are logged and skipped but still take up a position.
func ParseArenaEvents(html string) ([]models.ArenaEvent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse arena html: %w", err)
	}

	table := doc.Find(ATTENDANCE_TABLE_SELECTOR).First()
	if table.Length() == 0 {
		return nil, ErrTableNotFound
	}

	events := make([]models.ArenaEvent, 0)
	position := models.Position(0)
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if row.HasClass(HEADER_ROW_CLASS) {
			return
		}
		defer func() { position++ }()

		cells := row.Find("td")
		if cells.Length() < ROW_CELL_COUNT {
			logrus.Warnf("Skipping arena row %d: expected %d cells, got %d", position, ROW_CELL_COUNT, cells.Length())
			return
		}

		date := cellText(cells, 0)
		if isPriceChangeRow(cells) {
			events = append(events, models.PriceChange{
				Pos:  position,
				Date: date,
				Prices: models.SeatingPrices{
					Bleachers:   parsePrice(cellText(cells, 2)),
					LowerTier:   parsePrice(cellText(cells, 3)),
					Courtside:   parsePrice(cellText(cells, 4)),
					LuxuryBoxes: parsePrice(cellText(cells, 5)),
				},
			})
			return
		}

		gameID := ""
		if href, ok := cells.Eq(0).Find("a").First().Attr("href"); ok {
			if match := matchIDPattern.FindStringSubmatch(href); match != nil {
				gameID = match[1]
			}
		}
		if gameID == "" {
			logrus.Warnf("Arena row %d on %s has no match link", position, date)
		}
		events = append(events, models.GameOccurrence{Pos: position, GameID: gameID, Date: date})
	})

	return events, nil
}

func isPriceChangeRow(cells *goquery.Selection) bool {
	if strings.Contains(cellText(cells, 1), PRICE_UPDATE_MARKER) {
		return true
	}
	return cellText(cells, 6) == PRICE_UPDATE_ATTENDANCE
}

func cellText(cells *goquery.Selection, i int) string {
	return strings.TrimSpace(cells.Eq(i).Text())
}

func parsePrice(text string) *int {
	price, err := strconv.Atoi(strings.ReplaceAll(text, ",", ""))
	if err != nil || price < 0 {
		return nil
	}
	return &price
}
