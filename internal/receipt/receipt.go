// Package receipt renders draw results as receipt text.
package receipt

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pauljones0/lotto-receipt-bot/internal/models"
	"github.com/pauljones0/lotto-receipt-bot/internal/util"
)

var (
	// ErrUnsupportedGame is returned for games without a prize table layout.
	ErrUnsupportedGame = errors.New("unsupported game")
	// ErrMissingTier is returned when a result lacks a tier its layout prints.
	ErrMissingTier = errors.New("missing prize tier")
)

const dateLayout = "2006-01-02 15:04:05-07:00"

// Draw dates are always printed in UTC+2, whatever the host timezone.
var receiptZone = time.FixedZone("UTC+2", 2*60*60)

// Supported reports whether game has a prize table layout.
func Supported(game string) bool {
	_, ok := layouts[game]
	return ok
}

// Games lists the games that can be printed, sorted.
func Games() []string {
	games := make([]string, 0, len(layouts))
	for g := range layouts {
		games = append(games, g)
	}
	sort.Strings(games)
	return games
}

// Format renders result as receipt text ending in a blank tear-off gap.
func Format(result models.DrawResult) (string, error) {
	lay, ok := layouts[result.GameType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedGame, result.GameType)
	}

	drawTime, err := result.DrawTime()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Gra: %s\n", lay.Game)
	fmt.Fprintf(&b, "Data: %s\n", drawTime.In(receiptZone).Format(dateLayout))
	fmt.Fprintf(&b, "Liczby: %s\n", util.JoinInts(result.Numbers, " "))
	if len(result.SpecialNumbers) > 0 {
		fmt.Fprintf(&b, "Dodatkowe: %s\n", util.JoinInts(result.SpecialNumbers, " "))
	}
	b.WriteString("Wyniki:\n")
	for _, t := range lay.Tiers {
		prize, ok := result.Prizes[t.Rank]
		if !ok {
			return "", fmt.Errorf("%w: %s rank %d", ErrMissingTier, lay.Game, t.Rank)
		}
		fmt.Fprintf(&b, "%s: ilosc: %d nagroda: %.2f\n", t.Label, prize.Winners, prize.Value)
	}
	b.WriteString("\n\n")
	return b.String(), nil
}
