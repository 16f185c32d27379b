package github

import (
	"regexp"
	"strings"

	"github.com/samber/mo"
	"github.com/shopspring/decimal"

	"github.com/yashranaway/flexile/models"
)

// Comma-grouped amounts must have at least one group so "$1500" is read whole
var bountyPattern = regexp.MustCompile(`\$(\d{1,3}(?:,\d{3})+|\d+)(\.\d{2})?`)

var centsPerDollar = decimal.NewFromInt(100)

// ExtractBountyCents returns the amount of the first label carrying a dollar value, in cents.
// Only the leftmost amount of that label counts; later labels are never summed in.
func ExtractBountyCents(labels []models.GitHubLabel) mo.Option[int64] {
	for _, label := range labels {
		matches := bountyPattern.FindStringSubmatch(label.Name)
		if matches == nil {
			continue
		}

		amount, err := decimal.NewFromString(strings.ReplaceAll(matches[1], ",", "") + matches[2])
		if err != nil {
			continue
		}

		// Exact decimal: "$0.29" is 29 cents, not the 28 a float64 round trip gives
		return mo.Some(amount.Mul(centsPerDollar).Truncate(0).IntPart())
	}

	return mo.None[int64]()
}
