package feed

import (
	"encoding/xml"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/greven/forex/internal/rates"
	"github.com/greven/forex/internal/support"
)

// envelope mirrors the ECB feed's nested Cube shape (spec.md section 6):
// an outer wrapper Cube holding one per-day Cube (bearing a time
// attribute) for each date, each holding one per-currency Cube (bearing
// currency/rate attributes). Grounded on umsatz-currency-exchange's
// ecb.Parse and NuclearLouse-curency-rates' FxRates struct, both of
// which decode this exact nesting with encoding/xml.
type envelope struct {
	Days []dayCube `xml:"Cube>Cube"`
}

type dayCube struct {
	Date       string        `xml:"time,attr"`
	Currencies []currencyCube `xml:"Cube"`
}

type currencyCube struct {
	Currency string `xml:"currency,attr"`
	Rate     string `xml:"rate,attr"`
}

// xmlParser is the default Parser, decoding the ECB envelope with the
// standard library's encoding/xml (spec.md section 1 scopes the parser
// out as an arbitrary, swappable collaborator, so no third-party XML
// library is wired here).
type xmlParser struct{}

// NewXMLParser builds the default Parser.
func NewXMLParser() Parser { return xmlParser{} }

func (xmlParser) Parse(k Kind, body []byte) (rates.Payload, error) {
	var env envelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode %s feed: %w", k, err)
	}
	if len(env.Days) == 0 {
		return nil, fmt.Errorf("%s feed contained no dated entries", k)
	}

	payload := make(rates.Payload, 0, len(env.Days))
	for _, day := range env.Days {
		date, err := support.ParseDate(day.Date)
		if err != nil {
			return nil, fmt.Errorf("%s feed: %w", k, err)
		}

		entries := make([]rates.Entry, 0, len(day.Currencies))
		for _, c := range day.Currencies {
			rate, err := decimal.NewFromString(c.Rate)
			if err != nil {
				return nil, fmt.Errorf("%s feed: currency %s: %w", k, c.Currency, err)
			}
			entries = append(entries, rates.Entry{Currency: c.Currency, Rate: rate})
		}

		payload = append(payload, rates.NewSet(date, entries))
	}

	sort.Slice(payload, func(i, j int) bool {
		return payload[i].Date.After(payload[j].Date)
	})

	return payload, nil
}
