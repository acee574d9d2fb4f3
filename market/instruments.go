// market/instruments.go
package market

// AssetClass says which leg of the strategy an instrument is meant for.
type AssetClass string

const (
	Risky AssetClass = "risky"
	Safe  AssetClass = "safe"
)

type InstrumentMeta struct {
	Symbol   string
	Name     string
	Class    AssetClass
	Currency string
}

// Instruments lists the symbols the historical source is known to serve.
// Other symbols may still be requested.
var Instruments = map[string]InstrumentMeta{
	"^GSPC": {
		Symbol:   "^GSPC",
		Name:     "S&P 500 Index",
		Class:    Risky,
		Currency: "USD",
	},
	"VBISX": {
		Symbol:   "VBISX",
		Name:     "Vanguard Short-Term Bond Index Fund",
		Class:    Safe,
		Currency: "USD",
	},
	"SPY": {
		Symbol:   "SPY",
		Name:     "SPDR S&P 500 ETF",
		Class:    Risky,
		Currency: "USD",
	},
	"SHY": {
		Symbol:   "SHY",
		Name:     "iShares 1-3 Year Treasury Bond ETF",
		Class:    Safe,
		Currency: "USD",
	},
}

// Describe returns a display name for symbol, falling back to the symbol.
func Describe(symbol string) string {
	if m, ok := Instruments[symbol]; ok {
		return m.Name + " (" + symbol + ")"
	}
	return symbol
}
