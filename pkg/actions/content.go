package actions

import (
	"encoding/json"
	"strings"
)

// FlexString accepts a JSON string or number. Extraction models are told to
// return amounts as strings but often emit bare numbers.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// stripSymbolPrefix removes the display "$" from a token symbol.
func stripSymbolPrefix(symbol string) string {
	return strings.TrimPrefix(symbol, "$")
}

// isWalletAddress checks the 0x-prefixed 42-character address form.
func isWalletAddress(addr string) bool {
	return strings.HasPrefix(addr, "0x") && len(addr) == 42
}
