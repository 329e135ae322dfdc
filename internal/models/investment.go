package models

// Investment is a single gold purchase record, stored exactly as
// submitted by the client (after sanitization). The field set is
// preserved as received; amount, price, and goldSold are client-computed
// and never re-validated server-side.
type Investment map[string]any

// Field names the client is expected to send.
const (
	FieldTimestamp = "timestamp"
	FieldPrice     = "price"
	FieldAmount    = "amount"
	FieldGoldSold  = "goldSold"
)

// Timestamp returns the submitted timestamp string, or "" if absent or
// not a string.
func (inv Investment) Timestamp() string {
	s, _ := inv[FieldTimestamp].(string)
	return s
}

func (inv Investment) Price() (float64, bool) {
	return number(inv[FieldPrice])
}

func (inv Investment) Amount() (float64, bool) {
	return number(inv[FieldAmount])
}

func (inv Investment) GoldSold() (float64, bool) {
	return number(inv[FieldGoldSold])
}

// encoding/json decodes every JSON number in an untyped map as float64.
func number(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}
