package types

// MessageFormat controls how a queue message body is decoded before it is
// fired on the event bus.
type MessageFormat string

const (
	RawFormat  MessageFormat = "raw"
	JSONFormat MessageFormat = "json"
)

func (f MessageFormat) String() string {
	return string(f)
}

// ParseMessageFormat maps a configured value onto a MessageFormat. Anything
// other than exactly "json" falls back to RawFormat.
func ParseMessageFormat(s string) MessageFormat {
	if s == string(JSONFormat) {
		return JSONFormat
	}
	return RawFormat
}
