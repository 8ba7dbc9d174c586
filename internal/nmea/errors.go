package nmea

import "errors"

// Decode failures. Callers test for them with errors.Is; the wrapped
// message carries the offending field or identifier.
var (
	ErrMalformedSentence = errors.New("nmea: malformed sentence")
	ErrWrongSentenceType = errors.New("nmea: wrong sentence type")
	ErrTruncatedSentence = errors.New("nmea: truncated sentence")
	ErrInvalidCoordinate = errors.New("nmea: invalid coordinate")

	ErrSourceNotFound = errors.New("nmea: source not found")
	ErrUnknownType    = errors.New("nmea: unknown sentence type")
)
