package common

// ConversionConfig stores configuration options for the conversion process.
type ConversionConfig struct {
	Delimiter       rune   // Delimiter used for CSV parsing, the driver default (comma) when zero
	DetectDelimiter bool   // Guess the delimiter from the header line when Delimiter is zero
	Sheet           string // Excel sheet to read, defaults to the first sheet
	TableID         string // HTML table id to read, defaults to the first table
	Verbose         bool   // Enable detailed logging
}

// DetectDelimiter guesses the delimiter of a header line. It counts each
// candidate outside double-quoted fields and returns the most frequent one;
// ties and lines without any candidate resolve to comma.
func DetectDelimiter(line string) rune {
	delimiters := []rune{',', '\t', ';', '|'}
	counts := make(map[rune]int, len(delimiters))

	inQuotes := false
	for _, r := range line {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			counts[r]++
		}
	}

	maxCount := 0
	winner := ','
	for _, delim := range delimiters {
		if counts[delim] > maxCount {
			maxCount = counts[delim]
			winner = delim
		}
	}
	return winner
}
