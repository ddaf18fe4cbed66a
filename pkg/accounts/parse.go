package accounts

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
)

var dumpsysAccountRegex = regexp.MustCompile(`Account \{name=(.*), type=([^,}]+)\}`)

/*
ParseDumpsys extracts the accounts listed by "dumpsys account".
The same account appears in several sections of the output, only the first occurrence is kept
*/
func ParseDumpsys(r io.Reader) ([]Account, error) {
	scanner := bufio.NewScanner(r)

	var accounts []Account
	seen := map[Account]bool{}

	for scanner.Scan() {
		match := dumpsysAccountRegex.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}

		account := Account{Name: match[1], Type: match[2]}
		if seen[account] {
			continue
		}
		seen[account] = true
		accounts = append(accounts, account)
	}
	return accounts, scanner.Err()
}

/*
ParseParcelString decodes a string returned by "service call", e.g.

	Result: Parcel(
	  0x00000000: 00000000 00000008 00350035 002d0035 '........5.5.5.-.'
	  0x00000010: 00320031 00340033 00000000          '1.2.3.4.....    ')

The first word is the exception code, the second the string length in UTF-16 units.
A null string decodes to ""
*/
func ParseParcelString(output string) (string, error) {
	var words []uint32

	for _, line := range strings.Split(output, "\n") {
		if idx := strings.Index(line, "'"); idx >= 0 {
			line = line[:idx]
		}

		for _, field := range strings.Fields(line) {
			field = strings.TrimPrefix(field, "Parcel(")
			field = strings.TrimSuffix(field, ")")
			if field == "Result:" || strings.HasSuffix(field, ":") || len(field) != 8 {
				continue
			}

			word, err := strconv.ParseUint(field, 16, 32)
			if err != nil {
				return "", fmt.Errorf("invalid parcel word %q: %w", field, err)
			}
			words = append(words, uint32(word))
		}
	}

	if len(words) < 2 {
		return "", fmt.Errorf("unexpected parcel output: %q", output)
	}
	if words[0] != 0 {
		return "", fmt.Errorf("service call failed with exception code %#x", words[0])
	}
	if words[1] == 0xffffffff {
		return "", nil
	}

	length := int(words[1])
	units := make([]uint16, 0, length)
	for _, word := range words[2:] {
		units = append(units, uint16(word&0xffff), uint16(word>>16))
	}
	if len(units) < length {
		return "", fmt.Errorf("parcel string truncated: want %d units, got %d", length, len(units))
	}
	return string(utf16.Decode(units[:length])), nil
}
