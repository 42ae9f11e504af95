package search

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// Term list encodings accepted by LoadTerms.
const (
	EncodingUTF8  = "utf-8"
	EncodingEUCKR = "euc-kr"
	EncodingAuto  = "auto"
)

// ValidEncodings lists the accepted term_encoding values.
var ValidEncodings = map[string]bool{
	EncodingUTF8:  true,
	EncodingEUCKR: true,
	EncodingAuto:  true,
}

// LoadTerms reads a newline delimited term list. Lines are trimmed and empty
// lines are skipped.
func LoadTerms(r io.Reader, encoding string) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("search: reading term list: %w", err)
	}

	data, err = decode(data, encoding)
	if err != nil {
		return nil, err
	}

	terms := make([]string, 0)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		terms = append(terms, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("search: reading term list: %w", err)
	}
	return terms, nil
}

// LoadTermsFile opens path and delegates to LoadTerms.
func LoadTermsFile(path, encoding string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("search: opening term list: %w", err)
	}
	defer f.Close()
	return LoadTerms(f, encoding)
}

func decode(data []byte, encoding string) ([]byte, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", EncodingUTF8:
		return data, nil
	case EncodingEUCKR:
		return decodeEUCKR(data)
	case EncodingAuto:
		if utf8.Valid(data) {
			return data, nil
		}
		return decodeEUCKR(data)
	default:
		return nil, fmt.Errorf("search: unsupported term list encoding %q", encoding)
	}
}

func decodeEUCKR(data []byte) ([]byte, error) {
	out, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("search: decoding EUC-KR term list: %w", err)
	}
	return out, nil
}
