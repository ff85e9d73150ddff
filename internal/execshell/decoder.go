package execshell

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

const (
	carriageReturnLineFeedConstant = "\r\n"
	lineFeedConstant               = "\n"
	trailingLineBreaksConstant     = "\r\n"
	replacementCharacterConstant   = string(utf8.RuneError)
)

// OutputDecoder converts captured subshell bytes from a legacy encoding into display text.
type OutputDecoder struct {
	encoding encoding.Encoding
}

// NewOutputDecoder resolves encodingName (WHATWG label such as "shift_jis" or "utf-8").
func NewOutputDecoder(encodingName string) (OutputDecoder, error) {
	resolvedEncoding, lookupError := htmlindex.Get(encodingName)
	if lookupError != nil {
		return OutputDecoder{}, newUnsupportedEncodingError(encodingName, lookupError)
	}
	return OutputDecoder{encoding: resolvedEncoding}, nil
}

// Decode never fails: malformed sequences become U+FFFD. Line endings are
// normalized to LF and trailing line breaks are dropped.
func (decoder OutputDecoder) Decode(rawOutput []byte) string {
	decodedText := decoder.decodeLossy(rawOutput)
	normalizedText := strings.ReplaceAll(decodedText, carriageReturnLineFeedConstant, lineFeedConstant)
	return strings.TrimRight(normalizedText, trailingLineBreaksConstant)
}

func (decoder OutputDecoder) decodeLossy(rawOutput []byte) string {
	if len(rawOutput) == 0 {
		return ""
	}
	if decoder.encoding == nil {
		return strings.ToValidUTF8(string(rawOutput), replacementCharacterConstant)
	}

	decodedOutput, decodeError := decoder.encoding.NewDecoder().Bytes(rawOutput)
	if decodeError != nil {
		return strings.ToValidUTF8(string(rawOutput), replacementCharacterConstant)
	}
	return strings.ToValidUTF8(string(decodedOutput), replacementCharacterConstant)
}
