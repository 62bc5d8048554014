package modem

import (
	"encoding/hex"
	"errors"

	"golang.org/x/text/encoding/unicode"
)

// 设备的 "UNICODE" 短信编码：UTF-16BE 码元的小写十六进制
var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

var errOddLength = errors.New("odd number of bytes for UTF-16 content")

// EncodeText 将文本编码为设备要求的十六进制 UTF-16BE
func EncodeText(text string) (string, error) {
	b, err := utf16be.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return "", &ValidationError{Field: "message", Reason: err.Error()}
	}
	return hex.EncodeToString(b), nil
}

// DecodeText 将设备返回的十六进制 UTF-16BE 内容还原为文本
func DecodeText(content string) (string, error) {
	b, err := hex.DecodeString(content)
	if err != nil {
		return "", &ProtocolError{Command: "sms content", Body: content, Err: err}
	}
	if len(b)%2 != 0 {
		return "", &ProtocolError{Command: "sms content", Body: content, Err: errOddLength}
	}

	text, err := utf16be.NewDecoder().Bytes(b)
	if err != nil {
		return "", &ProtocolError{Command: "sms content", Body: content, Err: err}
	}
	return string(text), nil
}
