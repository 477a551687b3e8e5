// Package mailparse flattens RFC 5322 / MIME messages into a core.Email
// whose subject and body are plain decoded text.
package mailparse

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/Manideep667320/Email-Spam-detection/internal/core"
)

const maxDepth = 32

type header interface {
	Get(key string) string
}

// Parser decodes messages. It holds no per-message state and is safe for
// concurrent use.
type Parser struct {
	words *mime.WordDecoder
}

// NewParser creates a parser that understands any charset known to htmlindex
func NewParser() *Parser {
	return &Parser{
		words: &mime.WordDecoder{CharsetReader: charsetReader},
	}
}

// Parse reads one message. A header block that does not parse strictly is
// read leniently: the headers before the first malformed line are kept and
// everything from that line on is the body. Only read errors wrap
// core.ErrParseFailure.
func (p *Parser) Parse(r io.Reader) (*core.Email, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read message: %v", core.ErrParseFailure, err)
	}

	var (
		h   mail.Header
		raw []byte
	)
	if msg, err := mail.ReadMessage(bytes.NewReader(data)); err == nil {
		if raw, err = io.ReadAll(msg.Body); err != nil {
			return nil, fmt.Errorf("%w: failed to read body: %v", core.ErrParseFailure, err)
		}
		h = msg.Header
	} else {
		h, raw = splitLenient(data)
	}

	email := &core.Email{
		Subject: p.DecodeHeader(h.Get("Subject")),
		From:    p.sender(h),
		To:      p.recipients(h),
		Headers: map[string][]string(h),
	}

	var body strings.Builder
	p.walk(h, raw, &body, 0)
	email.Body = body.String()
	return email, nil
}

// splitLenient reads header fields up to the first blank line or the first
// line that is neither a field nor a continuation, which starts the body.
func splitLenient(data []byte) (mail.Header, []byte) {
	h := mail.Header{}
	var lastKey string
	for pos := 0; pos < len(data); {
		end := bytes.IndexByte(data[pos:], '\n')
		next := len(data)
		if end >= 0 {
			end += pos
			next = end + 1
		} else {
			end = len(data)
		}
		line := strings.TrimSuffix(string(data[pos:end]), "\r")

		switch {
		case line == "":
			return h, data[next:]
		case pos == 0 && strings.HasPrefix(line, "From "):
			// mbox separator
		case (line[0] == ' ' || line[0] == '\t') && lastKey != "":
			values := h[lastKey]
			values[len(values)-1] += " " + strings.TrimSpace(line)
		default:
			name, value, ok := strings.Cut(line, ":")
			if !ok || !validFieldName(name) {
				return h, data[pos:]
			}
			lastKey = textproto.CanonicalMIMEHeaderKey(name)
			h[lastKey] = append(h[lastKey], strings.TrimSpace(value))
		}
		pos = next
	}
	return h, nil
}

// validFieldName reports whether name is printable ASCII without space or colon
func validFieldName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if c := name[i]; c < '!' || c > '~' {
			return false
		}
	}
	return true
}

// ParseBytes is Parse over an in-memory message
func (p *Parser) ParseBytes(data []byte) (*core.Email, error) {
	return p.Parse(bytes.NewReader(data))
}

// DecodeHeader decodes RFC 2047 encoded words, returning the input unchanged
// when it cannot be decoded
func (p *Parser) DecodeHeader(value string) string {
	decoded, err := p.words.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

func (p *Parser) sender(h mail.Header) string {
	if addr, err := mail.ParseAddress(h.Get("From")); err == nil {
		return addr.Address
	}
	return p.DecodeHeader(h.Get("From"))
}

func (p *Parser) recipients(h mail.Header) []string {
	list, err := h.AddressList("To")
	if err != nil {
		return nil
	}
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.Address
	}
	return out
}

// walk visits the part tree depth-first. Every text/plain part is appended;
// a text/html part is used only while nothing has been collected yet.
func (p *Parser) walk(h header, raw []byte, out *strings.Builder, depth int) {
	if depth > maxDepth {
		return
	}

	mediaType, params := contentType(h)
	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		boundary := params["boundary"]
		if boundary == "" {
			return
		}
		mr := multipart.NewReader(bytes.NewReader(raw), boundary)
		for {
			part, err := mr.NextRawPart()
			if err != nil {
				// io.EOF or a malformed tail; keep what was collected
				return
			}
			data, err := io.ReadAll(part)
			if err != nil {
				return
			}
			p.walk(part.Header, data, out, depth+1)
		}

	case mediaType == "message/rfc822":
		inner, err := mail.ReadMessage(bytes.NewReader(decodeTransfer(h, raw)))
		if err != nil {
			return
		}
		data, err := io.ReadAll(inner.Body)
		if err != nil {
			return
		}
		p.walk(inner.Header, data, out, depth+1)

	case mediaType == "text/plain":
		out.WriteString(decodeText(h, params, raw))

	case mediaType == "text/html":
		if out.Len() == 0 {
			out.WriteString(HTMLToText(decodeText(h, params, raw)))
		}
	}
}

// HTMLToText returns the concatenated text nodes of an HTML document
func HTMLToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return doc.Text()
}

func contentType(h header) (string, map[string]string) {
	value := h.Get("Content-Type")
	if value == "" {
		return "text/plain", map[string]string{}
	}
	mediaType, params, err := mime.ParseMediaType(value)
	if err != nil {
		// salvage the media type when only the parameters are malformed
		mediaType = strings.ToLower(strings.TrimSpace(strings.SplitN(value, ";", 2)[0]))
		if mediaType == "" {
			mediaType = "text/plain"
		}
		if params == nil {
			params = map[string]string{}
		}
	}
	return mediaType, params
}

func decodeText(h header, params map[string]string, raw []byte) string {
	return decodeCharset(params["charset"], decodeTransfer(h, raw))
}

func decodeTransfer(h header, raw []byte) []byte {
	switch strings.ToLower(strings.TrimSpace(h.Get("Content-Transfer-Encoding"))) {
	case "base64":
		return decodeBase64(raw)
	case "quoted-printable":
		// partial output is still useful when the encoding is damaged
		data, _ := io.ReadAll(quotedprintable.NewReader(bytes.NewReader(raw)))
		return data
	default:
		return raw
	}
}

// decodeBase64 ignores characters outside the alphabet and missing padding
func decodeBase64(raw []byte) []byte {
	clean := make([]byte, 0, len(raw))
	for _, c := range raw {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '+', c == '/':
			clean = append(clean, c)
		}
	}
	if len(clean)%4 == 1 {
		clean = clean[:len(clean)-1]
	}
	out := make([]byte, base64.RawStdEncoding.DecodedLen(len(clean)))
	n, err := base64.RawStdEncoding.Decode(out, clean)
	if err != nil {
		return raw
	}
	return out[:n]
}

func decodeCharset(charset string, data []byte) string {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8", "us-ascii", "ascii":
		return string(data)
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return string(data)
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, errors.New("unsupported charset " + charset)
	}
	return enc.NewDecoder().Reader(input), nil
}
