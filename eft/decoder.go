package eft

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/veduco/EFTSuite-Public/encoding"
	"github.com/veduco/EFTSuite-Public/endian"
	"github.com/veduco/EFTSuite-Public/errs"
	"github.com/veduco/EFTSuite-Public/format"
	"github.com/veduco/EFTSuite-Public/internal/options"
	"github.com/veduco/EFTSuite-Public/logging"
	"github.com/veduco/EFTSuite-Public/record"
)

// taggedLookahead bounds the window scanned for a GS when probing a tagged
// record start; a real tagged header ("14.001:1234567<GS>") fits well
// within it, and probing further risks matching a GS inside image data.
const taggedLookahead = 50

// binaryLengthTolerance accepts binary records whose declared length
// slightly overruns the remaining bytes (legacy writers pad their math).
const binaryLengthTolerance = 100

// taggedHeaderPattern matches the first field of a tagged record:
// <type>.<field>:<decimal length>.
var taggedHeaderPattern = regexp.MustCompile(`^(\d{1,2})\.(\d{3}):(\d+)$`)

// View is one parsed record: its type, IDC, tag-to-value map, and (for
// fingerprint records) the image payload. Values reference the parsed
// source buffer, which the owning File keeps alive.
type View struct {
	RecordType format.RecordType
	Idc        int
	Fields     *encoding.FieldMap
	// Image is the R.999 payload (nil for non-image records).
	Image []byte
	// Raw is the record's full original serialization.
	Raw []byte
}

// GetString returns the textual value of the given field number.
func (v *View) GetString(field int) string {
	return v.Fields.GetString(encoding.NewTag(int(v.RecordType), field))
}

// Position returns the finger position the record carries (14.013, or the
// FGP byte of a binary record), 0 when absent.
func (v *View) Position() int {
	field := 13
	if v.RecordType == format.TypeHighResGray {
		field = 4
	}
	pos, _ := strconv.Atoi(v.GetString(field))

	return pos
}

// DeclaredCGA returns the compression the record claims: 14.011 text, or
// the stringified Type-4 header code.
func (v *View) DeclaredCGA() string {
	field := 11
	if v.RecordType == format.TypeHighResGray {
		field = 8
	}

	return v.GetString(field)
}

// ReconciledFormat resolves the image payload's actual format: header magic
// wins over the declared CGA, which only decides when no magic matches.
func (v *View) ReconciledFormat() format.ImageFormat {
	detected := format.DetectImageFormat(v.Image)
	if detected != format.ImageRaw {
		return detected
	}

	switch format.ParseCGAText(v.DeclaredCGA()) {
	case format.CGAWSQ:
		return format.ImageWSQ
	case format.CGAJPEGBaseline, format.CGAJPEGLossless:
		return format.ImageJPEG
	case format.CGAJP2:
		return format.ImageJP2
	case format.CGAPNG:
		return format.ImagePNG
	default:
		return format.ImageRaw
	}
}

// File is a parsed transmission: its records in file order, anchored to the
// source buffer the views reference.
type File struct {
	Records []*View

	data []byte
}

// Type2 returns the biographic record view, or nil when absent.
func (f *File) Type2() *View {
	for _, view := range f.Records {
		if view.RecordType == format.TypeDescriptive {
			return view
		}
	}

	return nil
}

// ImageRecords returns the views carrying image payloads, in file order.
func (f *File) ImageRecords() []*View {
	var out []*View
	for _, view := range f.Records {
		if view.Image != nil {
			out = append(out, view)
		}
	}

	return out
}

// Parser decodes EFT files. The zero-value default is usable; NewParser
// applies options.
type Parser struct {
	logger *logging.Logger
}

// ParserOption configures a Parser.
type ParserOption = options.Option[*Parser]

// WithParserLogger injects the logger.
func WithParserLogger(logger *logging.Logger) ParserOption {
	return options.NoError(func(p *Parser) {
		p.logger = logger
	})
}

// NewParser creates a parser with the given options.
func NewParser(opts ...ParserOption) (*Parser, error) {
	p := &Parser{logger: logging.DefaultLogger()}
	if err := options.Apply(p, opts...); err != nil {
		return nil, err
	}

	return p, nil
}

// Parse decodes the whole buffer with a background context.
func Parse(data []byte) (*File, error) {
	p, _ := NewParser()
	return p.Parse(context.Background(), data)
}

// Parse walks the buffer record by record. At each offset it first attempts
// a tagged parse inside a bounded lookahead window, then falls back to the
// 4-byte big-endian length prefix of a binary record. Failure at any offset
// is fatal: no skipping past garbage is attempted, so corruption never
// passes silently.
//
// Cancellation is checked between records.
func (p *Parser) Parse(ctx context.Context, data []byte) (*File, error) {
	file := &File{data: data}

	offset := 0
	for offset < len(data) {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: at offset %d", errs.ErrCancelled, offset)
		}

		recordLen, err := p.frameRecord(data, offset)
		if err != nil {
			return nil, err
		}

		end := offset + recordLen
		if end > len(data) {
			end = len(data)
		}

		view, err := p.parseRecord(data[offset:end], offset)
		if err != nil {
			return nil, err
		}
		file.Records = append(file.Records, view)

		offset = end
	}

	if len(file.Records) == 0 {
		return nil, fmt.Errorf("%w: empty file", errs.ErrParseFailure)
	}
	if file.Records[0].RecordType != format.TypeTransaction {
		return nil, fmt.Errorf("%w: first record is %s, want Type-1", errs.ErrParseFailure, file.Records[0].RecordType)
	}

	p.logger.Debug("parse complete", "records", len(file.Records), "bytes", len(data))

	return file, nil
}

// frameRecord determines how many bytes the record at offset claims.
func (p *Parser) frameRecord(data []byte, offset int) (int, error) {
	remaining := len(data) - offset

	// Type-1 fast path: some writers put the file length in 1.001, so the
	// header's boundary is the first FS, not the declared value.
	if offset == 0 {
		if colon := bytes.IndexByte(data[:min(len(data), taggedLookahead)], ':'); colon > 0 {
			if string(data[:colon]) == "1.001" {
				fs := bytes.IndexByte(data, encoding.FS)
				if fs < 0 {
					return 0, fmt.Errorf("%w: Type-1 record has no FS terminator", errs.ErrParseFailure)
				}

				return fs + 1, nil
			}
		}
	}

	// Attempt tagged: find a GS inside the lookahead window and require the
	// prefix to be a well-formed first field.
	window := data[offset:min(len(data), offset+taggedLookahead)]
	if gs := bytes.IndexByte(window, encoding.GS); gs > 0 {
		if match := taggedHeaderPattern.FindSubmatch(window[:gs]); match != nil {
			declared, err := strconv.Atoi(string(match[3]))
			if err == nil && declared > 0 {
				if declared > remaining {
					return 0, fmt.Errorf("%w: record at offset %d declares %d bytes, only %d remain",
						errs.ErrParseFailure, offset, declared, remaining)
				}

				return declared, nil
			}
		}
	}

	// Fallback: binary record with a 4-byte big-endian length prefix.
	if remaining < 4 {
		return 0, fmt.Errorf("%w: %d trailing bytes at offset %d", errs.ErrParseFailure, remaining, offset)
	}

	declared := int(endian.GetBigEndianEngine().Uint32(data[offset : offset+4]))
	if declared < record.Type4HeaderSize || declared > remaining+binaryLengthTolerance {
		return 0, fmt.Errorf("%w: implausible binary length %d at offset %d", errs.ErrParseFailure, declared, offset)
	}

	return declared, nil
}

// parseRecord dispatches on the record's first bytes: tagged records carry
// an ASCII tag, binary records do not.
func (p *Parser) parseRecord(raw []byte, offset int) (*View, error) {
	if colon := bytes.IndexByte(raw[:min(len(raw), taggedLookahead)], ':'); colon > 0 {
		if tag, err := encoding.ParseTag(string(raw[:colon])); err == nil && tag.IsLength() {
			return p.parseTagged(raw, tag.Type, offset)
		}
	}

	return p.parseBinary(raw, offset)
}

// parseTagged walks a tagged record body field by field. Each field starts
// with a tag immediately after the previous GS; a 999 field consumes the
// remainder of the record (minus the final FS) with no separator splitting,
// since image bytes legally contain GS/RS/US values.
func (p *Parser) parseTagged(raw []byte, recordType int, offset int) (*View, error) {
	if len(raw) == 0 || raw[len(raw)-1] != encoding.FS {
		return nil, fmt.Errorf("%w: tagged record at offset %d lacks its FS terminator", errs.ErrParseFailure, offset)
	}
	body := raw[:len(raw)-1]

	view := &View{
		RecordType: format.RecordType(recordType),
		Fields:     encoding.NewFieldMap(),
		Raw:        raw,
	}

	cur := 0
	for cur < len(body) {
		colon := bytes.IndexByte(body[cur:], ':')
		if colon < 0 {
			return nil, fmt.Errorf("%w: unterminated tag at offset %d", errs.ErrParseFailure, offset+cur)
		}
		colon += cur

		tag, err := encoding.ParseTag(string(body[cur:colon]))
		if err != nil {
			return nil, fmt.Errorf("%w: at offset %d", err, offset+cur)
		}

		if tag.IsImage() {
			view.Fields.Set(tag, body[colon+1:])
			view.Image = body[colon+1:]
			break
		}

		end := bytes.IndexByte(body[colon+1:], encoding.GS)
		if end < 0 {
			end = len(body)
		} else {
			end += colon + 1
		}

		view.Fields.Set(tag, body[colon+1:end])
		cur = end + 1
	}

	// Field 002 is the IDC everywhere except the Type-1 header, where it is
	// the version string.
	if view.RecordType != format.TypeTransaction {
		view.Idc, _ = strconv.Atoi(view.GetString(2))
	}

	return view, nil
}

// parseBinary unpacks a Type-4 record into the uniform tag map, mirroring
// the tagged view: header fields surface as 4.002-4.008 and the payload as
// 4.999.
func (p *Parser) parseBinary(raw []byte, offset int) (*View, error) {
	t4, err := record.ParseType4(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: at offset %d", err, offset)
	}

	fields := encoding.NewFieldMap()
	fields.SetString(encoding.NewTag(4, 2), strconv.Itoa(t4.Idc))
	fields.SetString(encoding.NewTag(4, 3), strconv.Itoa(int(t4.Impression)))
	fields.SetString(encoding.NewTag(4, 4), strconv.Itoa(t4.Position))
	fields.SetString(encoding.NewTag(4, 5), strconv.Itoa(t4.ScanRes))
	fields.SetString(encoding.NewTag(4, 6), strconv.Itoa(t4.Width))
	fields.SetString(encoding.NewTag(4, 7), strconv.Itoa(t4.Height))
	fields.SetString(encoding.NewTag(4, 8), strconv.Itoa(int(t4.CGA)))
	fields.Set(encoding.NewTag(4, 999), t4.Data)

	return &View{
		RecordType: format.TypeHighResGray,
		Idc:        t4.Idc,
		Fields:     fields,
		Image:      t4.Data,
		Raw:        raw,
	}, nil
}
