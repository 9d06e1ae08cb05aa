package coproto

// Kind identifies the variant of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindDouble
	KindBigint
	KindString
	KindArray
	KindCommand
	KindNamedValue
	KindTable
)

// Tag bytes. Every encoded buffer starts with exactly one of these.
const (
	TagNull       byte = '-' // 0x2d
	TagBoolean    byte = '#' // 0x23
	TagInteger    byte = ':' // 0x3a
	TagDouble     byte = ';' // 0x3b
	TagBigint     byte = '(' // 0x28
	TagString     byte = '+' // 0x2b
	TagArray      byte = '[' // 0x5b
	TagCommand    byte = '$' // 0x24
	TagNamedValue byte = '@' // 0x40
	TagTable      byte = '{' // 0x7b
)

// Framing sentinels. None of them can appear as a digit, sign, decimal
// marker or boolean bit.
const (
	StartRecord    byte = 0x11
	EndRecord      byte = 0x12
	ValueDelimiter byte = 0x13
	BufferEnd      byte = 0x14
)

// Sign bytes carried by Integer, Double and Bigint.
const (
	SignPlus  byte = '+'
	SignMinus byte = '-'
)

// DecimalPoint separates the integer and fractional digits of a Double.
const DecimalPoint byte = '.'

var kindNames = [...]string{
	KindNull:       "Null",
	KindBoolean:    "Boolean",
	KindInteger:    "Integer",
	KindDouble:     "Double",
	KindBigint:     "Bigint",
	KindString:     "String",
	KindArray:      "Array",
	KindCommand:    "Command",
	KindNamedValue: "NamedV",
	KindTable:      "Table",
}

var kindTags = [...]byte{
	KindNull:       TagNull,
	KindBoolean:    TagBoolean,
	KindInteger:    TagInteger,
	KindDouble:     TagDouble,
	KindBigint:     TagBigint,
	KindString:     TagString,
	KindArray:      TagArray,
	KindCommand:    TagCommand,
	KindNamedValue: TagNamedValue,
	KindTable:      TagTable,
}

// tagKinds maps a tag byte to its kind; unknown tags map to kindUnknown.
var tagKinds = func() [256]Kind {
	var t [256]Kind
	for i := range t {
		t[i] = kindUnknown
	}
	for k, tag := range kindTags {
		t[tag] = Kind(k)
	}
	return t
}()

const kindUnknown Kind = 0xFF

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Tag returns the tag byte of k.
func (k Kind) Tag() byte {
	if int(k) < len(kindTags) {
		return kindTags[k]
	}
	return 0
}

// KindFromTag returns the kind registered for tag.
func KindFromTag(tag byte) (Kind, bool) {
	k := tagKinds[tag]
	return k, k != kindUnknown
}

// IsDelimiter reports whether b is one of the reserved framing bytes.
func IsDelimiter(b byte) bool {
	switch b {
	case StartRecord, EndRecord, ValueDelimiter, BufferEnd:
		return true
	default:
		return false
	}
}
