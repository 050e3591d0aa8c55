package x86_64

import "github.com/vexcore/elfdis/internal/ioreader"

// vex2Block holds the decoded fields of a two-byte VEX prefix (0xC5 + 1).
type vex2Block struct {
	RInverted bool // R bit, stored inverted in the wire byte
	Vvvv      uint8
	L         bool // vector length: false=128, true=256
	PP        uint8
}

// vex3Block holds the decoded fields of a three-byte VEX prefix (0xC4 + 2).
type vex3Block struct {
	RInverted bool
	XInverted bool
	BInverted bool
	MMMMM     uint8
	W         bool
	Vvvv      uint8
	L         bool
	PP        uint8
}

// evexBlock holds the decoded fields of a four-byte EVEX prefix (0x62 + 3).
type evexBlock struct {
	RInverted  bool
	XInverted  bool
	BInverted  bool
	R2Inverted bool // R' (EVEX extra extension bit)
	MM         uint8
	W          bool
	Vvvv       uint8
	VvvvExt    bool // V' inverted bit, extends vvvv to 5 bits
	PP         uint8
	Z          bool
	L2         bool // combined with L to form vector length 0=128,1=256,2=512
	L          bool
	Broadcast  bool // b bit: broadcast / compressed-disp / register-rounding
	Aaa        uint8 // opmask register selector
}

// prefixBlock is the full result of parsing the legacy+REX+vector prefix
// chain in front of an opcode byte, per spec.md §4.2.
type prefixBlock struct {
	Group1              LegacyPrefix
	SegOverride         Register // Null if absent
	OperandSizeOverride bool     // 0x66
	AddressSizeOverride bool     // 0x67

	RawREX  byte // 0x40 (no extension bits) if absent
	HasREX  bool

	HasVEX2 bool
	VEX2    vex2Block
	HasVEX3 bool
	VEX3    vex3Block
	HasEVEX bool
	EVEX    evexBlock
}

func (p *prefixBlock) rexW() bool { return p.RawREX&0x08 != 0 }
func (p *prefixBlock) rexR() bool { return p.RawREX&0x04 != 0 }
func (p *prefixBlock) rexX() bool { return p.RawREX&0x02 != 0 }
func (p *prefixBlock) rexB() bool { return p.RawREX&0x01 != 0 }

// vectorTierCount reports how many of {legacy group1, VEX2, VEX3, EVEX}
// are simultaneously present, used to enforce prefix legality (spec.md
// §8 property 4).
func (p *prefixBlock) vectorTierCount() int {
	n := 0
	if p.Group1 != PrefixNone {
		n++
	}
	if p.HasVEX2 {
		n++
	}
	if p.HasVEX3 {
		n++
	}
	if p.HasEVEX {
		n++
	}
	return n
}

// parsePrefixes greedily consumes legacy prefix bytes, then peeks for
// REX, VEX2 (0xC5), VEX3 (0xC4), EVEX (0x62); a peeked byte that does not
// match is pushed back onto the cursor.
func parsePrefixes(c *ioreader.ReadCursor) (prefixBlock, error) {
	var p prefixBlock
	p.RawREX = 0x40
	p.SegOverride = Null

	for {
		startPos := c.Position()
		b, err := c.Peek1()
		if err != nil {
			return p, nil
		}
		switch b {
		case 0xF0:
			if p.Group1 != PrefixNone {
				return p, &UnrecognizedPrefixError{Offset: startPos, Name: "lock"}
			}
			p.Group1 = PrefixLock
		case 0xF2:
			if p.Group1 != PrefixNone {
				return p, &UnrecognizedPrefixError{Offset: startPos, Name: "repnz"}
			}
			p.Group1 = PrefixRepNZ
		case 0xF3:
			if p.Group1 != PrefixNone {
				return p, &UnrecognizedPrefixError{Offset: startPos, Name: "rep"}
			}
			p.Group1 = PrefixRep
		case 0x2E:
			p.SegOverride = CS
		case 0x36:
			p.SegOverride = SS
		case 0x3E:
			p.SegOverride = DS
		case 0x26:
			p.SegOverride = ES
		case 0x64:
			p.SegOverride = FS
		case 0x65:
			p.SegOverride = GS
		case 0x66:
			p.OperandSizeOverride = true
		case 0x67:
			p.AddressSizeOverride = true
		default:
			goto afterLegacy
		}
		_, _ = c.Read1()
	}

afterLegacy:
	peeked, err := c.Peek1()
	if err != nil {
		return p, nil
	}

	switch {
	case peeked >= 0x40 && peeked <= 0x4F:
		_, _ = c.Read1()
		p.HasREX = true
		p.RawREX = peeked

	case peeked == 0xC5:
		pos := c.Position()
		_, _ = c.Read1()
		b1, err := c.Read1()
		if err != nil {
			return p, &DecodingError{Offset: pos, Msg: "truncated VEX2 prefix"}
		}
		p.HasVEX2 = true
		p.VEX2 = vex2Block{
			RInverted: b1&0x80 != 0,
			Vvvv:      (b1 >> 3) & 0x0F,
			L:         b1&0x04 != 0,
			PP:        b1 & 0x03,
		}

	case peeked == 0xC4:
		pos := c.Position()
		_, _ = c.Read1()
		b1, err1 := c.Read1()
		b2, err2 := c.Read1()
		if err1 != nil || err2 != nil {
			return p, &DecodingError{Offset: pos, Msg: "truncated VEX3 prefix"}
		}
		p.HasVEX3 = true
		p.VEX3 = vex3Block{
			RInverted: b1&0x80 != 0,
			XInverted: b1&0x40 != 0,
			BInverted: b1&0x20 != 0,
			MMMMM:     b1 & 0x1F,
			W:         b2&0x80 != 0,
			Vvvv:      (b2 >> 3) & 0x0F,
			L:         b2&0x04 != 0,
			PP:        b2 & 0x03,
		}

	case peeked == 0x62:
		pos := c.Position()
		_, _ = c.Read1()
		b1, err1 := c.Read1()
		b2, err2 := c.Read1()
		b3, err3 := c.Read1()
		if err1 != nil || err2 != nil || err3 != nil {
			return p, &DecodingError{Offset: pos, Msg: "truncated EVEX prefix"}
		}
		p.HasEVEX = true
		p.EVEX = evexBlock{
			RInverted:  b1&0x80 != 0,
			XInverted:  b1&0x40 != 0,
			BInverted:  b1&0x20 != 0,
			R2Inverted: b1&0x10 != 0,
			MM:         b1 & 0x03,
			W:          b2&0x80 != 0,
			Vvvv:       (b2 >> 3) & 0x0F,
			PP:         b2 & 0x03,
			Z:          b3&0x80 != 0,
			L2:         b3&0x40 != 0,
			L:          b3&0x20 != 0,
			Broadcast:  b3&0x10 != 0,
			VvvvExt:    b3&0x08 == 0,
			Aaa:        b3 & 0x07,
		}
	}

	if p.vectorTierCount() > 1 {
		return p, &DecodingError{Offset: c.Position(), Msg: "more than one of {legacy group 1, VEX2, VEX3, EVEX} present"}
	}
	return p, err
}
