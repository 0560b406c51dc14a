package scanner

import "github.com/byteguy8/zeus/lang/token"

// shortString scans a double-quoted string literal. Escape sequences
// supported: \n \t \r \\ \" \` \' \0 and \$.
func (s *Scanner) shortString(opening rune) (lit, decoded string) {
	start := s.off - 1 // opening quote already consumed
	s.sb.Reset()
	for {
		cur := s.cur
		if cur == '\n' || cur < 0 {
			s.error(start, "string literal not terminated")
			break
		}
		s.advance()
		if cur == opening {
			break
		}
		if cur == '\\' {
			s.escape()
			continue
		}
		s.sb.WriteRune(cur)
	}
	return string(s.src[start:s.off]), s.sb.String()
}

// templatePiece scans one segment of a backtick template string, starting
// right after the opening backtick (if first) or the closing '}' of an
// interpolation. It returns a TMPL_MID token when it stops at a new
// interpolation ("${"), or TMPL_TAIL when it reaches the closing backtick;
// when first is true the returned kind is always reported as TMPL_HEAD.
func (s *Scanner) templatePiece(first bool) (tok token.Token, lit, decoded string) {
	start := s.off
	s.sb.Reset()
	for {
		cur := s.cur
		if cur < 0 {
			s.error(start, "template string literal not terminated")
			tok = token.TMPL_TAIL
			break
		}
		if cur == '`' {
			s.advance()
			tok = token.TMPL_TAIL
			break
		}
		if cur == '$' && s.peek() == '{' {
			s.advance()
			s.advance()
			tok = token.TMPL_MID
			break
		}
		s.advance()
		if cur == '\\' {
			s.escape()
			continue
		}
		s.sb.WriteRune(cur)
	}
	if first {
		return token.TMPL_HEAD, string(s.src[start:s.off]), s.sb.String()
	}
	return tok, string(s.src[start:s.off]), s.sb.String()
}

func (s *Scanner) escape() {
	switch s.cur {
	case 'n':
		s.sb.WriteByte('\n')
		s.advance()
	case 't':
		s.sb.WriteByte('\t')
		s.advance()
	case 'r':
		s.sb.WriteByte('\r')
		s.advance()
	case '0':
		s.sb.WriteByte(0)
		s.advance()
	case '\\', '"', '`', '\'':
		s.sb.WriteRune(s.cur)
		s.advance()
	case '$':
		s.sb.WriteByte('$')
		s.advance()
	default:
		s.errorf(s.off, "unknown escape sequence \\%c", s.cur)
		s.advance()
	}
}
