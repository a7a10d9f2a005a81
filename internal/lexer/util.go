package lexer

import (
	"unicode"
	"unicode/utf8"
)

const utf8RuneSelf = utf8.RuneSelf

// классы ASCII-байтов
const (
	clsIdentStart uint8 = 1 << iota
	clsDec
	clsHex
)

var asciiClass = func() (t [utf8.RuneSelf]uint8) {
	for b := 'a'; b <= 'z'; b++ {
		t[b] |= clsIdentStart
	}
	for b := 'A'; b <= 'Z'; b++ {
		t[b] |= clsIdentStart
	}
	t['_'] |= clsIdentStart
	for b := '0'; b <= '9'; b++ {
		t[b] |= clsDec | clsHex
	}
	for _, b := range "abcdefABCDEF" {
		t[b] |= clsHex
	}
	return t
}()

func hasClass(b byte, cls uint8) bool {
	return b < utf8.RuneSelf && asciiClass[b]&cls != 0
}

func isIdentStartByte(b byte) bool    { return hasClass(b, clsIdentStart) }
func isIdentContinueByte(b byte) bool { return hasClass(b, clsIdentStart|clsDec) }
func isDec(b byte) bool               { return hasClass(b, clsDec) }
func isHex(b byte) bool               { return hasClass(b, clsHex) }

func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || unicode.IsDigit(r)
}

// peekRune декодирует руну под курсором; на EOF size == 0.
func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	if b := lx.cursor.Peek(); b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
}

// bumpRune сдвигает курсор за текущую руну (битый UTF-8: на один байт).
func (lx *Lexer) bumpRune() {
	_, size := lx.peekRune()
	for range size {
		lx.cursor.Bump()
	}
}

// ".5": число, ".": оператор
func (lx *Lexer) isNumberAfterDot() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '.' && isDec(b1)
}

// try2 съедает пару байтов a, b, если они идут подряд.
func (lx *Lexer) try2(a, b byte) bool {
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == a && b1 == b {
		lx.cursor.Bump()
		lx.cursor.Bump()
		return true
	}
	return false
}
