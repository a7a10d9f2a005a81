package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscape                Code = 1005

	// Парсерные
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynUnclosedParen     Code = 2002
	SynUnclosedBrace     Code = 2003
	SynUnclosedBracket   Code = 2004
	SynExpectIdentifier  Code = 2005
	SynExpectExpression  Code = 2006
	SynExpectBlock       Code = 2007
	SynExpectColon       Code = 2008
	SynExpectString      Code = 2009
	SynForMissingIn      Code = 2010
	SynInvalidAssignment Code = 2011
	SynExpectStmtEnd     Code = 2012
	SynDuplicateParam    Code = 2013
	SynTooManyErrors     Code = 2099
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number literal",
	LexBadEscape:                "Invalid escape sequence",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynUnclosedBrace:            "Unclosed brace",
	SynUnclosedBracket:          "Unclosed bracket",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectExpression:         "Expected expression",
	SynExpectBlock:              "Expected block",
	SynExpectColon:              "Expected ':'",
	SynExpectString:             "Expected string literal",
	SynForMissingIn:             "Missing 'in' in for loop",
	SynInvalidAssignment:        "Invalid assignment target",
	SynExpectStmtEnd:            "Expected end of statement",
	SynDuplicateParam:           "Duplicate parameter name",
	SynTooManyErrors:            "Too many errors",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
