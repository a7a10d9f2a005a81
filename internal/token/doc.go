// Package token defines lexical token kinds and trivia for lazuli scripts.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Whitespace, newlines and comments never appear in the main token stream;
//     they are attached to the following token as leading Trivia.
//   - A token stream produced by the lexer ends with exactly one EOF token.
package token
