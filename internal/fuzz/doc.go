// Package fuzztests houses Go fuzz harnesses for the front of the lazuli
// pipeline (preprocess -> lexer -> parser -> decorator). They guard against
// panics, hangs and broken token ordering on arbitrary input.
//
// Не делает: выполнение программ, запись файлов, генерацию корпусов.
package fuzztests
