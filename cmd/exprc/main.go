// Command exprc runs the expression front end over a source file.
//
//	exprc --file-path input.expr lex      token dump
//	exprc --file-path input.expr parse    AST dump and error dump
//	exprc --file-path input.expr check    diagnostics; exit status 1 on errors
package main

import "os"

func main() {
	os.Exit(execute(newGlobalState(), os.Args[1:]))
}
