/*

Process of compilation

Program Text ->
	lex ->
Tokens ->
	front (parse and bind) ->
Abstract Syntax Tree (ast) ->
	back ->
Assembly Text (nasm, x86-64) ->
	toolchain: assemble ->
Object File ->
	toolchain: link ->
Binary Executable

Program Text -> ... -> ast ->
	llvm ->
LLVM IR Text ->
	toolchain: clang ->
Binary Executable

*/
package compiler
