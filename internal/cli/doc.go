// Package cli provides the LanShare maintenance console.
//
// It opens the same metadata and blob stores as the web server, using the
// same configuration, and runs a small REPL over the sharing service:
//
//	help                 show available commands
//	list [query]         list texts, optionally filtered
//	files [query]        list files, optionally filtered
//	addtext              share a text read from the console
//	addfile <path>       share a local file
//	get <id> <dest>      save a shared file to dest (a file or a directory)
//	deltext <id>         delete a text
//	delfile <id>         delete a file and its stored bytes
//	stats                show how many texts and files are shared
//	exit | quit          leave
//
// Prompts are printed only when stdin is a terminal, so the console can also
// be driven by a script piped into it.
package cli
