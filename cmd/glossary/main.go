package main

import "github.com/vietddude/glossary/internal/cli"

func main() {
	cli.Execute()
}
