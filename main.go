package main

import "depwarden/internal/cli"

func main() {
	cli.Execute()
}
