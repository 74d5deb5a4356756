package main

import "github.com/dl-alexandre/chspool/internal/cli"

func main() {
	cli.Execute()
}
