package main

import "github.com/seojun-park/claudebar/internal/cli"

func main() {
	cli.Execute()
}
