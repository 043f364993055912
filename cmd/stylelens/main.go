package main

import "github.com/nfrund/stylelens/cmd/stylelens/cmd"

func main() {
	cmd.Execute()
}
