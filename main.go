package main

import "github.com/theirongolddev/codeassist/cmd"

func main() {
	cmd.Execute()
}
