package main

import "github.com/nishikaramnani04/PIH2026-SHEield/cmd"

func main() {
	cmd.Execute()
}
