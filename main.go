package main

import "github.com/quocvuong92/ai-apps/cmd"

func main() {
	cmd.Execute()
}
