package main

import "github.com/KaramelBytes/staffboard/cmd"

func main() {
	cmd.Execute()
}
