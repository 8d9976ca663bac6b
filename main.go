package main

import "github.com/sambabib/depnotify/cmd"

func main() {
	cmd.Execute()
}
