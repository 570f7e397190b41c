package main

import "github.com/Tiliavir/toggl-timesheet/cmd"

func main() {
	cmd.Execute()
}
