package main

import (
	"github.com/tidepool-org/careprofiles/cmd/profiles/command"
)

func main() {
	command.Execute()
}
