package main

import (
	"github.com/tidepool-org/careprofiles/api"
)

func main() {
	api.MainLoop()
}
