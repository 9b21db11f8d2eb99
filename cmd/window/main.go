package main

import "github.com/kjkrol/glscene/pkg/app"

func main() {
	app.Main("window")
}
