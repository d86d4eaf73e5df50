package main

import "newsradar/internal/app"

func main() {
	app.Execute()
}
